package command

import (
	"github.com/harfangapps/respd/resp"
	"github.com/harfangapps/respd/store"
)

type hgetCmd struct{}

func (c hgetCmd) Validate(name string, args []resp.Frame) error {
	return validateArgs(args, []string{name}, 2)
}

func (c hgetCmd) Execute(name string, args []resp.Frame, s *store.Store) (resp.Frame, error) {
	key, err := bulkString(args[1])
	if err != nil {
		return resp.Frame{}, err
	}
	field, err := bulkString(args[2])
	if err != nil {
		return resp.Frame{}, err
	}
	val, ok := s.HGet(key, field)
	if !ok {
		return resp.Null(), nil
	}
	return val, nil
}
