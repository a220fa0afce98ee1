package command

import (
	"github.com/harfangapps/respd/resp"
	"github.com/harfangapps/respd/store"
)

type getCmd struct{}

func (c getCmd) Validate(name string, args []resp.Frame) error {
	return validateArgs(args, []string{name}, 1)
}

func (c getCmd) Execute(name string, args []resp.Frame, s *store.Store) (resp.Frame, error) {
	key, err := bulkString(args[1])
	if err != nil {
		return resp.Frame{}, err
	}
	val, ok := s.Get(key)
	if !ok {
		return resp.Null(), nil
	}
	return val, nil
}
