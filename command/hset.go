package command

import (
	"github.com/harfangapps/respd/resp"
	"github.com/harfangapps/respd/store"
)

type hsetCmd struct{}

func (c hsetCmd) Validate(name string, args []resp.Frame) error {
	return validateArgs(args, []string{name}, 3)
}

func (c hsetCmd) Execute(name string, args []resp.Frame, s *store.Store) (resp.Frame, error) {
	key, err := bulkString(args[1])
	if err != nil {
		return resp.Frame{}, err
	}
	field, err := bulkString(args[2])
	if err != nil {
		return resp.Frame{}, err
	}
	s.HSet(key, field, args[3])
	return resp.SimpleString("OK"), nil
}
