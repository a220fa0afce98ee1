package command

import (
	"github.com/harfangapps/respd/resp"
	"github.com/harfangapps/respd/store"
)

type setCmd struct{}

func (c setCmd) Validate(name string, args []resp.Frame) error {
	return validateArgs(args, []string{name}, 2)
}

func (c setCmd) Execute(name string, args []resp.Frame, s *store.Store) (resp.Frame, error) {
	key, err := bulkString(args[1])
	if err != nil {
		return resp.Frame{}, err
	}
	s.Set(key, args[2])
	return resp.SimpleString("OK"), nil
}
