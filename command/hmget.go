package command

import (
	"github.com/harfangapps/respd/resp"
	"github.com/harfangapps/respd/store"
)

type hmgetCmd struct{}

func (c hmgetCmd) Validate(name string, args []resp.Frame) error {
	return validateArgs(args, []string{name}, 2)
}

func (c hmgetCmd) Execute(name string, args []resp.Frame, s *store.Store) (resp.Frame, error) {
	key, err := bulkString(args[1])
	if err != nil {
		return resp.Frame{}, err
	}
	fields, err := bulkStrings(args, 2)
	if err != nil {
		return resp.Frame{}, err
	}
	return resp.Array(s.HMGet(key, fields)), nil
}
