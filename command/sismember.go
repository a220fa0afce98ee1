package command

import (
	"github.com/harfangapps/respd/resp"
	"github.com/harfangapps/respd/store"
)

type sismemberCmd struct{}

func (c sismemberCmd) Validate(name string, args []resp.Frame) error {
	return validateArgs(args, []string{name}, 2)
}

func (c sismemberCmd) Execute(name string, args []resp.Frame, s *store.Store) (resp.Frame, error) {
	key, err := bulkString(args[1])
	if err != nil {
		return resp.Frame{}, err
	}
	if s.SIsMember(key, args[2]) {
		return resp.Integer(1), nil
	}
	return resp.Integer(0), nil
}
