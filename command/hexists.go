package command

import (
	"github.com/harfangapps/respd/resp"
	"github.com/harfangapps/respd/store"
)

type hexistsCmd struct{}

func (c hexistsCmd) Validate(name string, args []resp.Frame) error {
	return validateArgs(args, []string{name}, 2)
}

func (c hexistsCmd) Execute(name string, args []resp.Frame, s *store.Store) (resp.Frame, error) {
	key, err := bulkString(args[1])
	if err != nil {
		return resp.Frame{}, err
	}
	field, err := bulkString(args[2])
	if err != nil {
		return resp.Frame{}, err
	}
	return resp.Boolean(s.HExists(key, field)), nil
}
