package command

import (
	"github.com/harfangapps/respd/resp"
	"github.com/harfangapps/respd/store"
)

type delCmd struct{}

func (c delCmd) Validate(name string, args []resp.Frame) error {
	return validateArgs(args, []string{name}, 1)
}

func (c delCmd) Execute(name string, args []resp.Frame, s *store.Store) (resp.Frame, error) {
	keys, err := bulkStrings(args, 1)
	if err != nil {
		return resp.Frame{}, err
	}
	return resp.Integer(int64(s.Del(keys))), nil
}
