package command

import (
	"github.com/harfangapps/respd/resp"
	"github.com/harfangapps/respd/store"
)

type hdelCmd struct{}

func (c hdelCmd) Validate(name string, args []resp.Frame) error {
	return validateArgs(args, []string{name}, 2)
}

func (c hdelCmd) Execute(name string, args []resp.Frame, s *store.Store) (resp.Frame, error) {
	key, err := bulkString(args[1])
	if err != nil {
		return resp.Frame{}, err
	}
	fields, err := bulkStrings(args, 2)
	if err != nil {
		return resp.Frame{}, err
	}
	return resp.Integer(int64(s.HDel(key, fields))), nil
}
