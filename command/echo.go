package command

import (
	"github.com/harfangapps/respd/resp"
	"github.com/harfangapps/respd/store"
)

type echoCmd struct{}

func (c echoCmd) Validate(name string, args []resp.Frame) error {
	return validateArgs(args, []string{name}, 1)
}

func (c echoCmd) Execute(name string, args []resp.Frame, s *store.Store) (resp.Frame, error) {
	return args[1], nil
}
