package command

import (
	"github.com/harfangapps/respd/resp"
	"github.com/harfangapps/respd/store"
)

type pingCmd struct{}

func (c pingCmd) Validate(name string, args []resp.Frame) error {
	// supports only the argument-less PING call
	return validateArgs(args, []string{name}, 0)
}

func (c pingCmd) Execute(name string, args []resp.Frame, s *store.Store) (resp.Frame, error) {
	return resp.SimpleString("PONG"), nil
}
