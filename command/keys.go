package command

import (
	"github.com/harfangapps/respd/resp"
	"github.com/harfangapps/respd/store"
)

type keysCmd struct{}

func (c keysCmd) Validate(name string, args []resp.Frame) error {
	return validateArgs(args, []string{name}, 0)
}

func (c keysCmd) Execute(name string, args []resp.Frame, s *store.Store) (resp.Frame, error) {
	ks := s.Keys()
	elems := make([]resp.Frame, len(ks))
	for i, k := range ks {
		elems[i] = resp.BulkStringFromString(k)
	}
	return resp.Array(elems), nil
}
