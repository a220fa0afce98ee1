package command

import (
	"github.com/harfangapps/respd/resp"
	"github.com/harfangapps/respd/store"
)

type hgetallCmd struct{}

func (c hgetallCmd) Validate(name string, args []resp.Frame) error {
	return validateArgs(args, []string{name}, 1)
}

func (c hgetallCmd) Execute(name string, args []resp.Frame, s *store.Store) (resp.Frame, error) {
	key, err := bulkString(args[1])
	if err != nil {
		return resp.Frame{}, err
	}

	pairs := s.HGetAll(key)
	elems := make([]resp.Frame, 0, len(pairs)*2)
	for _, p := range pairs {
		elems = append(elems, resp.BulkStringFromString(p.Key), p.Value)
	}
	return resp.Array(elems), nil
}
