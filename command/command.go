// Package command implements the RESP command set: parsing a decoded
// request Array into a named operation, validating its arguments, and
// executing it against the shared store.
package command

import (
	"github.com/harfangapps/respd/resp"
	"github.com/harfangapps/respd/store"
)

// command is implemented by every supported command. Validate checks
// the shape of args (everything decoded from the request, including
// the command name itself at args[0]) before Execute runs it against
// s.
type command interface {
	Validate(name string, args []resp.Frame) error
	Execute(name string, args []resp.Frame, s *store.Store) (resp.Frame, error)
}

var supportedCommands map[string]command

func init() {
	supportedCommands = map[string]command{
		"get":       getCmd{},
		"set":       setCmd{},
		"hget":      hgetCmd{},
		"hset":      hsetCmd{},
		"hmget":     hmgetCmd{},
		"hgetall":   hgetallCmd{},
		"hdel":      hdelCmd{},
		"hexists":   hexistsCmd{},
		"sadd":      saddCmd{},
		"sismember": sismemberCmd{},
		"keys":      keysCmd{},
		"del":       delCmd{},
		"ping":      pingCmd{},
		"echo":      echoCmd{},
	}
}

// Dispatch executes the command named by args[0] against s. An
// unrecognized command name is not an error: it is a no-op that
// replies SimpleString "OK", so a client sending an out-of-scope
// command doesn't lose its connection over it.
func Dispatch(args []resp.Frame, s *store.Store) (resp.Frame, error) {
	if len(args) == 0 {
		return resp.SimpleError((&InvalidArgumentError{Detail: "empty request"}).Error()), nil
	}

	name, err := bulkStringLower(args[0])
	if err != nil {
		return resp.SimpleError(err.Error()), nil
	}

	cmd, ok := supportedCommands[name]
	if !ok {
		return resp.SimpleString("OK"), nil
	}

	if err := cmd.Validate(name, args); err != nil {
		return resp.SimpleError(err.Error()), nil
	}

	res, err := cmd.Execute(name, args, s)
	if err != nil {
		// A client-supplied argument failed a check that only surfaces
		// once Execute inspects its concrete type (e.g. a non-bulk-string
		// key). Like a Validate failure, this is reported to the client
		// rather than treated as a connection-fatal error.
		return resp.SimpleError(err.Error()), nil
	}
	return res, nil
}
