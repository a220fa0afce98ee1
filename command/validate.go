package command

import (
	"strings"
	"unicode/utf8"

	"github.com/harfangapps/respd/resp"
)

// validateArgs checks that args holds at least len(names)+minArgs
// frames, and that each element of names matches, case-insensitively,
// the BulkString found at the corresponding position in args.
func validateArgs(args []resp.Frame, names []string, minArgs int) error {
	if len(args) < len(names)+minArgs {
		return &InvalidArgumentError{Detail: "wrong number of arguments"}
	}
	for i, name := range names {
		got, err := bulkStringLower(args[i])
		if err != nil {
			return err
		}
		if got != name {
			return &InvalidCommandError{Name: got}
		}
	}
	return nil
}

// bulkStringLower extracts a BulkString argument's body as a
// lowercased Go string, or an error if the frame is not a BulkString
// or is not valid UTF-8.
func bulkStringLower(f resp.Frame) (string, error) {
	s, err := bulkString(f)
	if err != nil {
		return "", err
	}
	return strings.ToLower(s), nil
}

// bulkString extracts a BulkString argument's body as a Go string.
func bulkString(f resp.Frame) (string, error) {
	if f.Type != resp.TypeBulkString || f.IsNull() {
		return "", &InvalidArgumentError{Detail: "expected a bulk string argument"}
	}
	if !utf8.Valid(f.Bulk) {
		return "", &Utf8Error{Detail: "argument is not valid UTF-8"}
	}
	return string(f.Bulk), nil
}

// bulkStrings extracts a run of BulkString arguments starting at
// index from, through the end of args.
func bulkStrings(args []resp.Frame, from int) ([]string, error) {
	out := make([]string, 0, len(args)-from)
	for _, f := range args[from:] {
		s, err := bulkString(f)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
