package astio

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownKind        = errors.New("unknown node kind")
	ErrMissingSlot        = errors.New("missing required slot")
	ErrInvalidValue       = errors.New("invalid node value")
	ErrUnsupportedVersion = errors.New("unsupported document version")
)

// Error reports a malformed node. Path is a slot path such as
// items[1].body.stmts[0].expr; Start/End are the node's byte offsets.
type Error struct {
	Path  string
	Start uint32
	End   uint32
	Err   error
	Msg   string
}

func (e *Error) Error() string {
	msg := e.Err.Error()
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	return fmt.Sprintf("%s (%d..%d): %s", e.Path, e.Start, e.End, msg)
}

func (e *Error) Unwrap() error { return e.Err }

func nodeError(path string, n *Node, err error, format string, args ...any) *Error {
	e := &Error{Path: path, Err: err, Msg: fmt.Sprintf(format, args...)}
	if n != nil {
		e.Start, e.End = n.Start, n.End
	}
	return e
}

func slot(path, name string) string {
	return path + "." + name
}

func index(path, name string, i int) string {
	if path == "" {
		return fmt.Sprintf("%s[%d]", name, i)
	}
	return fmt.Sprintf("%s.%s[%d]", path, name, i)
}
