package graph

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownNode   = errors.New("unknown node")
	ErrDuplicateNode = errors.New("duplicate node")
	ErrCycle         = errors.New("cycle detected")
)

// GraphError wraps graph insertion failures with the offending IDs.
type GraphError struct {
	Kind error
	Path []string
}

func (e *GraphError) Error() string {
	if e == nil {
		return ""
	}
	if len(e.Path) == 0 {
		return e.Kind.Error()
	}
	sep := ", "
	if errors.Is(e.Kind, ErrCycle) {
		sep = " -> "
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), strings.Join(e.Path, sep))
}

func (e *GraphError) Unwrap() error { return e.Kind }
