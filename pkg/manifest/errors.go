package manifest

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoName            = errors.New("name not set")
	ErrNoTargets         = errors.New("no targets declared")
	ErrNoProducts        = errors.New("no products declared")
	ErrDuplicateTarget   = errors.New("duplicate target")
	ErrDuplicateProduct  = errors.New("duplicate product")
	ErrBadKind           = errors.New("unknown kind")
	ErrMissingPath       = errors.New("binary target path not set")
	ErrEmptyProduct      = errors.New("product exposes no targets")
	ErrUnknownTarget     = errors.New("unknown target")
	ErrUnknownDependency = errors.New("unknown dependency")
	ErrCycle             = errors.New("dependency cycle")
	ErrMissingArtifact   = errors.New("binary artifact not found")
)

// Error reports which element of the manifest failed which check.
type Error struct {
	Err     error  // one of the Err* sentinels
	Element string // e.g. "target 'Dash'" or "product 'Dash'"
	Detail  string
	Cycle   []string // set for ErrCycle
}

func (e *Error) Error() string {
	var sb strings.Builder
	if e.Element != "" {
		sb.WriteString(e.Element)
		sb.WriteString(": ")
	}
	sb.WriteString(e.Err.Error())
	if e.Detail != "" {
		sb.WriteString(" '")
		sb.WriteString(e.Detail)
		sb.WriteString("'")
	}
	if len(e.Cycle) > 0 {
		sb.WriteString(" (")
		sb.WriteString(strings.Join(e.Cycle, " -> "))
		sb.WriteString(")")
	}
	return sb.String()
}

func (e *Error) Unwrap() error { return e.Err }

func targetError(name string, err error, detail string) *Error {
	return &Error{Err: err, Element: fmt.Sprintf("target '%s'", name), Detail: detail}
}

func productError(name string, err error, detail string) *Error {
	return &Error{Err: err, Element: fmt.Sprintf("product '%s'", name), Detail: detail}
}
