package parser

import (
	"errors"
	"fmt"

	"github.com/cmmoran/cdecl/internal/lexer"
)

var (
	ErrUnexpectedToken = errors.New("unexpected token")
	ErrUnbalanced      = errors.New("unbalanced brackets")
	ErrRedefinition    = errors.New("redefinition")
	ErrTagKind         = errors.New("tag used with wrong kind")
	ErrImplicitInt     = errors.New("type specifier missing, int assumed")
	ErrNotConstant     = errors.New("not an integer constant")
)

// Error locates a parse failure.
type Error struct {
	Pos lexer.Pos
	Msg string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Pos, e.Msg, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
