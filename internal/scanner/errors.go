package scanner

import (
	"errors"
	"fmt"

	"github.com/cmmoran/cdecl/internal/lexer"
)

var (
	ErrUnexpectedToken = errors.New("unexpected token")
	ErrUnterminated    = errors.New("unterminated construct")
)

// Error locates a scanning failure.
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
