package model

import (
	"strings"

	"github.com/cmmoran/cdecl/internal/lexer"
)

// UnitKind tags a statement unit.
type UnitKind int

const (
	UnitCompound UnitKind = iota
	UnitEmpty
	UnitDeclOrExpr
	UnitIf
	UnitSwitch
	UnitCase
	UnitDefault
	UnitWhile
	UnitDoWhile
	UnitFor
	UnitBreak
	UnitContinue
	UnitReturn
	UnitLabel
	UnitGoto
	UnitPreprocessor
)

var unitKindNames = [...]string{
	UnitCompound:     "Compound",
	UnitEmpty:        "Empty",
	UnitDeclOrExpr:   "DeclOrExpr",
	UnitIf:           "If",
	UnitSwitch:       "Switch",
	UnitCase:         "Case",
	UnitDefault:      "Default",
	UnitWhile:        "While",
	UnitDoWhile:      "DoWhile",
	UnitFor:          "For",
	UnitBreak:        "Break",
	UnitContinue:     "Continue",
	UnitReturn:       "Return",
	UnitLabel:        "Label",
	UnitGoto:         "Goto",
	UnitPreprocessor: "Preprocessor",
}

func (k UnitKind) String() string {
	if k >= 0 && int(k) < len(unitKindNames) {
		return unitKindNames[k]
	}
	return "Unknown"
}

// Unit is a coarse statement over the token range [Start, End) of the
// scanner's input. Tokens aliases that range.
type Unit struct {
	// Identity ------------------------------------------------------------
	Kind       UnitKind
	Start, End int
	Tokens     []lexer.Token

	// Structure -----------------------------------------------------------
	Children []*Unit // Compound
	Cond     *Unit   // If, While, DoWhile, For
	Then     *Unit   // If
	Else     *Unit   // If
	Init     *Unit   // For
	Step     *Unit   // For
	Body     *Unit   // Switch, While, DoWhile, For
	Expr     *Unit   // Switch, Case, Return
	Inner    *Unit   // Label
	Name     string  // Label, Goto
}

// Len returns the number of tokens covered by u.
func (u *Unit) Len() int {
	return u.End - u.Start
}

// Pos returns the position of the first token, or the zero Pos for an
// empty span.
func (u *Unit) Pos() lexer.Pos {
	if len(u.Tokens) == 0 {
		return lexer.Pos{}
	}
	return u.Tokens[0].Pos
}

// Text joins the token texts with single spaces.
func (u *Unit) Text() string {
	parts := make([]string, len(u.Tokens))
	for i, t := range u.Tokens {
		parts[i] = t.Text
	}
	return strings.Join(parts, " ")
}

// Subunits returns the non-nil nested units in source order.
func (u *Unit) Subunits() []*Unit {
	var all []*Unit
	switch u.Kind {
	case UnitCompound:
		return u.Children
	case UnitIf:
		all = []*Unit{u.Cond, u.Then, u.Else}
	case UnitSwitch:
		all = []*Unit{u.Expr, u.Body}
	case UnitCase, UnitReturn:
		all = []*Unit{u.Expr}
	case UnitWhile:
		all = []*Unit{u.Cond, u.Body}
	case UnitDoWhile:
		all = []*Unit{u.Body, u.Cond}
	case UnitFor:
		all = []*Unit{u.Init, u.Cond, u.Step, u.Body}
	case UnitLabel:
		all = []*Unit{u.Inner}
	}
	out := all[:0]
	for _, s := range all {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

// Walk calls fn for u and every nested unit, depth first, stopping early
// when fn returns false.
func (u *Unit) Walk(fn func(*Unit) bool) bool {
	if !fn(u) {
		return false
	}
	for _, s := range u.Subunits() {
		if !s.Walk(fn) {
			return false
		}
	}
	return true
}
