// Package dump prints the intermediate result of each front-end stage.
package dump

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/cmmoran/cdecl/pkg/parser"
)

const maxText = 60

// Tokens writes one line per token: "line:col  KIND  "text"".
func Tokens(w io.Writer, p *parser.Parser) error {
	bw := bufio.NewWriter(w)
	for _, tok := range p.Tokens() {
		fmt.Fprintf(bw, "%4d:%-4d  %-18s  %q\n", tok.Pos.Line, tok.Pos.Col, tok.Kind, tok.Text)
	}
	return bw.Flush()
}

// Units writes the statement-unit tree, one unit per line, indented by
// depth.
func Units(w io.Writer, p *parser.Parser) error {
	bw := bufio.NewWriter(w)
	if root := p.Root(); root != nil {
		writeUnit(bw, root, 0)
	}
	return bw.Flush()
}

func writeUnit(w io.Writer, u *parser.Unit, depth int) {
	fmt.Fprintf(w, "%s%s [%d,%d)", strings.Repeat("  ", depth), u.Kind, u.Start, u.End)
	subs := u.Subunits()
	switch {
	case len(subs) == 0 && u.Kind != parser.UnitCompound:
		fmt.Fprintf(w, "  %s", clip(u.Text()))
	case u.Name != "":
		fmt.Fprintf(w, "  %s", u.Name)
	}
	fmt.Fprintln(w)
	for _, s := range subs {
		writeUnit(w, s, depth+1)
	}
}

// Decls writes every parsed declaration with its specifier, declarators
// and initializers; function bodies are nested below their header.
func Decls(w io.Writer, p *parser.Parser) error {
	bw := bufio.NewWriter(w)
	for _, du := range p.DeclUnits() {
		writeDecl(bw, du, 0)
	}
	return bw.Flush()
}

func writeDecl(w io.Writer, du *parser.DeclUnit, depth int) {
	indent := strings.Repeat("  ", depth)
	pos := ""
	if du.Origin != nil {
		pos = du.Origin.Pos().String()
	}
	fmt.Fprintf(w, "%s%-8s %s\n", indent, pos, clip(du.String()))
	if du.Body != nil {
		for _, n := range du.Body.Nested {
			writeDecl(w, n, depth+1)
		}
	}
	for _, n := range du.Nested {
		writeDecl(w, n, depth+1)
	}
}

func clip(s string) string {
	if r := []rune(s); len(r) > maxText {
		return string(r[:maxText-3]) + "..."
	}
	return s
}
