// Package parser is the public entry point: it runs the tokenizer,
// statement scanner, declaration parser and layout engine over one C
// source file and exposes every stage's result.
package parser

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dave/jennifer/jen"

	"github.com/cmmoran/cdecl/internal/gen"
	"github.com/cmmoran/cdecl/internal/layout"
	"github.com/cmmoran/cdecl/internal/lexer"
	"github.com/cmmoran/cdecl/internal/model"
	iparser "github.com/cmmoran/cdecl/internal/parser"
	"github.com/cmmoran/cdecl/internal/scanner"
)

var ErrNoInput = errors.New("no input: set InFile or Source")

type (
	Token        = lexer.Token
	Unit         = model.Unit
	DeclUnit     = model.DeclUnit
	Entry        = iparser.Entry
	LayoutReport = model.LayoutReport
	TypeLayout   = model.TypeLayout
)

const UnitCompound = model.UnitCompound

type Parser struct {
	Opts Options

	platform layout.Platform
	tokens   []lexer.Token
	root     *model.Unit
	units    []*model.DeclUnit
	entries  []*iparser.Entry
	buildErr error
	log      *slog.Logger
}

// New executes the parser with opts.
func New(opts ...Option) (*Parser, error) {
	o := NewOptions()
	for _, fn := range opts {
		fn(o)
	}

	return NewWithOpts(o)
}

func NewWithOpts(opts *Options) (*Parser, error) {
	if err := opts.Normalize(); err != nil {
		return nil, err
	}
	platform, err := layout.PlatformByName(opts.Platform)
	if err != nil {
		return nil, err
	}

	p := &Parser{
		Opts:     *opts,
		platform: platform,
		log:      slog.Default().With("component", "cdecl", "file", opts.InFile),
	}
	return p, nil
}

// Parse runs every stage. Declarations whose types cannot be laid out do
// not fail Parse; they are reported by BuildErr.
func (p *Parser) Parse() error {
	src := p.Opts.Source
	if src == "" {
		data, err := os.ReadFile(p.Opts.InFile)
		if err != nil {
			return fmt.Errorf("read source: %w", err)
		}
		src = string(data)
	}

	p.tokens = lexer.Tokenize(src)
	p.log.Debug("tokenized", "tokens", len(p.tokens))

	root, err := scanner.New(p.tokens).ScanFile()
	if err != nil {
		return fmt.Errorf("scan %s: %w", p.name(), err)
	}
	p.root = root

	var popts []iparser.Option
	if p.Opts.StrictImplicitInt {
		popts = append(popts, iparser.WithStrictImplicitInt())
	}
	dp := iparser.New(iparser.NewResolver(p.Opts.Typedefs...), popts...)
	if p.units, err = dp.ParseUnits(root.Children); err != nil {
		return fmt.Errorf("parse %s: %w", p.name(), err)
	}

	p.entries, p.buildErr = iparser.NewBuilder(layout.New(p.platform)).BuildAll(p.units)
	if p.buildErr != nil {
		p.log.Warn("declarations skipped", "error", p.buildErr)
	}
	p.log.Info("parsed", "units", len(p.units), "entries", len(p.entries), "platform", p.platform.Name)
	return nil
}

func (p *Parser) name() string {
	if p.Opts.InFile == "" {
		return "<source>"
	}
	return p.Opts.InFile
}

func (p *Parser) Tokens() []Token        { return p.tokens }
func (p *Parser) Root() *Unit            { return p.root }
func (p *Parser) DeclUnits() []*DeclUnit { return p.units }
func (p *Parser) Entries() []*Entry      { return p.entries }

// BuildErr joins the errors of declarations left out of Entries.
func (p *Parser) BuildErr() error { return p.buildErr }

// LayoutReport returns the layout of every entry in declaration order.
func (p *Parser) LayoutReport() *LayoutReport {
	return &model.LayoutReport{
		Source:   filepath.Base(p.name()),
		Platform: p.platform.Name,
		Types:    iparser.ToTypeLayouts(p.entries),
	}
}

// GenerateGoFile renders Go mirrors of every tag and typedef.
func (p *Parser) GenerateGoFile() *jen.File {
	importPath := p.Opts.ImportPath
	if importPath == "" {
		importPath = p.Opts.Package
	}
	g := gen.New(importPath, p.Opts.Package, gen.Options{
		Source:    filepath.Base(p.name()),
		Pluralize: p.Opts.Pluralize,
	})
	return g.Generate(p.entries)
}
