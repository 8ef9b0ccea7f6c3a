package parser

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/cmmoran/cdecl/internal/layout"
)

// Options control parsing, layout and output.
//
// InFile            – C source to read
// Source            – in-memory source; when set InFile only names it
// OutDir            – output directory
// OutFile           – output filename; each action picks a default
// Package           – Go package name for generated mirrors (default: base of OutDir)
// ImportPath        – Go import path of OutDir (default: resolved from go.mod)
// Platform          – data model: lp64, llp64 or ilp32
// StrictImplicitInt – reject declarations without a type specifier
// Typedefs          – names known to be typedefs before parsing, e.g. size_t
// Pluralize         – emit slice types for generated structs
type Options struct {
	InFile            string   `json:"in_file,omitempty" yaml:"in_file,omitempty" toml:"in_file,omitempty" mapstructure:"in_file,omitempty"`
	Source            string   `json:"-" yaml:"-" toml:"-" mapstructure:"-"`
	OutDir            string   `json:"out_dir,omitempty" yaml:"out_dir,omitempty" toml:"out_dir,omitempty" mapstructure:"out_dir,omitempty"`
	OutFile           string   `json:"out_file,omitempty" yaml:"out_file,omitempty" toml:"out_file,omitempty" mapstructure:"out_file,omitempty"`
	Package           string   `json:"package,omitempty" yaml:"package,omitempty" toml:"package,omitempty" mapstructure:"package,omitempty"`
	ImportPath        string   `json:"import_path,omitempty" yaml:"import_path,omitempty" toml:"import_path,omitempty" mapstructure:"import_path,omitempty"`
	Platform          string   `json:"platform,omitempty" yaml:"platform,omitempty" toml:"platform,omitempty" mapstructure:"platform,omitempty"`
	StrictImplicitInt bool     `json:"strict_implicit_int,omitempty" yaml:"strict_implicit_int,omitempty" toml:"strict_implicit_int,omitempty" mapstructure:"strict_implicit_int,omitempty"`
	Typedefs          []string `json:"typedefs,omitempty" yaml:"typedefs,omitempty" toml:"typedefs,omitempty" mapstructure:"typedefs,omitempty"`
	Pluralize         bool     `json:"pluralize,omitempty" yaml:"pluralize,omitempty" toml:"pluralize,omitempty" mapstructure:"pluralize,omitempty"`
}

func NewOptions() *Options {
	return &Options{
		OutDir:   "cdefs",
		Platform: layout.LP64.Name,
	}
}

// Normalize fills defaults, splits comma-separated typedef lists and
// validates the platform.
func (o *Options) Normalize(typedefStrings ...string) error {
	var names []string
	seen := make(map[string]bool, len(o.Typedefs))
	for _, s := range slices.Concat(o.Typedefs, typedefStrings) {
		for _, n := range strings.Split(s, ",") {
			n = strings.TrimSpace(n)
			if n == "" || seen[n] {
				continue
			}
			seen[n] = true
			names = append(names, n)
		}
	}
	o.Typedefs = names

	if o.Platform == "" {
		o.Platform = layout.LP64.Name
	}
	p, err := layout.PlatformByName(o.Platform)
	if err != nil {
		return err
	}
	o.Platform = p.Name

	if o.InFile == "" && o.Source == "" {
		return ErrNoInput
	}
	if len(o.OutDir) == 0 {
		o.OutDir = "cdefs"
	}
	if strings.Contains(o.OutDir, ".") {
		o.OutDir, _ = filepath.Abs(o.OutDir)
	}
	if o.Package == "" {
		o.Package = packageName(filepath.Base(o.OutDir))
	}
	return nil
}

// packageName reduces a directory name to a valid Go package name.
func packageName(dir string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(dir) {
		if r >= 'a' && r <= 'z' || sb.Len() > 0 && r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	if sb.Len() == 0 {
		return "cdefs"
	}
	return sb.String()
}

// functional option pattern ---------------------------------------------------

type Option func(*Options)

func WithInFile(f string) Option     { return func(o *Options) { o.InFile = f } }
func WithSource(src string) Option   { return func(o *Options) { o.Source = src } }
func WithOutDir(d string) Option     { return func(o *Options) { o.OutDir = d } }
func WithOutFile(f string) Option    { return func(o *Options) { o.OutFile = f } }
func WithPackage(p string) Option    { return func(o *Options) { o.Package = p } }
func WithImportPath(p string) Option { return func(o *Options) { o.ImportPath = p } }
func WithPlatform(p string) Option   { return func(o *Options) { o.Platform = p } }
func WithStrictImplicitInt() Option  { return func(o *Options) { o.StrictImplicitInt = true } }
func WithPluralize() Option          { return func(o *Options) { o.Pluralize = true } }
func WithTypedefs(names ...string) Option {
	return func(o *Options) {
		for _, n := range names {
			o.Typedefs = append(o.Typedefs, strings.TrimSpace(n))
		}
	}
}
