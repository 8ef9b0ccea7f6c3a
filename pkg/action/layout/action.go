package layout

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/cmmoran/cdecl/internal/action/output"
	"github.com/cmmoran/cdecl/pkg/parser"
)

// Generate parses opts.InFile and writes its layout report as YAML to
// opts.OutDir. It returns the written path.
func Generate(opts *parser.Options) (string, error) {
	par, err := parser.NewWithOpts(opts)
	if err != nil {
		return "", err
	}
	if err = par.Parse(); err != nil {
		return "", err
	}
	name := par.Opts.OutFile
	if name == "" {
		name = output.DefaultName(par.Opts.InFile, par.Opts.Package, ".layout.yaml")
	}
	return output.Write(par.Opts.OutDir, name, func(w io.Writer) error {
		return Write(w, par.LayoutReport())
	})
}

// Write encodes r as YAML.
func Write(w io.Writer, r *parser.LayoutReport) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode layout report: %w", err)
	}
	return enc.Close()
}
