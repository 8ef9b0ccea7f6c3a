package godefs

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"

	"github.com/cmmoran/cdecl/internal/action/output"
	"github.com/cmmoran/cdecl/pkg/parser"
)

var ErrNoModule = errors.New("no go.mod found")

// Generate parses opts.InFile and writes Go mirrors of its types to
// opts.OutDir. The import path is resolved from the enclosing module when
// opts.ImportPath is empty.
func Generate(opts *parser.Options) (string, error) {
	par, err := parser.NewWithOpts(opts)
	if err != nil {
		return "", err
	}
	if err = par.Parse(); err != nil {
		return "", err
	}
	if par.Opts.ImportPath == "" {
		if ip, err := ImportPath(par.Opts.OutDir); err == nil {
			par.Opts.ImportPath = ip
		} else {
			slog.Debug("import path not resolved", "dir", par.Opts.OutDir, "error", err)
		}
	}
	name := par.Opts.OutFile
	if name == "" {
		name = output.DefaultName(par.Opts.InFile, par.Opts.Package, "_gen.go")
	}
	return output.Write(par.Opts.OutDir, name, par.GenerateGoFile().Render)
}

// ImportPath returns the Go import path of dir, found by walking up to the
// nearest go.mod.
func ImportPath(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	modDir, err := findGoModDir(abs)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(filepath.Join(modDir, "go.mod"))
	if err != nil {
		return "", err
	}
	modPath := modfile.ModulePath(data)
	if modPath == "" {
		return "", fmt.Errorf("%s: no module directive: %w", modDir, ErrNoModule)
	}
	rel, err := filepath.Rel(modDir, abs)
	if err != nil {
		return "", err
	}
	ip := modPath
	if rel != "." {
		ip = path.Join(modPath, filepath.ToSlash(rel))
	}
	if err := module.CheckImportPath(ip); err != nil {
		return "", err
	}
	return ip, nil
}

// findGoModDir walks up from dir until it finds go.mod.
func findGoModDir(from string) (string, error) {
	for {
		if _, err := os.Stat(filepath.Join(from, "go.mod")); err == nil {
			return from, nil
		}
		parent := filepath.Dir(from)
		if parent == from {
			return "", ErrNoModule
		}
		from = parent
	}
}
