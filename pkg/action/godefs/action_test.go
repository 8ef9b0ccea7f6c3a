package godefs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cmmoran/cdecl/pkg/parser"
)

func writeModule(t *testing.T, modPath string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module "+modPath+"\n\ngo 1.24\n"), 0o644))
	return dir
}

func TestImportPath(t *testing.T) {
	t.Parallel()
	root := writeModule(t, "example.com/widgets")

	ip, err := ImportPath(root)
	require.NoError(t, err)
	require.Equal(t, "example.com/widgets", ip)

	ip, err = ImportPath(filepath.Join(root, "internal", "cdefs"))
	require.NoError(t, err)
	require.Equal(t, "example.com/widgets/internal/cdefs", ip)

	_, err = ImportPath(filepath.Join(root, "bad path"))
	require.Error(t, err)
}

func TestImportPathWithoutModuleDirective(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("go 1.24\n"), 0o644))
	_, err := ImportPath(dir)
	require.ErrorIs(t, err, ErrNoModule)
}

func TestGenerate(t *testing.T) {
	t.Parallel()
	root := writeModule(t, "example.com/widgets")
	in := filepath.Join(root, "widget.h")
	require.NoError(t, os.WriteFile(in, []byte("enum state { IDLE, BUSY }; struct widget { enum state st; double w; };"), 0o644))

	opts := parser.NewOptions()
	opts.InFile = in
	opts.OutDir = filepath.Join(root, "cwidget")
	opts.Pluralize = true
	out, err := Generate(opts)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, "cwidget", "widget_gen.go"), out)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	src := strings.Join(strings.Fields(string(data)), " ")
	require.Contains(t, src, "package cwidget")
	require.Contains(t, src, "type State int32")
	require.Contains(t, src, "type Widget struct { St State _ [4]byte W float64 }")
	require.Contains(t, src, "type Widgets []Widget")
}
