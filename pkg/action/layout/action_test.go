package layout

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/cmmoran/cdecl/pkg/parser"
)

func TestGenerate(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	in := filepath.Join(dir, "pair.h")
	require.NoError(t, os.WriteFile(in, []byte("struct pair { char k; long v; };"), 0o644))

	opts := parser.NewOptions()
	opts.InFile = in
	opts.OutDir = filepath.Join(dir, "out")
	path, err := Generate(opts)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "out", "pair.layout.yaml"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var r parser.LayoutReport
	require.NoError(t, yaml.Unmarshal(data, &r))
	require.Equal(t, "pair.h", r.Source)
	pair := r.Find("pair")
	require.NotNil(t, pair)
	require.Equal(t, 16, pair.Size)
	require.Equal(t, 8, pair.Fields[1].Offset)
}

func TestGenerateParseError(t *testing.T) {
	t.Parallel()
	opts := parser.NewOptions()
	opts.Source = "int int x;"
	opts.OutDir = t.TempDir()
	_, err := Generate(opts)
	require.Error(t, err)
}

func TestWrite(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, &parser.LayoutReport{Source: "a.h", Platform: "lp64"}))
	require.Equal(t, "source: a.h\nplatform: lp64\ntypes: []\n", buf.String())
}
