package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Write renders into dir/file, creating dir, and returns the cleaned path.
// A partial file is removed when render fails.
func Write(dir, file string, render func(io.Writer) error) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	outFile := filepath.Clean(filepath.Join(dir, file))
	ff, err := os.OpenFile(outFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", fmt.Errorf("open output: %w", err)
	}
	if err = render(ff); err != nil {
		_ = ff.Close()
		_ = os.Remove(outFile)
		return "", fmt.Errorf("render %s: %w", outFile, err)
	}
	if err = ff.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", outFile, err)
	}
	return outFile, nil
}

// DefaultName derives an output name from the input file: "dir/foo.h" with
// suffix "_gen.go" becomes "foo_gen.go".
func DefaultName(inFile, fallback, suffix string) string {
	base := filepath.Base(inFile)
	base = base[:len(base)-len(filepath.Ext(base))]
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = fallback
	}
	return base + suffix
}
