package snapshot

import (
	"fmt"
	"path/filepath"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/cmmoran/cdecl/pkg/manifest"
	"github.com/cmmoran/cdecl/pkg/parser"
)

// Generate lays out opts.InFile, stores the report next to the manifest
// and records it as the current version.
func Generate(opts *parser.Options, manifestPath, snapshotName, snapshotVersion string) (string, error) {
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return "", err
	}

	par, err := parser.NewWithOpts(opts)
	if err != nil {
		return "", err
	}
	if err = par.Parse(); err != nil {
		return "", err
	}

	outFile := filepath.Join(filepath.Dir(manifestPath), fmt.Sprintf("%s-%s.layout.yaml", snapshotName, snapshotVersion))
	if err := manifest.SaveReport(outFile, par.LayoutReport()); err != nil {
		return "", err
	}
	m.AddSnapshot(manifest.Snapshot{
		Name:     snapshotName,
		Version:  snapshotVersion,
		Platform: par.Opts.Platform,
		File:     outFile,
	})

	if err := m.Save(manifestPath); err != nil {
		return "", err
	}

	return outFile, nil
}

// List returns all snapshots recorded in the manifest.
func List(manifestPath string) (*manifest.Manifest, error) {
	return manifest.Load(manifestPath)
}

// DiffCurrentWithPrevious compares the layout reports of the two latest
// versions. An empty result means no layout changed.
func DiffCurrentWithPrevious(manifestPath string) (string, error) {
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return "", err
	}
	currentPath, previousPath, err := m.CurrentAndPrevious()
	if err != nil {
		return "", err
	}

	current, err := manifest.LoadReport(currentPath)
	if err != nil {
		return "", fmt.Errorf("current snapshot: %w", err)
	}
	previous, err := manifest.LoadReport(previousPath)
	if err != nil {
		return "", fmt.Errorf("previous snapshot: %w", err)
	}

	return Diff(previous, current), nil
}

// Diff reports layout drift between two reports. Type order and source
// file names are ignored; field order is not.
func Diff(previous, current *parser.LayoutReport) string {
	return cmp.Diff(previous, current,
		cmpopts.IgnoreFields(parser.LayoutReport{}, "Source"),
		cmpopts.SortSlices(func(a, b parser.TypeLayout) bool { return a.Name < b.Name }),
		cmpopts.EquateEmpty(),
	)
}
