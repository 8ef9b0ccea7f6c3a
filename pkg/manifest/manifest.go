// Package manifest records versioned layout snapshots so two versions of
// a header can be compared for ABI drift.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/cmmoran/cdecl/internal/model"
)

var ErrNoSnapshots = errors.New("no current/previous snapshots recorded")

// Snapshot is one recorded layout report.
type Snapshot struct {
	Name     string `yaml:"name" json:"name"`
	Version  string `yaml:"version" json:"version"`
	Platform string `yaml:"platform,omitempty" json:"platform,omitempty"`
	File     string `yaml:"file" json:"file"`
}

// Manifest tracks the current and previous snapshot versions.
type Manifest struct {
	CurrentVersion  string     `yaml:"current_version" json:"current_version"`
	PreviousVersion string     `yaml:"previous_version" json:"previous_version"`
	Snapshots       []Snapshot `yaml:"snapshots" json:"snapshots"`
}

// Load reads a manifest from path. A missing file yields an empty manifest.
func Load(path string) (*Manifest, error) {
	var m Manifest
	found, err := readYAML(path, &m)
	if err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	if !found {
		return &Manifest{}, nil
	}
	return &m, nil
}

// Save writes the manifest to path, creating parent directories as needed.
func (m *Manifest) Save(path string) error {
	if err := writeYAML(path, m); err != nil {
		return fmt.Errorf("manifest: %w", err)
	}
	return nil
}

// AddSnapshot records s as the current version. A snapshot with the same
// name and version is replaced in place.
func (m *Manifest) AddSnapshot(s Snapshot) {
	if m.CurrentVersion != "" && m.CurrentVersion != s.Version {
		m.PreviousVersion = m.CurrentVersion
	}
	m.CurrentVersion = s.Version

	for i := range m.Snapshots {
		if m.Snapshots[i].Name == s.Name && m.Snapshots[i].Version == s.Version {
			m.Snapshots[i] = s
			return
		}
	}

	m.Snapshots = append(m.Snapshots, s)
}

// SnapshotFile returns the report path recorded for version, or "".
func (m *Manifest) SnapshotFile(version string) string {
	for _, s := range m.Snapshots {
		if s.Version == version {
			return s.File
		}
	}
	return ""
}

// CurrentAndPrevious returns the report paths of the two latest versions.
func (m *Manifest) CurrentAndPrevious() (current, previous string, err error) {
	if m.CurrentVersion == "" || m.PreviousVersion == "" {
		return "", "", ErrNoSnapshots
	}
	current, previous = m.SnapshotFile(m.CurrentVersion), m.SnapshotFile(m.PreviousVersion)
	if current == "" || previous == "" {
		return "", "", fmt.Errorf("snapshot files not found in manifest: %w", ErrNoSnapshots)
	}
	return current, previous, nil
}

// LoadReport reads a layout report written by SaveReport.
func LoadReport(path string) (*model.LayoutReport, error) {
	var r model.LayoutReport
	found, err := readYAML(path, &r)
	if err != nil {
		return nil, fmt.Errorf("layout report: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("layout report %s: %w", path, os.ErrNotExist)
	}
	return &r, nil
}

// SaveReport writes r as YAML to path.
func SaveReport(path string, r *model.LayoutReport) error {
	if err := writeYAML(path, r); err != nil {
		return fmt.Errorf("layout report: %w", err)
	}
	return nil
}

func readYAML(path string, v any) (bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read: %w", err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("unmarshal %s: %w", path, err)
	}
	return true, nil
}

func writeYAML(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}
