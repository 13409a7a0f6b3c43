package core

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Marker records the successful completion of a stage under a particular
// configuration tag. Markers drive skip-on-resume: a marker written under a
// different tag belongs to a different configuration and must not skip the
// stage.
type Marker struct {
	Stage       string    `yaml:"stage"`
	Tag         string    `yaml:"tag"`
	RunID       string    `yaml:"run_id"`
	CompletedAt time.Time `yaml:"completed_at"`
}

func markerPath(expDir, stage string) string {
	return filepath.Join(expDir, ".done", stage+".done")
}

// WriteMarker persists a completion marker for the stage. The marker is
// written atomically (temp file + rename) so a crash mid-write never leaves
// a marker that would wrongly skip the stage on resume.
func WriteMarker(expDir, stage, tag string, runID uuid.UUID) error {
	path := markerPath(expDir, stage)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating marker directory: %w", err)
	}

	m := Marker{
		Stage:       stage,
		Tag:         tag,
		RunID:       runID.String(),
		CompletedAt: time.Now().UTC(),
	}
	data, err := yaml.Marshal(&m)
	if err != nil {
		return fmt.Errorf("encoding marker for stage %q: %w", stage, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing marker for stage %q: %w", stage, err)
	}
	return os.Rename(tmp, path)
}

// IsDone reports whether the stage has a completion marker under the same
// configuration tag. A missing or unreadable marker means not done; a
// readable marker for a different tag also means not done.
func IsDone(expDir, stage, tag string) (bool, error) {
	data, err := os.ReadFile(markerPath(expDir, stage))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("reading marker for stage %q: %w", stage, err)
	}

	var m Marker
	if err := yaml.Unmarshal(data, &m); err != nil {
		return false, fmt.Errorf("decoding marker for stage %q: %w", stage, err)
	}
	return m.Stage == stage && m.Tag == tag, nil
}

// ReadMarker loads a stage's marker, mainly for audit tooling and tests.
func ReadMarker(expDir, stage string) (*Marker, error) {
	data, err := os.ReadFile(markerPath(expDir, stage))
	if err != nil {
		return nil, err
	}
	var m Marker
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decoding marker for stage %q: %w", stage, err)
	}
	return &m, nil
}
