// Package archive manages the append-only history of molted artifacts:
// versioned pre-rewrite snapshots and the per-artifact pipeline report.
// Snapshot files encode the artifact stem and generation number so no two
// generations of the same artifact can collide, and all live-artifact
// writes follow a write-new-then-rename discipline so a crash mid-write can
// never leave a half-written file in place.
package archive

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	molterrors "github.com/arcadegarden/molt/internal/errors"
)

// ReportFilename is the fixed name of the pipeline report inside an
// artifact's archive directory.
const ReportFilename = "pipeline-report.json"

// Store writes snapshots and reports under a base archive directory,
// one subdirectory per artifact stem.
type Store struct {
	// Dir is the base archive directory.
	Dir string
}

// NewStore creates a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// artifactDir returns the per-artifact archive directory, creating it if
// needed.
func (s *Store) artifactDir(stem string) (string, error) {
	dir := filepath.Join(s.Dir, stem)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", molterrors.WrapWithMessage(err, molterrors.Persistence, "creating archive directory")
	}
	return dir, nil
}

// Snapshot copies the current content of sourcePath into the archive as the
// pre-rewrite state of the given generation. Returns the archived path.
func (s *Store) Snapshot(sourcePath string, generation int) (string, error) {
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return "", molterrors.WrapWithMessage(err, molterrors.Persistence, "reading artifact for snapshot")
	}

	stem := stemOf(sourcePath)
	dir, err := s.artifactDir(stem)
	if err != nil {
		return "", err
	}

	archived := filepath.Join(dir, fmt.Sprintf("%s.gen%d%s", stem, generation, filepath.Ext(sourcePath)))
	if err := os.WriteFile(archived, data, 0o644); err != nil {
		return "", molterrors.WrapWithMessage(err, molterrors.Persistence, "writing snapshot")
	}
	return archived, nil
}

// WriteReport persists the pipeline report for the given artifact stem,
// overwriting any previous run's report. Callers needing history diff
// against archived snapshots, not this file.
func (s *Store) WriteReport(stem string, report any) (string, error) {
	dir, err := s.artifactDir(stem)
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", molterrors.WrapWithMessage(err, molterrors.Persistence, "encoding pipeline report")
	}
	data = append(data, '\n')

	path := filepath.Join(dir, ReportFilename)
	if err := WriteFileAtomic(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// ReportPath returns the deterministic report location for a stem.
func (s *Store) ReportPath(stem string) string {
	return filepath.Join(s.Dir, stem, ReportFilename)
}

// WriteFileAtomic writes data to path via a temp file in the same directory
// followed by a rename, so readers never observe a partial write and a
// crash cannot corrupt the destination.
func WriteFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return molterrors.WrapWithMessage(err, molterrors.Persistence, "creating temp file")
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return molterrors.WrapWithMessage(err, molterrors.Persistence, "writing temp file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return molterrors.WrapWithMessage(err, molterrors.Persistence, "closing temp file")
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return molterrors.WrapWithMessage(err, molterrors.Persistence, "replacing file")
	}
	return nil
}

// stemOf returns the base filename without extension.
func stemOf(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
