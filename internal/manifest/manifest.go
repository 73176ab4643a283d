// Package manifest loads and saves the gallery manifest: the YAML record of
// every artifact in the library, keyed by category. The manifest is always
// passed as an explicit dependency so the orchestrator and selector can be
// tested with in-memory fixtures and run concurrently without hidden
// coupling to process-wide state.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	molterrors "github.com/arcadegarden/molt/internal/errors"
)

// Entry is one artifact record in the manifest.
type Entry struct {
	Title string `yaml:"title"`
	// File is the artifact filename relative to the library root.
	File string   `yaml:"file"`
	Tags []string `yaml:"tags,omitempty"`
	// Generation counts accepted rewrites. Zero means never molted.
	Generation int    `yaml:"generation"`
	Added      string `yaml:"added,omitempty"`
}

// Stem returns the artifact filename without its extension, used for
// archive and report paths.
func (e *Entry) Stem() string {
	return strings.TrimSuffix(e.File, filepath.Ext(e.File))
}

// Manifest maps category names to artifact entries.
type Manifest struct {
	// Categories preserves the category to entries mapping from the YAML
	// document.
	Categories map[string][]*Entry
	// path remembers where the manifest was loaded from so Save can do an
	// atomic whole-file rewrite in place.
	path string
}

// Load reads and parses the manifest file at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, molterrors.WrapWithMessage(err, molterrors.Resolution,
			"loading manifest",
			fmt.Sprintf("Check that %s exists", path),
			"Set manifest_path in .molt/config.yml or MOLT_MANIFEST_PATH")
	}

	m := &Manifest{Categories: map[string][]*Entry{}}
	if err := yaml.Unmarshal(data, &m.Categories); err != nil {
		return nil, molterrors.WrapWithMessage(err, molterrors.Configuration,
			"parsing manifest YAML",
			"Fix the YAML syntax error reported above")
	}
	m.path = path
	return m, nil
}

// Path returns the file the manifest was loaded from (empty for in-memory
// manifests).
func (m *Manifest) Path() string {
	return m.path
}

// SetPath sets the save destination. Used when constructing manifests in
// memory for tests or batch slices.
func (m *Manifest) SetPath(path string) {
	m.path = path
}

// Resolve finds an artifact by identifier: a case-insensitive match on the
// entry title or on the file stem. It returns the artifact path (relative
// to the manifest's directory), its category, and the live entry, or a
// resolution error when nothing matches.
func (m *Manifest) Resolve(identifier string) (string, string, *Entry, error) {
	needle := strings.ToLower(strings.TrimSpace(identifier))
	for category, entries := range m.Categories {
		for _, e := range entries {
			if strings.ToLower(e.Title) == needle || strings.ToLower(e.Stem()) == needle || strings.ToLower(e.File) == needle {
				return filepath.Join(filepath.Dir(m.path), e.File), category, e, nil
			}
		}
	}
	return "", "", nil, molterrors.NewResolutionError(
		fmt.Sprintf("artifact %q not found in manifest", identifier),
		"Run 'molt candidates' to list known artifacts",
		"Identifiers match an entry's title or file stem")
}

// Save performs an atomic whole-file rewrite of the manifest: the new
// content lands in a temp file in the same directory and replaces the old
// file with a rename, so a crash can never leave a half-written manifest.
func (m *Manifest) Save() error {
	if m.path == "" {
		return molterrors.NewPersistenceError("manifest has no save path",
			"Load the manifest from a file or call SetPath first")
	}

	data, err := yaml.Marshal(m.Categories)
	if err != nil {
		return molterrors.WrapWithMessage(err, molterrors.Persistence, "encoding manifest")
	}

	tmp, err := os.CreateTemp(filepath.Dir(m.path), ".manifest-*.yml")
	if err != nil {
		return molterrors.WrapWithMessage(err, molterrors.Persistence, "creating manifest temp file")
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return molterrors.WrapWithMessage(err, molterrors.Persistence, "writing manifest temp file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return molterrors.WrapWithMessage(err, molterrors.Persistence, "closing manifest temp file")
	}
	if err := os.Rename(tmpName, m.path); err != nil {
		os.Remove(tmpName)
		return molterrors.WrapWithMessage(err, molterrors.Persistence, "replacing manifest")
	}
	return nil
}

// Entries returns all entries across categories, in no particular order.
func (m *Manifest) Entries() []*Entry {
	var out []*Entry
	for _, entries := range m.Categories {
		out = append(out, entries...)
	}
	return out
}

// CategoryOf returns the category containing the given entry, or "".
func (m *Manifest) CategoryOf(target *Entry) string {
	for category, entries := range m.Categories {
		for _, e := range entries {
			if e == target {
				return category
			}
		}
	}
	return ""
}
