package image

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// manifestVersion is bumped when the manifest format changes.
const manifestVersion = "2"

// ManifestFile is the manifest's file name inside its directory.
const ManifestFile = "manifest.json"

// Manifest records the render key of every output written so that
// unchanged cards are not re-rendered across runs. All methods are safe for
// concurrent use.
type Manifest struct {
	mu   sync.Mutex
	dir  string
	data manifestData
}

type manifestData struct {
	Version string                    `json:"version"`
	Entries map[string]*ManifestEntry `json:"entries"` // keyed by output path
}

// ManifestEntry describes one written output.
type ManifestEntry struct {
	Key     string `json:"key"`
	Sum     string `json:"sum"` // hex SHA-256 of the file as written
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Quality int    `json:"quality"`
}

// OpenManifest loads the manifest stored in dir. A missing, corrupt, or
// outdated manifest yields an empty one.
func OpenManifest(dir string) (*Manifest, error) {
	m := &Manifest{
		dir: dir,
		data: manifestData{
			Version: manifestVersion,
			Entries: make(map[string]*ManifestEntry),
		},
	}

	raw, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		if os.IsNotExist(err) {
			return m, nil
		}
		return nil, fmt.Errorf("reading render manifest: %w", err)
	}

	var d manifestData
	if err := json.Unmarshal(raw, &d); err != nil {
		return m, nil
	}
	if d.Version != manifestVersion {
		return m, nil
	}
	if d.Entries == nil {
		d.Entries = make(map[string]*ManifestEntry)
	}
	m.data = d
	return m, nil
}

// Fresh reports whether outPath was last written with key and the file on
// disk still has the recorded contents.
func (m *Manifest) Fresh(outPath, key string) bool {
	m.mu.Lock()
	entry, ok := m.data.Entries[outPath]
	m.mu.Unlock()
	if !ok || entry.Key != key || entry.Sum == "" {
		return false
	}
	sum, err := FileSum(outPath)
	if err != nil {
		return false
	}
	return sum == entry.Sum
}

// Forget drops the entry for outPath.
func (m *Manifest) Forget(outPath string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data.Entries, outPath)
}

// Record stores entry for outPath. Call Save to persist it.
func (m *Manifest) Record(outPath string, entry ManifestEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data.Entries[outPath] = &entry
}

// Save writes the manifest to disk, creating its directory if needed.
func (m *Manifest) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return fmt.Errorf("creating manifest directory: %w", err)
	}
	data, err := json.MarshalIndent(m.data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling render manifest: %w", err)
	}
	return os.WriteFile(filepath.Join(m.dir, ManifestFile), data, 0o644)
}

// FileSum returns the hex SHA-256 digest of the file at path.
func FileSum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// RenderKey returns the hex SHA-256 digest of the JSON encoding of parts.
func RenderKey(parts ...any) (string, error) {
	h := sha256.New()
	enc := json.NewEncoder(h)
	for _, p := range parts {
		if err := enc.Encode(p); err != nil {
			return "", fmt.Errorf("hashing render inputs: %w", err)
		}
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}
