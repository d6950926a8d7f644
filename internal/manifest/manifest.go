// Package manifest maintains the asset-versioning manifest: a flat mapping
// from a normalized original asset path to the path it is served from,
// optionally carrying a content-hash query suffix for cache busting.
//
// The persisted format is a JSON object whose keys are the normalized
// original paths (leading slash, forward slashes, any existing ?id= suffix
// stripped) and whose values are the served paths. Keys sort
// lexicographically when read back.
package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"sync"
)

// hashLen is the length of the content-hash id appended to served paths.
const hashLen = 20

// idSuffix matches a previously applied content-hash suffix.
var idSuffix = regexp.MustCompile(`\?id=[0-9a-f]{20}$`)

// Manifest tracks served paths for original asset paths and persists them
// as JSON at Path.
type Manifest struct {
	Path string

	mu      sync.Mutex
	entries map[string]string
}

// New creates a manifest persisted at path. The file is created on the
// first write; a missing file reads back as empty.
func New(path string) *Manifest {
	return &Manifest{Path: path, entries: make(map[string]string)}
}

// Normalize rewrites an asset path to its canonical manifest key: forward
// slashes, a leading slash, and no content-hash suffix.
func Normalize(asset string) string {
	p := strings.ReplaceAll(asset, `\`, "/")
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return idSuffix.ReplaceAllString(p, "")
}

// HashContent returns the 20-character content hash for the given bytes.
// Identical content always yields the identical id.
func HashContent(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])[:hashLen]
}

// Add records an asset with no content hash: it is served from its
// normalized original path.
func (m *Manifest) Add(asset string) {
	key := Normalize(asset)
	m.mu.Lock()
	m.entries[key] = key
	m.mu.Unlock()
}

// Hash stamps the asset with the content hash of the file it points to,
// resolved relative to root, and records the suffixed served path.
func (m *Manifest) Hash(asset, root string) error {
	key := Normalize(asset)
	content, err := os.ReadFile(root + key)
	if err != nil {
		return fmt.Errorf("failed to read asset for hashing: %w", err)
	}
	m.HashBytes(asset, content)
	return nil
}

// HashBytes is Hash for already-loaded content.
func (m *Manifest) HashBytes(asset string, content []byte) {
	key := Normalize(asset)
	m.mu.Lock()
	m.entries[key] = key + "?id=" + HashContent(content)
	m.mu.Unlock()
}

// Get returns the served path recorded for an asset, or the normalized path
// itself when the asset was never recorded.
func (m *Manifest) Get(asset string) string {
	key := Normalize(asset)
	m.mu.Lock()
	defer m.mu.Unlock()
	if served, ok := m.entries[key]; ok {
		return served
	}
	return key
}

// Refresh rewrites the manifest file from the in-memory entries.
func (m *Manifest) Refresh() error {
	m.mu.Lock()
	data, err := json.MarshalIndent(m.entries, "", "    ")
	m.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(m.Path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write manifest %s: %w", m.Path, err)
	}
	return nil
}

// Read loads the persisted manifest and returns its entries in
// lexicographic key order. A missing file yields no entries.
func (m *Manifest) Read() ([][2]string, error) {
	data, err := os.ReadFile(m.Path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", m.Path, err)
	}

	entries := make(map[string]string)
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode manifest %s: %w", m.Path, err)
	}

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([][2]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, [2]string{k, entries[k]})
	}
	return out, nil
}
