package servagri

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// Collection keys used by the mirror and the API client.
const (
	CollectionNews     = "news"
	CollectionProjects = "projects"
)

// MirrorStorage is the storage port behind the Mirror. Read returns
// (nil, nil) for a key that has never been written.
type MirrorStorage interface {
	Read(collection string) ([]byte, error)
	Write(collection string, data []byte) error
}

// FileStorage is the default MirrorStorage, one JSON file per collection
// under a directory.
type FileStorage struct {
	dir string
}

// NewFileStorage returns a FileStorage rooted at dir. The directory is
// created on first write.
func NewFileStorage(dir string) *FileStorage {
	return &FileStorage{dir: dir}
}

func (f *FileStorage) path(collection string) string {
	return filepath.Join(f.dir, collection+".json")
}

func (f *FileStorage) Read(collection string) ([]byte, error) {
	data, err := os.ReadFile(f.path(collection))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return data, err
}

func (f *FileStorage) Write(collection string, data []byte) error {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(f.path(collection), data, 0o644)
}

// Mirror is a best-effort local cache of the two entity collections,
// used for display before the first remote fetch completes and
// overwritten after each successful refresh. The remote store stays the
// single source of truth; the mirror is never a write source toward it.
type Mirror struct {
	storage  MirrorStorage
	maxBytes int
}

// DefaultMirrorMaxBytes is the serialized-size ceiling applied by Save
// when no explicit limit is configured.
const DefaultMirrorMaxBytes = 5 << 20

// NewMirror creates a Mirror over the given storage port. maxBytes <= 0
// selects DefaultMirrorMaxBytes.
func NewMirror(storage MirrorStorage, maxBytes int) *Mirror {
	if maxBytes <= 0 {
		maxBytes = DefaultMirrorMaxBytes
	}
	return &Mirror{storage: storage, maxBytes: maxBytes}
}

// LoadNews returns the mirrored news collection, or nil if none was saved.
func (m *Mirror) LoadNews() ([]NewsItem, error) {
	return loadMirror[NewsItem](m, CollectionNews)
}

// SaveNews replaces the mirrored news collection. If the serialized form
// exceeds the ceiling, ErrMirrorFull is returned and the previous contents
// are left intact.
func (m *Mirror) SaveNews(items []NewsItem) error {
	return saveMirror(m, CollectionNews, items)
}

// PruneNews keeps only the keep most recent news items by creation
// timestamp and persists the truncated set. Pruning an already-small
// collection is a no-op.
func (m *Mirror) PruneNews(keep int) error {
	items, err := m.LoadNews()
	if err != nil {
		return err
	}
	if len(items) <= keep {
		return nil
	}
	sortByCreatedAt(items, func(n NewsItem) string { return n.CreatedAt })
	return m.SaveNews(items[:keep])
}

// LoadProjects returns the mirrored project collection, or nil if none
// was saved.
func (m *Mirror) LoadProjects() ([]ProjectItem, error) {
	return loadMirror[ProjectItem](m, CollectionProjects)
}

// SaveProjects replaces the mirrored project collection under the same
// ceiling as SaveNews.
func (m *Mirror) SaveProjects(items []ProjectItem) error {
	return saveMirror(m, CollectionProjects, items)
}

// PruneProjects keeps only the keep most recent projects by creation
// timestamp and persists the truncated set.
func (m *Mirror) PruneProjects(keep int) error {
	items, err := m.LoadProjects()
	if err != nil {
		return err
	}
	if len(items) <= keep {
		return nil
	}
	sortByCreatedAt(items, func(p ProjectItem) string { return p.CreatedAt })
	return m.SaveProjects(items[:keep])
}

func loadMirror[T any](m *Mirror, collection string) ([]T, error) {
	data, err := m.storage.Read(collection)
	if err != nil {
		return nil, fmt.Errorf("mirror read %s: %w", collection, err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("mirror decode %s: %w", collection, err)
	}
	return items, nil
}

func saveMirror[T any](m *Mirror, collection string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("mirror encode %s: %w", collection, err)
	}
	if len(data) > m.maxBytes {
		return fmt.Errorf("%w: %s is %d bytes, ceiling is %d", ErrMirrorFull, collection, len(data), m.maxBytes)
	}
	if err := m.storage.Write(collection, data); err != nil {
		return fmt.Errorf("mirror write %s: %w", collection, err)
	}
	return nil
}

// sortByCreatedAt orders items newest first. RFC 3339 timestamps compare
// correctly as strings.
func sortByCreatedAt[T any](items []T, createdAt func(T) string) {
	sort.SliceStable(items, func(i, j int) bool {
		return createdAt(items[i]) > createdAt(items[j])
	})
}
