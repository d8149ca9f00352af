package artifact

import (
	"sort"
	"sync"
	"time"
)

type memoryEntry struct {
	content string
	modTime time.Time
}

// InMemoryStore is a trivial in-process Store useful for tests, examples and
// dry runs. Names are sanitized exactly like FileStore so both produce the
// same keys; returned paths use a "mem://" prefix.
type InMemoryStore struct {
	mu  sync.RWMutex
	ads map[string]memoryEntry
}

// NewInMemoryStore returns an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{ads: make(map[string]memoryEntry)}
}

// Save stores (or overwrites) content under the sanitized name.
func (a *InMemoryStore) Save(name, content string) (string, error) {
	file, err := FileName(name)
	if err != nil {
		return "", err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.ads[Sanitize(name)] = memoryEntry{content: content, modTime: time.Now()}

	return "mem://" + file, nil
}

// Get returns the stored content or ErrNotFound.
func (a *InMemoryStore) Get(name string) (string, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	e, ok := a.ads[Sanitize(name)]
	if !ok {
		return "", ErrNotFound
	}

	return e.content, nil
}

// List returns a snapshot of stored ads ordered by name.
func (a *InMemoryStore) List() ([]Entry, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	entries := make([]Entry, 0, len(a.ads))
	for name, e := range a.ads {
		entries = append(entries, Entry{
			Name:    name,
			Path:    "mem://" + name + FileSuffix,
			Size:    int64(len(e.content)),
			ModTime: e.modTime,
		})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	return entries, nil
}

// Delete removes the ad if present or returns ErrNotFound.
func (a *InMemoryStore) Delete(name string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	key := Sanitize(name)
	if _, ok := a.ads[key]; !ok {
		return ErrNotFound
	}

	delete(a.ads, key)

	return nil
}

var _ Store = (*InMemoryStore)(nil)
