package store

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/meshwire/provisioner-core/pkg/meshnet"
)

// FileStore persists a DocumentSet to a single JSON file on disk, holding
// every known network's document side by side, the way a provisioner's
// network document is distributed in practice.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore opens (without yet reading) the JSON file at path. The file
// need not exist yet; it is created on the first Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the file and returns the network stored under id.
func (f *FileStore) Load(id uuid.UUID) (*meshnet.Network, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	set, err := f.readLocked()
	if err != nil {
		return nil, err
	}
	doc, ok := set[id]
	if !ok {
		return nil, ErrNetworkNotFound
	}
	return doc.ToNetwork(id)
}

// Save reads the file (if present), replaces or inserts the entry for id,
// and rewrites the file.
func (f *FileStore) Save(id uuid.UUID, net *meshnet.Network) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	set, err := f.readLocked()
	if err != nil {
		return err
	}
	if set == nil {
		set = make(DocumentSet)
	}
	set[id] = FromNetwork(net, currentTime())
	return f.writeLocked(set)
}

// readLocked loads the current DocumentSet, returning an empty set if the
// file does not yet exist. Callers must hold f.mu.
func (f *FileStore) readLocked() (DocumentSet, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return make(DocumentSet), nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", f.path, err)
	}
	if len(data) == 0 {
		return make(DocumentSet), nil
	}

	var set DocumentSet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("store: decode %s: %w", f.path, err)
	}
	return set, nil
}

// writeLocked rewrites the file with set. Callers must hold f.mu.
func (f *FileStore) writeLocked(set DocumentSet) error {
	data, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", f.path, err)
	}
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("store: write %s: %w", f.path, err)
	}
	return nil
}

// Verify FileStore implements Store.
var _ Store = (*FileStore)(nil)
