package store

import (
	"sync"

	"github.com/google/uuid"

	"github.com/meshwire/provisioner-core/pkg/meshnet"
)

// MemoryStore is an in-memory Store implementation. Useful for testing and
// short-lived provisioner processes; data is lost when the process exits.
//
// Unlike pkg/matter's MemoryStorage, MemoryStore does not clone on
// Load/Save: meshnet.Network already guards its own mutable fields
// (sequence_number, iv_index) behind an internal mutex, so handing back the
// same live pointer is safe and avoids copying that mutex.
type MemoryStore struct {
	mu       sync.RWMutex
	networks map[uuid.UUID]*meshnet.Network
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{networks: make(map[uuid.UUID]*meshnet.Network)}
}

// Load returns the network stored under id.
func (m *MemoryStore) Load(id uuid.UUID) (*meshnet.Network, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	net, ok := m.networks[id]
	if !ok {
		return nil, ErrNetworkNotFound
	}
	return net, nil
}

// Save stores net under id, replacing any previous entry.
func (m *MemoryStore) Save(id uuid.UUID, net *meshnet.Network) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.networks[id] = net
	return nil
}

// Verify MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
