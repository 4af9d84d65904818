package store

import (
	"errors"

	"github.com/google/uuid"

	"github.com/meshwire/provisioner-core/pkg/meshnet"
)

// ErrNetworkNotFound is returned by Store.Load when no network is stored
// under the requested UUID.
var ErrNetworkNotFound = errors.New("store: network not found")

// Store abstracts persistence for a provisioner's networks, mirroring the
// Load/Save split of pkg/matter's Storage interface but narrowed to the
// one resource this module owns.
//
// All implementations must be safe for concurrent use.
type Store interface {
	Load(id uuid.UUID) (*meshnet.Network, error)
	Save(id uuid.UUID, net *meshnet.Network) error
}
