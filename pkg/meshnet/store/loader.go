package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/meshwire/provisioner-core/pkg/meshnet"
)

// ErrDocumentSetEmpty is returned by LoadDocument when the decoded JSON
// carries no top-level network entries.
var ErrDocumentSetEmpty = errors.New("store: document set is empty")

// ErrAmbiguousDocumentSet is returned by LoadDocument when the decoded JSON
// carries more than one top-level network entry; LoadDocument only ever
// resolves a single network, matching the core's single-MeshNetwork input.
var ErrAmbiguousDocumentSet = errors.New("store: document set carries more than one network")

// LoadDocument reads a JSON document set, expects it to carry exactly one
// network, and converts it into a meshnet.Network.
func LoadDocument(r io.Reader) (uuid.UUID, *meshnet.Network, error) {
	var set DocumentSet
	if err := json.NewDecoder(r).Decode(&set); err != nil {
		return uuid.UUID{}, nil, fmt.Errorf("store: decode document set: %w", err)
	}

	switch len(set) {
	case 0:
		return uuid.UUID{}, nil, ErrDocumentSetEmpty
	case 1:
		for id, doc := range set {
			net, err := doc.ToNetwork(id)
			if err != nil {
				return uuid.UUID{}, nil, err
			}
			return id, net, nil
		}
	}
	return uuid.UUID{}, nil, ErrAmbiguousDocumentSet
}

// SaveDocument writes a single network back out as a one-entry document
// set. It exists so a provisioner that persists across restarts can carry
// sequence_number and iv_index forward; omitting this would force every
// restart to replay seq=0, a replay-protection violation on any receiver
// that remembers the previous session's counters.
func SaveDocument(w io.Writer, id uuid.UUID, net *meshnet.Network) error {
	doc := FromNetwork(net, currentTime())
	set := DocumentSet{id: doc}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(set)
}

// currentTime is a seam so tests can observe that SaveDocument stamps a
// timestamp without depending on wall-clock time directly in assertions.
var currentTime = time.Now
