// Package store loads and persists the JSON network document the outbound
// pipeline's ecosystem uses to hand a MeshNetwork to the core, mirroring
// pkg/matter's Storage/MemoryStorage split for the new document shape.
package store

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/meshwire/provisioner-core/pkg/meshnet"
)

// Document is the per-network JSON shape, keyed by network UUID at the
// top level by DocumentSet.
type Document struct {
	Name         string           `json:"name"`
	NetKeys      []DocumentNetKey `json:"netKeys"`
	AppKeys      []DocumentAppKey `json:"appKeys"`
	Nodes        []DocumentNode   `json:"nodes"`
	LowerAddress uint16           `json:"lowerAddress"`
	IVIndex      uint32           `json:"ivIndex"`
	Timestamp    time.Time        `json:"timestamp"`

	// SequenceNumber is not part of the original document shape; it is
	// carried here so SaveDocument can round-trip the counter without
	// silently resetting it to zero on every restart (see
	// access.BuildNetworkPDU and meshnet.Network.NextSequence for why
	// reusing a sequence number is unsafe). Absent in an older
	// document, it decodes as zero.
	SequenceNumber uint32 `json:"sequenceNumber,omitempty"`
}

// DocumentNetKey is the wire shape of one NetKey entry. Refresh is the
// original document's field name for what this module stores as
// NetKey.Index; the persisted format never renamed it.
type DocumentNetKey struct {
	Refresh uint16 `json:"refresh"`
	Key     string `json:"key"`
}

// DocumentAppKey is the wire shape of one AppKey entry. Its index is its
// position in the array; BoundNetKey references a NetKey by Refresh value.
type DocumentAppKey struct {
	Key         string `json:"key"`
	BoundNetKey uint16 `json:"boundNetKey"`
}

// DocumentNode is the wire shape of one provisioned node entry.
type DocumentNode struct {
	Unicast uint16 `json:"unicast"`
	Key     string `json:"key"`
	Name    string `json:"name"`
}

// DocumentSet is the full persisted file: a network UUID mapped to its
// Document.
type DocumentSet map[uuid.UUID]Document

// decodeKey decodes a hex32 field into a 16-byte key, surfacing
// ErrInvalidKeyMaterial (wrapped with the offending field name) on any
// length mismatch or malformed hex string.
func decodeKey(field, hex32 string) ([16]byte, error) {
	var key [16]byte
	raw, err := hex.DecodeString(hex32)
	if err != nil {
		return key, fmt.Errorf("store: %s: %w", field, meshnet.ErrInvalidKeyMaterial)
	}
	if len(raw) != 16 {
		return key, fmt.Errorf("store: %s: %w", field, meshnet.ErrInvalidKeyMaterial)
	}
	copy(key[:], raw)
	return key, nil
}

// ToNetwork converts a Document into an in-memory meshnet.Network, decoding
// every hex32 key field. The first node's device key convention matches
// meshnet.Network.ProvisionerDevKey only if the caller designates it so;
// ToNetwork itself does not guess which node (if any) is the provisioner,
// since the document schema carries no such flag — leaving
// ProvisionerDevKey zeroed is the caller's signal to set it explicitly.
func (d Document) ToNetwork(id uuid.UUID) (*meshnet.Network, error) {
	net := meshnet.NewNetwork(id.String(), d.IVIndex, d.SequenceNumber)
	net.Name = d.Name
	net.NextUnicastAddress = d.LowerAddress

	net.NetKeys = make([]meshnet.NetKey, len(d.NetKeys))
	for i, nk := range d.NetKeys {
		key, err := decodeKey(fmt.Sprintf("netKeys[%d].key", i), nk.Key)
		if err != nil {
			return nil, err
		}
		net.NetKeys[i] = meshnet.NetKey{Index: nk.Refresh, Key: key}
	}

	net.AppKeys = make([]meshnet.AppKey, len(d.AppKeys))
	for i, ak := range d.AppKeys {
		key, err := decodeKey(fmt.Sprintf("appKeys[%d].key", i), ak.Key)
		if err != nil {
			return nil, err
		}
		net.AppKeys[i] = meshnet.AppKey{
			Index:            uint16(i),
			Key:              key,
			BoundNetKeyIndex: ak.BoundNetKey,
		}
	}

	net.Nodes = make([]meshnet.Node, len(d.Nodes))
	for i, n := range d.Nodes {
		key, err := decodeKey(fmt.Sprintf("nodes[%d].key", i), n.Key)
		if err != nil {
			return nil, err
		}
		net.Nodes[i] = meshnet.Node{
			UnicastAddress: n.Unicast,
			DevKey:         key,
			Name:           n.Name,
		}
	}

	return net, nil
}

// FromNetwork converts a meshnet.Network into its persisted Document
// shape, the inverse of ToNetwork.
func FromNetwork(net *meshnet.Network, timestamp time.Time) Document {
	doc := Document{
		Name:           net.Name,
		LowerAddress:   net.NextUnicastAddress,
		IVIndex:        net.IVIndex(),
		SequenceNumber: net.SequenceNumber(),
		Timestamp:      timestamp,
	}

	doc.NetKeys = make([]DocumentNetKey, len(net.NetKeys))
	for i, nk := range net.NetKeys {
		doc.NetKeys[i] = DocumentNetKey{Refresh: nk.Index, Key: hex.EncodeToString(nk.Key[:])}
	}

	doc.AppKeys = make([]DocumentAppKey, len(net.AppKeys))
	for i, ak := range net.AppKeys {
		doc.AppKeys[i] = DocumentAppKey{Key: hex.EncodeToString(ak.Key[:]), BoundNetKey: ak.BoundNetKeyIndex}
	}

	doc.Nodes = make([]DocumentNode, len(net.Nodes))
	for i, n := range net.Nodes {
		doc.Nodes[i] = DocumentNode{Unicast: n.UnicastAddress, Key: hex.EncodeToString(n.DevKey[:]), Name: n.Name}
	}

	return doc
}
