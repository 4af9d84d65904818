package meshnet

import "sync"

// maxSequenceNumber is the largest value a 24-bit sequence number can hold.
const maxSequenceNumber = 1<<24 - 1

// Network is the in-memory, mostly-immutable view of a provisioned mesh
// network: its UUID, key material, and the provisioner's own device key.
// The only fields the outbound pipeline mutates are SequenceNumber
// (incremented per transmit) and IVIndex (rotated externally); both are
// guarded by mu so concurrent callers can acquire a unique seq atomically,
// mirroring how session.SecureContext guards its counters in the teacher.
type Network struct {
	mu sync.Mutex

	// UUID identifies this network, matching the persisted document's
	// top-level key.
	UUID string
	// Name is a human-readable label.
	Name string

	// ivIndex is the 32-bit IV index, monotonically non-decreasing.
	ivIndex uint32
	// sequenceNumber is the 24-bit per-source sequence counter.
	sequenceNumber uint32

	// NetKeys lists every network key known to this network. Must contain
	// at least one entry.
	NetKeys []NetKey
	// AppKeys lists every application key known to this network.
	AppKeys []AppKey
	// ProvisionerDevKey is the provisioner's own 16-byte device key, used
	// when a KeySelector selects DevKey().
	ProvisionerDevKey [16]byte
	// Nodes lists every provisioned node known to this network.
	Nodes []Node
	// NextUnicastAddress is the next free unicast address to hand out
	// during provisioning (14-bit range); unused by the outbound pipeline
	// itself but carried as part of the persisted document.
	NextUnicastAddress uint16
}

// NewNetwork constructs a Network with the given initial iv_index and
// sequence_number. It validates nothing; ResolveKey later checks only that
// the keys a selector needs are present, and does not call the Validate
// methods of NetKey or AppKey.
func NewNetwork(uuid string, ivIndex, sequenceNumber uint32) *Network {
	return &Network{
		UUID:           uuid,
		ivIndex:        ivIndex,
		sequenceNumber: sequenceNumber & maxSequenceNumber,
	}
}

// IVIndex returns the current IV index.
func (n *Network) IVIndex() uint32 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.ivIndex
}

// SetIVIndex rotates the IV index. Per the data model invariant, iv_index
// must be monotonically non-decreasing.
func (n *Network) SetIVIndex(v uint32) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if v < n.ivIndex {
		return ErrIVIndexDecreased
	}
	n.ivIndex = v
	return nil
}

// SequenceNumber returns the current sequence number without consuming it.
func (n *Network) SequenceNumber() uint32 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.sequenceNumber
}

// NextSequence atomically fetches and increments the sequence number,
// returning the value to use for the PDU about to be built. This is the
// concurrency hinge: callers multiplexing transmission across goroutines
// must go through NextSequence rather than reading SequenceNumber and
// incrementing it themselves, so each PDU carries a unique (iv_index, seq).
func (n *Network) NextSequence() (uint32, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.sequenceNumber >= maxSequenceNumber {
		return 0, ErrSequenceExhausted
	}
	seq := n.sequenceNumber
	n.sequenceNumber++
	return seq, nil
}

// ResolvedKey is the outcome of resolving a KeySelector against a Network:
// the net key to derive K2 from, the application-or-device key to encrypt
// with, and the transport nonce type byte (0x01 application, 0x02 device).
type ResolvedKey struct {
	NetKey    [16]byte
	Key       [16]byte
	NonceType byte
}

const (
	nonceTypeApplication byte = 0x01
	nonceTypeDevice      byte = 0x02
)

// ResolveKey looks up the (net_key, app_or_dev_key, nonce_type) triple for
// a KeySelector. For DevKey() it binds to the network's first NetKey, since
// the device key is not itself bound to any particular NetKey in the data
// model — any NetKey present identifies the subnet to derive NID/EncKey/
// PrivacyKey from.
func (n *Network) ResolveKey(sel KeySelector) (ResolvedKey, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if len(n.NetKeys) == 0 {
		return ResolvedKey{}, ErrNoNetKeys
	}

	if sel.IsDevKey() {
		return ResolvedKey{
			NetKey:    n.NetKeys[0].Key,
			Key:       n.ProvisionerDevKey,
			NonceType: nonceTypeDevice,
		}, nil
	}

	idx := int(sel.AppIndex())
	if idx < 0 || idx >= len(n.AppKeys) {
		return ResolvedKey{}, ErrUnknownKey
	}
	appKey := n.AppKeys[idx]

	netKey, ok := n.netKeyByIndex(appKey.BoundNetKeyIndex)
	if !ok {
		return ResolvedKey{}, ErrBoundNetKeyMissing
	}

	return ResolvedKey{
		NetKey:    netKey.Key,
		Key:       appKey.Key,
		NonceType: nonceTypeApplication,
	}, nil
}

// netKeyByIndex finds a NetKey by its stored Index field. Callers must
// hold n.mu.
func (n *Network) netKeyByIndex(index uint16) (NetKey, bool) {
	for _, k := range n.NetKeys {
		if k.Index == index {
			return k, true
		}
	}
	return NetKey{}, false
}
