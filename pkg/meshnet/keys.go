package meshnet

// NetKey is a mesh network key shared by every node on a subnet.
type NetKey struct {
	// Index is the 16-bit NetKey index (< 4096).
	Index uint16
	// Key is the 16-byte AES-128 network key.
	Key [16]byte
	// Name is a human-readable label, not used by the crypto pipeline.
	Name string
}

// Validate checks the NetKey invariants from the data model: index below
// 4096. Key is always exactly 16 bytes by construction of the [16]byte
// field, so only the index range needs an explicit check.
func (k NetKey) Validate() error {
	if k.Index >= 4096 {
		return ErrInvalidKeyMaterial
	}
	return nil
}

// AppKey is an application key bound to exactly one NetKey.
type AppKey struct {
	// Index is the 16-bit AppKey index (< 4096).
	Index uint16
	// Key is the 16-byte AES-128 application key.
	Key [16]byte
	// BoundNetKeyIndex references the NetKey this AppKey is bound to.
	BoundNetKeyIndex uint16
	// Name is a human-readable label.
	Name string
}

// Validate checks the AppKey invariants: index below 4096 and never equal
// to the device-key sentinel.
func (k AppKey) Validate() error {
	if k.Index >= 4096 || k.Index == AppIdxDev {
		return ErrInvalidKeyMaterial
	}
	return nil
}

// Element describes one addressable element within a Node. Only the fields
// the outbound pipeline cares about are modeled; model-layer state
// (bound models, subscriptions) lives outside the core.
type Element struct {
	// Index is the element's position within the node (0-based).
	Index uint8
	// Name is a human-readable label.
	Name string
}

// Node is a provisioned mesh node known to the provisioner.
type Node struct {
	// UUID identifies the node (assigned during provisioning).
	UUID string
	// UnicastAddress is the node's primary unicast address, in
	// 0x0001..0x7FFF.
	UnicastAddress uint16
	// DevKey is the node's 16-byte device key.
	DevKey [16]byte
	// Elements lists the node's addressable elements.
	Elements []Element
	// Name is a human-readable label.
	Name string
	// Features records the node's supported features (relay, proxy, friend,
	// low power), carried for completeness though the outbound pipeline
	// does not branch on them.
	Features NodeFeatures
}

// NodeFeatures records which optional mesh features a node advertises
// support for. None of these gate outbound PDU construction today, but a
// provisioner needs them to decide, e.g., whether to route through a relay
// — a decision made by the (out-of-scope) transport layer, not here.
type NodeFeatures struct {
	Relay    bool
	Proxy    bool
	Friend   bool
	LowPower bool
}

// Validate checks the Node invariant: UnicastAddress is a valid unicast
// address.
func (n Node) Validate() error {
	if n.UnicastAddress == 0 || n.UnicastAddress > 0x7FFF {
		return ErrInvalidAddress
	}
	return nil
}
