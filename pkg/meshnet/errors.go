package meshnet

import (
	"errors"
	"fmt"
)

// Errors surfaced by the data model and, by re-export, the access layer
// that consumes it. These are the kinds named in the error taxonomy: each
// is raised synchronously, never recovered locally.
var (
	// ErrUnknownKey is raised when a KeySelector refers to an AppKey index
	// that does not exist, or a network has no NetKeys to bind to.
	ErrUnknownKey = errors.New("meshnet: unknown key")

	// ErrPayloadTooLarge is raised when a model message exceeds the
	// unsegmented upper-transport payload limit.
	ErrPayloadTooLarge = errors.New("meshnet: payload exceeds unsegmented limit")

	// ErrInvalidAddress is raised when src is not a unicast address or ttl
	// exceeds 127.
	ErrInvalidAddress = errors.New("meshnet: invalid address or ttl")

	// ErrInvalidKeyMaterial is raised when a key is not exactly 16 bytes.
	ErrInvalidKeyMaterial = errors.New("meshnet: key material must be 16 bytes")

	// ErrSequenceExhausted is raised when seq would exceed 24 bits.
	ErrSequenceExhausted = errors.New("meshnet: sequence number exhausted")

	// ErrNoNetKeys is raised when a network has zero NetKeys. It wraps
	// ErrUnknownKey, so errors.Is(err, ErrUnknownKey) also holds.
	ErrNoNetKeys = fmt.Errorf("%w: network has no net keys", ErrUnknownKey)

	// ErrBoundNetKeyMissing is raised when an AppKey's BoundNetKeyIndex
	// does not resolve to an existing NetKey.
	ErrBoundNetKeyMissing = errors.New("meshnet: app key bound to missing net key")

	// ErrIVIndexDecreased is raised when SetIVIndex is called with a value
	// lower than the current iv_index.
	ErrIVIndexDecreased = errors.New("meshnet: iv_index must be monotonically non-decreasing")
)
