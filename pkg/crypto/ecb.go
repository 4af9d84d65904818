// Package crypto provides the cryptographic primitives used by the mesh
// outbound PDU pipeline: single-block AES-ECB, AES-CMAC, AES-CCM, and the
// mesh-specific s1/K2 key derivations.
package crypto

import (
	"crypto/aes"
	"errors"
)

// BlockSize is the AES block size in bytes.
const BlockSize = 16

// ErrInvalidKeySize is returned when a key is not exactly 16 bytes.
var ErrInvalidKeySize = errors.New("crypto: key must be 16 bytes")

// ErrInvalidBlockSize is returned when a block is not exactly 16 bytes.
var ErrInvalidBlockSize = errors.New("crypto: block must be 16 bytes")

// ECBEncryptBlock performs a single AES-128 block encryption: e(key, block).
// This is AES-ECB on exactly one block, used as the PECB primitive for
// network-header obfuscation.
func ECBEncryptBlock(key, block [16]byte) ([16]byte, error) {
	cipher, err := aes.NewCipher(key[:])
	if err != nil {
		return [16]byte{}, err
	}
	var out [16]byte
	cipher.Encrypt(out[:], block[:])
	return out, nil
}

// ECBEncryptBlockSlice is a slice-based convenience wrapper around
// ECBEncryptBlock for callers that don't already hold fixed-size arrays.
func ECBEncryptBlockSlice(key, block []byte) ([]byte, error) {
	if len(key) != BlockSize {
		return nil, ErrInvalidKeySize
	}
	if len(block) != BlockSize {
		return nil, ErrInvalidBlockSize
	}
	var k, b [16]byte
	copy(k[:], key)
	copy(b[:], block)
	out, err := ECBEncryptBlock(k, b)
	if err != nil {
		return nil, err
	}
	return out[:], nil
}

// Zero overwrites a byte slice with zeros. Call this on derived key material
// (T, T1, EncKey, PrivacyKey) once it is no longer needed.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
