package crypto

import (
	"crypto/aes"
	"errors"

	"github.com/pion/dtls/v3/pkg/crypto/ccm"
)

// NonceSize is the fixed AES-CCM nonce length used throughout the mesh
// transport and network layers.
const NonceSize = 13

// Supported MIC lengths (mesh profile only ever uses these two).
const (
	MICSizeTransport = 4
	MICSizeNetwork   = 8
)

var (
	// ErrInvalidMICSize is returned when mic_len is not 4 or 8.
	ErrInvalidMICSize = errors.New("crypto: mic length must be 4 or 8 bytes")
	// ErrInvalidNonceSize is returned when a nonce is not 13 bytes.
	ErrInvalidNonceSize = errors.New("crypto: nonce must be 13 bytes")
)

// CCMSeal runs AES-CCM with empty associated data over plaintext, returning
// ciphertext || mic. micLen must be 4 or 8 bytes. This wraps the pion/dtls
// CCM implementation rather than hand-rolling AES-CCM, per the requirement
// that CCM/CMAC primitives come from an audited library.
func CCMSeal(key [16]byte, nonce [13]byte, plaintext []byte, micLen int) ([]byte, error) {
	aead, err := newCCM(key, micLen)
	if err != nil {
		return nil, err
	}
	return aead.Seal(nil, nonce[:], plaintext, nil), nil
}

// CCMOpen is the inverse of CCMSeal. It is not exercised by the outbound
// pipeline (inbound decryption is out of scope) but is kept alongside Seal
// because any constant-time AEAD worth using exposes both directions, and
// tests use it to check that CCMSeal output opens back to the plaintext.
func CCMOpen(key [16]byte, nonce [13]byte, ciphertext []byte, micLen int) ([]byte, error) {
	aead, err := newCCM(key, micLen)
	if err != nil {
		return nil, err
	}
	return aead.Open(nil, nonce[:], ciphertext, nil)
}

func newCCM(key [16]byte, micLen int) (ccmAEAD, error) {
	if micLen != MICSizeTransport && micLen != MICSizeNetwork {
		return nil, ErrInvalidMICSize
	}
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}
	return ccm.NewCCM(block, micLen, NonceSize)
}

// ccmAEAD is the subset of crypto/cipher.AEAD that pion/dtls's ccm.CCM
// implements; declared locally so this file only depends on the method
// shapes it actually calls.
type ccmAEAD interface {
	Seal(dst, nonce, plaintext, additionalData []byte) []byte
	Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error)
}
