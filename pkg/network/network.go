package network

import (
	"encoding/binary"

	"github.com/meshwire/provisioner-core/pkg/crypto"
)

// MICSize is the 64-bit network MIC size used by every network PDU.
const MICSize = crypto.MICSizeNetwork

// HeaderSize is the cleartext network header size in bytes.
const HeaderSize = 7

// Options gates the privacy-random layout, which spec.md's DESIGN NOTES
// call out as an open question, rather than letting it change silently.
// The default zero value is spec-conformant.
type Options struct {
	// LegacyPrivacyRandom reproduces the documented deviation where the
	// privacy-random block is zero-padded at bytes 12..15 instead of
	// carrying the IV index, as spec.md §9 found in the original source.
	// Defaults to false (spec-conformant IV-index-at-bytes-5..8 layout per
	// Mesh Profile 3.8.7.3).
	LegacyPrivacyRandom bool
}

// Header assembles the 7-byte cleartext network header:
//
//	offset 0:   (IVI<<7) | (NID & 0x7F), IVI = bit 0 of iv_index
//	offset 1:   (CTL<<7) | (TTL & 0x7F)
//	offset 2-4: seq (24-bit, big-endian)
//	offset 5-6: src (16-bit, big-endian)
func Header(ivIndex uint32, nid byte, ctl bool, ttl uint8, seq uint32, src uint16) [HeaderSize]byte {
	var h [HeaderSize]byte
	ivi := byte(ivIndex & 0x01)
	h[0] = (ivi << 7) | (nid & 0x7F)
	h[1] = ctlTTLByte(ctl, ttl)
	putUint24(h[2:5], seq)
	binary.BigEndian.PutUint16(h[5:7], src)
	return h
}

// Encrypt runs AES-CCM with a 64-bit MIC over the transport PDU, returning
// enc_dst_and_payload = ciphertext || mic. Despite the name, the network
// nonce carries no destination field (see Nonce); "enc_dst_and_payload"
// is the Mesh Profile's name for this value, kept here for traceability
// against the spec rather than invented afresh.
func Encrypt(encKey [16]byte, nonce [13]byte, transportPDU []byte) ([]byte, error) {
	return crypto.CCMSeal(encKey, nonce, transportPDU, MICSize)
}

// PrivacyRandom builds the 16-byte privacy-random block used to derive
// PECB:
//
//	spec-conformant (Mesh Profile 3.8.7.3):
//	  bytes 0-4:   0x00 * 5
//	  bytes 5-8:   iv_index (32-bit, big-endian)
//	  bytes 9-15:  first 7 bytes of enc_dst_and_payload, zero-padded
//
//	legacy (Options.LegacyPrivacyRandom):
//	  bytes 0-4:   0x00 * 5
//	  bytes 5-11:  first 7 bytes of enc_dst_and_payload, zero-padded
//	  bytes 12-15: 0x00 * 4
func PrivacyRandom(encPayload []byte, ivIndex uint32, opts Options) [16]byte {
	var pr [16]byte
	n := len(encPayload)
	if n > 7 {
		n = 7
	}
	if opts.LegacyPrivacyRandom {
		copy(pr[5:5+n], encPayload[:n])
		return pr
	}
	binary.BigEndian.PutUint32(pr[5:9], ivIndex)
	copy(pr[9:9+n], encPayload[:n])
	return pr
}

// Obfuscate derives PECB = AES-ECB(privacyKey, privacyRandom) and XORs it
// into header bytes 1..6, leaving byte 0 (IVI|NID) unchanged.
func Obfuscate(privacyKey [16]byte, header [HeaderSize]byte, encPayload []byte, ivIndex uint32, opts Options) ([HeaderSize]byte, error) {
	privacyRandom := PrivacyRandom(encPayload, ivIndex, opts)
	pecb, err := crypto.ECBEncryptBlock(privacyKey, privacyRandom)
	if err != nil {
		return [HeaderSize]byte{}, err
	}

	obfuscated := header
	for i := 1; i < HeaderSize; i++ {
		obfuscated[i] ^= pecb[i-1]
	}
	return obfuscated, nil
}

// Deobfuscate reverses Obfuscate; XOR is its own inverse, so this is the
// same operation. It exists under its own name because it is the
// operation a receiver (out of scope for this module, but exercised by
// the round-trip test in §8 property 6) would call.
func Deobfuscate(privacyKey [16]byte, obfuscated [HeaderSize]byte, encPayload []byte, ivIndex uint32, opts Options) ([HeaderSize]byte, error) {
	return Obfuscate(privacyKey, obfuscated, encPayload, ivIndex, opts)
}

// Encode runs the full network-layer pipeline: authenticate-and-encrypt
// the transport PDU, assemble the cleartext header, obfuscate it, and
// concatenate obfuscated_header || enc_dst_and_payload.
func Encode(encKey, privacyKey [16]byte, nid byte, ctl bool, ttl uint8, seq uint32, src uint16, ivIndex uint32, transportPDU []byte, opts Options) ([]byte, error) {
	nonce := Nonce(seq, src, ctl, ttl, ivIndex)
	encPayload, err := Encrypt(encKey, nonce, transportPDU)
	if err != nil {
		return nil, err
	}

	header := Header(ivIndex, nid, ctl, ttl, seq, src)
	obfuscated, err := Obfuscate(privacyKey, header, encPayload, ivIndex, opts)
	if err != nil {
		return nil, err
	}

	pdu := make([]byte, HeaderSize+len(encPayload))
	copy(pdu, obfuscated[:])
	copy(pdu[HeaderSize:], encPayload)
	return pdu, nil
}
