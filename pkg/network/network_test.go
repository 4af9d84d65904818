package network

import (
	"bytes"
	"testing"
)

func TestNonceLayout(t *testing.T) {
	n := Nonce(37, 0x7F16, false, 7, 0x12345678)
	want := [13]byte{
		0x00,
		0x07, // CTL=0, TTL=7
		0x00, 0x00, 0x25,
		0x7F, 0x16,
		0x00, 0x00,
		0x12, 0x34, 0x56, 0x78,
	}
	if n != want {
		t.Errorf("Nonce() = %x, want %x", n, want)
	}
}

func TestHeaderIVIBit(t *testing.T) {
	h := Header(0x00000001, 0x68, false, 7, 37, 0x7F16)
	if h[0]&0x80 == 0 {
		t.Errorf("IVI bit not set for odd iv_index")
	}
	h2 := Header(0x00000002, 0x68, false, 7, 37, 0x7F16)
	if h2[0]&0x80 != 0 {
		t.Errorf("IVI bit set for even iv_index")
	}
}

func TestHeaderFields(t *testing.T) {
	h := Header(0x12345678, 0x68, false, 7, 37, 0x7F16)
	want := [HeaderSize]byte{
		0x68,       // IVI(0)<<7 | NID
		0x07,       // CTL=0 | TTL
		0, 0, 0x25, // seq
		0x7F, 0x16, // src
	}
	if h != want {
		t.Errorf("Header() = %x, want %x", h, want)
	}
}

// TestObfuscateRoundTrip checks universal property #6: XORing the
// obfuscated header's bytes 1..6 with the recomputed PECB recovers the
// cleartext header bit-exactly, and byte 0 is untouched.
func TestObfuscateRoundTrip(t *testing.T) {
	var privacyKey [16]byte
	copy(privacyKey[:], []byte{0x8b, 0x84, 0xee, 0xde, 0xc1, 0x00, 0x06, 0x7d, 0x67, 0x09, 0x71, 0xdd, 0x2a, 0xa7, 0x00, 0xcf})
	header := Header(0x12345678, 0x68, false, 7, 37, 0x7F16)
	encPayload := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09}

	obfuscated, err := Obfuscate(privacyKey, header, encPayload, 0x12345678, Options{})
	if err != nil {
		t.Fatalf("Obfuscate() error: %v", err)
	}
	if obfuscated[0] != header[0] {
		t.Errorf("byte 0 changed: got %#x, want %#x", obfuscated[0], header[0])
	}

	recovered, err := Deobfuscate(privacyKey, obfuscated, encPayload, 0x12345678, Options{})
	if err != nil {
		t.Fatalf("Deobfuscate() error: %v", err)
	}
	if recovered != header {
		t.Errorf("Deobfuscate() = %x, want %x", recovered, header)
	}
}

func TestPrivacyRandomLayoutDiffersByMode(t *testing.T) {
	encPayload := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	conformant := PrivacyRandom(encPayload, 0x12345678, Options{})
	legacy := PrivacyRandom(encPayload, 0x12345678, Options{LegacyPrivacyRandom: true})

	if bytes.Equal(conformant[:], legacy[:]) {
		t.Errorf("conformant and legacy privacy-random blocks should differ")
	}
	// Spec-conformant layout carries the IV index at bytes 5..8.
	if conformant[5] != 0x12 || conformant[6] != 0x34 || conformant[7] != 0x56 || conformant[8] != 0x78 {
		t.Errorf("conformant PrivacyRandom() = %x, iv_index not at bytes 5..8", conformant)
	}
	// Legacy layout zero-pads bytes 12..15 instead.
	if legacy[12] != 0 || legacy[13] != 0 || legacy[14] != 0 || legacy[15] != 0 {
		t.Errorf("legacy PrivacyRandom() = %x, want zero padding at bytes 12..15", legacy)
	}
}

func TestEncodeLength(t *testing.T) {
	var encKey, privacyKey [16]byte
	transportPDU := bytes.Repeat([]byte{0xAA}, 10) // 6-byte model message + 4-byte transport MIC

	pdu, err := Encode(encKey, privacyKey, 0x68, false, 7, 37, 0x7F16, 0x12345678, transportPDU, Options{})
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	want := HeaderSize + len(transportPDU) + MICSize
	if len(pdu) != want {
		t.Errorf("len(pdu) = %d, want %d", len(pdu), want)
	}
}

func TestEncodeDeterministic(t *testing.T) {
	var encKey, privacyKey [16]byte
	transportPDU := []byte{0x01, 0x02, 0x03}

	a, err := Encode(encKey, privacyKey, 0x01, false, 1, 1, 1, 1, transportPDU, Options{})
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	b, err := Encode(encKey, privacyKey, 0x01, false, 1, 1, 1, 1, transportPDU, Options{})
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Errorf("Encode() not deterministic: %x != %x", a, b)
	}
}
