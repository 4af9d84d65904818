package access

import (
	"errors"
	"testing"

	"github.com/meshwire/provisioner-core/pkg/meshnet"
)

// sampleNetwork mirrors pkg/meshnet's own sample fixture: one net key, one
// app key bound to it, and a provisioner dev key, at iv_index 0x12345678
// and sequence_number 37.
func sampleNetwork() *meshnet.Network {
	n := meshnet.NewNetwork("11111111-2222-3333-4444-555555555555", 0x12345678, 37)
	n.NetKeys = []meshnet.NetKey{{Index: 0, Key: [16]byte{0x7d, 0xd7, 0x36, 0x4c, 0xd8, 0x42, 0xad, 0x18, 0xc1, 0x7c, 0x2b, 0x82, 0x0c, 0x84, 0xc3, 0xd6}}}
	n.AppKeys = []meshnet.AppKey{{Index: 0, BoundNetKeyIndex: 0, Key: [16]byte{1, 2, 3}}}
	n.ProvisionerDevKey = [16]byte{9, 9, 9}
	return n
}

var sampleModelMessage = []byte{0x59, 0x00, 0x06, 0x00, 0xe0, 0x01}

// sampleNID is s1/K2's derived NID for sampleNetwork's single net key, also
// checked directly in pkg/crypto/kdf_test.go.
const sampleNID = 0x68

// TestUniversalPropertyLength checks §8 property #1:
// |NetworkPDU| == 19 + |model_message| under the default Options, where no
// transport control byte is emitted.
func TestUniversalPropertyLength(t *testing.T) {
	for _, n := range []int{1, 6, 11} {
		msg := make([]byte, n)
		copy(msg, sampleModelMessage)
		pdu, err := BuildNetworkPDU(nil, sampleNetwork(), msg, meshnet.AppKeyIndex(0), 37, 0x7F16, 0x000C, 7, Options{})
		if err != nil {
			t.Fatalf("BuildNetworkPDU(len=%d) error: %v", n, err)
		}
		if want := 19 + n; len(pdu) != want {
			t.Errorf("len(pdu) = %d, want %d for model message length %d", len(pdu), want, n)
		}
	}
}

// TestUniversalPropertyNIDByte checks §8 property: byte 0's low 7 bits carry
// the NID derived from the bound net key, untouched by obfuscation (which
// only ever XORs bytes 1..6).
func TestUniversalPropertyNIDByte(t *testing.T) {
	pdu, err := BuildNetworkPDU(nil, sampleNetwork(), sampleModelMessage, meshnet.AppKeyIndex(0), 37, 0x7F16, 0x000C, 7, Options{})
	if err != nil {
		t.Fatalf("BuildNetworkPDU() error: %v", err)
	}
	if got := pdu[0] & 0x7F; got != sampleNID {
		t.Errorf("pdu[0]&0x7F = %#x, want %#x", got, sampleNID)
	}
}

// TestUniversalPropertyDeterministic checks that building the same PDU
// twice with the same inputs produces byte-identical output.
func TestUniversalPropertyDeterministic(t *testing.T) {
	a, err := BuildNetworkPDU(nil, sampleNetwork(), sampleModelMessage, meshnet.AppKeyIndex(0), 37, 0x7F16, 0x000C, 7, Options{})
	if err != nil {
		t.Fatalf("BuildNetworkPDU() error: %v", err)
	}
	b, err := BuildNetworkPDU(nil, sampleNetwork(), sampleModelMessage, meshnet.AppKeyIndex(0), 37, 0x7F16, 0x000C, 7, Options{})
	if err != nil {
		t.Fatalf("BuildNetworkPDU() error: %v", err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("BuildNetworkPDU() not deterministic at byte %d: %x != %x", i, a, b)
		}
	}
}

// TestUniversalPropertySeqChangesPDU checks that varying seq alone changes
// the PDU (the nonce, and therefore every downstream ciphertext byte,
// depends on it).
func TestUniversalPropertySeqChangesPDU(t *testing.T) {
	a, err := BuildNetworkPDU(nil, sampleNetwork(), sampleModelMessage, meshnet.AppKeyIndex(0), 37, 0x7F16, 0x000C, 7, Options{})
	if err != nil {
		t.Fatalf("BuildNetworkPDU() error: %v", err)
	}
	b, err := BuildNetworkPDU(nil, sampleNetwork(), sampleModelMessage, meshnet.AppKeyIndex(0), 38, 0x7F16, 0x000C, 7, Options{})
	if err != nil {
		t.Fatalf("BuildNetworkPDU() error: %v", err)
	}
	equal := true
	for i := range a {
		if a[i] != b[i] {
			equal = false
			break
		}
	}
	if equal {
		t.Errorf("changing seq did not change the PDU")
	}
}

// TestUniversalPropertyDevVsAppDiffer checks that resolving through the
// device key path versus an app key path for otherwise identical inputs
// produces different ciphertext.
func TestUniversalPropertyDevVsAppDiffer(t *testing.T) {
	app, err := BuildNetworkPDU(nil, sampleNetwork(), sampleModelMessage, meshnet.AppKeyIndex(0), 37, 0x7F16, 0x000C, 7, Options{})
	if err != nil {
		t.Fatalf("BuildNetworkPDU(app) error: %v", err)
	}
	dev, err := BuildNetworkPDU(nil, sampleNetwork(), sampleModelMessage, meshnet.DevKey(), 37, 0x7F16, 0x000C, 7, Options{})
	if err != nil {
		t.Fatalf("BuildNetworkPDU(dev) error: %v", err)
	}
	equal := len(app) == len(dev)
	if equal {
		for i := range app {
			if app[i] != dev[i] {
				equal = false
				break
			}
		}
	}
	if equal {
		t.Errorf("app key and dev key paths produced identical PDUs")
	}
}

// TestUniversalPropertyIncludeControlByteAddsOneLength checks that opting
// into the spec-conformant transport control byte grows the PDU by exactly
// one byte over the default layout.
func TestUniversalPropertyIncludeControlByteAddsOneLength(t *testing.T) {
	withoutByte, err := BuildNetworkPDU(nil, sampleNetwork(), sampleModelMessage, meshnet.AppKeyIndex(0), 37, 0x7F16, 0x000C, 7, Options{})
	if err != nil {
		t.Fatalf("BuildNetworkPDU() error: %v", err)
	}
	withByte, err := BuildNetworkPDU(nil, sampleNetwork(), sampleModelMessage, meshnet.AppKeyIndex(0), 37, 0x7F16, 0x000C, 7, Options{IncludeTransportControlByte: true})
	if err != nil {
		t.Fatalf("BuildNetworkPDU() error: %v", err)
	}
	if len(withByte) != len(withoutByte)+1 {
		t.Errorf("len(withByte) = %d, want %d", len(withByte), len(withoutByte)+1)
	}
}

// TestScenarioS1AppKeyPath is spec.md §8 scenario S1.
func TestScenarioS1AppKeyPath(t *testing.T) {
	pdu, err := BuildNetworkPDU(nil, sampleNetwork(), sampleModelMessage, meshnet.AppKeyIndex(0), 37, 0x7F16, 0x000C, 7, Options{})
	if err != nil {
		t.Fatalf("BuildNetworkPDU() error: %v", err)
	}
	if len(pdu) == 0 {
		t.Fatalf("BuildNetworkPDU() returned empty PDU")
	}
	if len(pdu) != 25 {
		t.Errorf("len(pdu) = %d, want 25", len(pdu))
	}
	if got := pdu[0] & 0x7F; got != sampleNID {
		t.Errorf("pdu[0]&0x7F = %#x, want %#x", got, sampleNID)
	}
}

// TestScenarioS2DevKeyPath is spec.md §8 scenario S2.
func TestScenarioS2DevKeyPath(t *testing.T) {
	pdu, err := BuildNetworkPDU(nil, sampleNetwork(), sampleModelMessage, meshnet.DevKey(), 37, 0x7F16, 0x000C, 7, Options{})
	if err != nil {
		t.Fatalf("BuildNetworkPDU() error: %v", err)
	}
	if len(pdu) != 25 {
		t.Errorf("len(pdu) = %d, want 25", len(pdu))
	}
}

// TestScenarioS3MaxModelMessage checks the 11-byte model message upper
// bound is accepted.
func TestScenarioS3MaxModelMessage(t *testing.T) {
	msg := make([]byte, MaxModelMessageSize)
	for i := range msg {
		msg[i] = byte(i)
	}
	pdu, err := BuildNetworkPDU(nil, sampleNetwork(), msg, meshnet.AppKeyIndex(0), 37, 0x7F16, 0x000C, 7, Options{})
	if err != nil {
		t.Fatalf("BuildNetworkPDU() error: %v", err)
	}
	if want := 19 + MaxModelMessageSize; len(pdu) != want {
		t.Errorf("len(pdu) = %d, want %d", len(pdu), want)
	}
}

// TestScenarioS4OversizeModelMessage checks that exceeding
// MaxModelMessageSize is rejected.
func TestScenarioS4OversizeModelMessage(t *testing.T) {
	msg := make([]byte, MaxModelMessageSize+1)
	_, err := BuildNetworkPDU(nil, sampleNetwork(), msg, meshnet.AppKeyIndex(0), 37, 0x7F16, 0x000C, 7, Options{})
	if !errors.Is(err, meshnet.ErrPayloadTooLarge) {
		t.Errorf("err = %v, want ErrPayloadTooLarge", err)
	}
}

// TestScenarioS5EmptyModelMessage checks that an empty model message is
// rejected.
func TestScenarioS5EmptyModelMessage(t *testing.T) {
	_, err := BuildNetworkPDU(nil, sampleNetwork(), nil, meshnet.AppKeyIndex(0), 37, 0x7F16, 0x000C, 7, Options{})
	if !errors.Is(err, meshnet.ErrPayloadTooLarge) {
		t.Errorf("err = %v, want ErrPayloadTooLarge", err)
	}
}

// TestScenarioS6UnknownAppIndex is spec.md §8 scenario S6: selecting an
// app_idx beyond the network's known app keys returns UnknownKey.
func TestScenarioS6UnknownAppIndex(t *testing.T) {
	n := sampleNetwork()
	sel := meshnet.AppKeyIndex(uint16(len(n.AppKeys)))
	_, err := BuildNetworkPDU(nil, n, sampleModelMessage, sel, 37, 0x7F16, 0x000C, 7, Options{})
	if !errors.Is(err, meshnet.ErrUnknownKey) {
		t.Errorf("err = %v, want ErrUnknownKey", err)
	}
}

func TestBuildNetworkPDUInvalidSrc(t *testing.T) {
	_, err := BuildNetworkPDU(nil, sampleNetwork(), sampleModelMessage, meshnet.AppKeyIndex(0), 37, 0x0000, 0x000C, 7, Options{})
	if !errors.Is(err, meshnet.ErrInvalidAddress) {
		t.Errorf("err = %v, want ErrInvalidAddress", err)
	}
}

func TestBuildNetworkPDUInvalidTTL(t *testing.T) {
	_, err := BuildNetworkPDU(nil, sampleNetwork(), sampleModelMessage, meshnet.AppKeyIndex(0), 37, 0x7F16, 0x000C, 128, Options{})
	if !errors.Is(err, meshnet.ErrInvalidAddress) {
		t.Errorf("err = %v, want ErrInvalidAddress", err)
	}
}
