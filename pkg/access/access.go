// Package access implements the Bluetooth Mesh access layer: packaging a
// model-layer opcode+parameters byte string, selecting the encryption key,
// and chaining the transport and network layers to produce the final
// obfuscated network PDU ready for a Mesh Proxy link.
//
// The transport control byte's AID field is left at zero (see
// pkg/transport.HeaderByte) — deriving the real application-key
// identifier is Mesh Profile's K4 function, which this module does not
// implement. The control byte itself is emitted only when
// Options.IncludeTransportControlByte is set, and the destination address
// is not carried in the network PDU (it enters only the transport nonce),
// so the output is not byte-exact against Mesh Profile v1.0.1 §3.8 in
// those respects.
package access

import (
	"fmt"

	"github.com/pion/logging"

	"github.com/meshwire/provisioner-core/pkg/crypto"
	"github.com/meshwire/provisioner-core/pkg/meshnet"
	"github.com/meshwire/provisioner-core/pkg/network"
	"github.com/meshwire/provisioner-core/pkg/transport"
)

// MaxModelMessageSize is the unsegmented upper-transport payload limit: a
// 15-byte unsegmented upper-transport PDU minus a 4-byte transport MIC
// leaves 11 bytes for the model message, matching spec.md §4.2 exactly.
const MaxModelMessageSize = 11

// Options gates the behaviors spec.md's DESIGN NOTES leave as open
// questions. The zero value omits the transport control byte and uses the
// IV-index privacy-random layout (see network.Options).
type Options struct {
	// IncludeTransportControlByte prefixes the transport ciphertext with
	// the unsegmented transport control byte (SEG=0, AKF, AID) that Mesh
	// Profile 3.4.4.1 requires. Defaults to false: the core this module
	// was built from never emitted it, and spec.md §8's universal
	// property #1 (|NetworkPDU| == 19 + |model_message|) and scenarios
	// S1/S2 are stated in terms of its absence. Set true to produce a
	// spec-conformant PDU one byte longer than that formula.
	IncludeTransportControlByte bool
	// LegacyPrivacyRandom is forwarded to pkg/network; see its doc comment.
	LegacyPrivacyRandom bool
}

// BuildNetworkPDU is the access layer's single operation: given a
// model-layer payload, a network, a key selector, and the addressing
// fields a caller has already decided on, it returns the final obfuscated
// network PDU bytes.
//
// seq must be a value the caller obtained from meshnet.Network.NextSequence
// (or otherwise knows to be unused for this network's current iv_index);
// BuildNetworkPDU does not itself consult or mutate the network's sequence
// counter, so concurrent callers remain responsible for serializing
// acquisition of seq as described in meshnet.Network.NextSequence.
func BuildNetworkPDU(log logging.LeveledLogger, net *meshnet.Network, modelMessage []byte, sel meshnet.KeySelector, seq uint32, src, dst uint16, ttl uint8, opts Options) ([]byte, error) {
	if log == nil {
		log = logging.NewDefaultLoggerFactory().NewLogger("access")
	}

	if len(modelMessage) == 0 || len(modelMessage) > MaxModelMessageSize {
		return nil, fmt.Errorf("access: model message length %d: %w", len(modelMessage), meshnet.ErrPayloadTooLarge)
	}
	if src == 0 || src > 0x7FFF {
		return nil, fmt.Errorf("access: src %#04x: %w", src, meshnet.ErrInvalidAddress)
	}
	if ttl > 127 {
		return nil, fmt.Errorf("access: ttl %d: %w", ttl, meshnet.ErrInvalidAddress)
	}

	resolved, err := net.ResolveKey(sel)
	if err != nil {
		return nil, err
	}

	ivIndex := net.IVIndex()

	k2, err := crypto.K2(resolved.NetKey, []byte{0x00})
	if err != nil {
		return nil, err
	}
	defer k2.Zero()

	log.Debugf("resolved nid=%#02x nonce_type=%#02x seq=%d src=%#04x dst=%#04x", k2.NID, resolved.NonceType, seq, src, dst)

	transportCipher, err := transport.Encrypt(resolved.Key, resolved.NonceType, seq, src, dst, ivIndex, modelMessage)
	if err != nil {
		return nil, err
	}
	log.Debugf("transport ciphertext: %x", transportCipher)

	// The control byte is not itself encrypted; per Mesh Profile 3.4.4.1
	// it would prefix the ciphertext rather than ride inside the
	// AES-CCM-protected plaintext.
	transportPDU := transportCipher
	if opts.IncludeTransportControlByte {
		transportPDU = make([]byte, 0, len(transportCipher)+1)
		transportPDU = append(transportPDU, transport.HeaderByte(resolved.NonceType))
		transportPDU = append(transportPDU, transportCipher...)
	}

	netOpts := network.Options{LegacyPrivacyRandom: opts.LegacyPrivacyRandom}
	pdu, err := network.Encode(k2.EncKey, k2.PrivacyKey, k2.NID, false, ttl, seq, src, ivIndex, transportPDU, netOpts)
	if err != nil {
		return nil, err
	}
	log.Debugf("network pdu: %x", pdu)

	return pdu, nil
}
