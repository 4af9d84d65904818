package transport

import "github.com/meshwire/provisioner-core/pkg/crypto"

// MICSize is the 32-bit transport MIC size used by every unsegmented
// access message.
const MICSize = crypto.MICSizeTransport

// HeaderByte builds the unsegmented-access transport control byte:
// SEG(0) || AKF || AID. AID (the 6-bit application-key identifier) is left
// at zero: deriving it is Mesh Profile's K4 function, a distinct
// derivation this module does not implement (see the package doc of
// pkg/access for the acknowledged gap). AKF is 0 for the device key, 1 for
// an application key.
func HeaderByte(nonceType byte) byte {
	if nonceType == NonceTypeApplication {
		return 0x40 // SEG=0, AKF=1, AID=0
	}
	return 0x00 // SEG=0, AKF=0, AID=0
}

// Encrypt runs AES-CCM with a 32-bit MIC over an access-layer payload,
// returning ciphertext || mic. This is the whole of the unsegmented
// transport layer's authenticated-encryption step; the caller is
// responsible for prefixing the transport control byte returned by
// HeaderByte when access.Options.IncludeTransportControlByte is true.
func Encrypt(key [16]byte, nonceType byte, seq uint32, src, dst uint16, ivIndex uint32, payload []byte) ([]byte, error) {
	nonce := Nonce(nonceType, seq, src, dst, ivIndex)
	return crypto.CCMSeal(key, nonce, payload, MICSize)
}
