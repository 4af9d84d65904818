// Package transport implements the unsegmented Bluetooth Mesh transport
// layer: nonce construction and AES-CCM encryption of an access-layer
// payload under an application or device key, per Mesh Profile 3.8.
package transport

import "encoding/binary"

// NonceType byte values (offset 0 of the transport nonce).
const (
	NonceTypeApplication byte = 0x01
	NonceTypeDevice      byte = 0x02
)

// Nonce builds the 13-byte unsegmented-access transport nonce:
//
//	offset 0:    nonce_type
//	offset 1:    SZMIC<<7 (always 0 for unsegmented)
//	offset 2-4:  seq (24-bit, big-endian)
//	offset 5-6:  src (16-bit, big-endian)
//	offset 7-8:  dst (16-bit, big-endian)
//	offset 9-12: iv_index (32-bit, big-endian)
func Nonce(nonceType byte, seq uint32, src, dst uint16, ivIndex uint32) [13]byte {
	var n [13]byte
	n[0] = nonceType
	n[1] = 0x00 // SZMIC=0 for unsegmented
	putUint24(n[2:5], seq)
	binary.BigEndian.PutUint16(n[5:7], src)
	binary.BigEndian.PutUint16(n[7:9], dst)
	binary.BigEndian.PutUint32(n[9:13], ivIndex)
	return n
}

func putUint24(dst []byte, v uint32) {
	dst[0] = byte(v >> 16)
	dst[1] = byte(v >> 8)
	dst[2] = byte(v)
}
