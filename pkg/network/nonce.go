// Package network implements the Bluetooth Mesh network layer: AES-CCM
// encryption of a transport PDU under a network's derived EncKey, assembly
// of the cleartext network header, and AES-ECB header obfuscation (PECB),
// per Mesh Profile 3.8.7.
package network

import "encoding/binary"

// Nonce builds the 13-byte network nonce:
//
//	offset 0:    0x00 (network nonce type)
//	offset 1:    (CTL<<7) | (TTL & 0x7F)
//	offset 2-4:  seq (24-bit, big-endian)
//	offset 5-6:  src (16-bit, big-endian)
//	offset 7-8:  0x00 0x00 (pad; dst is not part of the network nonce)
//	offset 9-12: iv_index (32-bit, big-endian)
func Nonce(seq uint32, src uint16, ctl bool, ttl uint8, ivIndex uint32) [13]byte {
	var n [13]byte
	n[0] = 0x00
	n[1] = ctlTTLByte(ctl, ttl)
	putUint24(n[2:5], seq)
	binary.BigEndian.PutUint16(n[5:7], src)
	n[7] = 0x00
	n[8] = 0x00
	binary.BigEndian.PutUint32(n[9:13], ivIndex)
	return n
}

func ctlTTLByte(ctl bool, ttl uint8) byte {
	b := ttl & 0x7F
	if ctl {
		b |= 0x80
	}
	return b
}

func putUint24(dst []byte, v uint32) {
	dst[0] = byte(v >> 16)
	dst[1] = byte(v >> 8)
	dst[2] = byte(v)
}
