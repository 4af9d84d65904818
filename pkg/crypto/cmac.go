package crypto

import (
	"crypto/aes"

	"github.com/dchest/cmac"
)

// CMAC computes AES-CMAC (NIST SP-800-38B) of msg under key. The message may
// be empty; the output is always 16 bytes.
func CMAC(key, msg []byte) ([16]byte, error) {
	var out [16]byte
	if len(key) != BlockSize {
		return out, ErrInvalidKeySize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return out, err
	}
	mac, err := cmac.New(block)
	if err != nil {
		return out, err
	}
	if _, err := mac.Write(msg); err != nil {
		return out, err
	}
	copy(out[:], mac.Sum(nil))
	return out, nil
}

// zeroKey16 is sixteen zero bytes, used as the s1 salt key.
var zeroKey16 = [16]byte{}

// S1 is the mesh salt-generation function: s1(m) = AES-CMAC(zeroKey16, m).
func S1(m []byte) ([16]byte, error) {
	return CMAC(zeroKey16[:], m)
}
