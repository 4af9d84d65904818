package crypto

// smk2Salt is s1("smk2"), the fixed salt used by every K2 derivation.
var smk2Salt = mustS1([]byte("smk2"))

func mustS1(m []byte) [16]byte {
	out, err := S1(m)
	if err != nil {
		// s1 only fails if AES-128 key setup fails, which cannot happen for
		// a fixed 16-byte zero key.
		panic(err)
	}
	return out
}

// K2Result holds the three values produced by the K2 key-derivation
// function: the 7-bit network identifier and the two 128-bit session keys.
type K2Result struct {
	NID        byte
	EncKey     [16]byte
	PrivacyKey [16]byte
}

// Zero clears the derived key material in place.
func (r *K2Result) Zero() {
	Zero(r.EncKey[:])
	Zero(r.PrivacyKey[:])
}

// K2 implements the Mesh Profile 3.8.2.6 derivation:
//
//	salt = s1("smk2")
//	T    = AES-CMAC(salt, netKey)
//	T1   = AES-CMAC(T, p || 0x01)
//	T2   = AES-CMAC(T, T1 || p || 0x02)
//	T3   = AES-CMAC(T, T2 || p || 0x03)
//	nid  = T1[15] & 0x7F
//
// For master credentials (no friendship), callers pass p = []byte{0x00}.
func K2(netKey [16]byte, p []byte) (K2Result, error) {
	t, err := CMAC(smk2Salt[:], netKey[:])
	if err != nil {
		return K2Result{}, err
	}
	defer Zero(t[:])

	t1, err := CMAC(t[:], append(append([]byte{}, p...), 0x01))
	if err != nil {
		return K2Result{}, err
	}

	t2Input := append(append([]byte{}, t1[:]...), p...)
	t2Input = append(t2Input, 0x02)
	t2, err := CMAC(t[:], t2Input)
	if err != nil {
		Zero(t1[:])
		return K2Result{}, err
	}

	t3Input := append(append([]byte{}, t2[:]...), p...)
	t3Input = append(t3Input, 0x03)
	t3, err := CMAC(t[:], t3Input)
	if err != nil {
		Zero(t1[:])
		Zero(t2[:])
		return K2Result{}, err
	}

	result := K2Result{
		NID:        t1[15] & 0x7F,
		EncKey:     t2,
		PrivacyKey: t3,
	}
	Zero(t1[:])
	return result, nil
}
