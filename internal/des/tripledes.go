package des

import "fmt"

// TripleKeySize is the length of a three-key Triple-DES secret.
const TripleKeySize = 3 * KeySize

// TripleCipher is Triple-DES in encrypt-decrypt-encrypt form with three
// independent key schedules. Each block is transformed on its own; there is
// no chaining. The schedules are read-only after construction, so one
// TripleCipher may be shared by any number of goroutines.
type TripleCipher struct {
	k1, k2, k3 KeySchedule
}

// NewTripleCipher splits a 24-byte secret into K1 (bytes 0-7), K2 (8-15)
// and K3 (16-23).
func NewTripleCipher(secret []byte) (*TripleCipher, error) {
	if len(secret) != TripleKeySize {
		return nil, KeySizeError(len(secret))
	}
	c := new(TripleCipher)
	for i, dst := range []*KeySchedule{&c.k1, &c.k2, &c.k3} {
		ks, err := NewKeySchedule(secret[i*KeySize : (i+1)*KeySize])
		if err != nil {
			return nil, fmt.Errorf("key %d: %w", i+1, err)
		}
		*dst = *ks
	}
	return c, nil
}

func (c *TripleCipher) BlockSize() int { return BlockSize }

// Encrypt computes E(K3, D(K2, E(K1, src))).
func (c *TripleCipher) Encrypt(dst, src []byte) {
	EncryptBlock(dst, src, &c.k1)
	DecryptBlock(dst, dst, &c.k2)
	EncryptBlock(dst, dst, &c.k3)
}

// Decrypt computes D(K1, E(K2, D(K3, src))).
func (c *TripleCipher) Decrypt(dst, src []byte) {
	DecryptBlock(dst, src, &c.k3)
	EncryptBlock(dst, dst, &c.k2)
	DecryptBlock(dst, dst, &c.k1)
}
