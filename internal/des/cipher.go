// Package des implements the DES block cipher and its Triple-DES (EDE)
// composition from the FIPS 46-3 tables. Every bit shuffle goes through
// Permute; the only other primitives are the S-box lookup and XOR.
package des

import "fmt"

// BlockSize is the DES block size in bytes.
const BlockSize = 8

// EncryptBlock encrypts the first 8 bytes of src into dst using ks.
// dst and src may overlap entirely.
func EncryptBlock(dst, src []byte, ks *KeySchedule) {
	cryptBlock(dst, src, ks, false)
}

// DecryptBlock decrypts the first 8 bytes of src into dst using ks.
func DecryptBlock(dst, src []byte, ks *KeySchedule) {
	cryptBlock(dst, src, ks, true)
}

func cryptBlock(dst, src []byte, ks *KeySchedule, decrypt bool) {
	if len(src) < BlockSize {
		panic(fmt.Sprintf("des: input is %d bytes, not a full block", len(src)))
	}
	if len(dst) < BlockSize {
		panic(fmt.Sprintf("des: output is %d bytes, not a full block", len(dst)))
	}

	var block [BlockSize]byte
	PermuteInto(block[:], src[:BlockSize], initialPermutation)
	left, right := Split(block[:])

	var f [4]byte
	for i := 0; i < Rounds; i++ {
		round := i
		if decrypt {
			round = Rounds - 1 - i
		}
		feistel(f[:], right, &ks[round])
		xorInto(left, left, f[:])
		// The last round processed keeps its halves in place.
		if i != Rounds-1 {
			left, right = right, left
		}
	}

	var preOutput [BlockSize]byte
	copy(preOutput[:4], left)
	copy(preOutput[4:], right)
	PermuteInto(dst[:BlockSize], preOutput[:], finalPermutation)
}

// feistel is the round function F: expand, mix the round key, substitute
// through the S-boxes and permute through P.
func feistel(dst, half []byte, key *RoundKey) {
	var expanded [6]byte
	PermuteInto(expanded[:], half, expansion)
	xorInto(expanded[:], expanded[:], key[:])

	var substituted [4]byte
	substitute(substituted[:], expanded[:])
	PermuteInto(dst, substituted[:], roundPermutation)
}

// substitute maps eight 6-bit groups to eight 4-bit values. The outer two
// bits of a group pick the row, the inner four the column.
func substitute(dst, in []byte) {
	var v uint64
	for _, b := range in[:6] {
		v = v<<8 | uint64(b)
	}
	for i := 0; i < 8; i++ {
		group := byte(v>>(42-6*uint(i))) & 0x3f
		row := (group>>4)&0x02 | group&0x01
		col := (group >> 1) & 0x0f
		s := sBoxes[i][row][col]
		if i%2 == 0 {
			dst[i/2] = s << 4
		} else {
			dst[i/2] |= s
		}
	}
}

// Cipher is single DES under one key schedule. It implements cipher.Block.
type Cipher struct {
	schedule KeySchedule
}

// NewCipher creates a single-DES cipher from an 8-byte key.
func NewCipher(key []byte) (*Cipher, error) {
	ks, err := NewKeySchedule(key)
	if err != nil {
		return nil, err
	}
	return &Cipher{schedule: *ks}, nil
}

func (c *Cipher) BlockSize() int { return BlockSize }

func (c *Cipher) Encrypt(dst, src []byte) { EncryptBlock(dst, src, &c.schedule) }

func (c *Cipher) Decrypt(dst, src []byte) { DecryptBlock(dst, src, &c.schedule) }
