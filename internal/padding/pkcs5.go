// Package padding implements PKCS#5 padding for 8-byte blocks.
package padding

import (
	"errors"
	"fmt"
)

// BlockSize is the block size PKCS#5 pads to.
const BlockSize = 8

// ErrInvalidPadding is returned when the final block does not end in a
// well-formed PKCS#5 pad, which usually means the wrong key was used.
var ErrInvalidPadding = errors.New("invalid PKCS#5 padding")

// PadLength returns how many pad bytes follow n bytes of plaintext. It is
// always between 1 and 8; aligned input gets a full block of padding.
func PadLength(n int64) int {
	return BlockSize - int(n%BlockSize)
}

// PaddedLength is the ciphertext length for n bytes of plaintext.
func PaddedLength(n int64) int64 {
	return n + int64(PadLength(n))
}

// Pad fills block[used:BlockSize] with the pad value 8-used.
func Pad(block []byte, used int) {
	if used < 0 || used >= BlockSize || len(block) < BlockSize {
		panic(fmt.Sprintf("padding: cannot pad block of %d bytes after %d used", len(block), used))
	}
	n := byte(BlockSize - used)
	for i := used; i < BlockSize; i++ {
		block[i] = n
	}
}

// Unpad inspects the last decrypted block and returns the number of pad
// bytes to strip from it.
func Unpad(last []byte) (int, error) {
	if len(last) != BlockSize {
		return 0, fmt.Errorf("%w: final block is %d bytes", ErrInvalidPadding, len(last))
	}
	n := int(last[BlockSize-1])
	if n < 1 || n > BlockSize {
		return 0, fmt.Errorf("%w: pad value %d", ErrInvalidPadding, n)
	}
	for _, b := range last[BlockSize-n:] {
		if int(b) != n {
			return 0, fmt.Errorf("%w: inconsistent pad bytes", ErrInvalidPadding)
		}
	}
	return n, nil
}
