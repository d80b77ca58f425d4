package des

import "strconv"

const (
	// Rounds is the number of Feistel rounds and round keys.
	Rounds = 16
	// KeySize is the size of a DES key including its parity bits.
	KeySize = 8

	mask28 = 1<<28 - 1
)

// RoundKey is the 48-bit key mixed into one Feistel round.
type RoundKey [6]byte

// KeySchedule holds the round keys in encryption order. Decryption walks
// the same keys backwards.
type KeySchedule [Rounds]RoundKey

// KeySizeError reports a key of the wrong length.
type KeySizeError int

func (k KeySizeError) Error() string {
	return "des: invalid key size " + strconv.Itoa(int(k))
}

// NewKeySchedule derives the 16 round keys from an 8-byte key. Parity bits
// are dropped by the first permuted choice and never checked.
func NewKeySchedule(key []byte) (*KeySchedule, error) {
	if len(key) != KeySize {
		return nil, KeySizeError(len(key))
	}

	var choice [7]byte
	PermuteInto(choice[:], key, permutedChoice1)
	left, right := splitKey(choice)

	ks := new(KeySchedule)
	for round, n := range keyRotations {
		// Rotation accumulates from the previous round's halves.
		left = rotate28(left, n)
		right = rotate28(right, n)
		joined := joinKey(left, right)
		PermuteInto(ks[round][:], joined[:], permutedChoice2)
	}
	return ks, nil
}

// splitKey returns the high and low 28 bits of a 56-bit value.
func splitKey(b [7]byte) (left, right uint32) {
	var v uint64
	for _, x := range b {
		v = v<<8 | uint64(x)
	}
	return uint32(v>>28) & mask28, uint32(v) & mask28
}

func joinKey(left, right uint32) [7]byte {
	var out [7]byte
	v := uint64(left)<<28 | uint64(right)
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = byte(v)
		v >>= 8
	}
	return out
}

func rotate28(v uint32, n uint8) uint32 {
	return (v<<n | v>>(28-n)) & mask28
}
