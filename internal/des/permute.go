package des

import "fmt"

// Permute builds an outBytes-long value whose i-th bit is the bit of in
// named by table[i]. Bits are numbered from 1, most significant bit of
// in[0] first. It panics if len(table) != outBytes*8 or if the table
// refers to a bit outside in; table sizes are fixed at compile time, so
// either condition is a programming error.
func Permute(in []byte, outBytes int, table []uint8) []byte {
	out := make([]byte, outBytes)
	PermuteInto(out, in, table)
	return out
}

// PermuteInto is Permute writing into dst, whose length is the output size.
// dst must not alias in.
func PermuteInto(dst, in []byte, table []uint8) {
	if len(table) != len(dst)*8 {
		panic(fmt.Sprintf("des: permutation table has %d entries, want %d", len(table), len(dst)*8))
	}
	inBits := len(in) * 8
	for i := range dst {
		var t byte
		for _, pos := range table[i*8 : i*8+8] {
			if pos == 0 || int(pos) > inBits {
				panic(fmt.Sprintf("des: permutation index %d out of range 1..%d", pos, inBits))
			}
			x := pos - 1
			t <<= 1
			if in[x/8]&(0x80>>(x%8)) != 0 {
				t |= 0x01
			}
		}
		dst[i] = t
	}
}

// Split returns the two equal halves of in. The halves share in's storage.
func Split(in []byte) (left, right []byte) {
	if len(in) == 0 || len(in)%2 != 0 {
		panic(fmt.Sprintf("des: cannot split %d bytes into halves", len(in)))
	}
	half := len(in) / 2
	return in[:half:half], in[half:]
}

// Combine concatenates two equal-length halves into a new slice.
func Combine(left, right []byte) []byte {
	if len(left) != len(right) {
		panic(fmt.Sprintf("des: cannot combine halves of %d and %d bytes", len(left), len(right)))
	}
	out := make([]byte, 0, len(left)*2)
	out = append(out, left...)
	return append(out, right...)
}

func xorInto(dst, a, b []byte) {
	for i := range dst {
		dst[i] = a[i] ^ b[i]
	}
}
