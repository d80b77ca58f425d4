package des

import (
	"bytes"
	"math/rand"
	"testing"
)

func identityTable(n int) []uint8 {
	table := make([]uint8, n)
	for i := range table {
		table[i] = uint8(i + 1)
	}
	return table
}

func TestPermuteIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, size := range []int{1, 4, 6, 7, 8} {
		in := make([]byte, size)
		rng.Read(in)
		got := Permute(in, size, identityTable(size*8))
		if !bytes.Equal(got, in) {
			t.Errorf("size %d: identity permutation changed %x to %x", size, in, got)
		}
	}
}

func TestPermuteInversePair(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 100; i++ {
		in := make([]byte, 8)
		rng.Read(in)
		permuted := Permute(in, 8, initialPermutation)
		if back := Permute(permuted, 8, finalPermutation); !bytes.Equal(back, in) {
			t.Fatalf("FP(IP(%x)) = %x", in, back)
		}
		if back := Permute(Permute(in, 8, finalPermutation), 8, initialPermutation); !bytes.Equal(back, in) {
			t.Fatalf("IP(FP(%x)) = %x", in, back)
		}
	}
}

func TestPermuteSelectsBits(t *testing.T) {
	// Reverse the bits of one byte.
	got := Permute([]byte{0b1100_0001}, 1, []uint8{8, 7, 6, 5, 4, 3, 2, 1})
	if got[0] != 0b1000_0011 {
		t.Errorf("got %08b, want 10000011", got[0])
	}

	// Expansion duplicates edge bits: bit 32 lands first, bit 1 last.
	half := []byte{0x80, 0x00, 0x00, 0x01}
	exp := Permute(half, 6, expansion)
	if exp[0]&0x80 == 0 || exp[5]&0x01 == 0 {
		t.Errorf("expansion of %x = %x, edge bits not wrapped", half, exp)
	}
}

func TestPermutePanicsOnBadTable(t *testing.T) {
	tests := []struct {
		name  string
		in    []byte
		out   int
		table []uint8
	}{
		{"short table", make([]byte, 8), 8, identityTable(63)},
		{"long table", make([]byte, 4), 4, identityTable(40)},
		{"zero index", make([]byte, 1), 1, []uint8{0, 1, 2, 3, 4, 5, 6, 7}},
		{"index past input", make([]byte, 1), 1, []uint8{1, 2, 3, 4, 5, 6, 7, 9}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			Permute(tt.in, tt.out, tt.table)
		})
	}
}

func TestSplitCombine(t *testing.T) {
	in := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	left, right := Split(in)
	if !bytes.Equal(left, in[:4]) || !bytes.Equal(right, in[4:]) {
		t.Fatalf("split = %v %v", left, right)
	}
	if got := Combine(left, right); !bytes.Equal(got, in) {
		t.Errorf("combine = %v", got)
	}

	t.Run("odd split", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("expected panic")
			}
		}()
		Split(make([]byte, 7))
	})
	t.Run("uneven combine", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("expected panic")
			}
		}()
		Combine(make([]byte, 4), make([]byte, 3))
	})
}
