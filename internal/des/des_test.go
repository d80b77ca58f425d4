package des

import (
	"bytes"
	stddes "crypto/des"
	"encoding/hex"
	"errors"
	"fmt"
	"math/rand"
	"testing"
)

// Round keys for the ASCII key "abcdefgh", as bit strings.
var abcdefghRoundKeys = [Rounds]string{
	"111000001011111001100110000100110010101010000010",
	"111000001011011001110110000100000010001100000111",
	"111001001101011001110110101101100000000010000100",
	"111001101101001101110010010000000010001111000011",
	"101011101101001101110011001101101010000000001001",
	"101011110101001101011011011000100001010101000010",
	"001011110101001111011001000011001010000100101010",
	"000111110101100111011001011001000101110001000000",
	"000111110100100111011001010010101001100001000000",
	"000111110110100110011101110000001100010100111000",
	"000111110010110110001101000010010001111000001000",
	"010110110010110010101101110110000101000000110000",
	"110110011010110010101100000000010100101000101100",
	"110100001010111010101110100100000011100010010000",
	"111100001011111000100110101000010000001000110101",
	"111100001011111000100110101000110100001010000000",
}

const abcdefghCiphertext = "0010101010001101011010011101111010011101010111111101111111111001"

func bitString(b []byte) string {
	var s string
	for _, x := range b {
		s += fmt.Sprintf("%08b", x)
	}
	return s
}

func TestKeyScheduleKnownAnswer(t *testing.T) {
	ks, err := NewKeySchedule([]byte("abcdefgh"))
	if err != nil {
		t.Fatalf("NewKeySchedule: %v", err)
	}
	for i, want := range abcdefghRoundKeys {
		if got := bitString(ks[i][:]); got != want {
			t.Errorf("round key %d = %s, want %s", i, got, want)
		}
	}
}

func TestKeyScheduleIgnoresParity(t *testing.T) {
	key := []byte("abcdefgh")
	flipped := make([]byte, len(key))
	for i := range key {
		flipped[i] = key[i] ^ 0x01
	}
	a, _ := NewKeySchedule(key)
	b, _ := NewKeySchedule(flipped)
	if *a != *b {
		t.Error("flipping parity bits changed the key schedule")
	}
}

func TestKeySizeError(t *testing.T) {
	for _, n := range []int{0, 7, 9, 16} {
		_, err := NewKeySchedule(make([]byte, n))
		var kse KeySizeError
		if !errors.As(err, &kse) || int(kse) != n {
			t.Errorf("len %d: err = %v", n, err)
		}
	}
	if _, err := NewTripleCipher(make([]byte, 16)); err == nil {
		t.Error("expected error for 16-byte triple key")
	}
	if _, err := NewCipher(make([]byte, 24)); err == nil {
		t.Error("expected error for 24-byte single key")
	}
}

func TestEncryptKnownAnswer(t *testing.T) {
	c, err := NewCipher([]byte("abcdefgh"))
	if err != nil {
		t.Fatal(err)
	}
	out := make([]byte, BlockSize)
	c.Encrypt(out, []byte("abcdefgh"))
	if got := bitString(out); got != abcdefghCiphertext {
		t.Fatalf("ciphertext = %s, want %s", got, abcdefghCiphertext)
	}

	plain := make([]byte, BlockSize)
	c.Decrypt(plain, out)
	if string(plain) != "abcdefgh" {
		t.Errorf("decrypt = %q", plain)
	}
}

func TestEncryptInPlace(t *testing.T) {
	c, _ := NewCipher([]byte("abcdefgh"))
	buf := []byte("abcdefgh")
	c.Encrypt(buf, buf)
	if hex.EncodeToString(buf) != "2a8d69de9d5fdff9" {
		t.Fatalf("in-place encrypt = %x", buf)
	}
	c.Decrypt(buf, buf)
	if string(buf) != "abcdefgh" {
		t.Errorf("in-place decrypt = %q", buf)
	}
}

func TestMatchesStandardLibrary(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 200; i++ {
		key := make([]byte, KeySize)
		block := make([]byte, BlockSize)
		rng.Read(key)
		rng.Read(block)

		ours, err := NewCipher(key)
		if err != nil {
			t.Fatal(err)
		}
		ref, err := stddes.NewCipher(key)
		if err != nil {
			t.Fatal(err)
		}

		got := make([]byte, BlockSize)
		want := make([]byte, BlockSize)
		ours.Encrypt(got, block)
		ref.Encrypt(want, block)
		if !bytes.Equal(got, want) {
			t.Fatalf("key %x block %x: encrypt = %x, want %x", key, block, got, want)
		}
		ours.Decrypt(got, want)
		if !bytes.Equal(got, block) {
			t.Fatalf("key %x: decrypt = %x, want %x", key, got, block)
		}
	}
}

func TestBlockPanicsOnShortInput(t *testing.T) {
	c, _ := NewCipher([]byte("abcdefgh"))
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	c.Encrypt(make([]byte, BlockSize), make([]byte, 5))
}
