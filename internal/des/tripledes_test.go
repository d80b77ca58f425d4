package des

import (
	"bytes"
	stddes "crypto/des"
	"encoding/hex"
	"math/rand"
	"testing"
)

func TestTripleKnownAnswer(t *testing.T) {
	c, err := NewTripleCipher([]byte("abcdefghijklmnopqrstuvwx"))
	if err != nil {
		t.Fatal(err)
	}
	out := make([]byte, BlockSize)
	c.Encrypt(out, []byte("abcdefgh"))
	if got := hex.EncodeToString(out); got != "6e1a5810b9f3abaf" {
		t.Fatalf("ciphertext = %s, want 6e1a5810b9f3abaf", got)
	}
	c.Decrypt(out, out)
	if string(out) != "abcdefgh" {
		t.Errorf("decrypt = %q", out)
	}
}

func TestTripleWithEqualKeysIsSingleDES(t *testing.T) {
	triple, _ := NewTripleCipher([]byte("abcdefghabcdefghabcdefgh"))
	single, _ := NewCipher([]byte("abcdefgh"))

	a := make([]byte, BlockSize)
	b := make([]byte, BlockSize)
	triple.Encrypt(a, []byte("01234567"))
	single.Encrypt(b, []byte("01234567"))
	if !bytes.Equal(a, b) {
		t.Errorf("EDE with K1=K2=K3 = %x, single DES = %x", a, b)
	}
}

func TestTripleMatchesStandardLibrary(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	for i := 0; i < 100; i++ {
		secret := make([]byte, TripleKeySize)
		block := make([]byte, BlockSize)
		rng.Read(secret)
		rng.Read(block)

		ours, err := NewTripleCipher(secret)
		if err != nil {
			t.Fatal(err)
		}
		ref, err := stddes.NewTripleDESCipher(secret)
		if err != nil {
			t.Fatal(err)
		}

		got := make([]byte, BlockSize)
		want := make([]byte, BlockSize)
		ours.Encrypt(got, block)
		ref.Encrypt(want, block)
		if !bytes.Equal(got, want) {
			t.Fatalf("secret %x: encrypt = %x, want %x", secret, got, want)
		}
		ours.Decrypt(got, got)
		if !bytes.Equal(got, block) {
			t.Fatalf("secret %x: round trip = %x, want %x", secret, got, block)
		}
	}
}
