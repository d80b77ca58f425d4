// Package kdf turns a password into key material.
package kdf

import (
	"crypto/sha256"
	"crypto/sha512"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/pbkdf2"
)

// Algorithm names a key-derivation function.
type Algorithm string

const (
	PBKDF2   Algorithm = "pbkdf2"
	Argon2id Algorithm = "argon2id"
)

const (
	// TripleDESIterations is the PBKDF2 cost for a 24-byte Triple-DES secret.
	TripleDESIterations = 100000
	// SingleDESIterations is the PBKDF2 cost for an 8-byte single-DES key.
	SingleDESIterations = 1000
	// MinIterations is the lowest PBKDF2 cost accepted.
	MinIterations = 1000

	argonTime      = uint32(3)
	argonMemoryKiB = uint32(64 * 1024)
	argonThreads   = uint8(4)
)

var (
	ErrUnknownAlgorithm = errors.New("unknown key derivation algorithm")
	ErrTooFewIterations = fmt.Errorf("iteration count below %d", MinIterations)
	ErrEmptyPassword    = errors.New("empty password is not allowed")
)

// Params selects the derivation and its cost.
type Params struct {
	Algorithm  Algorithm
	Iterations int    // PBKDF2 only
	KeyLen     int    // bytes of output
	Salt       []byte // nil keeps files compatible with unsalted derivation
}

// TripleDES returns the default parameters for a Triple-DES secret.
func TripleDES() Params {
	return Params{Algorithm: PBKDF2, Iterations: TripleDESIterations, KeyLen: 24}
}

// SingleDES returns the default parameters for a single-DES key.
func SingleDES() Params {
	return Params{Algorithm: PBKDF2, Iterations: SingleDESIterations, KeyLen: 8}
}

// Derive produces p.KeyLen bytes from password.
func Derive(password []byte, p Params) ([]byte, error) {
	if len(password) == 0 {
		return nil, ErrEmptyPassword
	}
	if p.KeyLen <= 0 {
		return nil, fmt.Errorf("invalid key length %d", p.KeyLen)
	}
	switch p.Algorithm {
	case PBKDF2, "":
		if p.Iterations < MinIterations {
			return nil, fmt.Errorf("%w: %d", ErrTooFewIterations, p.Iterations)
		}
		return pbkdf2.Key(password, p.Salt, p.Iterations, p.KeyLen, sha512.New), nil
	case Argon2id:
		ctxSalt := contextSalt(p.Salt)
		key := argon2.IDKey(password, ctxSalt, argonTime, argonMemoryKiB, argonThreads, uint32(p.KeyLen))
		Zeroize(ctxSalt)
		return key, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, p.Algorithm)
	}
}

// contextSalt domain-separates the Argon2id salt from other uses of the
// same password: SHA-256("TDES\x00kdfv1" || salt).
func contextSalt(salt []byte) []byte {
	h := sha256.New()
	h.Write([]byte("TDES\x00kdfv1"))
	h.Write(salt)
	return h.Sum(nil)
}

// Zeroize overwrites b. KeepAlive stops the compiler dropping the stores.
func Zeroize(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}

// ParseAlgorithm validates a user-supplied algorithm name.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch a := Algorithm(s); a {
	case PBKDF2, Argon2id:
		return a, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
	}
}
