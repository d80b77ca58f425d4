// Package prompt reads passwords from the user.
package prompt

import (
	"bufio"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/zmohling/TDES/internal/kdf"
)

const warning = "*** Warning: Decrypting with the wrong password can cause file corruption ***"

var (
	ErrNotTerminal = errors.New("stdin is not a terminal; cannot securely read password")
	ErrMismatch    = errors.New("passwords do not match")
)

// Password reads a password from the terminal behind in with echo turned
// off, asking a second time when confirm is set. Prompts go to out.
func Password(in *os.File, out io.Writer, confirm bool) ([]byte, error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return nil, ErrNotTerminal
	}
	return collect(out, confirm, func() ([]byte, error) {
		pw, err := term.ReadPassword(fd)
		fmt.Fprintln(out)
		return pw, err
	})
}

// Lines reads the password, and its confirmation when confirm is set, as
// newline-terminated lines from r. It serves scripted use where stdin is
// a pipe.
func Lines(r io.Reader, out io.Writer, confirm bool) ([]byte, error) {
	br := bufio.NewReader(r)
	return collect(out, confirm, func() ([]byte, error) {
		line, err := br.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return nil, err
		}
		return []byte(strings.TrimRight(line, "\r\n")), nil
	})
}

func collect(out io.Writer, confirm bool, read func() ([]byte, error)) ([]byte, error) {
	fmt.Fprintln(out, warning)
	fmt.Fprint(out, "Enter a password: ")
	pw1, err := read()
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	if len(pw1) == 0 {
		return nil, kdf.ErrEmptyPassword
	}
	if !confirm {
		return pw1, nil
	}

	fmt.Fprint(out, "Confirm password: ")
	pw2, err := read()
	if err != nil {
		kdf.Zeroize(pw1)
		return nil, fmt.Errorf("failed to read password confirmation: %w", err)
	}
	defer kdf.Zeroize(pw2)
	if len(pw2) != len(pw1) || subtle.ConstantTimeCompare(pw1, pw2) != 1 {
		kdf.Zeroize(pw1)
		return nil, ErrMismatch
	}
	return pw1, nil
}
