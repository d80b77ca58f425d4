package pipeline

import "errors"

var (
	ErrRead             = errors.New("read failed")
	ErrWrite            = errors.New("write failed")
	ErrCiphertextLength = errors.New("ciphertext length is not a positive multiple of the block size")
	ErrNegativeLength   = errors.New("negative source length")
	ErrBufferTooLarge   = errors.New("buffer size out of range")
)
