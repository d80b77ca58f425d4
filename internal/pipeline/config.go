package pipeline

import (
	"fmt"

	"github.com/zmohling/TDES/internal/padding"
)

// Mode selects the direction of a run.
type Mode int

const (
	Encrypt Mode = iota
	Decrypt
)

func (m Mode) String() string {
	switch m {
	case Encrypt:
		return "encrypt"
	case Decrypt:
		return "decrypt"
	default:
		return "unknown"
	}
}

const (
	DefaultChunkSize = 4096
	DefaultNumChunks = 16
	DefaultWorkers   = 8

	// MaxChunkSize bounds one chunk; it is a whole number of blocks.
	MaxChunkSize = 64 << 20
	// MaxBufferSize bounds the circular buffer, ChunkSize*NumChunks.
	MaxBufferSize = 1 << 30
	MaxWorkers    = 1024
)

// Config sizes the circular buffer and the worker pool.
type Config struct {
	ChunkSize int // bytes per chunk, rounded up to a whole number of blocks
	NumChunks int // chunks in the circular buffer
	Workers   int // goroutines in the pool
}

// DefaultConfig returns 16 chunks of 4096 bytes and 8 workers.
func DefaultConfig() Config {
	return Config{
		ChunkSize: DefaultChunkSize,
		NumChunks: DefaultNumChunks,
		Workers:   DefaultWorkers,
	}
}

// Validate reports a field that Normalize would have to change to make
// the buffer allocatable. Zero fields are left to the defaults.
func (c Config) Validate() error {
	if c.ChunkSize < 0 || c.ChunkSize > MaxChunkSize {
		return fmt.Errorf("%w: chunk size %d, want at most %d", ErrBufferTooLarge, c.ChunkSize, MaxChunkSize)
	}
	if c.NumChunks < 0 {
		return fmt.Errorf("%w: %d chunks", ErrBufferTooLarge, c.NumChunks)
	}
	if c.Workers < 0 || c.Workers > MaxWorkers {
		return fmt.Errorf("workers must be between 1 and %d, got %d", MaxWorkers, c.Workers)
	}
	chunk := c.Normalize().ChunkSize
	if c.NumChunks > MaxBufferSize/chunk {
		return fmt.Errorf("%w: %d chunks of %d bytes exceed %d bytes",
			ErrBufferTooLarge, c.NumChunks, chunk, MaxBufferSize)
	}
	return nil
}

// Normalize returns a copy with every field usable. A chunk smaller than a
// block becomes one block, so blocks never straddle two chunks. Oversized
// values are clamped so the buffer never exceeds MaxBufferSize.
func (c Config) Normalize() Config {
	if c.ChunkSize <= 0 {
		c.ChunkSize = DefaultChunkSize
	}
	if c.ChunkSize > MaxChunkSize {
		c.ChunkSize = MaxChunkSize
	}
	if rem := c.ChunkSize % padding.BlockSize; rem != 0 {
		c.ChunkSize += padding.BlockSize - rem
	}
	if c.NumChunks < 1 {
		c.NumChunks = 1
	}
	if limit := MaxBufferSize / c.ChunkSize; c.NumChunks > limit {
		c.NumChunks = limit
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	if c.Workers > MaxWorkers {
		c.Workers = MaxWorkers
	}
	return c
}
