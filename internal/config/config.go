// Package config loads tool defaults from a JSON file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/zmohling/TDES/internal/kdf"
	"github.com/zmohling/TDES/internal/pipeline"
)

// Config holds the tunables that flags may override.
type Config struct {
	Workers    int    `json:"workers"`
	ChunkSize  int    `json:"chunk_size"`
	NumChunks  int    `json:"num_chunks"`
	Iterations int    `json:"iterations"`
	KDF        string `json:"kdf"`
}

// Default returns the reference sizing: 8 workers, 16 chunks of 4 KiB,
// PBKDF2 with 100000 iterations.
func Default() *Config {
	return &Config{
		Workers:    pipeline.DefaultWorkers,
		ChunkSize:  pipeline.DefaultChunkSize,
		NumChunks:  pipeline.DefaultNumChunks,
		Iterations: kdf.TripleDESIterations,
		KDF:        string(kdf.PBKDF2),
	}
}

// Path returns $XDG_CONFIG_HOME/tdes/config.json, falling back to
// ~/.config/tdes/config.json.
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "tdes", "config.json"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", "tdes", "config.json"), nil
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decoding config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes c to path, creating its directory.
func Save(path string, c *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects values no run could use.
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.ChunkSize < 1 {
		return fmt.Errorf("chunk_size must be at least 1, got %d", c.ChunkSize)
	}
	if c.NumChunks < 1 {
		return fmt.Errorf("num_chunks must be at least 1, got %d", c.NumChunks)
	}
	if err := c.sizing().Validate(); err != nil {
		return err
	}
	if c.Iterations < kdf.MinIterations {
		return fmt.Errorf("iterations must be at least %d, got %d", kdf.MinIterations, c.Iterations)
	}
	if _, err := kdf.ParseAlgorithm(c.KDF); err != nil {
		return err
	}
	return nil
}

// Pipeline returns the pipeline sizing described by c.
func (c *Config) Pipeline() pipeline.Config {
	return c.sizing().Normalize()
}

func (c *Config) sizing() pipeline.Config {
	return pipeline.Config{
		ChunkSize: c.ChunkSize,
		NumChunks: c.NumChunks,
		Workers:   c.Workers,
	}
}
