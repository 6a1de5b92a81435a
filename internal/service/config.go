package service

import (
	"fmt"
	"time"
)

// Config holds pipeline configuration.
type Config struct {
	// WorkDir is the base directory for request-scoped working directories.
	// Empty means the system temp dir.
	WorkDir string `yaml:"work_dir" mapstructure:"work_dir"`
	// MaxChunkBytes is the size above which audio is split before
	// transcription. The remote service rejects larger uploads.
	MaxChunkBytes int64 `yaml:"max_chunk_bytes" mapstructure:"max_chunk_bytes"`
	// ChunkSeconds is the duration of each split piece.
	ChunkSeconds int `yaml:"chunk_seconds" mapstructure:"chunk_seconds"`
	// MaxConcurrent bounds how many requests run the pipeline at once.
	MaxConcurrent int `yaml:"max_concurrent" mapstructure:"max_concurrent"`
	// MaxWait is how long a request waits for pipeline capacity before
	// being rejected. Zero rejects immediately when full.
	MaxWait time.Duration `yaml:"max_wait" mapstructure:"max_wait"`
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.MaxChunkBytes == 0 {
		c.MaxChunkBytes = 26 * 1024 * 1024
	}
	if c.ChunkSeconds == 0 {
		c.ChunkSeconds = 180
	}
	if c.MaxConcurrent == 0 {
		c.MaxConcurrent = 4
	}
	if c.MaxWait == 0 {
		c.MaxWait = 30 * time.Second
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.MaxChunkBytes < 0 {
		return fmt.Errorf("pipeline.max_chunk_bytes must be non-negative (got: %d)", c.MaxChunkBytes)
	}
	if c.ChunkSeconds < 0 {
		return fmt.Errorf("pipeline.chunk_seconds must be non-negative (got: %d)", c.ChunkSeconds)
	}
	if c.MaxConcurrent < 0 {
		return fmt.Errorf("pipeline.max_concurrent must be non-negative (got: %d)", c.MaxConcurrent)
	}
	return nil
}
