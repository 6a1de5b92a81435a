// Package transcribe calls the remote speech-to-text service on a local
// audio asset and returns timestamped segments.
package transcribe

import (
	"context"
	"fmt"
	"time"

	"github.com/skillsenselab/ytscribe/internal/subtitle"
)

// Client is the interface transcription backends implement. Segments come
// back ordered as the remote service emitted them; no local re-sorting and no
// internal retries — retry policy, if any, belongs to the caller.
type Client interface {
	// Transcribe sends one audio file for transcription. language may be
	// empty, in which case the service detects it.
	Transcribe(ctx context.Context, audioPath, language string) ([]subtitle.Segment, error)
}

// Config holds configuration for the transcription service.
type Config struct {
	// APIKey authenticates against the service. Read once at startup;
	// absence is a warning, not a startup failure.
	APIKey string `yaml:"api_key" mapstructure:"api_key"`
	// BaseURL is the service API root.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	// Model is the transcription model to use.
	Model string `yaml:"model" mapstructure:"model"`
	// Timeout bounds each transcription call.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://api.openai.com/v1"
	}
	if c.Model == "" {
		c.Model = "whisper-1"
	}
	if c.Timeout == 0 {
		c.Timeout = 5 * time.Minute
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("transcription.timeout must be non-negative (got: %s)", c.Timeout)
	}
	return nil
}
