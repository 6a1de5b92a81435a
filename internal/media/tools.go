package media

import (
	"fmt"
	"time"
)

// Tools configures the external binaries the media components invoke.
type Tools struct {
	YTDLP   string        `yaml:"ytdlp" mapstructure:"ytdlp"`
	FFmpeg  string        `yaml:"ffmpeg" mapstructure:"ffmpeg"`
	FFprobe string        `yaml:"ffprobe" mapstructure:"ffprobe"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// ApplyDefaults sets default binary names (resolved via PATH) and a bounded
// per-invocation timeout so a stuck tool cannot hold a request forever.
func (t *Tools) ApplyDefaults() {
	if t.YTDLP == "" {
		t.YTDLP = "yt-dlp"
	}
	if t.FFmpeg == "" {
		t.FFmpeg = "ffmpeg"
	}
	if t.FFprobe == "" {
		t.FFprobe = "ffprobe"
	}
	if t.Timeout == 0 {
		t.Timeout = 10 * time.Minute
	}
}

// Validate checks the configuration for invalid values.
func (t *Tools) Validate() error {
	if t.Timeout < 0 {
		return fmt.Errorf("tools.timeout must be non-negative (got: %s)", t.Timeout)
	}
	return nil
}

// tail returns the last portion of tool output for error details, so a
// failing invocation surfaces its stderr without flooding the response.
func tail(b []byte, max int) string {
	s := string(b)
	if len(s) > max {
		s = s[len(s)-max:]
	}
	return s
}
