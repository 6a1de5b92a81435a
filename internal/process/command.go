// Package process executes the external tools the pipeline depends on
// (yt-dlp, ffmpeg, ffprobe) with bounded lifetimes and full output capture.
package process

import (
	"time"
)

// Command configures a subprocess to execute.
type Command struct {
	// Binary is the executable path or name (resolved via PATH).
	Binary string
	// Args are the command-line arguments.
	Args []string
	// Dir is the working directory. If empty, uses the current directory.
	Dir string
	// Env is additional environment variables (key=value). Merged with os.Environ.
	Env []string
	// Timeout bounds the total run time. Zero means no explicit bound beyond
	// the caller's context.
	Timeout time.Duration
	// GracePeriod is how long to wait after SIGTERM before SIGKILL.
	// Defaults to 5 seconds if zero.
	GracePeriod time.Duration
}
