package media_test

import (
	"context"
	"strings"

	"github.com/skillsenselab/ytscribe/internal/process"
)

// fakeRunner records invocations and delegates behavior to a script func.
type fakeRunner struct {
	calls  []process.Command
	script func(cmd process.Command) (*process.Result, error)
}

func (f *fakeRunner) Run(_ context.Context, cmd process.Command) (*process.Result, error) {
	f.calls = append(f.calls, cmd)
	return f.script(cmd)
}

// argValue returns the value following a flag in an argument list, or "".
func argValue(args []string, flag string) string {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func hasArg(args []string, want string) bool {
	for _, a := range args {
		if a == want {
			return true
		}
	}
	return false
}

// outputPath resolves the yt-dlp --output pattern to the concrete .wav path.
func outputPath(args []string) string {
	pattern := argValue(args, "--output")
	return strings.ReplaceAll(pattern, "%(ext)s", "wav")
}
