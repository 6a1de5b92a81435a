package media

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/skillsenselab/ytscribe/internal/process"
)

// durationPattern matches the "Duration: HH:MM:SS.cc" line ffmpeg prints on
// stderr when reading a file.
var durationPattern = regexp.MustCompile(`Duration:\s*(\d+):(\d+):(\d+)\.(\d+)`)

// ProbeDuration returns the duration of an audio file in seconds. It asks
// ffprobe first and falls back to parsing ffmpeg's file info output, since
// some installs ship ffmpeg without ffprobe.
func ProbeDuration(ctx context.Context, runner process.Runner, tools Tools, path string) (float64, error) {
	result, err := runner.Run(ctx, process.Command{
		Binary: tools.FFprobe,
		Args: []string{
			"-v", "error",
			"-show_entries", "format=duration",
			"-of", "default=noprint_wrappers=1:nokey=1",
			path,
		},
		Timeout: tools.Timeout,
	})
	if err == nil {
		if d, perr := strconv.ParseFloat(strings.TrimSpace(string(result.Stdout)), 64); perr == nil {
			return d, nil
		}
	}

	// ffmpeg exits non-zero when given no output, but still prints file info.
	result, _ = runner.Run(ctx, process.Command{
		Binary:  tools.FFmpeg,
		Args:    []string{"-i", path, "-f", "null", "-"},
		Timeout: tools.Timeout,
	})
	if result != nil {
		if d, perr := parseFFmpegDuration(string(result.Stderr)); perr == nil {
			return d, nil
		}
	}

	return 0, fmt.Errorf("media: could not determine duration of %s", path)
}

// parseFFmpegDuration extracts a duration in seconds from ffmpeg stderr.
func parseFFmpegDuration(output string) (float64, error) {
	m := durationPattern.FindStringSubmatch(output)
	if m == nil {
		return 0, fmt.Errorf("media: no duration in ffmpeg output")
	}
	h, _ := strconv.Atoi(m[1])
	mi, _ := strconv.Atoi(m[2])
	s, _ := strconv.Atoi(m[3])
	frac, _ := strconv.ParseFloat("0."+m[4], 64)
	return float64(h*3600+mi*60+s) + frac, nil
}
