package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/skillsenselab/ytscribe/internal/errors"
	"github.com/skillsenselab/ytscribe/internal/logger"
	"github.com/skillsenselab/ytscribe/internal/process"
	"github.com/skillsenselab/ytscribe/internal/youtube"
)

// Fetcher obtains local audio assets for whole videos or bounded time ranges
// of a video, driving yt-dlp and ffmpeg.
type Fetcher struct {
	tools  Tools
	runner process.Runner
	log    *logger.Logger
}

// NewFetcher creates a Fetcher.
func NewFetcher(tools Tools, runner process.Runner, log *logger.Logger) *Fetcher {
	tools.ApplyDefaults()
	return &Fetcher{
		tools:  tools,
		runner: runner,
		log:    log.WithComponent("fetcher"),
	}
}

// FetchFull downloads the whole video's best-available audio decoded to WAV
// into destDir.
func (f *Fetcher) FetchFull(ctx context.Context, videoID, destDir string) (Asset, error) {
	base := strings.ReplaceAll(uuid.NewString(), "-", "")
	outPattern := filepath.Join(destDir, base+".%(ext)s")

	f.log.Info("Downloading audio", logger.Fields(logger.FieldVideoID, videoID))

	result, err := f.runner.Run(ctx, process.Command{
		Binary: f.tools.YTDLP,
		Args: []string{
			youtube.WatchURL(videoID),
			"--no-playlist",
			"--extract-audio",
			"--audio-format", "wav",
			"--audio-quality", "0",
			"--output", outPattern,
			"--quiet",
		},
		Timeout: f.tools.Timeout,
	})
	if err != nil {
		if result != nil && len(result.Stderr) > 0 {
			err = fmt.Errorf("%w: %s", err, tail(result.Stderr, 400))
		}
		return Asset{}, errors.DownloadFailed(err)
	}

	asset, err := findByPrefix(destDir, base, ".wav")
	if err != nil {
		return Asset{}, errors.DownloadFailed(err)
	}
	return asset, nil
}

// rangeStrategy is one way of obtaining a bounded time range of a video's
// audio. Strategies are attempted in order; the first success wins.
type rangeStrategy struct {
	name string
	run  func(ctx context.Context, videoID, destDir string, startSec, durSec float64) (Asset, error)
}

// FetchRange obtains [startSec, startSec+durSec) of the video's audio. It
// tries, in order: trimming a direct media stream with ffmpeg, yt-dlp's
// native section download, and downloading everything then cutting locally.
// Each failed strategy cleans up after itself before the next one runs.
func (f *Fetcher) FetchRange(ctx context.Context, videoID, destDir string, startSec, durSec float64) (Asset, error) {
	strategies := []rangeStrategy{
		{name: "stream-trim", run: f.rangeFromStream},
		{name: "native-range", run: f.rangeNative},
		{name: "full-then-cut", run: f.rangeFromFull},
	}

	attempts := make(map[string]any, len(strategies))
	var lastName string
	var lastErr error

	for _, s := range strategies {
		asset, err := s.run(ctx, videoID, destDir, startSec, durSec)
		if err == nil {
			f.log.Info("Segment download succeeded", logger.Fields(
				logger.FieldVideoID, videoID,
				"strategy", s.name,
			))
			return asset, nil
		}
		f.log.Warn("Segment download strategy failed", logger.Fields(
			logger.FieldVideoID, videoID,
			"strategy", s.name,
			logger.FieldError, err.Error(),
		))
		attempts[s.name] = err.Error()
		lastName, lastErr = s.name, err
	}

	return Asset{}, errors.SegmentDownloadFailed(fmt.Errorf("%s: %w", lastName, lastErr)).
		WithDetail("attempts", attempts)
}

// rangeFromStream resolves a direct streamable audio URL and has ffmpeg read
// only the requested window from it, decoding straight to a local WAV.
func (f *Fetcher) rangeFromStream(ctx context.Context, videoID, destDir string, startSec, durSec float64) (Asset, error) {
	result, err := f.runner.Run(ctx, process.Command{
		Binary:  f.tools.YTDLP,
		Args:    []string{"-g", "-f", "bestaudio", youtube.WatchURL(videoID)},
		Timeout: f.tools.Timeout,
	})
	if err != nil {
		return Asset{}, fmt.Errorf("resolve stream url: %w", err)
	}
	streamURL := firstLine(string(result.Stdout))
	if streamURL == "" {
		return Asset{}, fmt.Errorf("resolve stream url: empty output")
	}

	out := filepath.Join(destDir, strings.ReplaceAll(uuid.NewString(), "-", "")+".wav")
	result, err = f.runner.Run(ctx, process.Command{
		Binary: f.tools.FFmpeg,
		Args: []string{
			"-ss", formatSeconds(startSec),
			"-t", formatSeconds(durSec),
			"-i", streamURL,
			"-vn",
			"-acodec", "pcm_s16le",
			"-y", "-loglevel", "error",
			out,
		},
		Timeout: f.tools.Timeout,
	})
	if err != nil {
		_ = os.Remove(out)
		if result != nil && len(result.Stderr) > 0 {
			err = fmt.Errorf("%w: %s", err, tail(result.Stderr, 400))
		}
		return Asset{}, fmt.Errorf("trim stream: %w", err)
	}
	return NewAsset(out)
}

// rangeNative asks yt-dlp itself to download only the requested section.
func (f *Fetcher) rangeNative(ctx context.Context, videoID, destDir string, startSec, durSec float64) (Asset, error) {
	base := strings.ReplaceAll(uuid.NewString(), "-", "")
	outPattern := filepath.Join(destDir, base+".%(ext)s")
	section := fmt.Sprintf("*%s-%s", formatSeconds(startSec), formatSeconds(startSec+durSec))

	result, err := f.runner.Run(ctx, process.Command{
		Binary: f.tools.YTDLP,
		Args: []string{
			youtube.WatchURL(videoID),
			"--no-playlist",
			"--download-sections", section,
			"--force-keyframes-at-cuts",
			"--extract-audio",
			"--audio-format", "wav",
			"--audio-quality", "0",
			"--output", outPattern,
			"--quiet",
		},
		Timeout: f.tools.Timeout,
	})
	if err != nil {
		removeByPrefix(destDir, base)
		if result != nil && len(result.Stderr) > 0 {
			err = fmt.Errorf("%w: %s", err, tail(result.Stderr, 400))
		}
		return Asset{}, fmt.Errorf("native range download: %w", err)
	}

	asset, err := findByPrefix(destDir, base, ".wav")
	if err != nil {
		removeByPrefix(destDir, base)
		return Asset{}, fmt.Errorf("native range download: %w", err)
	}
	return asset, nil
}

// rangeFromFull downloads the entire video's audio, cuts the requested range
// locally, and deletes the full download.
func (f *Fetcher) rangeFromFull(ctx context.Context, videoID, destDir string, startSec, durSec float64) (Asset, error) {
	full, err := f.FetchFull(ctx, videoID, destDir)
	if err != nil {
		return Asset{}, fmt.Errorf("full download: %w", err)
	}
	defer func() {
		_ = full.Remove()
	}()

	// A window starting past the end of the video would cut to an empty file.
	if duration, err := ProbeDuration(ctx, f.runner, f.tools, full.Path); err == nil && startSec >= duration {
		return Asset{}, fmt.Errorf("local cut: window starts at %s but video is only %s long",
			formatSeconds(startSec), formatSeconds(duration))
	}

	out := filepath.Join(destDir, strings.ReplaceAll(uuid.NewString(), "-", "")+".wav")
	result, err := f.runner.Run(ctx, process.Command{
		Binary: f.tools.FFmpeg,
		Args: []string{
			"-ss", formatSeconds(startSec),
			"-t", formatSeconds(durSec),
			"-i", full.Path,
			"-c", "copy",
			"-y", "-loglevel", "error",
			out,
		},
		Timeout: f.tools.Timeout,
	})
	if err != nil {
		_ = os.Remove(out)
		if result != nil && len(result.Stderr) > 0 {
			err = fmt.Errorf("%w: %s", err, tail(result.Stderr, 400))
		}
		return Asset{}, fmt.Errorf("local cut: %w", err)
	}
	return NewAsset(out)
}

// findByPrefix locates the single output file the downloader produced for a
// given unique basename.
func findByPrefix(dir, prefix, ext string) (Asset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Asset{}, err
	}
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, prefix) && strings.HasSuffix(name, ext) {
			return NewAsset(filepath.Join(dir, name))
		}
	}
	return Asset{}, fmt.Errorf("downloaded audio file not found in %s", dir)
}

// removeByPrefix deletes any partial output files left behind by a failed
// strategy so the next strategy starts clean.
func removeByPrefix(dir, prefix string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), prefix) {
			_ = os.Remove(filepath.Join(dir, e.Name()))
		}
	}
}

func formatSeconds(v float64) string {
	return fmt.Sprintf("%.3f", v)
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
