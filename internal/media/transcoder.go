package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/skillsenselab/ytscribe/internal/errors"
	"github.com/skillsenselab/ytscribe/internal/logger"
	"github.com/skillsenselab/ytscribe/internal/process"
)

// NormalizeOptions configures audio conversion for the transcription service.
type NormalizeOptions struct {
	// SampleRateHz is the output sample rate. Defaults to 16000.
	SampleRateHz int
	// Channels is the output channel count. Defaults to 1 (mono).
	Channels int
	// Compressed selects lossy MP3 output at Bitrate instead of lossless WAV,
	// keeping long inputs under the transcription size limit where possible.
	Compressed bool
	// Bitrate is the target bitrate for compressed output. Defaults to "64k".
	Bitrate string
}

func (o *NormalizeOptions) applyDefaults() {
	if o.SampleRateHz == 0 {
		o.SampleRateHz = 16000
	}
	if o.Channels == 0 {
		o.Channels = 1
	}
	if o.Bitrate == "" {
		o.Bitrate = "64k"
	}
}

// Transcoder converts local audio assets into the fixed format the
// transcription service expects.
type Transcoder struct {
	tools  Tools
	runner process.Runner
	log    *logger.Logger
}

// NewTranscoder creates a Transcoder.
func NewTranscoder(tools Tools, runner process.Runner, log *logger.Logger) *Transcoder {
	tools.ApplyDefaults()
	return &Transcoder{
		tools:  tools,
		runner: runner,
		log:    log.WithComponent("transcoder"),
	}
}

// Normalize writes a new asset in destDir at the configured sample rate and
// channel count. The input asset is never mutated; the caller owns disposal
// of both input and output.
func (t *Transcoder) Normalize(ctx context.Context, asset Asset, destDir string, opts NormalizeOptions) (Asset, error) {
	opts.applyDefaults()

	ext := ".wav"
	if opts.Compressed {
		ext = ".mp3"
	}
	base := strings.TrimSuffix(filepath.Base(asset.Path), filepath.Ext(asset.Path))
	out := filepath.Join(destDir, "converted_"+base+ext)

	args := []string{
		"-i", asset.Path,
		"-ar", strconv.Itoa(opts.SampleRateHz),
		"-ac", strconv.Itoa(opts.Channels),
	}
	if opts.Compressed {
		args = append(args, "-c:a", "libmp3lame", "-b:a", opts.Bitrate)
	} else {
		args = append(args, "-c:a", "pcm_s16le")
	}
	args = append(args, "-y", "-loglevel", "error", out)

	t.log.Debug("Converting audio", logger.Fields(
		"input", asset.Path,
		"sample_rate", opts.SampleRateHz,
		"channels", opts.Channels,
		"compressed", opts.Compressed,
	))

	result, err := t.runner.Run(ctx, process.Command{
		Binary:  t.tools.FFmpeg,
		Args:    args,
		Timeout: t.tools.Timeout,
	})
	if err != nil {
		_ = os.Remove(out)
		if result != nil && len(result.Stderr) > 0 {
			err = fmt.Errorf("%w: %s", err, tail(result.Stderr, 400))
		}
		return Asset{}, errors.TranscodeFailed(err)
	}

	return NewAsset(out)
}
