// Package service orchestrates the transcription pipeline: resolve the video
// reference, fetch audio, normalize it, split when oversized, transcribe each
// piece, and stitch the results onto a single timeline.
package service

import (
	"context"
	"errors"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/skillsenselab/ytscribe/internal/errors"
	"github.com/skillsenselab/ytscribe/internal/logger"
	"github.com/skillsenselab/ytscribe/internal/media"
	"github.com/skillsenselab/ytscribe/internal/observability"
	"github.com/skillsenselab/ytscribe/internal/resilience"
	"github.com/skillsenselab/ytscribe/internal/subtitle"
)

// Resolver turns a raw video reference (bare ID or URL) into a canonical ID.
type Resolver interface {
	Resolve(input string) (string, error)
}

// Fetcher obtains local audio for a whole video or a bounded range of one.
type Fetcher interface {
	FetchFull(ctx context.Context, videoID, destDir string) (media.Asset, error)
	FetchRange(ctx context.Context, videoID, destDir string, startSec, durSec float64) (media.Asset, error)
}

// Transcoder converts audio to the format the transcription service expects.
type Transcoder interface {
	Normalize(ctx context.Context, asset media.Asset, destDir string, opts media.NormalizeOptions) (media.Asset, error)
}

// Chunker splits oversized audio into pieces under the upload size limit.
type Chunker interface {
	SplitIfOversized(ctx context.Context, asset media.Asset, destDir string, maxBytes int64, chunkSeconds int) ([]media.Asset, error)
}

// Transcriber sends one audio file for transcription.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, language string) ([]subtitle.Segment, error)
}

// Result is the outcome of a pipeline run.
type Result struct {
	VideoID  string
	Segments []subtitle.Segment
}

// CleanupFunc disposes of a request's working files. It is safe to call more
// than once and never returns an error; disposal failures are logged only.
type CleanupFunc func()

// Pipeline runs transcription requests end to end. Stages within one request
// run sequentially; concurrency across requests is bounded by a bulkhead.
type Pipeline struct {
	cfg         Config
	resolver    Resolver
	fetcher     Fetcher
	transcoder  Transcoder
	chunker     Chunker
	transcriber Transcriber
	bulkhead    *resilience.Bulkhead
	metrics     *observability.Metrics
	log         *logger.Logger
}

// NewPipeline creates a Pipeline.
func NewPipeline(
	cfg Config,
	resolver Resolver,
	fetcher Fetcher,
	transcoder Transcoder,
	chunker Chunker,
	transcriber Transcriber,
	metrics *observability.Metrics,
	log *logger.Logger,
) *Pipeline {
	cfg.ApplyDefaults()
	return &Pipeline{
		cfg:         cfg,
		resolver:    resolver,
		fetcher:     fetcher,
		transcoder:  transcoder,
		chunker:     chunker,
		transcriber: transcriber,
		bulkhead: resilience.NewBulkhead(resilience.BulkheadConfig{
			Name:          "pipeline",
			MaxConcurrent: cfg.MaxConcurrent,
			MaxWait:       cfg.MaxWait,
		}),
		metrics: metrics,
		log:     log.WithComponent("pipeline"),
	}
}

// noopCleanup is returned before any working directory exists.
func noopCleanup() {}

// TranscribeVideo transcribes the full audio track of the referenced video.
// The returned cleanup func must be called once the result has been consumed.
func (p *Pipeline) TranscribeVideo(ctx context.Context, ref, language string) (*Result, CleanupFunc, error) {
	videoID, err := p.resolver.Resolve(ref)
	if err != nil {
		return nil, noopCleanup, err
	}

	ctx, span := observability.StartSpan(ctx, "pipeline.transcribe_video")
	defer span.End()

	return p.execute(ctx, videoID, func(ctx context.Context, workDir string) ([]subtitle.Segment, error) {
		return p.runFull(ctx, videoID, workDir, language)
	})
}

// TranscribeSegment transcribes only [startSec, startSec+durSec) of the
// referenced video. Segment timestamps in the result are absolute: offset by
// startSec so they match positions in the original video.
func (p *Pipeline) TranscribeSegment(ctx context.Context, ref string, startSec, durSec float64, language string) (*Result, CleanupFunc, error) {
	videoID, err := p.resolver.Resolve(ref)
	if err != nil {
		return nil, noopCleanup, err
	}

	ctx, span := observability.StartSpan(ctx, "pipeline.transcribe_segment")
	defer span.End()

	return p.execute(ctx, videoID, func(ctx context.Context, workDir string) ([]subtitle.Segment, error) {
		return p.runRange(ctx, videoID, workDir, startSec, durSec, language)
	})
}

// execute acquires pipeline capacity, sets up the request-scoped working
// directory, and runs the given stage function inside it.
func (p *Pipeline) execute(ctx context.Context, videoID string, run func(ctx context.Context, workDir string) ([]subtitle.Segment, error)) (*Result, CleanupFunc, error) {
	p.metrics.RecordRequestStart(ctx)
	start := time.Now()

	type outcome struct {
		result  *Result
		cleanup CleanupFunc
	}

	out, err := resilience.ExecuteWithResult(p.bulkhead, ctx, func() (outcome, error) {
		workDir, err := os.MkdirTemp(p.cfg.WorkDir, "ytscribe-"+uuid.NewString()[:8]+"-")
		if err != nil {
			return outcome{result: nil, cleanup: noopCleanup}, apperrors.Internal(err)
		}
		cleanup := p.cleanupFunc(workDir)

		segments, err := run(ctx, workDir)
		if err != nil {
			return outcome{cleanup: cleanup}, err
		}
		return outcome{
			result:  &Result{VideoID: videoID, Segments: segments},
			cleanup: cleanup,
		}, nil
	})

	status := "success"
	if err != nil {
		status = "error"
		if code := errorCode(err); code != "" {
			p.metrics.RecordError(ctx, code, "pipeline")
		}
	}
	p.metrics.RecordRequestEnd(ctx, "transcribe", status, time.Since(start))

	cleanup := out.cleanup
	if cleanup == nil {
		cleanup = noopCleanup
	}

	if errors.Is(err, resilience.ErrBulkheadFull) || errors.Is(err, resilience.ErrBulkheadTimeout) {
		err = apperrors.Internal(err)
	}
	return out.result, cleanup, err
}

// cleanupFunc returns an idempotent disposer for a working directory.
// Failures are logged and never surfaced; subsequent calls are no-ops.
func (p *Pipeline) cleanupFunc(workDir string) CleanupFunc {
	var once sync.Once
	return func() {
		once.Do(func() {
			if err := os.RemoveAll(workDir); err != nil {
				p.log.Warn("Working directory cleanup failed", logger.Fields(
					"dir", workDir,
					logger.FieldError, err.Error(),
				))
				return
			}
			p.log.Debug("Working directory removed", logger.Fields("dir", workDir))
		})
	}
}

// runFull is the whole-video path: fetch, normalize to compressed audio,
// split when oversized, transcribe chunks in order, stitch offsets.
func (p *Pipeline) runFull(ctx context.Context, videoID, workDir, language string) ([]subtitle.Segment, error) {
	raw, err := p.stage(ctx, "fetch", func() (media.Asset, error) {
		return p.fetcher.FetchFull(ctx, videoID, workDir)
	})
	if err != nil {
		return nil, err
	}

	normalized, err := p.stage(ctx, "normalize", func() (media.Asset, error) {
		return p.transcoder.Normalize(ctx, raw, workDir, media.NormalizeOptions{Compressed: true})
	})
	if err != nil {
		return nil, err
	}
	// The raw download is no longer needed once normalized.
	_ = raw.Remove()

	chunks, err := p.chunker.SplitIfOversized(ctx, normalized, workDir, p.cfg.MaxChunkBytes, p.cfg.ChunkSeconds)
	if err != nil {
		p.metrics.RecordStage(ctx, "chunk", "error", 0)
		return nil, err
	}

	perChunk := make([][]subtitle.Segment, 0, len(chunks))
	for i, chunk := range chunks {
		p.log.Info("Transcribing chunk", logger.Fields(
			logger.FieldVideoID, videoID,
			"chunk", i,
			"total", len(chunks),
		))
		segments, err := p.transcribeStage(ctx, chunk.Path, language)
		if err != nil {
			return nil, err
		}
		perChunk = append(perChunk, segments)
	}

	return subtitle.StitchChunks(perChunk, float64(p.cfg.ChunkSeconds)), nil
}

// runRange is the bounded-range path: fetch only the requested window,
// normalize it losslessly, transcribe, and shift timestamps to absolute
// video positions.
func (p *Pipeline) runRange(ctx context.Context, videoID, workDir string, startSec, durSec float64, language string) ([]subtitle.Segment, error) {
	raw, err := p.stage(ctx, "fetch_range", func() (media.Asset, error) {
		return p.fetcher.FetchRange(ctx, videoID, workDir, startSec, durSec)
	})
	if err != nil {
		return nil, err
	}

	normalized, err := p.stage(ctx, "normalize", func() (media.Asset, error) {
		return p.transcoder.Normalize(ctx, raw, workDir, media.NormalizeOptions{})
	})
	if err != nil {
		return nil, err
	}
	_ = raw.Remove()

	segments, err := p.transcribeStage(ctx, normalized.Path, language)
	if err != nil {
		return nil, err
	}

	return subtitle.OffsetBy(segments, startSec), nil
}

// stage runs one pipeline stage with timing metrics.
func (p *Pipeline) stage(ctx context.Context, name string, run func() (media.Asset, error)) (media.Asset, error) {
	start := time.Now()
	asset, err := run()
	status := "success"
	if err != nil {
		status = "error"
	}
	p.metrics.RecordStage(ctx, name, status, time.Since(start))
	return asset, err
}

func (p *Pipeline) transcribeStage(ctx context.Context, path, language string) ([]subtitle.Segment, error) {
	start := time.Now()
	segments, err := p.transcriber.Transcribe(ctx, path, language)
	status := "success"
	if err != nil {
		status = "error"
	}
	p.metrics.RecordStage(ctx, "transcribe", status, time.Since(start))
	return segments, err
}

func errorCode(err error) string {
	if appErr, ok := apperrors.AsAppError(err); ok {
		return string(appErr.Code)
	}
	return ""
}
