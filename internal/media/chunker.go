package media

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/skillsenselab/ytscribe/internal/errors"
	"github.com/skillsenselab/ytscribe/internal/logger"
	"github.com/skillsenselab/ytscribe/internal/process"
)

// Chunker splits an oversized audio asset into fixed-duration pieces that fit
// under the transcription service's size limit.
type Chunker struct {
	tools  Tools
	runner process.Runner
	log    *logger.Logger
}

// NewChunker creates a Chunker.
func NewChunker(tools Tools, runner process.Runner, log *logger.Logger) *Chunker {
	tools.ApplyDefaults()
	return &Chunker{
		tools:  tools,
		runner: runner,
		log:    log.WithComponent("chunker"),
	}
}

// SplitIfOversized returns the asset unchanged when it is at or under
// maxBytes. Otherwise it splits the file into contiguous chunkSeconds pieces
// (the last may be shorter) using lossless stream copy and returns them in
// chronological order. Downstream offset arithmetic depends on index order
// matching time order.
func (c *Chunker) SplitIfOversized(ctx context.Context, asset Asset, destDir string, maxBytes int64, chunkSeconds int) ([]Asset, error) {
	if asset.Size <= maxBytes {
		return []Asset{asset}, nil
	}

	ext := filepath.Ext(asset.Path)
	pattern := filepath.Join(destDir, "chunk_%03d"+ext)

	c.log.Info("Splitting oversized audio", logger.Fields(
		"size_bytes", asset.Size,
		"max_bytes", maxBytes,
		"chunk_seconds", chunkSeconds,
	))

	result, err := c.runner.Run(ctx, process.Command{
		Binary: c.tools.FFmpeg,
		Args: []string{
			"-i", asset.Path,
			"-f", "segment",
			"-segment_time", strconv.Itoa(chunkSeconds),
			"-c", "copy",
			"-y", "-loglevel", "error",
			pattern,
		},
		Timeout: c.tools.Timeout,
	})
	if err != nil {
		if result != nil && len(result.Stderr) > 0 {
			err = fmt.Errorf("%w: %s", err, tail(result.Stderr, 400))
		}
		return nil, errors.ChunkingFailed(err)
	}

	matches, err := filepath.Glob(filepath.Join(destDir, "chunk_*"+ext))
	if err != nil {
		return nil, errors.ChunkingFailed(err)
	}
	if len(matches) == 0 {
		return nil, errors.ChunkingFailed(fmt.Errorf("splitting produced no output pieces"))
	}
	// Zero-padded names sort lexically into chronological order.
	sort.Strings(matches)

	chunks := make([]Asset, 0, len(matches))
	for _, m := range matches {
		chunk, err := NewAsset(m)
		if err != nil {
			return nil, errors.ChunkingFailed(err)
		}
		chunks = append(chunks, chunk)
	}

	c.log.Info("Split complete", logger.Fields("chunks", len(chunks)))
	return chunks, nil
}
