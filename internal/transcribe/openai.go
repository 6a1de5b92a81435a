package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/skillsenselab/ytscribe/internal/errors"
	"github.com/skillsenselab/ytscribe/internal/logger"
	"github.com/skillsenselab/ytscribe/internal/subtitle"
)

// OpenAIClient implements Client against the OpenAI Whisper transcription
// API using multipart upload and the verbose_json response format.
type OpenAIClient struct {
	cfg    Config
	client *http.Client
	log    *logger.Logger
}

// NewOpenAIClient creates an OpenAIClient.
func NewOpenAIClient(cfg Config, log *logger.Logger) *OpenAIClient {
	cfg.ApplyDefaults()
	return &OpenAIClient{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		log:    log.WithComponent("transcribe"),
	}
}

// Transcribe implements Client. The asset is checked locally before any
// network round trip: a missing or empty file fails fast with EMPTY_ASSET.
func (c *OpenAIClient) Transcribe(ctx context.Context, audioPath, language string) ([]subtitle.Segment, error) {
	info, err := os.Stat(audioPath)
	if err != nil || info.Size() == 0 {
		return nil, apperrors.EmptyAsset(audioPath)
	}

	audioData, err := os.ReadFile(audioPath)
	if err != nil {
		return nil, apperrors.TranscriptionService(fmt.Errorf("read audio file: %w", err))
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	_ = writer.WriteField("model", c.cfg.Model)
	_ = writer.WriteField("response_format", "verbose_json")
	if language != "" {
		_ = writer.WriteField("language", language)
	}

	part, err := writer.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, apperrors.TranscriptionService(fmt.Errorf("create form file: %w", err))
	}
	if _, err := part.Write(audioData); err != nil {
		return nil, apperrors.TranscriptionService(fmt.Errorf("write audio data: %w", err))
	}
	writer.Close()

	c.log.Info("Transcribing audio file", logger.Fields(
		"path", audioPath,
		"size_bytes", info.Size(),
		"model", c.cfg.Model,
	))

	url := strings.TrimSuffix(c.cfg.BaseURL, "/") + "/audio/transcriptions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return nil, apperrors.TranscriptionService(fmt.Errorf("create request: %w", err))
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, apperrors.TranscriptionService(fmt.Errorf("transcription request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, apperrors.TranscriptionService(
			fmt.Errorf("transcription error (status %d): %s", resp.StatusCode, string(body)))
	}

	var result verboseResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, apperrors.TranscriptionService(fmt.Errorf("decode response: %w", err))
	}
	if result.Segments == nil {
		return nil, apperrors.TranscriptionService(fmt.Errorf("response missing segments"))
	}

	segments := make([]subtitle.Segment, len(result.Segments))
	for i, seg := range result.Segments {
		segments[i] = subtitle.Segment{
			Start: seg.Start,
			End:   seg.End,
			Text:  strings.TrimSpace(seg.Text),
		}
	}
	return segments, nil
}

// --- verbose_json response types ---

type verboseResponse struct {
	Text     string           `json:"text"`
	Language string           `json:"language"`
	Duration float64          `json:"duration"`
	Segments []verboseSegment `json:"segments"`
}

type verboseSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}
