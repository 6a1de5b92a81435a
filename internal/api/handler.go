// Package api exposes the transcription pipeline over HTTP.
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/skillsenselab/ytscribe/internal/errors"
	"github.com/skillsenselab/ytscribe/internal/logger"
	"github.com/skillsenselab/ytscribe/internal/service"
	"github.com/skillsenselab/ytscribe/internal/validation"
)

// Transcriber is what the handlers need from the pipeline.
type Transcriber interface {
	TranscribeVideo(ctx context.Context, ref, language string) (*service.Result, service.CleanupFunc, error)
	TranscribeSegment(ctx context.Context, ref string, startSec, durSec float64, language string) (*service.Result, service.CleanupFunc, error)
}

// Handler holds the HTTP handlers for the transcription API.
type Handler struct {
	pipeline    Transcriber
	serviceName string
	log         *logger.Logger
}

// NewHandler creates a Handler.
func NewHandler(pipeline Transcriber, serviceName string, log *logger.Logger) *Handler {
	return &Handler{
		pipeline:    pipeline,
		serviceName: serviceName,
		log:         log.WithComponent("api"),
	}
}

// Register attaches all routes to the engine.
func (h *Handler) Register(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.GET("/transcribe", h.Transcribe)
	r.GET("/transcribe-segment", h.TranscribeSegment)
}

// Health reports service liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "healthy",
		Service: h.serviceName,
	})
}

// Transcribe handles GET /transcribe. It transcribes the full audio track of
// the referenced video and responds with timestamped subtitles.
func (h *Handler) Transcribe(c *gin.Context) {
	var req transcribeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.renderError(c, apperrors.Validation(err.Error()))
		return
	}
	if err := validation.Validate(req); err != nil {
		h.renderError(c, err)
		return
	}

	result, cleanup, err := h.pipeline.TranscribeVideo(c.Request.Context(), req.VideoURL, req.Language)
	if err != nil {
		h.renderError(c, err)
		go cleanup()
		return
	}

	c.JSON(http.StatusOK, TranscribeResponse{
		Subtitles: result.Segments,
		VideoID:   result.VideoID,
		Status:    "success",
		Message:   fmt.Sprintf("Transcribed %d segments", len(result.Segments)),
	})
	// Working files are disposed only after the response has been written.
	go cleanup()
}

// TranscribeSegment handles GET /transcribe-segment. It transcribes only the
// requested time window; returned timestamps are absolute video positions.
func (h *Handler) TranscribeSegment(c *gin.Context) {
	var req segmentRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.renderError(c, apperrors.Validation(err.Error()))
		return
	}
	if err := validation.Validate(req); err != nil {
		h.renderError(c, err)
		return
	}

	result, cleanup, err := h.pipeline.TranscribeSegment(
		c.Request.Context(), req.VideoURL, req.StartSeconds, req.DurationSeconds, req.Language)
	if err != nil {
		h.renderError(c, err)
		go cleanup()
		return
	}

	c.JSON(http.StatusOK, SegmentResponse{
		Subtitles:       result.Segments,
		VideoID:         result.VideoID,
		SegmentStart:    req.StartSeconds,
		SegmentDuration: req.DurationSeconds,
		Status:          "success",
		Message:         fmt.Sprintf("Transcribed %d segments", len(result.Segments)),
	})
	go cleanup()
}

// renderError maps any error to the unified error response shape. Unknown
// errors become INTERNAL_ERROR without leaking internals to the client.
func (h *Handler) renderError(c *gin.Context, err error) {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		appErr = apperrors.Internal(err)
	}

	h.log.Error("Request failed", logger.Fields(
		"path", c.Request.URL.Path,
		"code", string(appErr.Code),
		logger.FieldError, appErr.Error(),
	))

	c.JSON(appErr.HTTPStatus, appErr.ToResponse())
}
