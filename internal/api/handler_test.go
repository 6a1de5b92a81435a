package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/ytscribe/internal/api"
	apperrors "github.com/skillsenselab/ytscribe/internal/errors"
	"github.com/skillsenselab/ytscribe/internal/logger"
	"github.com/skillsenselab/ytscribe/internal/service"
	"github.com/skillsenselab/ytscribe/internal/subtitle"
)

type fakePipeline struct {
	result       *service.Result
	err          error
	cleanupCalls atomic.Int32

	gotRef      string
	gotLanguage string
	gotStart    float64
	gotDur      float64
}

func (f *fakePipeline) cleanup() service.CleanupFunc {
	return func() { f.cleanupCalls.Add(1) }
}

func (f *fakePipeline) TranscribeVideo(ctx context.Context, ref, language string) (*service.Result, service.CleanupFunc, error) {
	f.gotRef, f.gotLanguage = ref, language
	return f.result, f.cleanup(), f.err
}

func (f *fakePipeline) TranscribeSegment(ctx context.Context, ref string, startSec, durSec float64, language string) (*service.Result, service.CleanupFunc, error) {
	f.gotRef, f.gotLanguage = ref, language
	f.gotStart, f.gotDur = startSec, durSec
	return f.result, f.cleanup(), f.err
}

func newRouter(p *fakePipeline) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api.NewHandler(p, "ytscribe", logger.NewDefault("test")).Register(r)
	return r
}

func waitForCleanup(t *testing.T, p *fakePipeline) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for p.cleanupCalls.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("cleanup was never called")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestHealth(t *testing.T) {
	r := newRouter(&fakePipeline{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "healthy" {
		t.Fatalf("status field = %q, want healthy", body["status"])
	}
}

func TestTranscribeSuccess(t *testing.T) {
	p := &fakePipeline{result: &service.Result{
		VideoID: "dQw4w9WgXcQ",
		Segments: []subtitle.Segment{
			{Start: 0, End: 2.5, Text: "hello"},
		},
	}}
	r := newRouter(p)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/transcribe?video_url=dQw4w9WgXcQ&language=en", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp api.TranscribeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.VideoID != "dQw4w9WgXcQ" || resp.Status != "success" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if len(resp.Subtitles) != 1 || resp.Subtitles[0].Text != "hello" {
		t.Fatalf("unexpected subtitles: %+v", resp.Subtitles)
	}
	if p.gotLanguage != "en" {
		t.Errorf("language = %q, want en", p.gotLanguage)
	}

	waitForCleanup(t, p)
}

func TestTranscribeMissingVideoURL(t *testing.T) {
	r := newRouter(&fakePipeline{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/transcribe", nil))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	var resp apperrors.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Error.Code != apperrors.ErrCodeInvalidInput {
		t.Fatalf("code = %q, want INVALID_INPUT", resp.Error.Code)
	}
}

func TestTranscribePipelineError(t *testing.T) {
	p := &fakePipeline{err: apperrors.DownloadFailed(context.DeadlineExceeded)}
	r := newRouter(p)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/transcribe?video_url=dQw4w9WgXcQ", nil))

	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", w.Code)
	}

	var resp apperrors.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Error.Code != apperrors.ErrCodeDownloadFailed {
		t.Fatalf("code = %q, want DOWNLOAD_FAILED", resp.Error.Code)
	}

	waitForCleanup(t, p)
}

func TestTranscribeSegmentSuccess(t *testing.T) {
	p := &fakePipeline{result: &service.Result{
		VideoID: "dQw4w9WgXcQ",
		Segments: []subtitle.Segment{
			{Start: 30, End: 33, Text: "mid video"},
		},
	}}
	r := newRouter(p)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		"/transcribe-segment?video_url=dQw4w9WgXcQ&start_seconds=30&duration_seconds=45", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp api.SegmentResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.SegmentStart != 30 || resp.SegmentDuration != 45 {
		t.Fatalf("unexpected window: %+v", resp)
	}
	if p.gotStart != 30 || p.gotDur != 45 {
		t.Fatalf("pipeline got start=%v dur=%v", p.gotStart, p.gotDur)
	}

	waitForCleanup(t, p)
}

func TestTranscribeSegmentRejectsBadWindow(t *testing.T) {
	cases := []struct {
		name  string
		query string
	}{
		{"negative start", "video_url=dQw4w9WgXcQ&start_seconds=-1&duration_seconds=10"},
		{"zero duration", "video_url=dQw4w9WgXcQ&start_seconds=0&duration_seconds=0"},
		{"duration too long", "video_url=dQw4w9WgXcQ&start_seconds=0&duration_seconds=7200"},
	}

	r := newRouter(&fakePipeline{})
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/transcribe-segment?"+tc.query, nil))
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
		})
	}
}
