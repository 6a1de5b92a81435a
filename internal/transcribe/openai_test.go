package transcribe_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	apperrors "github.com/skillsenselab/ytscribe/internal/errors"
	"github.com/skillsenselab/ytscribe/internal/logger"
	"github.com/skillsenselab/ytscribe/internal/transcribe"
)

func writeAudio(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audio.mp3")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newClient(baseURL string) *transcribe.OpenAIClient {
	return transcribe.NewOpenAIClient(transcribe.Config{
		APIKey:  "test-key",
		BaseURL: baseURL,
	}, logger.NewDefault("test"))
}

func TestTranscribe(t *testing.T) {
	var gotAuth, gotModel, gotFormat string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatal(err)
		}
		gotModel = r.FormValue("model")
		gotFormat = r.FormValue("response_format")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"text": "hello there world",
			"language": "en",
			"duration": 7.0,
			"segments": [
				{"start": 0.0, "end": 2.0, "text": " hello there "},
				{"start": 5.0, "end": 7.0, "text": "world"}
			]
		}`))
	}))
	defer srv.Close()

	segments, err := newClient(srv.URL).Transcribe(context.Background(), writeAudio(t, "audio"), "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotAuth != "Bearer test-key" {
		t.Fatalf("auth header = %q", gotAuth)
	}
	if gotModel != "whisper-1" || gotFormat != "verbose_json" {
		t.Fatalf("model=%q format=%q", gotModel, gotFormat)
	}

	if len(segments) != 2 {
		t.Fatalf("got %d segments, want 2", len(segments))
	}
	if segments[0].Text != "hello there" {
		t.Fatalf("expected trimmed text, got %q", segments[0].Text)
	}
	if segments[1].Start != 5.0 || segments[1].End != 7.0 {
		t.Fatalf("unexpected timing: %+v", segments[1])
	}
}

func TestTranscribeMissingFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no remote call expected for a missing file")
	}))
	defer srv.Close()

	_, err := newClient(srv.URL).Transcribe(context.Background(), "/nonexistent/audio.mp3", "")
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.Code != apperrors.ErrCodeEmptyAsset {
		t.Fatalf("expected EMPTY_ASSET, got %v", err)
	}
}

func TestTranscribeEmptyFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no remote call expected for an empty file")
	}))
	defer srv.Close()

	_, err := newClient(srv.URL).Transcribe(context.Background(), writeAudio(t, ""), "")
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.Code != apperrors.ErrCodeEmptyAsset {
		t.Fatalf("expected EMPTY_ASSET, got %v", err)
	}
}

func TestTranscribeServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "rate limited"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newClient(srv.URL).Transcribe(context.Background(), writeAudio(t, "audio"), "")
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.Code != apperrors.ErrCodeTranscriptionService {
		t.Fatalf("expected TRANSCRIPTION_SERVICE_ERROR, got %v", err)
	}
}

func TestTranscribeMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text": "no segments field"}`))
	}))
	defer srv.Close()

	_, err := newClient(srv.URL).Transcribe(context.Background(), writeAudio(t, "audio"), "")
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.Code != apperrors.ErrCodeTranscriptionService {
		t.Fatalf("expected TRANSCRIPTION_SERVICE_ERROR, got %v", err)
	}
}
