package media_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/skillsenselab/ytscribe/internal/media"
	"github.com/skillsenselab/ytscribe/internal/process"
)

func TestProbeDurationFFprobe(t *testing.T) {
	runner := &fakeRunner{
		script: func(cmd process.Command) (*process.Result, error) {
			return &process.Result{Stdout: []byte("323.450000\n")}, nil
		},
	}
	tools := media.Tools{}
	tools.ApplyDefaults()

	d, err := media.ProbeDuration(context.Background(), runner, tools, "/tmp/a.wav")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != 323.45 {
		t.Fatalf("duration = %v, want 323.45", d)
	}
	if len(runner.calls) != 1 {
		t.Fatalf("expected a single ffprobe call, got %d", len(runner.calls))
	}
}

func TestProbeDurationFFmpegFallback(t *testing.T) {
	runner := &fakeRunner{
		script: func(cmd process.Command) (*process.Result, error) {
			if cmd.Binary == "ffprobe" {
				return &process.Result{}, fmt.Errorf("exit code 1")
			}
			stderr := "Input #0, wav\n  Duration: 00:05:23.45, bitrate: 256 kb/s\n"
			return &process.Result{Stderr: []byte(stderr)}, fmt.Errorf("exit code 1")
		},
	}
	tools := media.Tools{}
	tools.ApplyDefaults()

	d, err := media.ProbeDuration(context.Background(), runner, tools, "/tmp/a.wav")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != 323.45 {
		t.Fatalf("duration = %v, want 323.45", d)
	}
}

func TestProbeDurationUnparseable(t *testing.T) {
	runner := &fakeRunner{
		script: func(cmd process.Command) (*process.Result, error) {
			return &process.Result{}, fmt.Errorf("exit code 1")
		},
	}
	tools := media.Tools{}
	tools.ApplyDefaults()

	if _, err := media.ProbeDuration(context.Background(), runner, tools, "/tmp/a.wav"); err == nil {
		t.Fatal("expected error")
	}
}
