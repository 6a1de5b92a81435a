package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/skillsenselab/ytscribe/internal/config"
)

func TestApplyDefaults(t *testing.T) {
	var cfg config.Config
	cfg.ApplyDefaults()

	if cfg.Name != "ytscribe" {
		t.Errorf("name = %q, want ytscribe", cfg.Name)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("server.port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Pipeline.MaxChunkBytes != 26*1024*1024 {
		t.Errorf("pipeline.max_chunk_bytes = %d, want 26 MB", cfg.Pipeline.MaxChunkBytes)
	}
	if cfg.Pipeline.ChunkSeconds != 180 {
		t.Errorf("pipeline.chunk_seconds = %d, want 180", cfg.Pipeline.ChunkSeconds)
	}
	if cfg.Tools.YTDLP != "yt-dlp" || cfg.Tools.FFmpeg != "ffmpeg" {
		t.Errorf("tool defaults wrong: %+v", cfg.Tools)
	}
	if cfg.OpenAI.Model != "whisper-1" {
		t.Errorf("openai.model = %q, want whisper-1", cfg.OpenAI.Model)
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
}

func TestValidateRejectsBadEnvironment(t *testing.T) {
	var cfg config.Config
	cfg.ApplyDefaults()
	cfg.Environment = "sandbox"

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for unknown environment")
	}
}

func TestLoadFromYAMLFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yml")
	yaml := "name: ytscribe\nserver:\n  port: 9090\nlogging:\n  level: debug\n"
	if err := os.WriteFile(file, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	var cfg config.Config
	if err := config.Load("ytscribe", &cfg, config.WithConfigFile(file)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("logging.level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(file, []byte("server:\n  port: 9090\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SERVER_PORT", "7070")

	var cfg config.Config
	if err := config.Load("ytscribe", &cfg, config.WithConfigFile(file)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("server.port = %d, want env override 7070", cfg.Server.Port)
	}
}

func TestLoadDotEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("OPENAI_API_KEY=sk-test\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var cfg config.Config
	if err := config.Load("ytscribe", &cfg, config.WithEnvFile(envFile)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.OpenAI.APIKey != "sk-test" {
		t.Errorf("openai.api_key = %q, want sk-test", cfg.OpenAI.APIKey)
	}
}
