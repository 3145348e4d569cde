package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Video.Width != 1920 || cfg.Video.Height != 1080 {
		t.Errorf("expected 1920x1080, got %dx%d", cfg.Video.Width, cfg.Video.Height)
	}
	if cfg.Video.FPS != 30 {
		t.Errorf("expected 30 fps, got %d", cfg.Video.FPS)
	}
	if cfg.Subtitles.MaxChars != 14 {
		t.Errorf("expected max_chars 14, got %d", cfg.Subtitles.MaxChars)
	}
	if cfg.TTS.Voice != "zh-CN-XiaoxiaoNeural" {
		t.Errorf("unexpected default voice %s", cfg.TTS.Voice)
	}
	if len(cfg.TTS.FallbackVoices) != 2 {
		t.Errorf("expected 2 fallback voices, got %d", len(cfg.TTS.FallbackVoices))
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("missing config file must not be an error: %v", err)
	}
	if cfg.Video.FPS != 30 {
		t.Errorf("expected default fps, got %d", cfg.Video.FPS)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	content := `
[video]
fps = 24

[subtitles]
max_chars = 12
provider = "gemini"

[tts]
voice = "zh-CN-YunjianNeural"
`
	path := filepath.Join(t.TempDir(), "newscast.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Video.FPS != 24 {
		t.Errorf("expected fps 24, got %d", cfg.Video.FPS)
	}
	if cfg.Subtitles.MaxChars != 12 || cfg.Subtitles.Provider != "gemini" {
		t.Errorf("subtitle overrides not applied: %+v", cfg.Subtitles)
	}
	if cfg.TTS.Voice != "zh-CN-YunjianNeural" {
		t.Errorf("expected overridden voice, got %s", cfg.TTS.Voice)
	}
	// untouched sections keep their defaults
	if cfg.Video.Width != 1920 {
		t.Errorf("expected default width, got %d", cfg.Video.Width)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "newscast.toml")
	if err := os.WriteFile(path, []byte("[video\nfps ="), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed TOML")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "newscast.toml")
	if err := os.WriteFile(path, []byte("[video]\nfps = -1\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected validation error for negative fps")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("NEWSCAST_VOICE", "zh-CN-XiaoyiNeural")
	t.Setenv("NEWSCAST_OUTPUT_DIR", "/tmp/episodes")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.TTS.Voice != "zh-CN-XiaoyiNeural" {
		t.Errorf("expected env voice, got %s", cfg.TTS.Voice)
	}
	if cfg.Paths.OutputDir != "/tmp/episodes" {
		t.Errorf("expected env output dir, got %s", cfg.Paths.OutputDir)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero fps", func(c *Config) { c.Video.FPS = 0 }},
		{"zero max chars", func(c *Config) { c.Subtitles.MaxChars = 0 }},
		{"zero width", func(c *Config) { c.Video.Width = 0 }},
		{"empty voice", func(c *Config) { c.TTS.Voice = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
