package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Video contains output video parameters.
type Video struct {
	Width        int    `toml:"width"`
	Height       int    `toml:"height"`
	FPS          int    `toml:"fps"`
	VideoCodec   string `toml:"video_codec"`
	AudioCodec   string `toml:"audio_codec"`
	AudioBitrate string `toml:"audio_bitrate"`
	PixelFormat  string `toml:"pixel_format"`
}

// Subtitles contains subtitle chunking parameters.
type Subtitles struct {
	MaxChars int    `toml:"max_chars"`
	Provider string `toml:"provider"` // "", "gemini", "openai", "anthropic"
	Model    string `toml:"model"`
}

// TTS contains speech synthesis parameters.
type TTS struct {
	Voice          string   `toml:"voice"`
	FallbackVoices []string `toml:"fallback_voices"`
	Rate           string   `toml:"rate"`
	Volume         string   `toml:"volume"`
	Pitch          string   `toml:"pitch"`
	TimeoutSeconds int      `toml:"timeout_seconds"`
}

// Paths contains directory configuration.
type Paths struct {
	OutputDir string `toml:"output_dir"`
	AssetsDir string `toml:"assets_dir"`
}

// News contains source-fetch parameters.
type News struct {
	MaxItems int  `toml:"max_items"`
	UseMock  bool `toml:"use_mock"`
}

// Config is the full newscast configuration.
type Config struct {
	Video     Video     `toml:"video"`
	Subtitles Subtitles `toml:"subtitles"`
	TTS       TTS       `toml:"tts"`
	Paths     Paths     `toml:"paths"`
	News      News      `toml:"news"`
}

// Default returns the repository defaults.
func Default() Config {
	return Config{
		Video: Video{
			Width:        1920,
			Height:       1080,
			FPS:          30,
			VideoCodec:   "libx264",
			AudioCodec:   "aac",
			AudioBitrate: "192k",
			PixelFormat:  "yuv420p",
		},
		Subtitles: Subtitles{
			MaxChars: 14,
		},
		TTS: TTS{
			Voice: "zh-CN-XiaoxiaoNeural",
			FallbackVoices: []string{
				"zh-CN-YunxiNeural",
				"zh-CN-YunyangNeural",
			},
			Rate:           "+0%",
			Volume:         "+0%",
			Pitch:          "+0Hz",
			TimeoutSeconds: 60,
		},
		Paths: Paths{
			OutputDir: "output",
			AssetsDir: "assets",
		},
		News: News{
			MaxItems: 8,
		},
	}
}

// Load reads a TOML config file on top of the defaults. A missing file is
// not an error; the defaults (plus env overrides) are returned instead.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			applyEnv(&cfg)
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("NEWSCAST_VOICE"); v != "" {
		cfg.TTS.Voice = v
	}
	if v := os.Getenv("NEWSCAST_OUTPUT_DIR"); v != "" {
		cfg.Paths.OutputDir = v
	}
}

// Validate rejects values the pipeline cannot work with.
func (c Config) Validate() error {
	if c.Video.FPS <= 0 {
		return fmt.Errorf("video.fps must be positive, got %d", c.Video.FPS)
	}
	if c.Subtitles.MaxChars <= 0 {
		return fmt.Errorf("subtitles.max_chars must be positive, got %d", c.Subtitles.MaxChars)
	}
	if c.Video.Width <= 0 || c.Video.Height <= 0 {
		return fmt.Errorf("video dimensions must be positive, got %dx%d", c.Video.Width, c.Video.Height)
	}
	if c.TTS.Voice == "" {
		return errors.New("tts.voice must not be empty")
	}
	return nil
}
