package ffmpeg

import (
	"fmt"
	"os"
	"os/exec"
	"sync"
)

type BinaryPaths struct {
	FFmpeg  string
	FFprobe string
}

var (
	ensureOnce sync.Once
	ensureErr  error
	ensurePath BinaryPaths
)

// Ensure resolves ffmpeg and ffprobe once per process: explicit env
// overrides first, then PATH lookup.
func Ensure() (BinaryPaths, error) {
	ensureOnce.Do(func() {
		ensurePath, ensureErr = ensure()
	})
	return ensurePath, ensureErr
}

func FFmpegPath() (string, error) {
	paths, err := Ensure()
	if err != nil {
		return "", err
	}
	return paths.FFmpeg, nil
}

func FFprobePath() (string, error) {
	paths, err := Ensure()
	if err != nil {
		return "", err
	}
	return paths.FFprobe, nil
}

func ensure() (BinaryPaths, error) {
	ffmpegPath := os.Getenv("NEWSCAST_FFMPEG_PATH")
	ffprobePath := os.Getenv("NEWSCAST_FFPROBE_PATH")

	if ffmpegPath == "" {
		found, err := exec.LookPath("ffmpeg")
		if err != nil {
			return BinaryPaths{}, fmt.Errorf("ffmpeg not found in PATH (set NEWSCAST_FFMPEG_PATH to override): %w", err)
		}
		ffmpegPath = found
	}
	if ffprobePath == "" {
		found, err := exec.LookPath("ffprobe")
		if err != nil {
			return BinaryPaths{}, fmt.Errorf("ffprobe not found in PATH (set NEWSCAST_FFPROBE_PATH to override): %w", err)
		}
		ffprobePath = found
	}

	return BinaryPaths{FFmpeg: ffmpegPath, FFprobe: ffprobePath}, nil
}
