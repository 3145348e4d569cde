package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	ffmpegbin "github.com/tingwen/newscast/internal/ffmpeg"
)

// JSON output from ffprobe
type ffprobeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Duration probes an audio/video file with ffprobe. A probe that yields no
// numeric duration is an error; callers must not guess a value instead.
func Duration(ctx context.Context, filePath string) (float64, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return 0, fmt.Errorf("file not found: %s", filePath)
	}

	ffprobePath, err := ffmpegbin.FFprobePath()
	if err != nil {
		return 0, err
	}

	cmd := exec.CommandContext(ctx, ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		filePath,
	)

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w", err)
	}

	var probe ffprobeOutput
	if err := json.Unmarshal(out.Bytes(), &probe); err != nil {
		return 0, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	return ParseProbeDuration(probe.Format.Duration)
}

// ParseProbeDuration converts ffprobe's duration string to seconds.
func ParseProbeDuration(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("ffprobe produced no duration")
	}
	var seconds float64
	if _, err := fmt.Sscanf(s, "%f", &seconds); err != nil {
		return 0, fmt.Errorf("failed to parse duration %q: %w", s, err)
	}
	return seconds, nil
}

// Concat joins the given audio files into one, in order, with no inserted
// silence, using the ffmpeg concat demuxer with stream copy.
func Concat(ctx context.Context, inputPaths []string, outputPath string) error {
	if len(inputPaths) == 0 {
		return fmt.Errorf("no audio files to concatenate")
	}
	for _, p := range inputPaths {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			return fmt.Errorf("input file not found: %s", p)
		}
	}

	listPath := outputPath + ".txt"
	if err := os.WriteFile(listPath, []byte(concatList(inputPaths)), 0644); err != nil {
		return fmt.Errorf("failed to write concat list: %w", err)
	}
	defer os.Remove(listPath)

	ffmpegPath, err := ffmpegbin.FFmpegPath()
	if err != nil {
		return err
	}

	err = ffmpeg.Input(listPath, ffmpeg.KwArgs{
		"f":    "concat",
		"safe": 0,
	}).
		Output(outputPath, ffmpeg.KwArgs{
			"c": "copy",
			"y": "",
		}).
		OverWriteOutput().
		SetFfmpegPath(ffmpegPath).
		Run()

	if err != nil {
		return fmt.Errorf("concatenation failed: %w", err)
	}

	return nil
}

// concatList renders the concat-demuxer file list. Single quotes inside
// paths are escaped the way the demuxer expects.
func concatList(paths []string) string {
	var sb strings.Builder
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		escaped := strings.ReplaceAll(abs, "'", `'\''`)
		fmt.Fprintf(&sb, "file '%s'\n", escaped)
	}
	return sb.String()
}

// Silence writes a silent mp3 of the given length. The synthesizer leans on
// this when every voice attempt is exhausted, so it must only fail for
// encoder-level reasons.
func Silence(ctx context.Context, outputPath string, seconds float64) error {
	if seconds <= 0 {
		return fmt.Errorf("silence duration must be positive, got %v", seconds)
	}

	outputDir := filepath.Dir(outputPath)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	ffmpegPath, err := ffmpegbin.FFmpegPath()
	if err != nil {
		return err
	}

	err = ffmpeg.Input("anullsrc=r=24000:cl=mono", ffmpeg.KwArgs{
		"f": "lavfi",
	}).
		Output(outputPath, ffmpeg.KwArgs{
			"t":      fmt.Sprintf("%.3f", seconds),
			"acodec": "libmp3lame",
			"y":      "",
		}).
		OverWriteOutput().
		SetFfmpegPath(ffmpegPath).
		Run()

	if err != nil {
		return fmt.Errorf("silence generation failed: %w", err)
	}

	return nil
}
