package video

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	ffmpegbin "github.com/tingwen/newscast/internal/ffmpeg"
)

// EncodeError is a fatal encoder failure carrying ffmpeg's diagnostic
// output verbatim.
type EncodeError struct {
	Stderr string
	Err    error
}

func (e *EncodeError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		return fmt.Sprintf("ffmpeg encoding failed: %v", e.Err)
	}
	return fmt.Sprintf("ffmpeg encoding failed: %v\n%s", e.Err, msg)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// EncodeOptions describe the output container.
type EncodeOptions struct {
	VideoCodec   string
	AudioCodec   string
	AudioBitrate string
	PixelFormat  string

	// used when the audio duration is zero and no rate can be computed
	DefaultFPS int
}

// FrameRate computes the output frame rate that stretches totalFrames over
// the audio exactly, falling back to the default when duration is unusable.
func FrameRate(totalFrames int, audioDuration float64, defaultFPS int) float64 {
	if audioDuration <= 0 {
		return float64(defaultFPS)
	}
	return float64(totalFrames) / audioDuration
}

// Encode muxes a zero-padded frame sequence and one audio track into the
// final container: fixed codecs and pixel format, trimmed to the shorter
// stream, with the moov atom up front for streaming playback.
func Encode(
	ctx context.Context,
	framePattern string,
	totalFrames int,
	audioPath string,
	audioDuration float64,
	outputPath string,
	opts EncodeOptions,
) error {
	if _, err := os.Stat(audioPath); os.IsNotExist(err) {
		return fmt.Errorf("audio file not found: %s", audioPath)
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	ffmpegPath, err := ffmpegbin.FFmpegPath()
	if err != nil {
		return err
	}

	frameRate := FrameRate(totalFrames, audioDuration, opts.DefaultFPS)

	frameInput := ffmpeg.Input(framePattern, ffmpeg.KwArgs{
		"framerate": fmt.Sprintf("%.6f", frameRate),
	})
	audioInput := ffmpeg.Input(audioPath)

	stream := ffmpeg.Output(
		[]*ffmpeg.Stream{frameInput, audioInput},
		outputPath,
		ffmpeg.KwArgs{
			"c:v":      opts.VideoCodec,
			"pix_fmt":  opts.PixelFormat,
			"c:a":      opts.AudioCodec,
			"b:a":      opts.AudioBitrate,
			"shortest": "",
			"movflags": "+faststart",
		},
	).
		OverWriteOutput().
		SetFfmpegPath(ffmpegPath)

	cmd := stream.Compile()
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return &EncodeError{Stderr: stderr.String(), Err: err}
	}

	return nil
}
