package pipeline

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/tingwen/newscast/internal/audio"
	"github.com/tingwen/newscast/internal/config"
	"github.com/tingwen/newscast/internal/frames"
	"github.com/tingwen/newscast/internal/logging"
	"github.com/tingwen/newscast/internal/script"
	"github.com/tingwen/newscast/internal/segment"
	"github.com/tingwen/newscast/internal/video"
)

// Splitter produces subtitle chunks for a block's text.
type Splitter interface {
	Split(ctx context.Context, text string) []string
}

// Synthesizer writes one audio asset per block and reports its duration.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, targetPath string) (float64, error)
}

// episode state, in processing order
type State string

const (
	StateCollecting    State = "collecting-blocks"
	StateSynthesizing  State = "synthesizing-all"
	StateConcatenating State = "concatenating-audio"
	StateRendering     State = "allocating-and-rendering-frames"
	StateMuxing        State = "muxing"
	StateDone          State = "done"
	StateFailed        State = "failed"
)

// Pipeline assembles one episode: it owns the temporary arena, sequences
// synthesis, concatenation, frame rendering and muxing strictly in block
// order, and guarantees the arena is gone afterwards whatever happened.
type Pipeline struct {
	cfg      config.Config
	splitter Splitter
	synth    Synthesizer
	renderer frames.Renderer
	logger   *logging.Logger

	state  State
	blocks []*script.Block

	// injection points for deterministic tests
	concat    func(ctx context.Context, inputs []string, output string) error
	probe     func(ctx context.Context, path string) (float64, error)
	encode    func(ctx context.Context, framePattern string, totalFrames int, audioPath string, audioDuration float64, outputPath string, opts video.EncodeOptions) error
	saveFrame func(img image.Image, path string) error
	tempRoot  string
}

// Option configures a Pipeline.
type Option func(*Pipeline)

func WithConcat(concat func(ctx context.Context, inputs []string, output string) error) Option {
	return func(p *Pipeline) { p.concat = concat }
}

func WithProber(probe func(ctx context.Context, path string) (float64, error)) Option {
	return func(p *Pipeline) { p.probe = probe }
}

func WithEncoder(encode func(ctx context.Context, framePattern string, totalFrames int, audioPath string, audioDuration float64, outputPath string, opts video.EncodeOptions) error) Option {
	return func(p *Pipeline) { p.encode = encode }
}

func WithFrameSaver(save func(img image.Image, path string) error) Option {
	return func(p *Pipeline) { p.saveFrame = save }
}

func WithTempRoot(dir string) Option {
	return func(p *Pipeline) { p.tempRoot = dir }
}

func New(
	cfg config.Config,
	splitter Splitter,
	synth Synthesizer,
	renderer frames.Renderer,
	logger *logging.Logger,
	opts ...Option,
) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}
	p := &Pipeline{
		cfg:       cfg,
		splitter:  splitter,
		synth:     synth,
		renderer:  renderer,
		logger:    logger,
		state:     StateCollecting,
		concat:    audio.Concat,
		probe:     audio.Duration,
		encode:    video.Encode,
		saveFrame: savePNG,
		tempRoot:  os.TempDir(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// State reports the last state the pipeline reached.
func (p *Pipeline) State() State { return p.state }

// Blocks returns the blocks processed by the last Run, with measured
// durations and subtitle chunks filled in.
func (p *Pipeline) Blocks() []*script.Block { return p.blocks }

// Run assembles the episode and returns the output path. On any fatal error
// the arena is removed and the error identifies the failing stage.
func (p *Pipeline) Run(ctx context.Context, producer script.Producer, outputPath string) (_ string, err error) {
	defer func() {
		if err != nil {
			p.state = StateFailed
		}
	}()

	p.state = StateCollecting
	blocks, err := p.collect(ctx, producer)
	p.blocks = blocks
	if err != nil {
		return "", err
	}

	arena := filepath.Join(p.tempRoot, "newscast-"+uuid.NewString())
	if err := os.MkdirAll(filepath.Join(arena, "frames"), 0755); err != nil {
		return "", fmt.Errorf("create arena: %w", err)
	}
	// the arena must not outlive the run, success or failure
	defer os.RemoveAll(arena)

	p.state = StateSynthesizing
	blockAudio, err := p.synthesizeAll(ctx, blocks, arena)
	if err != nil {
		return "", err
	}

	p.state = StateConcatenating
	fullAudio := filepath.Join(arena, "full_audio.mp3")
	if err := p.concat(ctx, blockAudio, fullAudio); err != nil {
		return "", stageErr(StageConcat, err)
	}
	totalDuration, err := p.probe(ctx, fullAudio)
	if err != nil {
		return "", stageErr(StageProbe, err)
	}

	p.state = StateRendering
	totalFrames, err := p.renderAll(ctx, blocks, filepath.Join(arena, "frames"))
	if err != nil {
		return "", err
	}

	p.state = StateMuxing
	framePattern := filepath.Join(arena, "frames", "frame_%06d.png")
	encodeOpts := video.EncodeOptions{
		VideoCodec:   p.cfg.Video.VideoCodec,
		AudioCodec:   p.cfg.Video.AudioCodec,
		AudioBitrate: p.cfg.Video.AudioBitrate,
		PixelFormat:  p.cfg.Video.PixelFormat,
		DefaultFPS:   p.cfg.Video.FPS,
	}
	if err := p.encode(ctx, framePattern, totalFrames, fullAudio, totalDuration, outputPath, encodeOpts); err != nil {
		return "", stageErr(StageMux, err)
	}

	p.state = StateDone
	p.logger.Infow("episode assembled",
		"output", outputPath,
		"blocks", len(blocks),
		"frames", totalFrames,
		"audio_duration", totalDuration,
	)
	return outputPath, nil
}

// collect materializes the block sequence and its subtitle chunks. Blocks
// with no speakable text are dropped here; an episode needs at least one.
func (p *Pipeline) collect(ctx context.Context, producer script.Producer) ([]*script.Block, error) {
	produced, err := producer.Blocks()
	if err != nil {
		return nil, stageErr(StageCollect, fmt.Errorf("%w: %v", ErrEmptyInput, err))
	}

	var blocks []*script.Block
	for _, b := range produced {
		if segment.Clean(b.Text) == "" {
			continue
		}
		b.Subtitles = p.splitter.Split(ctx, b.Text)
		blocks = append(blocks, b)
	}

	if len(blocks) == 0 {
		return nil, stageErr(StageCollect, ErrEmptyInput)
	}

	p.logger.Infow("collected blocks", "count", len(blocks))
	return blocks, nil
}

// synthesizeAll runs block synthesis strictly in document order. Block N+1
// does not start before block N's asset is on disk, which keeps temp naming
// and failure accounting deterministic.
func (p *Pipeline) synthesizeAll(ctx context.Context, blocks []*script.Block, arena string) ([]string, error) {
	paths := make([]string, 0, len(blocks))
	for i, b := range blocks {
		audioPath := filepath.Join(arena, fmt.Sprintf("block_%03d.mp3", i))
		d, err := p.synth.Synthesize(ctx, b.Text, audioPath)
		if err != nil {
			return nil, stageErr(StageSynth, err)
		}
		// duration is assigned exactly once, here
		b.Duration = d
		paths = append(paths, audioPath)

		p.logger.Debugw("block synthesized",
			"index", i,
			"scene", b.Scene,
			"duration", d,
		)
	}
	return paths, nil
}

// renderAll emits frames in block order, one file per allocated slot, and
// returns the total frame count.
func (p *Pipeline) renderAll(ctx context.Context, blocks []*script.Block, frameDir string) (int, error) {
	frameIndex := 0
	for _, b := range blocks {
		counts := frames.Allocate(b.Duration, b.Subtitles, p.cfg.Video.FPS)
		blockFrames := 0
		for _, c := range counts {
			blockFrames += c
		}

		blockPos := 0
		for chunkIdx, count := range counts {
			for i := 0; i < count; i++ {
				select {
				case <-ctx.Done():
					return 0, stageErr(StageRender, ctx.Err())
				default:
				}

				progress := float64(blockPos) / float64(blockFrames)
				img, err := p.renderer.Render(b, b.Subtitles[chunkIdx], progress)
				if err != nil {
					return 0, stageErr(StageRender, err)
				}

				framePath := filepath.Join(frameDir, fmt.Sprintf("frame_%06d.png", frameIndex))
				if err := p.saveFrame(img, framePath); err != nil {
					return 0, stageErr(StageRender, err)
				}
				frameIndex++
				blockPos++
			}
		}
	}
	return frameIndex, nil
}

func savePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create frame file: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode frame: %w", err)
	}
	return f.Close()
}
