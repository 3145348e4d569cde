package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tingwen/newscast/internal/config"
	"github.com/tingwen/newscast/internal/frames"
	"github.com/tingwen/newscast/internal/news"
	"github.com/tingwen/newscast/internal/pipeline"
	"github.com/tingwen/newscast/internal/script"
	"github.com/tingwen/newscast/internal/segment"
	"github.com/tingwen/newscast/internal/subtitle"
	"github.com/tingwen/newscast/internal/tts"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate today's news video",
	Long: `Generate a complete news video episode.

By default the hot-list sources are fetched and a rule-based script is
built locally. A compiled script from the upstream script compiler can be
supplied with --script instead; when it is present and well formed it takes
precedence, otherwise the local builder steps in.

Examples:
  newscast generate
  newscast generate --mock
  newscast generate --script script.json -o output/today.mp4`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().
		String("script", "", "Compiled script JSON from the script compiler")
	generateCmd.Flags().
		Bool("mock", false, "Use the built-in mock news items")
	generateCmd.Flags().
		StringP("output", "o", "", "Output video path")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	scriptPath, _ := cmd.Flags().GetString("script")
	useMock, _ := cmd.Flags().GetBool("mock")
	outputPath, _ := cmd.Flags().GetString("output")

	if err := os.MkdirAll(cfg.Paths.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if outputPath == "" {
		timestamp := time.Now().Format("20060102_150405")
		outputPath = filepath.Join(cfg.Paths.OutputDir, fmt.Sprintf("daily_news_%s.mp4", timestamp))
	}

	compiled := loadCompiledScript(scriptPath)

	var items []script.Item
	if compiled == nil {
		fetcher := news.NewFetcher(logger)
		useMock = useMock || cfg.News.UseMock
		for _, item := range fetcher.FetchAll(ctx, cfg.News.MaxItems, useMock) {
			items = append(items, script.NewItem(item.Title, item.Summary, item.Source))
		}
	}
	producer := script.Select(compiled, items)

	remote := newSegmenter(ctx, cfg)
	splitter := segment.NewSplitter(cfg.Subtitles.MaxChars, remote, logger)

	backend := tts.NewEdgeClient(cfg.TTS.Rate, cfg.TTS.Volume, cfg.TTS.Pitch)
	synth := tts.NewSynthesizer(
		backend,
		cfg.TTS.Voice,
		cfg.TTS.FallbackVoices,
		time.Duration(cfg.TTS.TimeoutSeconds)*time.Second,
		logger,
	)

	renderer := frames.NewDefaultRenderer(cfg.Video.Width, cfg.Video.Height, logger)

	logger.Infow("starting episode generation",
		"output", outputPath,
		"voice", cfg.TTS.Voice,
		"fps", cfg.Video.FPS,
		"max_chars", cfg.Subtitles.MaxChars,
	)

	pipe := pipeline.New(cfg, splitter, synth, renderer, logger)
	videoPath, err := pipe.Run(ctx, producer, outputPath)
	if err != nil {
		return err
	}

	if err := saveSubtitles(pipe.Blocks(), videoPath); err != nil {
		logger.Warnw("failed to save subtitles", "error", err)
	}
	if err := saveMetadata(cfg, pipe.Blocks(), videoPath); err != nil {
		logger.Warnw("failed to save metadata", "error", err)
	}

	absOutput, _ := filepath.Abs(videoPath)
	fmt.Printf("Episode generated successfully: %s\n", absOutput)
	return nil
}

// loadCompiledScript reads the compiler output when a path was given. A
// missing or malformed file just means the local builder runs instead.
func loadCompiledScript(path string) *script.CompilerOutput {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warnw("cannot read compiled script, falling back to local builder",
			"path", path,
			"error", err,
		)
		return nil
	}
	var compiled script.CompilerOutput
	if err := json.Unmarshal(data, &compiled); err != nil {
		logger.Warnw("malformed compiled script, falling back to local builder",
			"path", path,
			"error", err,
		)
		return nil
	}
	return &compiled
}

// newSegmenter builds the optional remote splitter. No provider or no
// credentials simply means local-only splitting.
func newSegmenter(ctx context.Context, cfg config.Config) segment.Segmenter {
	provider := segment.Provider(cfg.Subtitles.Provider)
	if provider == "" {
		return nil
	}

	var apiKey string
	switch provider {
	case segment.ProviderGemini:
		apiKey = os.Getenv("GEMINI_API_KEY")
	case segment.ProviderOpenAI:
		apiKey = os.Getenv("OPENAI_API_KEY")
	case segment.ProviderAnthropic:
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		logger.Warnw("segmentation provider configured but no API key set, using local splitter",
			"provider", provider,
		)
		return nil
	}

	remote, err := segment.Factory(ctx, provider, apiKey, segment.Options{
		Model: cfg.Subtitles.Model,
	})
	if err != nil {
		logger.Warnw("failed to create segmenter, using local splitter",
			"provider", provider,
			"error", err,
		)
		return nil
	}
	return remote
}

// episode metadata written next to the video, for the publishing step
type episodeMetadata struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	VideoFile   string   `json:"video_file"`
	GeneratedAt string   `json:"generated_at"`
	NewsCount   int      `json:"news_count"`
	NewsTitles  []string `json:"news_titles"`
}

// saveSubtitles writes an SRT sidecar next to the video, built from the
// measured block durations and subtitle chunks.
func saveSubtitles(blocks []*script.Block, videoPath string) error {
	timed := make([]subtitle.TimedBlock, 0, len(blocks))
	for _, b := range blocks {
		timed = append(timed, subtitle.TimedBlock{
			Duration: b.Duration,
			Chunks:   b.Subtitles,
		})
	}
	srtPath := strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + ".srt"
	return subtitle.WriteSRT(subtitle.Track(timed), srtPath)
}

func saveMetadata(cfg config.Config, blocks []*script.Block, videoPath string) error {
	var titles []string
	for _, b := range blocks {
		if b.Scene == script.SceneTopic && b.Title != "" {
			titles = append(titles, b.Title)
		}
	}

	now := time.Now()
	meta := episodeMetadata{
		Title:       fmt.Sprintf("听闻天下 - %s", now.Format("2006-01-02")),
		Description: fmt.Sprintf("每日5分钟，听闻天下事。本期包含%d条精选新闻。", len(titles)),
		VideoFile:   filepath.Base(videoPath),
		GeneratedAt: now.Format(time.RFC3339),
		NewsCount:   len(titles),
		NewsTitles:  titles,
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}

	metaPath := filepath.Join(cfg.Paths.OutputDir, fmt.Sprintf("metadata_%s.json", now.Format("20060102")))
	return os.WriteFile(metaPath, data, 0644)
}
