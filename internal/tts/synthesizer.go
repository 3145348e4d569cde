package tts

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tingwen/newscast/internal/audio"
	"github.com/tingwen/newscast/internal/logging"
)

// Backend is a single speech provider attempt. EdgeClient is the default;
// tests inject fakes.
type Backend interface {
	Synthesize(ctx context.Context, text, voice, outputPath string) error
}

const (
	attemptsPerVoice = 3

	// per-block duration floor after synthesis, seconds
	minBlockDuration = 0.6

	// silent fallback sizing, seconds
	silenceFloor     = 0.8
	silenceCeiling   = 3.0
	silencePerChar   = 0.18
)

// Backoff returns the wait before retrying after a failed attempt.
func Backoff(attempt int) time.Duration {
	return time.Duration((1.0 + float64(attempt)*1.5) * float64(time.Second))
}

// SilenceDuration sizes the silent-fallback asset for the given text.
func SilenceDuration(text string) float64 {
	chars := utf8.RuneCountInString(strings.TrimSpace(text))
	if chars == 0 {
		return silenceFloor
	}
	d := float64(chars) * silencePerChar
	if d < silenceFloor {
		d = silenceFloor
	}
	if d > silenceCeiling {
		d = silenceCeiling
	}
	return d
}

// Synthesizer turns block text into an audio asset, walking an ordered voice
// chain with per-voice retries and degrading to a sized silent asset when
// every attempt is exhausted. It fails only when the silent asset itself
// cannot be written or the produced asset cannot be probed.
type Synthesizer struct {
	backend Backend
	voices  []string
	timeout time.Duration
	logger  *logging.Logger

	// injection points for deterministic tests
	sleep   func(ctx context.Context, d time.Duration) error
	probe   func(ctx context.Context, path string) (float64, error)
	silence func(ctx context.Context, path string, seconds float64) error
}

// Option configures a Synthesizer.
type Option func(*Synthesizer)

func WithBackend(b Backend) Option {
	return func(s *Synthesizer) { s.backend = b }
}

func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(s *Synthesizer) { s.sleep = sleep }
}

func WithProber(probe func(ctx context.Context, path string) (float64, error)) Option {
	return func(s *Synthesizer) { s.probe = probe }
}

func WithSilenceWriter(silence func(ctx context.Context, path string, seconds float64) error) Option {
	return func(s *Synthesizer) { s.silence = silence }
}

// NewSynthesizer builds the voice chain from the primary voice and the
// fallback list, de-duplicated with the primary first.
func NewSynthesizer(
	backend Backend,
	primaryVoice string,
	fallbackVoices []string,
	attemptTimeout time.Duration,
	logger *logging.Logger,
	opts ...Option,
) *Synthesizer {
	if logger == nil {
		logger = logging.NewNop()
	}

	seen := map[string]bool{}
	var voices []string
	for _, v := range append([]string{primaryVoice}, fallbackVoices...) {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		voices = append(voices, v)
	}

	s := &Synthesizer{
		backend: backend,
		voices:  voices,
		timeout: attemptTimeout,
		logger:  logger,
		sleep: func(ctx context.Context, d time.Duration) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(d):
				return nil
			}
		},
		probe:   audio.Duration,
		silence: audio.Silence,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Voices exposes the resolved voice chain, primary first.
func (s *Synthesizer) Voices() []string {
	out := make([]string, len(s.voices))
	copy(out, s.voices)
	return out
}

// Synthesize writes exactly one audio file at targetPath and returns its
// duration in seconds, never below the block floor.
func (s *Synthesizer) Synthesize(ctx context.Context, text, targetPath string) (float64, error) {
	if strings.TrimSpace(text) == "" {
		return s.silentFallback(ctx, "", targetPath)
	}

	if d, ok, err := s.tryVoices(ctx, text, targetPath); err != nil {
		return 0, err
	} else if ok {
		return d, nil
	}

	s.logger.Warnw("all voices exhausted, writing silent fallback",
		"voices", len(s.voices),
	)
	return s.silentFallback(ctx, text, targetPath)
}

// tryVoices walks the voice-by-attempt retry matrix. The bool reports
// success; an error is returned only for fatal probe failures.
func (s *Synthesizer) tryVoices(ctx context.Context, text, targetPath string) (float64, bool, error) {
	for _, voice := range s.voices {
		for attempt := 0; attempt < attemptsPerVoice; attempt++ {
			err := s.attempt(ctx, text, voice, targetPath)
			if err == nil {
				d, probeErr := s.probe(ctx, targetPath)
				if probeErr != nil {
					return 0, false, fmt.Errorf("probe synthesized audio: %w", probeErr)
				}
				if d < minBlockDuration {
					d = minBlockDuration
				}
				return d, true, nil
			}

			s.logger.Debugw("synthesis attempt failed",
				"voice", voice,
				"attempt", attempt+1,
				"error", err,
			)

			if attempt < attemptsPerVoice-1 {
				if err := s.sleep(ctx, Backoff(attempt)); err != nil {
					return 0, false, nil
				}
			}
		}
	}
	return 0, false, nil
}

func (s *Synthesizer) attempt(ctx context.Context, text, voice, targetPath string) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return s.backend.Synthesize(ctx, text, voice, targetPath)
}

func (s *Synthesizer) silentFallback(ctx context.Context, text, targetPath string) (float64, error) {
	seconds := SilenceDuration(text)
	if err := s.silence(ctx, targetPath, seconds); err != nil {
		return 0, fmt.Errorf("write silent fallback: %w", err)
	}
	return seconds, nil
}
