package segment

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tingwen/newscast/internal/logging"
)

// Splitter produces subtitle chunks for one episode. It optionally consults
// a remote Segmenter first, validates the answer, and otherwise runs the
// local algorithm. Results are memoized for the splitter's lifetime so the
// same text is never segmented remotely twice.
type Splitter struct {
	maxChars int
	remote   Segmenter
	logger   *logging.Logger
	cache    map[string][]string
}

// NewSplitter creates an episode-scoped splitter. remote may be nil.
func NewSplitter(maxChars int, remote Segmenter, logger *logging.Logger) *Splitter {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Splitter{
		maxChars: maxChars,
		remote:   remote,
		logger:   logger,
		cache:    make(map[string][]string),
	}
}

// Split returns the ordered subtitle chunks for text. It never fails: any
// remote trouble degrades silently to the local algorithm.
func (s *Splitter) Split(ctx context.Context, text string) []string {
	cleaned := Clean(text)
	if cleaned == "" {
		return nil
	}

	key := fmt.Sprintf("%d|%s", s.maxChars, cleaned)
	if cached, ok := s.cache[key]; ok {
		return cached
	}

	chunks := s.trySegmentRemote(ctx, cleaned)
	if chunks == nil {
		chunks = Split(cleaned, s.maxChars)
	}

	s.cache[key] = chunks
	return chunks
}

func (s *Splitter) trySegmentRemote(ctx context.Context, cleaned string) []string {
	if s.remote == nil {
		return nil
	}

	raw, err := s.remote.Segment(ctx, cleaned, s.maxChars)
	if err != nil {
		s.logger.Debugw("remote segmentation failed, using local splitter",
			"error", err,
		)
		return nil
	}
	if len(raw) == 0 {
		return nil
	}

	// over-long items are re-split locally rather than rejected
	var chunks []string
	for _, item := range raw {
		item = strings.TrimSpace(item)
		if item == "" {
			return nil
		}
		if utf8.RuneCountInString(item) > s.maxChars {
			chunks = append(chunks, cutRunes(item, s.maxChars)...)
		} else {
			chunks = append(chunks, item)
		}
	}

	if stripSpace(strings.Join(chunks, "")) != stripSpace(cleaned) {
		s.logger.Debugw("remote segmentation lost characters, using local splitter")
		return nil
	}

	return chunks
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
