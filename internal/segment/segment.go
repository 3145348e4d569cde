package segment

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Segmenter is a remote text-segmentation service. Its output is advisory:
// the Splitter validates it and falls back to the local algorithm on any
// failure, so implementations may simply return errors.
type Segmenter interface {
	Segment(ctx context.Context, text string, maxChars int) ([]string, error)
}

// segmentation service provider
type Provider string

const (
	ProviderGemini    Provider = "gemini"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// segmentation options
type Options struct {
	Model string
}

// creates Segmenter based on provider
func Factory(
	ctx context.Context,
	provider Provider,
	apiKey string,
	opts Options,
) (Segmenter, error) {
	switch provider {
	case ProviderGemini:
		return NewGeminiSegmenter(ctx, apiKey, opts)
	case ProviderOpenAI:
		return NewOpenAISegmenter(ctx, apiKey, opts)
	case ProviderAnthropic:
		return NewAnthropicSegmenter(ctx, apiKey, opts)
	default:
		return nil, fmt.Errorf("unsupported segmentation provider: %s", provider)
	}
}

// BuildPrompt creates the segmentation prompt for LLM providers.
func BuildPrompt(text string, maxChars int) string {
	var sb strings.Builder

	sb.WriteString("Split the following narration text into subtitle chunks ")
	sb.WriteString("for simultaneous on-screen display and speech pacing.\n\n")
	sb.WriteString("IMPORTANT INSTRUCTIONS:\n")
	sb.WriteString(fmt.Sprintf(
		"1. Each chunk must be at most %d characters long.\n", maxChars,
	))
	sb.WriteString("2. Prefer breaking at punctuation and natural pauses.\n")
	sb.WriteString("3. Do not drop, add, or reorder any characters.\n")
	sb.WriteString("4. Return ONLY a JSON array of strings.\n")
	sb.WriteString("5. Do not add any explanation or markdown formatting.\n\n")
	sb.WriteString("Input text:\n")
	sb.WriteString(text)
	sb.WriteString("\n\nOutput the JSON array only:")

	return sb.String()
}

func cleanJSONResponse(s string) string {
	s = strings.TrimSpace(s)

	jsonBlockRegex := regexp.MustCompile("```(?:json)?\\s*")
	s = jsonBlockRegex.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "```", "")

	return strings.TrimSpace(s)
}

// extractChunks pulls the first parseable JSON array of non-empty strings
// out of a model response.
func extractChunks(text string) ([]string, error) {
	for i := 0; i < len(text); i++ {
		if text[i] != '[' {
			continue
		}
		decoder := json.NewDecoder(strings.NewReader(text[i:]))
		var chunks []string
		if err := decoder.Decode(&chunks); err != nil {
			continue
		}
		out := chunks[:0]
		for _, c := range chunks {
			if s := strings.TrimSpace(c); s != "" {
				out = append(out, s)
			}
		}
		if len(out) > 0 {
			return out, nil
		}
	}
	return nil, fmt.Errorf("no valid chunk JSON found in response")
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
