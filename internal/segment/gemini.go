package segment

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// implements Segmenter using Google Gemini
type GeminiSegmenter struct {
	client *genai.Client
	model  string
}

func NewGeminiSegmenter(
	ctx context.Context,
	apiKey string,
	opts Options,
) (*GeminiSegmenter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := opts.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}

	return &GeminiSegmenter{client: client, model: model}, nil
}

func (s *GeminiSegmenter) Segment(
	ctx context.Context,
	text string,
	maxChars int,
) ([]string, error) {
	prompt := BuildPrompt(text, maxChars)

	parts := []*genai.Part{
		genai.NewPartFromText(prompt),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	result, err := s.client.Models.GenerateContent(ctx, s.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("segmentation failed: %w", err)
	}

	if result == nil || len(result.Candidates) == 0 {
		return nil, fmt.Errorf("empty response from Gemini")
	}

	var responseText string
	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.Text != "" {
				responseText += part.Text
			}
		}
		if responseText != "" {
			break
		}
	}

	if responseText == "" {
		return nil, fmt.Errorf("no text in Gemini response")
	}

	chunks, err := extractChunks(cleanJSONResponse(responseText))
	if err != nil {
		return nil, fmt.Errorf(
			"failed to parse JSON response: %w (response: %s)",
			err,
			truncateString(responseText, 200),
		)
	}

	return chunks, nil
}
