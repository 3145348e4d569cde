package segment

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// implements Segmenter using OpenAI Chat Completions
type OpenAISegmenter struct {
	client openai.Client
	model  string
}

func NewOpenAISegmenter(
	ctx context.Context,
	apiKey string,
	opts Options,
) (*OpenAISegmenter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))

	model := opts.Model
	if model == "" {
		model = "gpt-5-mini"
	}

	return &OpenAISegmenter{client: client, model: model}, nil
}

func (s *OpenAISegmenter) Segment(
	ctx context.Context,
	text string,
	maxChars int,
) ([]string, error) {
	prompt := BuildPrompt(text, maxChars)

	completion, err := s.client.Chat.Completions.New(
		ctx,
		openai.ChatCompletionNewParams{
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.UserMessage(prompt),
			},
			Model: s.model,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("segmentation failed: %w", err)
	}

	if completion == nil || len(completion.Choices) == 0 {
		return nil, fmt.Errorf("empty response from OpenAI")
	}

	responseText := completion.Choices[0].Message.Content
	if responseText == "" {
		return nil, fmt.Errorf("no text in OpenAI response")
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
