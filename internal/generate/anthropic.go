package generate

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/brd-service/internal/config"
	"github.com/sells-group/brd-service/pkg/anthropic"
)

// Anthropic generates completions through the Anthropic Messages API.
type Anthropic struct {
	client anthropic.Client
	cfg    config.AnthropicConfig
}

// NewAnthropic creates the Anthropic backend.
func NewAnthropic(client anthropic.Client, cfg config.AnthropicConfig) *Anthropic {
	return &Anthropic{client: client, cfg: cfg}
}

// Complete sends prompt as a single-turn user message and returns the
// concatenated text blocks of the reply.
func (a *Anthropic) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := a.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     a.cfg.Model,
		MaxTokens: a.cfg.MaxTokens,
		Messages: []anthropic.Message{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", backendError(err)
	}

	text := extractText(resp)
	if text == "" {
		return "", backendError(eris.Errorf("generate: anthropic reply %s has no text content", resp.ID))
	}

	zap.L().Debug("generate: anthropic completion",
		zap.String("model", resp.Model),
		zap.Int64("input_tokens", resp.Usage.InputTokens),
		zap.Int64("output_tokens", resp.Usage.OutputTokens),
	)

	return text, nil
}

// extractText concatenates all text content blocks from a message response.
func extractText(resp *anthropic.MessageResponse) string {
	if resp == nil {
		return ""
	}
	var parts []string
	for _, block := range resp.Content {
		if block.Text != "" {
			parts = append(parts, block.Text)
		}
	}
	return strings.Join(parts, "\n")
}
