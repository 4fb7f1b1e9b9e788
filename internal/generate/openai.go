package generate

import (
	"context"

	"github.com/rotisserie/eris"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/sells-group/brd-service/internal/config"
)

// chatClient is the slice of the go-openai client the backend uses,
// extracted for testability.
type chatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAI generates completions through an OpenAI-compatible
// chat-completions endpoint.
type OpenAI struct {
	client chatClient
	cfg    config.OpenAIConfig
}

// NewOpenAI creates the chat-completion backend.
func NewOpenAI(cfg config.OpenAIConfig) *OpenAI {
	clientCfg := openai.DefaultConfig(cfg.Key)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &OpenAI{
		client: openai.NewClientWithConfig(clientCfg),
		cfg:    cfg,
	}
}

// NewOpenAIWithClient creates the backend with an explicit client, for tests.
func NewOpenAIWithClient(client chatClient, cfg config.OpenAIConfig) *OpenAI {
	return &OpenAI{client: client, cfg: cfg}
}

// Complete sends prompt as a single-turn user message and returns the first
// choice's content.
func (o *OpenAI) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     o.cfg.Model,
		MaxTokens: o.cfg.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", backendError(eris.Wrap(err, "generate: chat completion"))
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", backendError(eris.Errorf("generate: chat completion %s has no choices", resp.ID))
	}

	zap.L().Debug("generate: chat completion",
		zap.String("model", resp.Model),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
	)

	return resp.Choices[0].Message.Content, nil
}
