package generate

import (
	"context"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/sells-group/brd-service/internal/config"
	"github.com/sells-group/brd-service/internal/model"
	"github.com/sells-group/brd-service/pkg/anthropic"
)

// fakeAnthropic implements anthropic.Client.
type fakeAnthropic struct {
	resp *anthropic.MessageResponse
	err  error
	last anthropic.MessageRequest
}

func (f *fakeAnthropic) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	f.last = req
	return f.resp, f.err
}

// fakeChat implements chatClient.
type fakeChat struct {
	resp openai.ChatCompletionResponse
	err  error
	last openai.ChatCompletionRequest
}

func (f *fakeChat) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.last = req
	return f.resp, f.err
}

func TestNewValidation(t *testing.T) {
	_, err := New(&config.Config{Pipeline: config.PipelineConfig{Backend: "anthropic"}})
	assert.Error(t, err, "anthropic backend without key")

	_, err = New(&config.Config{Pipeline: config.PipelineConfig{Backend: "openai"}})
	assert.Error(t, err, "openai backend without key")

	_, err = New(&config.Config{Pipeline: config.PipelineConfig{Backend: "bard"}})
	assert.Error(t, err, "unknown backend")
}

func TestAnthropicComplete(t *testing.T) {
	fake := &fakeAnthropic{resp: &anthropic.MessageResponse{
		ID:    "msg_1",
		Model: "claude-haiku-4-5-20251001",
		Content: []anthropic.ContentBlock{
			{Type: "text", Text: `{"executive_summary": "x"}`},
		},
	}}
	g := NewAnthropic(fake, config.AnthropicConfig{Model: "claude-haiku-4-5-20251001", MaxTokens: 2048})

	got, err := g.Complete(context.Background(), "the prompt")
	require.NoError(t, err)
	assert.Equal(t, `{"executive_summary": "x"}`, got)

	// Single-turn user message carrying the prompt verbatim.
	require.Len(t, fake.last.Messages, 1)
	assert.Equal(t, "user", fake.last.Messages[0].Role)
	assert.Equal(t, "the prompt", fake.last.Messages[0].Content)
	assert.Equal(t, int64(2048), fake.last.MaxTokens)
}

func TestAnthropicCompleteJoinsBlocks(t *testing.T) {
	fake := &fakeAnthropic{resp: &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{
			{Type: "text", Text: "part one"},
			{Type: "text", Text: "part two"},
		},
	}}
	g := NewAnthropic(fake, config.AnthropicConfig{})

	got, err := g.Complete(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "part one\npart two", got)
}

func TestAnthropicCompleteFailure(t *testing.T) {
	g := NewAnthropic(&fakeAnthropic{err: eris.New("api returned 503")}, config.AnthropicConfig{})

	_, err := g.Complete(context.Background(), "p")
	require.Error(t, err)
	assert.Equal(t, model.KindGenerationBackend, model.KindOf(err))
}

func TestAnthropicCompleteEmptyReply(t *testing.T) {
	g := NewAnthropic(&fakeAnthropic{resp: &anthropic.MessageResponse{ID: "msg_2"}}, config.AnthropicConfig{})

	_, err := g.Complete(context.Background(), "p")
	require.Error(t, err)
	assert.Equal(t, model.KindGenerationBackend, model.KindOf(err))
}

func TestOpenAIComplete(t *testing.T) {
	fake := &fakeChat{resp: openai.ChatCompletionResponse{
		ID:    "chatcmpl-1",
		Model: "gpt-4o-mini",
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: `{"timeline": "March"}`}},
		},
	}}
	g := NewOpenAIWithClient(fake, config.OpenAIConfig{Model: "gpt-4o-mini", MaxTokens: 2048})

	got, err := g.Complete(context.Background(), "the prompt")
	require.NoError(t, err)
	assert.Equal(t, `{"timeline": "March"}`, got)

	require.Len(t, fake.last.Messages, 1)
	assert.Equal(t, openai.ChatMessageRoleUser, fake.last.Messages[0].Role)
	assert.Equal(t, "the prompt", fake.last.Messages[0].Content)
}

func TestOpenAICompleteFailure(t *testing.T) {
	g := NewOpenAIWithClient(&fakeChat{err: eris.New("status 502")}, config.OpenAIConfig{})

	_, err := g.Complete(context.Background(), "p")
	require.Error(t, err)
	assert.Equal(t, model.KindGenerationBackend, model.KindOf(err))
}

func TestOpenAICompleteNoChoices(t *testing.T) {
	g := NewOpenAIWithClient(&fakeChat{resp: openai.ChatCompletionResponse{ID: "chatcmpl-2"}}, config.OpenAIConfig{})

	_, err := g.Complete(context.Background(), "p")
	require.Error(t, err)
	assert.Equal(t, model.KindGenerationBackend, model.KindOf(err))
}

// staticGenerator returns a fixed reply.
type staticGenerator struct {
	reply string
}

func (s staticGenerator) Complete(ctx context.Context, prompt string) (string, error) {
	return s.reply, nil
}

func TestLimitedPassesThrough(t *testing.T) {
	g := Limited(staticGenerator{reply: "ok"}, rate.NewLimiter(rate.Inf, 1))

	got, err := g.Complete(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
}

func TestLimitedCanceledContext(t *testing.T) {
	// A limiter that can never admit the call; the context bounds the wait.
	g := Limited(staticGenerator{reply: "ok"}, rate.NewLimiter(rate.Every(time.Hour), 0))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := g.Complete(ctx, "p")
	require.Error(t, err)
	assert.Equal(t, model.KindGenerationBackend, model.KindOf(err))
}
