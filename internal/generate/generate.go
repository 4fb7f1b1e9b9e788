// Package generate issues the single outbound call to a generative-model
// backend and returns the raw textual reply. Two backends are supported:
// the Anthropic hosted-model API and any OpenAI-compatible chat-completion
// endpoint. Failures surface as classified GenerationBackend errors, never
// unhandled faults.
package generate

import (
	"context"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/sells-group/brd-service/internal/config"
	"github.com/sells-group/brd-service/internal/model"
	"github.com/sells-group/brd-service/pkg/anthropic"
)

// Generator produces a raw completion for a rendered prompt.
type Generator interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// New creates the configured backend, optionally wrapped in a rate limiter.
func New(cfg *config.Config) (Generator, error) {
	var g Generator
	switch cfg.Pipeline.Backend {
	case "anthropic", "":
		if cfg.Anthropic.Key == "" {
			return nil, eris.New("generate: anthropic backend requires anthropic.key")
		}
		g = NewAnthropic(anthropic.NewClient(cfg.Anthropic.Key), cfg.Anthropic)
	case "openai":
		if cfg.OpenAI.Key == "" {
			return nil, eris.New("generate: openai backend requires openai.key")
		}
		g = NewOpenAI(cfg.OpenAI)
	default:
		return nil, eris.Errorf("generate: unknown backend %q", cfg.Pipeline.Backend)
	}

	if cfg.Pipeline.RequestsPerSecond > 0 {
		g = Limited(g, rate.NewLimiter(rate.Limit(cfg.Pipeline.RequestsPerSecond), 1))
	}

	return g, nil
}

// limited throttles outbound calls to the backend.
type limited struct {
	inner   Generator
	limiter *rate.Limiter
}

// Limited wraps g so that calls wait on the given rate limiter first.
func Limited(g Generator, l *rate.Limiter) Generator {
	return &limited{inner: g, limiter: l}
}

func (l *limited) Complete(ctx context.Context, prompt string) (string, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return "", model.NewRequestError(model.KindGenerationBackend,
			eris.Wrap(err, "generate: rate limit wait"))
	}
	return l.inner.Complete(ctx, prompt)
}

// backendError classifies err as a generation-backend failure unless it is
// already classified.
func backendError(err error) error {
	if model.KindOf(err) != "" {
		return err
	}
	return model.NewRequestError(model.KindGenerationBackend, err)
}
