// Package pipeline turns communication text into Business Requirements
// Documents: truncate, gate on business relevance, prompt a generation
// backend, and coerce the reply into the BRD schema.
package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/brd-service/internal/config"
	"github.com/sells-group/brd-service/internal/extract"
	"github.com/sells-group/brd-service/internal/generate"
	"github.com/sells-group/brd-service/internal/model"
)

// RelevanceGate decides whether text is forwarded to the backend or
// replaced with a sentinel. Implemented by classifier.Model.
type RelevanceGate interface {
	Gate(text string) string
}

// Service is the immutable per-process pipeline context. Built once at
// startup; all request state is local to each call.
type Service struct {
	cfg       config.PipelineConfig
	gen       generate.Generator
	gate      RelevanceGate // nil when the filter is disabled
	extractor *extract.Extractor
}

// NewService assembles the pipeline. gate may be nil to disable the
// relevance filter; extractor may be nil when file uploads are not served.
func NewService(cfg config.PipelineConfig, gen generate.Generator, gate RelevanceGate, extractor *extract.Extractor) *Service {
	return &Service{
		cfg:       cfg,
		gen:       gen,
		gate:      gate,
		extractor: extractor,
	}
}

// Generate produces a BRD from raw communication text. The text is capped
// at the configured character limit before the relevance gate runs, so the
// gate and the prompt always see the same text.
func (s *Service) Generate(ctx context.Context, text string) (model.Document, error) {
	if text == "" {
		return nil, model.NewRequestError(model.KindMissingInput,
			eris.New("pipeline: no text provided"))
	}

	text = Truncate(text, s.cfg.MaxChars)
	if s.gate != nil {
		text = s.gate.Gate(text)
	}

	return s.complete(ctx, GeneratePrompt(text))
}

// GenerateFromFile extracts text from an uploaded file and produces a BRD
// from it. No backend call is made when extraction fails.
func (s *Service) GenerateFromFile(ctx context.Context, filename string, data []byte) (model.Document, error) {
	if s.extractor == nil {
		return nil, model.NewRequestError(model.KindUnsupportedFileType,
			eris.New("pipeline: file uploads not configured"))
	}

	text, err := s.extractor.Extract(ctx, filename, data)
	if err != nil {
		return nil, err
	}

	zap.L().Debug("pipeline: extracted file",
		zap.String("filename", filename),
		zap.Int("chars", len(text)),
	)

	return s.Generate(ctx, text)
}

// Edit applies a natural-language instruction to an existing BRD and
// returns the updated document. The extractor and relevance gate are not
// involved; the caller-supplied BRD is embedded in the prompt as-is.
func (s *Service) Edit(ctx context.Context, currentBRD json.RawMessage, instruction string) (model.Document, error) {
	if len(currentBRD) == 0 {
		return nil, model.NewRequestError(model.KindMissingInput,
			eris.New("pipeline: no current BRD provided"))
	}
	if instruction == "" {
		return nil, model.NewRequestError(model.KindMissingInput,
			eris.New("pipeline: no instruction provided"))
	}

	return s.complete(ctx, EditPrompt(string(currentBRD), instruction))
}

// complete runs one bounded backend call and repairs the reply.
func (s *Service) complete(ctx context.Context, prompt string) (model.Document, error) {
	timeout := time.Duration(s.cfg.GenerateTimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	reply, err := s.gen.Complete(ctx, prompt)
	if err != nil {
		zap.L().Warn("pipeline: generation failed", zap.Error(err))
		return nil, err
	}

	doc := Repair(reply)
	if _, degraded := doc["raw"]; degraded {
		zap.L().Warn("pipeline: reply was not valid JSON",
			zap.Int("reply_len", len(reply)),
		)
	}

	return doc, nil
}
