package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/brd-service/internal/classifier"
	"github.com/sells-group/brd-service/internal/config"
	"github.com/sells-group/brd-service/internal/extract"
	"github.com/sells-group/brd-service/internal/generate"
	"github.com/sells-group/brd-service/internal/ocr"
	"github.com/sells-group/brd-service/internal/pipeline"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the BRD extraction HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		svc, err := buildService(cfg)
		if err != nil {
			return err
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(svc, cfg.Server.MaxBodyBytes),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutCtx); err != nil {
				zap.L().Warn("server shutdown", zap.Error(err))
			}
		}()

		zap.L().Info("starting server",
			zap.Int("port", port),
			zap.String("backend", cfg.Pipeline.Backend),
			zap.Bool("relevance_filter", cfg.Classifier.Enabled),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// buildService constructs the immutable pipeline context: generation
// backend, optional frozen classifier, and the file extractor. Everything
// here is loaded once and read-only for the process lifetime.
func buildService(cfg *config.Config) (*pipeline.Service, error) {
	gen, err := generate.New(cfg)
	if err != nil {
		return nil, err
	}

	var gate pipeline.RelevanceGate
	if cfg.Classifier.Enabled {
		if cfg.Classifier.ModelPath == "" {
			return nil, eris.New("serve: classifier.enabled requires classifier.model_path")
		}
		m, err := classifier.Load(cfg.Classifier.ModelPath)
		if err != nil {
			return nil, err
		}
		gate = m
		zap.L().Info("loaded relevance classifier", zap.String("path", cfg.Classifier.ModelPath))
	}

	ocrEngine, err := ocr.NewExtractor(cfg.OCR)
	if err != nil {
		return nil, err
	}

	return pipeline.NewService(cfg.Pipeline, gen, gate, extract.New(ocrEngine)), nil
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
