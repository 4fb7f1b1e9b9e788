package main

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/brd-service/internal/model"
	"github.com/sells-group/brd-service/internal/pipeline"
)

// newRouter builds the HTTP surface around a pipeline service. maxBody caps
// request bodies (uploads included) at the transport boundary.
func newRouter(svc *pipeline.Service, maxBody int64) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(limitBody(maxBody))

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("BRD service is running"))
	})

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/generate", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil || body.Text == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No text provided"})
			return
		}

		doc, err := svc.Generate(req.Context(), body.Text)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, doc)
	})

	r.Post("/upload-file", func(w http.ResponseWriter, req *http.Request) {
		file, header, err := req.FormFile("file")
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No file uploaded"})
			return
		}
		defer file.Close() //nolint:errcheck

		data, err := io.ReadAll(file)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Could not read uploaded file"})
			return
		}

		doc, err := svc.GenerateFromFile(req.Context(), header.Filename, data)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, doc)
	})

	r.Post("/edit", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			CurrentBRD  json.RawMessage `json:"current_brd"`
			Instruction string          `json:"instruction"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
			return
		}

		doc, err := svc.Edit(req.Context(), body.CurrentBRD, body.Instruction)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, doc)
	})

	return r
}

// limitBody wraps request bodies with http.MaxBytesReader.
func limitBody(maxBody int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if maxBody > 0 {
				req.Body = http.MaxBytesReader(w, req.Body, maxBody)
			}
			next.ServeHTTP(w, req)
		})
	}
}

// requestLogger tags each request with an ID and logs its outcome.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		id := uuid.NewString()
		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, req)

		zap.L().Info("http request",
			zap.String("request_id", id),
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps a classified pipeline failure to its HTTP status with a
// JSON error body.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, model.HTTPStatus(err), map[string]string{"error": err.Error()})
}
