package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"recipe-insights-go/internal/acquire"
	"recipe-insights-go/internal/config"
	"recipe-insights-go/internal/extract"
	"recipe-insights-go/internal/logger"
	"recipe-insights-go/internal/pipeline"
	"recipe-insights-go/internal/report"
	"recipe-insights-go/internal/storage"
	"recipe-insights-go/internal/storage/fsbucket"
	"recipe-insights-go/internal/storage/gcs"
	"recipe-insights-go/internal/transcribe"
	"recipe-insights-go/internal/types"
)

type processRequest struct {
	URL string `json:"url"`
}

type processResponse struct {
	Message string `json:"message"`
	types.PipelineResult
}

type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func main() {
	cfg := config.FromEnv()

	log := logger.New()
	log.WithField("service", "recipe-insights-go").Info("starting service")

	ctx := context.Background()

	var store storage.Store
	switch cfg.StorageBackend {
	case "gcs":
		s, err := gcs.New(ctx, cfg.BucketName)
		if err != nil {
			log.WithError(err).Fatal("failed to initialize cloud storage")
		}
		store = s
	case "fs":
		bucket := cfg.BucketName
		if bucket == "" {
			bucket = "media"
		}
		store = fsbucket.New(cfg.StorageDir, bucket)
	default:
		log.WithField("backend", cfg.StorageBackend).Fatal("unknown storage backend")
	}
	log.WithField("backend", cfg.StorageBackend).Info("storage ready")

	source := acquire.NewYtDlpSource(cfg.YtDlpBin, cfg.FfmpegBin)
	pipe := pipeline.New(
		acquire.New(source, store, cfg.ScratchDir),
		transcribe.New(cfg.TranscriptionEndpoint(), cfg.OpenAIAPIKey, cfg.WhisperModel, store),
		extract.New(cfg.CompletionEndpoint(), cfg.OpenAIAPIKey, cfg.ChatModel),
	)

	var results *report.Workbook
	if cfg.ReportPath != "" {
		results = report.New(cfg.ReportPath)
		log.WithField("report_path", cfg.ReportPath).Info("results workbook enabled")
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		logger.New().WithRequest(r).Info("health check")
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("/process-video", func(w http.ResponseWriter, r *http.Request) {
		reqLog := logger.New().WithRequest(r).WithField("handler", "process-video")
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var body processRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.URL == "" {
			reqLog.Warn("missing url")
			writeJSON(w, http.StatusBadRequest, errorResponse{Message: "missing url"})
			return
		}
		reqLog = reqLog.WithField("url", body.URL)
		reqLog.Info("process request received")

		start := time.Now()
		res, err := pipe.Process(r.Context(), body.URL)
		reqLog.WithField("duration_ms", time.Since(start).Milliseconds()).Info("pipeline returned")
		if err != nil {
			if errors.Is(err, acquire.ErrSourceGone) {
				writeJSON(w, http.StatusGone, errorResponse{Message: "The video is no longer available."})
				return
			}
			reqLog.WithField("error", err.Error()).Warn("pipeline failed")
			writeJSON(w, http.StatusInternalServerError, errorResponse{
				Message: "An error occurred while processing the video.",
				Error:   err.Error(),
			})
			return
		}

		if results != nil {
			if err := results.Append(res, time.Now()); err != nil {
				reqLog.WithField("error", err.Error()).Warn("failed to append result to workbook")
			}
		}
		writeJSON(w, http.StatusOK, processResponse{
			Message:        "Video processed successfully",
			PipelineResult: res,
		})
	})

	if cfg.StaticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(cfg.StaticDir)))
	}

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      withCORS(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Minute, // one request spans the whole pipeline
		IdleTimeout:  120 * time.Second,
	}
	log.WithField("addr", addr).Info("listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("server terminated")
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		logger.New().WithError(err).Error("failed to write response")
	}
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
