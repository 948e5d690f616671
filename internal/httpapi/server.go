package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"llmbench/pkg/types"
)

// NewMux builds the mock server's router around gen.
func NewMux(gen Generator) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
		}))
	}
	r.Use(MetricsMiddleware)

	r.Get("/api/tags", tagsHandler(gen))
	r.Post("/api/generate", generateHandler(gen))
	r.Get("/healthz", healthz)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	MountSwagger(r)

	return r
}

// tagsHandler godoc
// @Summary      List served models
// @Tags         models
// @Produce      json
// @Success      200  {object}  types.TagsResponse
// @Router       /api/tags [get]
func tagsHandler(gen Generator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(types.TagsResponse{Models: gen.Models()}); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
		}
	}
}

// healthz godoc
// @Summary      Health check
// @Tags         health
// @Produce      plain
// @Success      200  {string}  string  "ok"
// @Router       /healthz [get]
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// generateHandler godoc
// @Summary      Generate a completion
// @Description  Streams NDJSON GenerateChunk records followed by one summary record. With stream=false a single aggregated record is returned.
// @Tags         generate
// @Accept       json
// @Produce      application/x-ndjson
// @Produce      json
// @Param        request  body   types.GenerateRequest  true   "Generation request"
// @Param        log      query  string                 false  "Per-request log level: off|error|info|debug"
// @Success      200  {object}  types.GenerateChunk
// @Failure      400  {object}  types.ErrorResponse
// @Failure      404  {object}  types.ErrorResponse
// @Failure      415  {object}  types.ErrorResponse
// @Failure      500  {object}  types.ErrorResponse
// @Router       /api/generate [post]
func generateHandler(gen Generator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ct := r.Header.Get("Content-Type")
		if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
			writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		var req types.GenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if strings.TrimSpace(req.Prompt) == "" {
			writeJSONError(w, http.StatusBadRequest, "prompt is required")
			return
		}

		lvl := requestLogLevel(r)
		rid := middleware.GetReqID(r.Context())
		start := time.Now()
		if lvl >= LevelInfo {
			zlog.Info().Str("request_id", rid).Str("model", req.Model).Bool("stream", req.Stream).Msg("generate start")
		}

		// Join server base context with request context so shutdown cancels work too.
		ctx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		if generateTimeout > 0 {
			var tcancel context.CancelFunc
			ctx, tcancel = context.WithTimeout(ctx, generateTimeout)
			defer tcancel()
		}

		var out io.Writer = w
		if lvl >= LevelDebug {
			out = io.MultiWriter(w, &loggingLineWriter{rid: rid})
		}
		enc := json.NewEncoder(out)
		flusher, _ := w.(http.Flusher)

		started := false
		var text strings.Builder
		emit := func(c types.GenerateChunk) error {
			if !c.Done {
				generatedTokensTotal.WithLabelValues(req.Model).Inc()
			}
			if !req.Stream {
				text.WriteString(c.Response)
				if !c.Done {
					return nil
				}
				c.Response = text.String()
				w.Header().Set("Content-Type", "application/json")
			} else if !started {
				w.Header().Set("Content-Type", "application/x-ndjson")
			}
			started = true
			if err := enc.Encode(c); err != nil {
				return err
			}
			if flusher != nil {
				flusher.Flush()
			}
			return nil
		}

		err := gen.Generate(ctx, req, emit)
		status := http.StatusOK
		inBand := false
		switch {
		case err == nil:
		case r.Context().Err() != nil || serverBaseCtx.Err() != nil:
			// Client went away or server is shutting down.
			return
		case started:
			// Headers are gone; report in-band the way Ollama does.
			_ = enc.Encode(types.GenerateChunk{Error: err.Error()})
			inBand = true
		default:
			status = statusFor(err)
			writeJSONError(w, status, err.Error())
		}
		if lvl >= LevelInfo || (err != nil && lvl >= LevelError) {
			ev := zlog.Info()
			if err != nil {
				ev = zlog.Error().Err(err)
			}
			if inBand {
				ev = ev.Bool("in_band_error", true)
			}
			ev.Str("request_id", rid).Int("status", status).Dur("dur", time.Since(start)).Msg("generate end")
		}
	}
}
