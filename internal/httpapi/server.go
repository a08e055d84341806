package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mlsvc/internal/predictor"
	"mlsvc/pkg/types"
)

// ServiceName and ServiceVersion identify the service in GET / responses.
const (
	ServiceName    = "GRC ML Service"
	ServiceVersion = "0.1.0-local"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	ListModels() []types.ModelInfo
	Health() types.HealthResponse
	Predict(ctx context.Context, req types.PredictionRequest) (types.PredictionResponse, error)
	Ready() bool
}

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	// Security headers
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

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, types.RootResponse{
			Service: ServiceName,
			Version: ServiceVersion,
			Status:  "running",
			Endpoints: map[string]string{
				"health":  "/health",
				"models":  "/models",
				"predict": "/predict",
			},
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, svc.Health())
	})

	r.Get("/models", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, svc.ListModels())
	})

	r.Post("/predict", func(w http.ResponseWriter, r *http.Request) {
		// Content-Type check
		ct := r.Header.Get("Content-Type")
		if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
			writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
			return
		}
		// Limit body size (configurable, default 1MiB)
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		var req types.PredictionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			// Oversized bodies surface here too; report a plain 400 to avoid size leak details
			writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		// Required fields
		if strings.TrimSpace(req.TenantID) == "" {
			writeJSONError(w, http.StatusUnprocessableEntity, "tenant_id is required")
			return
		}
		if strings.TrimSpace(req.ModelType) == "" {
			writeJSONError(w, http.StatusUnprocessableEntity, "model_type is required")
			return
		}

		start := time.Now()
		lvl := requestLogLevel(r)
		if lvl >= LevelInfo && zlog != nil {
			z := zlog.Info().Str("path", r.URL.Path).Str("tenant_id", req.TenantID).Str("model_type", req.ModelType)
			if rid := middleware.GetReqID(r.Context()); rid != "" {
				z = z.Str("request_id", rid)
			}
			z.Msg("predict start")
		}
		// Join server base context with request context so shutdown cancels work too.
		joinedCtx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		resp, err := svc.Predict(joinedCtx, req)
		if err != nil {
			// If context was canceled (client disconnect), just return.
			if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
				return
			}
			status := http.StatusInternalServerError
			if predictor.IsModelTypeNotFound(err) {
				status = http.StatusNotFound
			} else if he, ok := err.(HTTPError); ok {
				status = he.StatusCode()
			}
			writeJSONError(w, status, err.Error())
			ObservePrediction(req.ModelType, status)
			logPredictEnd(r, lvl, status, start, err)
			return
		}
		writeJSON(w, resp)
		ObservePrediction(req.ModelType, http.StatusOK)
		logPredictEnd(r, lvl, http.StatusOK, start, nil)
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("loading"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	// Swagger UI when built with -tags=swagger
	MountSwagger(r)

	return r
}

// writeJSON encodes v as the response body with the JSON content type.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
	}
}

func logPredictEnd(r *http.Request, lvl LogLevel, status int, start time.Time, err error) {
	if lvl < LevelInfo || zlog == nil {
		return
	}
	z := zlog.Info().Int("status", status).Dur("dur", time.Since(start))
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		z = z.Str("request_id", rid)
	}
	if err != nil {
		z = z.Err(err)
	}
	z.Msg("predict end")
}
