package predictor

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"mlsvc/pkg/types"
)

// Service answers registry and prediction queries over a fixed model registry.
// The registry is read-only after construction; the only mutable state is the
// random source, guarded by mu.
type Service struct {
	mu       sync.Mutex
	rng      *rand.Rand
	registry []types.ModelInfo
	started  time.Time
}

// New builds a Service over reg with a time-seeded random source.
func New(reg []types.ModelInfo) *Service {
	return NewWithSource(reg, rand.NewSource(time.Now().UnixNano()))
}

// NewWithSource builds a Service with an explicit random source, for
// deterministic tests.
func NewWithSource(reg []types.ModelInfo, src rand.Source) *Service {
	return &Service{
		rng:      rand.New(src),
		registry: append([]types.ModelInfo(nil), reg...),
		started:  time.Now(),
	}
}

// ListModels returns a copy of the registry in definition order.
func (s *Service) ListModels() []types.ModelInfo {
	return append([]types.ModelInfo(nil), s.registry...)
}

// Health reports the service as healthy with the registry size.
func (s *Service) Health() types.HealthResponse {
	return types.HealthResponse{
		Status:       "healthy",
		Timestamp:    time.Now().Format(time.RFC3339Nano),
		ModelsLoaded: len(s.registry),
	}
}

// Ready reports whether the service can serve predictions. The registry is
// static, so readiness is unconditional once constructed.
func (s *Service) Ready() bool {
	return len(s.registry) > 0
}

// Predict scores a request against the first registry record whose type
// matches req.ModelType. A miss returns a model-type-not-found error before
// any response is constructed.
func (s *Service) Predict(ctx context.Context, req types.PredictionRequest) (types.PredictionResponse, error) {
	if err := ctx.Err(); err != nil {
		return types.PredictionResponse{}, err
	}
	var matched *types.ModelInfo
	for i := range s.registry {
		if s.registry[i].Type == req.ModelType {
			matched = &s.registry[i]
			break
		}
	}
	if matched == nil {
		return types.PredictionResponse{}, ErrModelTypeNotFound(req.ModelType)
	}
	prediction, confidence := s.score(matched.Type)
	return types.PredictionResponse{
		Prediction:   prediction,
		Confidence:   confidence,
		ModelVersion: matched.Version,
		Timestamp:    time.Now().Format(time.RFC3339Nano),
	}, nil
}
