package types

// ModelInfo describes one entry of the mock model registry.
type ModelInfo struct {
	// Stable identifier for the model.
	// example: risk-predictor-local
	ID string `json:"id" yaml:"id" toml:"id" example:"risk-predictor-local"`
	// Human-friendly name.
	// example: Risk Prediction Model (Local)
	Name string `json:"name" yaml:"name" toml:"name" example:"Risk Prediction Model (Local)"`
	// Model type used to route /predict requests.
	// example: risk_prediction
	Type string `json:"type" yaml:"type" toml:"type" example:"risk_prediction"`
	// Lifecycle status of the model.
	// example: active
	Status string `json:"status" yaml:"status" toml:"status" example:"active"`
	// Reported (mock) accuracy of the model.
	// example: 0.847
	Accuracy float64 `json:"accuracy" yaml:"accuracy" toml:"accuracy" example:"0.847"`
	// Version string echoed back as model_version in predictions.
	// example: 1.0.0-local
	Version string `json:"version" yaml:"version" toml:"version" example:"1.0.0-local"`
}

// PredictionRequest is the POST /predict payload.
type PredictionRequest struct {
	// Required tenant identifier. Accepted and logged; no isolation is enforced.
	// example: tenant-1
	TenantID string `json:"tenant_id" example:"tenant-1"`
	// Required model type to score with. Matched against registry entries in order.
	// example: risk_prediction
	ModelType string `json:"model_type" example:"risk_prediction"`
	// Arbitrary feature payload. Ignored by the mock scorer.
	Data map[string]any `json:"data"`
}

// PredictionResponse is returned by POST /predict.
type PredictionResponse struct {
	// Mock score, rounded to 3 decimals. Range depends on model type.
	// example: 6.512
	Prediction float64 `json:"prediction" example:"6.512"`
	// Mock confidence, rounded to 3 decimals.
	// example: 0.873
	Confidence float64 `json:"confidence" example:"0.873"`
	// Version of the registry record that served the request.
	// example: 1.0.0-local
	ModelVersion string `json:"model_version" example:"1.0.0-local"`
	// RFC 3339 timestamp of when the prediction was produced.
	// example: 2024-01-01T12:00:00.000000Z
	Timestamp string `json:"timestamp" example:"2024-01-01T12:00:00.000000Z"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	// Always "healthy" while the process serves requests.
	// example: healthy
	Status string `json:"status" example:"healthy"`
	// RFC 3339 server timestamp.
	// example: 2024-01-01T12:00:00.000000Z
	Timestamp string `json:"timestamp" example:"2024-01-01T12:00:00.000000Z"`
	// Number of registry records loaded at startup.
	// example: 2
	ModelsLoaded int `json:"models_loaded" example:"2"`
}

// RootResponse is the service descriptor returned by GET /.
type RootResponse struct {
	// example: GRC ML Service
	Service string `json:"service" example:"GRC ML Service"`
	// example: 0.1.0-local
	Version string `json:"version" example:"0.1.0-local"`
	// example: running
	Status string `json:"status" example:"running"`
	// Map of endpoint name to path.
	Endpoints map[string]string `json:"endpoints"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}
