package registry

import "mlsvc/pkg/types"

// Default returns the built-in mock registry used when no registry file is
// configured. Order matters: /predict matches the first record whose type
// equals the requested model_type.
func Default() []types.ModelInfo {
	return []types.ModelInfo{
		{
			ID:       "risk-predictor-local",
			Name:     "Risk Prediction Model (Local)",
			Type:     "risk_prediction",
			Status:   "active",
			Accuracy: 0.847,
			Version:  "1.0.0-local",
		},
		{
			ID:       "data-quality-local",
			Name:     "Data Quality Checker (Local)",
			Type:     "data_quality",
			Status:   "active",
			Accuracy: 0.923,
			Version:  "1.0.0-local",
		},
	}
}
