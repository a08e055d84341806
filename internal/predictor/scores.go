package predictor

import "math"

// Model types with dedicated score distributions. Any other registered type
// falls through to a generic uniform score.
const (
	TypeRiskPrediction = "risk_prediction"
	TypeDataQuality    = "data_quality"
)

// score draws a (prediction, confidence) pair for the given model type.
// Ranges before rounding:
//
//	risk_prediction: prediction normal(6.5, 1.5) clamped to [0,10], confidence [0.75,0.95)
//	data_quality:    prediction [0.7,0.95), confidence [0.8,0.95)
//	anything else:   prediction [0,1), confidence [0.6,0.9)
func (s *Service) score(modelType string) (prediction, confidence float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch modelType {
	case TypeRiskPrediction:
		prediction = clamp(s.rng.NormFloat64()*1.5+6.5, 0, 10)
		confidence = 0.75 + s.rng.Float64()*0.2
	case TypeDataQuality:
		prediction = 0.7 + s.rng.Float64()*0.25
		confidence = 0.8 + s.rng.Float64()*0.15
	default:
		prediction = s.rng.Float64()
		confidence = 0.6 + s.rng.Float64()*0.3
	}
	return round3(prediction), round3(confidence)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// round3 rounds to 3 decimal places, half away from zero.
func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
