// Package predictor produces mock prediction scores for the local-development
// ML service. It holds the immutable model registry and a seeded random
// source; no real model is loaded and no feature of the request payload is
// inspected. Files by concern:
//
//   - predictor.go: Service type, constructors, registry/health accessors.
//   - scores.go: per-model-type score distributions, clamping and rounding.
//   - errors.go: error types and helpers (IsModelTypeNotFound).
//
// External packages should use the public methods only (New, ListModels,
// Health, Ready, Predict).
package predictor
