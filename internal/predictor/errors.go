package predictor

// modelTypeNotFoundError signals a /predict request for a type absent from the
// registry, for 404 mapping.
type modelTypeNotFoundError struct{ modelType string }

func (e modelTypeNotFoundError) Error() string {
	return "model type '" + e.modelType + "' not found"
}

// ErrModelTypeNotFound returns an error for a model type with no registry record.
func ErrModelTypeNotFound(modelType string) error {
	return modelTypeNotFoundError{modelType: modelType}
}

// IsModelTypeNotFound reports whether err indicates a missing model type.
func IsModelTypeNotFound(err error) bool {
	_, ok := err.(modelTypeNotFoundError)
	return ok
}
