package errors

// ValidationError represents a validation error with a field and message
type ValidationError struct {
	Field   string
	Message string
}

// NotFoundError represents a missing resource
type NotFoundError struct {
	Resource string
}

// ConflictError represents a uniqueness violation on a persisted entity
type ConflictError struct {
	Message string
}

// StorageError represents an error during object storage operations
type StorageError struct {
	Message string
	Cause   error
}
