package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown catalog backend or source type.
	ErrUnsupportedType = errors.New("unsupported type")

	// Import Errors.

	// ErrInvalidDocument indicates the XWS document is not a JSON object.
	// The import is aborted before any diagnostic is produced.
	ErrInvalidDocument = errors.New("xws document is not an object")

	// ErrSchemaValidation indicates the XWS document failed schema validation.
	ErrSchemaValidation = errors.New("xws schema validation failed")

	// ErrMissingValidator indicates an importer was built without a schema validator.
	ErrMissingValidator = errors.New("schema validator is required")

	// Data Errors.

	// ErrDataLoad indicates reference card data or the schema could not be loaded.
	ErrDataLoad = errors.New("data load failed")
)

// InvalidDocumentError reports the Go type that was supplied instead of an object.
type InvalidDocumentError struct {
	Type string
}

// Error implements error.
func (e *InvalidDocumentError) Error() string {
	return fmt.Sprintf("XWS data is not of the correct type. Type: %s", e.Type)
}

// Unwrap allows errors.Is(err, ErrInvalidDocument).
func (e *InvalidDocumentError) Unwrap() error {
	return ErrInvalidDocument
}

// SchemaValidationError wraps the validator's failure.
type SchemaValidationError struct {
	// Causes are the leaf violations, one per line, in validator order.
	Causes []string
	Err    error
}

// Error implements error.
func (e *SchemaValidationError) Error() string {
	if len(e.Causes) == 0 {
		if e.Err != nil {
			return fmt.Sprintf("%s: %v", ErrSchemaValidation, e.Err)
		}
		return ErrSchemaValidation.Error()
	}
	return fmt.Sprintf("%s: %s", ErrSchemaValidation, strings.Join(e.Causes, "; "))
}

// Unwrap returns both the sentinel and the underlying cause.
func (e *SchemaValidationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrSchemaValidation}
	}
	return []error{ErrSchemaValidation, e.Err}
}

// DataLoadError identifies which backing source failed to load.
type DataLoadError struct {
	// Collection is the data set, e.g. "pilots" or "schema".
	Collection string
	// Source is the file path, database path or other locator.
	Source string
	Err    error
}

// Error implements error.
func (e *DataLoadError) Error() string {
	return fmt.Sprintf("loading %s from %s: %v", e.Collection, e.Source, e.Err)
}

// Unwrap returns both the sentinel and the underlying cause.
func (e *DataLoadError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrDataLoad}
	}
	return []error{ErrDataLoad, e.Err}
}
