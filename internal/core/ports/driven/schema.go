package driven

// SchemaValidator checks a decoded XWS document against a JSON schema.
type SchemaValidator interface {
	// Validate returns nil when doc conforms. doc is the decoded JSON value
	// (objects as map[string]any, numbers as json.Number or float64).
	// Violations are reported as *domain.SchemaValidationError.
	Validate(doc any) error
}
