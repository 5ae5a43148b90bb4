package driven

// ConfigStore provides access to application configuration.
// Keys use dot notation ("catalog.data_dir"); implementations handle
// persistence and type conversion.
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	// Returns the value and a boolean indicating if the key exists.
	Get(key string) (any, bool)

	// GetString retrieves a string configuration value.
	// Returns empty string if key doesn't exist or isn't a string.
	GetString(key string) string

	// GetBool retrieves a boolean configuration value.
	// Returns false if key doesn't exist or isn't a boolean.
	GetBool(key string) bool

	// GetSection returns every value stored under prefix, keyed by the
	// remainder of the key. "vendor" yields {"url": ...} for "vendor.url".
	// Returns an empty map if nothing matches.
	GetSection(prefix string) map[string]any

	// Set stores a configuration value.
	// The value is persisted immediately.
	Set(key string, value any) error

	// DeleteSection removes every key under prefix and persists the result.
	DeleteSection(prefix string) error

	// Save persists the current configuration to storage.
	Save() error

	// Load reads configuration from storage.
	Load() error

	// Path returns the configuration file path.
	Path() string
}
