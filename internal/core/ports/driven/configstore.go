package driven

// ConfigStore defines the interface for configuration persistence.
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	// Returns the value and true if found, nil and false otherwise.
	Get(key string) (any, bool)

	// GetString retrieves a string configuration value.
	// Returns empty string if not found or not a string.
	GetString(key string) string

	// GetInt retrieves an integer configuration value.
	// Returns 0 if not found or not an integer.
	GetInt(key string) int

	// GetBool retrieves a boolean configuration value.
	// Returns false if not found or not a boolean.
	GetBool(key string) bool

	// Set stores a configuration value.
	Set(key string, value any) error

	// Save persists the configuration to storage.
	Save() error

	// Load reads the configuration from storage.
	Load() error

	// Path returns the location of the configuration storage.
	Path() string
}
