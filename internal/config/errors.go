package config

import "fmt"

// ConfigurationError reports an option outside its allowed range. It is
// raised before any computation starts.
type ConfigurationError struct {
	Field   string
	Value   any
	Allowed string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s=%v outside allowed range %s", e.Field, e.Value, e.Allowed)
}
