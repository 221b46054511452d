package config

import "fmt"

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the loaded configuration. Misconfiguration fails at
// startup rather than surfacing as confusing runtime behavior.
func (c *Config) Validate() error {
	if err := validatePort("service.port", c.Service.Port); err != nil {
		return err
	}
	if c.Service.RequestLimit > c.Service.MaxRequestLimit {
		return &ValidationError{
			Field:   "service.request_limit",
			Message: fmt.Sprintf("must not exceed max_request_limit (%d)", c.Service.MaxRequestLimit),
		}
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if err := validateLogLevel(c.Logging.Level); err != nil {
		return err
	}
	if err := validateLogFormat(c.Logging.Format); err != nil {
		return err
	}
	for name, keywords := range c.Categories {
		if len(keywords) == 0 {
			return &ValidationError{
				Field:   "categories." + name,
				Message: "must list at least one keyword",
			}
		}
	}
	return nil
}

// Validate checks the database section.
func (d *DatabaseConfig) Validate() error {
	if d.Host == "" {
		return &ValidationError{Field: "database.host", Message: "is required"}
	}
	if err := validatePort("database.port", d.Port); err != nil {
		return err
	}
	if d.User == "" {
		return &ValidationError{Field: "database.user", Message: "is required"}
	}
	if d.Database == "" {
		return &ValidationError{Field: "database.database", Message: "is required"}
	}
	return nil
}

func validatePort(field string, port int) error {
	if port < 1 || port > 65535 {
		return &ValidationError{Field: field, Message: "must be between 1 and 65535"}
	}
	return nil
}

func validateLogLevel(level string) error {
	switch level {
	case "debug", "info", "warn", "warning", "error", "fatal":
		return nil
	default:
		return &ValidationError{Field: "logging.level", Message: "must be one of: debug, info, warn, error, fatal"}
	}
}

func validateLogFormat(format string) error {
	switch format {
	case "json", "console":
		return nil
	default:
		return &ValidationError{Field: "logging.format", Message: "must be one of: json, console"}
	}
}
