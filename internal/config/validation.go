// Package config provides configuration management for the DCF simulator.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	// Register custom validation functions
	v.RegisterValidation("environment", validateEnvironment)
	v.RegisterValidation("loglevel", validateLogLevel)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	cv := NewValidator()
	return cv.Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	err := cv.validator.Struct(cfg)
	if err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	// Additional cross-field validations
	if err := validateCrossField(cfg); err != nil {
		return err
	}

	return nil
}

// validateEnvironment validates the environment field
func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

// validateLogLevel validates the log level field
func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// validateCrossField performs cross-field validations
func validateCrossField(cfg *Config) error {
	if cfg.IsProduction() && cfg.Database.Enabled && cfg.Database.SSLMode == "disable" {
		return fmt.Errorf("production environment requires SSL mode to be 'require' or 'verify-full'")
	}

	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		return fmt.Errorf("metrics path must start with '/'")
	}

	if cfg.Server.RateLimitPerSecond > 0 && cfg.Server.RateLimitBurst == 0 {
		return fmt.Errorf("rate_limit_burst must be positive when rate limiting is enabled")
	}

	return nil
}

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var errMsg strings.Builder
	for _, fieldError := range validationErrors {
		field := fieldError.StructField()
		tag := fieldError.Tag()
		value := fieldError.Value()

		switch tag {
		case "required", "required_if":
			errMsg.WriteString(fmt.Sprintf("- Field '%s' is required\n", field))
		case "min", "max":
			errMsg.WriteString(fmt.Sprintf("- Field '%s' validation failed: %s constraint violated\n", field, tag))
		case "gt", "gte", "lt", "lte":
			errMsg.WriteString(fmt.Sprintf("- Field '%s' validation failed: numeric constraint %s violated\n", field, tag))
		case "environment":
			errMsg.WriteString(fmt.Sprintf("- Field '%s' must be one of: development, staging, production\n", field))
		case "loglevel":
			errMsg.WriteString(fmt.Sprintf("- Field '%s' must be one of: debug, info, warn, error\n", field))
		case "oneof":
			errMsg.WriteString(fmt.Sprintf("- Field '%s' has invalid value '%v'\n", field, value))
		default:
			errMsg.WriteString(fmt.Sprintf("- Field '%s' failed validation: %s\n", field, tag))
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", errMsg.String())
}
