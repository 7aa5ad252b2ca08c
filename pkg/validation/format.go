// Package validation provides common validation utilities.
package validation

import (
	"fmt"
	"strings"

	"github.com/iwvelando/investment-tracker/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	switch format {
	case constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON:
		return nil
	}
	return fmt.Errorf("expected output format of %s, %s or %s, got %s",
		constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON, format)
}

// ValidateCacheBackend checks that the configured price cache backend is supported.
func ValidateCacheBackend(backend string) error {
	switch backend {
	case constants.CacheBackendMemory, constants.CacheBackendRedis:
		return nil
	}
	return fmt.Errorf("expected cache backend of %s or %s, got %s",
		constants.CacheBackendMemory, constants.CacheBackendRedis, backend)
}

// ValidateLogLevel checks that a log level is recognized. An empty level is allowed.
func ValidateLogLevel(level string) error {
	switch strings.ToLower(level) {
	case "", "debug", "info", "warn", "warning", "error":
		return nil
	}
	return fmt.Errorf("invalid log level: %s", level)
}
