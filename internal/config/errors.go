package config

import (
	"errors"
)

// Sentinel errors returned by Load and Validate.
var (
	// ErrInvalidConfig wraps every validation failure (empty addr, unknown
	// store, negative thresholds and so on).
	ErrInvalidConfig = errors.New("invalid config")
	// ErrLoadConfig wraps failures reading the GRADEPILOT_CONFIG file or the
	// GRADEPILOT_ environment.
	ErrLoadConfig = errors.New("load config failed")
)
