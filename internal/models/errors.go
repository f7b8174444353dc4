package models

import "errors"

// Custom errors
var (
	ErrInvalidParameters       = errors.New("invalid valuation parameters")
	ErrDegenerateTerminalValue = errors.New("discount rate must exceed terminal growth rate")
	ErrInvalidIterations       = errors.New("monte carlo iterations must be positive")
	ErrScenarioNotFound        = errors.New("scenario not found")
	ErrScenarioIDRequired      = errors.New("scenario id is required")
)
