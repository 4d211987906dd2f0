package apperrors

import "errors"

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrSourceUnavailable = errors.New("sample source unavailable")
	ErrEmptyExport       = errors.New("nothing to export")
	ErrConfigInvalid     = errors.New("invalid configuration")
	ErrMonitoringStopped = errors.New("monitoring inactive")
)
