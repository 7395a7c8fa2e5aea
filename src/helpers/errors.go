package helpers

import (
	"errors"
	"fmt"

	"sales-observer/src/logger"
)

// -----------------------------------------------------------------------------
// Custom Error Types
// -----------------------------------------------------------------------------

type SalesObserverError struct {
	Message string
	Cause   error
}

func (e *SalesObserverError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *SalesObserverError) Unwrap() error {
	return e.Cause
}

// Distinct error types for errors.As
type ConfigurationError struct{ SalesObserverError }
type DataSourceError struct{ SalesObserverError }
type ValidationError struct{ SalesObserverError }
type ForecastError struct{ SalesObserverError }

// Sentinels matched with errors.Is
var (
	ErrMissingColumn = errors.New("required column missing")
	ErrInvalidCell   = errors.New("invalid cell value")
	ErrUnknownSource = errors.New("no source handles location")
	ErrNoReport      = errors.New("no report computed yet")
	ErrUnknownView   = errors.New("unknown view")
)

// -----------------------------------------------------------------------------

func NewConfigurationError(cause error, format string, args ...interface{}) error {
	return &ConfigurationError{SalesObserverError{Message: fmt.Sprintf(format, args...), Cause: cause}}
}

func NewDataSourceError(cause error, format string, args ...interface{}) error {
	return &DataSourceError{SalesObserverError{Message: fmt.Sprintf(format, args...), Cause: cause}}
}

func NewValidationError(cause error, format string, args ...interface{}) error {
	return &ValidationError{SalesObserverError{Message: fmt.Sprintf(format, args...), Cause: cause}}
}

func NewForecastError(cause error, format string, args ...interface{}) error {
	return &ForecastError{SalesObserverError{Message: fmt.Sprintf(format, args...), Cause: cause}}
}

// -----------------------------------------------------------------------------
// Error Handler
// -----------------------------------------------------------------------------

type ErrorHandler struct {
	Logger     *logger.Logger
	ErrorCount int
}

func NewErrorHandler(log *logger.Logger) *ErrorHandler {
	return &ErrorHandler{Logger: log.With("errors")}
}

// -----------------------------------------------------------------------------

func (e *ErrorHandler) ResetErrorCount() {
	e.ErrorCount = 0
}

// -----------------------------------------------------------------------------

// Handle logs err with its category and counts it. Nil is ignored.
func (e *ErrorHandler) Handle(err error, context string) {
	if err == nil {
		return
	}
	e.ErrorCount++

	var cfgErr *ConfigurationError
	var srcErr *DataSourceError
	var valErr *ValidationError
	switch {
	case errors.As(err, &cfgErr):
		e.Logger.Error("Configuration error in %s: %v", context, err)
	case errors.As(err, &valErr):
		e.Logger.Error("Validation error in %s: %v", context, err)
	case errors.As(err, &srcErr):
		e.Logger.Error("Data source error in %s: %v", context, err)
	default:
		e.Logger.Error("Error in %s: %v", context, err)
	}
}
