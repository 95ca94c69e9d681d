package assistant

import "errors"

var (
	// ErrConfiguration is returned when the assistant cannot be built,
	// e.g. the provider API key is missing.
	ErrConfiguration = errors.New("assistant not configured")

	// ErrEmptyMessage is returned by Chat for empty input.
	ErrEmptyMessage = errors.New("no user message input")
)

// ConfigurationError carries the underlying cause of ErrConfiguration.
type ConfigurationError struct {
	Err error
}

func (e *ConfigurationError) Error() string {
	if e.Err == nil {
		return ErrConfiguration.Error()
	}
	return ErrConfiguration.Error() + ": " + e.Err.Error()
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }
