package llm

import (
	"errors"
	"fmt"
	"time"
)

// ErrEmptyCompletion is returned when the endpoint answered 2xx but carried no content.
var ErrEmptyCompletion = errors.New("llm returned no content")

// ConfigurationError means the client cannot make calls at all, e.g. a missing
// API key. No request is attempted when it is returned.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "llm configuration: " + e.Reason
}

// TransportError wraps network-level failures: dialing, writing the request,
// reading or decoding the response.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("llm transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// TimeoutError is returned when a call does not complete within its deadline.
type TimeoutError struct {
	After time.Duration
	Err   error
}

func (e *TimeoutError) Error() string {
	if e.After > 0 {
		return fmt.Sprintf("llm request timed out after %s", e.After)
	}
	return "llm request timed out"
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// UpstreamError is a non-2xx answer from the model endpoint.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("llm returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("llm returned status %d: %s", e.StatusCode, e.Body)
}

// IsTimeout reports whether err is, or wraps, a TimeoutError.
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}
