package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrConfiguration is returned when a required server-side setting is missing.
type ErrConfiguration struct {
	Setting string
	Message string
}

func (e *ErrConfiguration) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s is not configured", e.Setting)
}

// ErrInvalidInput reports a request the caller has to fix before resending.
type ErrInvalidInput struct {
	Field   string
	Summary string
	Message string
}

func (e *ErrInvalidInput) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ErrUpstream is a processor that rejected the call or could not be reached.
// StatusCode is zero when no response was received. Internal marks calls
// made with the relay's own credentials, whose status is never mirrored.
type ErrUpstream struct {
	Provider   string
	Operation  string
	StatusCode int
	Body       json.RawMessage
	Internal   bool
	Err        error
}

func (e *ErrUpstream) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("%s %s failed: status %d, body: %s", e.Provider, e.Operation, e.StatusCode, string(e.Body))
	case e.Err != nil:
		return fmt.Sprintf("%s %s failed: %v", e.Provider, e.Operation, e.Err)
	default:
		return fmt.Sprintf("%s %s failed", e.Provider, e.Operation)
	}
}

func (e *ErrUpstream) Unwrap() error {
	return e.Err
}

// ErrProtocolViolation is a processor response that succeeded but omitted
// a field the relay depends on.
type ErrProtocolViolation struct {
	Provider  string
	Operation string
	Detail    string
}

func (e *ErrProtocolViolation) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Provider, e.Operation, e.Detail)
}

// HTTPStatus maps an error from the relay onto the status returned to the caller.
func HTTPStatus(err error) int {
	var (
		cfgErr      *ErrConfiguration
		inputErr    *ErrInvalidInput
		upstreamErr *ErrUpstream
	)
	switch {
	case stderrors.As(err, &inputErr):
		return http.StatusBadRequest
	case stderrors.As(err, &cfgErr):
		return http.StatusInternalServerError
	case stderrors.As(err, &upstreamErr):
		if !upstreamErr.Internal && upstreamErr.StatusCode >= 400 && upstreamErr.StatusCode < 600 {
			return upstreamErr.StatusCode
		}
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
