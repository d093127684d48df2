package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/lumapix/lumapix-client/pkg/protocol"
)

// HTTPError is returned for any non-2xx response. It carries the numeric
// status and status text, plus the server's error message when the body
// held a decodable error envelope.
type HTTPError struct {
	Status     int
	StatusText string
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server returned %d %s: %s", e.Status, e.StatusText, e.Message)
	}
	return fmt.Sprintf("server returned %d %s", e.Status, e.StatusText)
}

// AsHTTPError checks if an error is an HTTPError and returns it.
func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	if errors.As(err, &he) {
		return he, true
	}
	return nil, false
}

// newHTTPError reads at most a small error envelope from the body.
func newHTTPError(resp *http.Response) *HTTPError {
	he := &HTTPError{
		Status:     resp.StatusCode,
		StatusText: http.StatusText(resp.StatusCode),
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var envelope protocol.ErrorResponse
	if json.Unmarshal(body, &envelope) == nil && envelope.Error != "" {
		he.Message = envelope.Error
	}
	return he
}

// ParseError is returned when an otherwise-successful response carried a
// body that could not be decoded.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse response: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether a failed call is worth retrying: server-side
// 5xx responses and transport-level failures qualify, everything else
// (4xx, parse failures, cancellation) does not.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if he, ok := AsHTTPError(err); ok {
		return he.Status >= 500
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		return false
	}
	// Anything else is a transport-level failure.
	return true
}

// Severity classifies a failure for conditional UI behavior.
type Severity int

const (
	SeverityNormal Severity = iota
	SeverityAuth
	SeverityCritical
)

// Classify buckets an error by inspecting its structured status rather
// than its message text: 401/403 are auth failures, 5xx and transport
// failures are critical, everything else is normal.
func Classify(err error) Severity {
	if err == nil {
		return SeverityNormal
	}
	if he, ok := AsHTTPError(err); ok {
		switch {
		case he.Status == http.StatusUnauthorized || he.Status == http.StatusForbidden:
			return SeverityAuth
		case he.Status >= 500:
			return SeverityCritical
		default:
			return SeverityNormal
		}
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		return SeverityNormal
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return SeverityNormal
	}
	return SeverityCritical
}

// Describe maps a failure to a user-facing sentence.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	if he, ok := AsHTTPError(err); ok {
		switch {
		case he.Status == http.StatusUnauthorized:
			return "Your session has expired. Please sign in again."
		case he.Status == http.StatusForbidden:
			return "You don't have permission to do that."
		case he.Status == http.StatusNotFound:
			return "That item could not be found. It may have been deleted."
		case he.Status == http.StatusConflict:
			return "That name is already in use. Choose another and try again."
		case he.Status == http.StatusUnprocessableEntity:
			return "The server rejected the request. Check your input and try again."
		case he.Status >= 500:
			return "The server hit an internal problem. Please try again in a moment."
		default:
			return fmt.Sprintf("The request failed (%d %s).", he.Status, he.StatusText)
		}
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		return "The server sent an unexpected response."
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "The request was cancelled."
	}
	return "Could not reach the server. Check your connection and try again."
}
