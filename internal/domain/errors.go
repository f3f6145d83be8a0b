// Package domain provides shared domain types and the gateway error taxonomy.
package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrTenantNotFound indicates a clinic slug that matches no known clinic.
// Resolution handles it with a redirect, not a failure.
var ErrTenantNotFound = errors.New("clinic not found")

// ErrDirectoryUnavailable indicates the clinic directory has no loaded data,
// either because the initial fetch failed or returned an empty set.
var ErrDirectoryUnavailable = errors.New("clinic directory unavailable")

// ConfigError indicates missing or invalid gateway configuration.
// It is fatal at startup or on first use and never retried.
type ConfigError struct {
	Setting string
	Reason  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Setting, e.Reason)
}

// TimeoutError indicates an upstream call exceeded its deadline.
// Budget is the deadline the call was given, not the time it actually took.
type TimeoutError struct {
	Budget time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("upstream call exceeded %s deadline", e.Budget)
}

// MalformedResponseError indicates the upstream body could not be parsed as
// the expected JSON envelope.
type MalformedResponseError struct {
	Status     int
	StatusText string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed upstream response (%s)", e.StatusText)
}

// UpstreamError indicates a non-2xx HTTP status from the upstream backend.
// Body carries the raw upstream response so callers can pass it through.
type UpstreamError struct {
	Status  int
	Message string
	Body    []byte
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned %d: %s", e.Status, e.Message)
}

// ApplicationError indicates a 2xx response whose envelope reported
// success=false. Body carries the raw upstream response and Status the
// original (successful) HTTP status code.
type ApplicationError struct {
	Status  int
	Message string
	Body    []byte
}

func (e *ApplicationError) Error() string {
	return fmt.Sprintf("upstream rejected request: %s", e.Message)
}
