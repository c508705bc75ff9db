// Copyright 2025 The Chill Authors
// SPDX-License-Identifier: Apache-2.0

package couch

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorResponse carries the server-reported "error" and "reason" strings
// verbatim. It is embedded by the named error variants so that no server
// diagnostic text is ever paraphrased or discarded.
type ErrorResponse struct {
	Err    string `json:"error"`
	Reason string `json:"reason"`
}

func (e ErrorResponse) Error() string {
	if e.Reason == "" {
		return e.Err
	}
	return fmt.Sprintf("%s: %s", e.Err, e.Reason)
}

// NotFoundError reports that the database or document does not exist.
type NotFoundError struct {
	ErrorResponse
}

func (e *NotFoundError) Error() string {
	return "not found: " + e.ErrorResponse.Error()
}

// UnauthorizedError reports that the client lacks permission.
type UnauthorizedError struct {
	ErrorResponse
}

func (e *UnauthorizedError) Error() string {
	return "unauthorized: " + e.ErrorResponse.Error()
}

// ConflictError reports a document update conflict.
type ConflictError struct {
	ErrorResponse
}

func (e *ConflictError) Error() string {
	return "conflict: " + e.ErrorResponse.Error()
}

// DatabaseExistsError reports that a database could not be created because
// it already exists.
type DatabaseExistsError struct {
	ErrorResponse
}

func (e *DatabaseExistsError) Error() string {
	return "database exists: " + e.ErrorResponse.Error()
}

// ServerResponseError is the catch-all for status codes the operation does
// not recognize. Body retains the raw response body when one was readable,
// JSON or not.
type ServerResponseError struct {
	StatusCode int
	Body       []byte
}

func (e *ServerResponseError) Error() string {
	if len(e.Body) == 0 {
		return fmt.Sprintf("unexpected server response: status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected server response: status %d: %s", e.StatusCode, e.Body)
}

// TransportError reports a connectivity, timeout, or request-encoding
// failure from the transport.
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string {
	return "transport: " + e.Cause.Error()
}

func (e *TransportError) Unwrap() error { return e.Cause }

// JSONDecodeError reports a JSON body whose shape did not match the
// requested type.
type JSONDecodeError struct {
	Cause error
}

func (e *JSONDecodeError) Error() string {
	return "decoding JSON body: " + e.Cause.Error()
}

func (e *JSONDecodeError) Unwrap() error { return e.Cause }

// ErrResponseNotJSON is returned when a response body is required but is
// absent or not JSON.
var ErrResponseNotJSON = errors.New("response body is not JSON")

// NotJSONError reports a body that was required to be JSON but was not, and
// retains the raw bytes for diagnostics. It matches ErrResponseNotJSON under
// errors.Is.
type NotJSONError struct {
	Body []byte
}

func (e *NotJSONError) Error() string { return ErrResponseNotJSON.Error() }

func (e *NotJSONError) Is(target error) bool { return target == ErrResponseNotJSON }
