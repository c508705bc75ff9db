// Copyright 2025 The Chill Authors
// SPDX-License-Identifier: Apache-2.0

// Package transport defines the seam between typed operations and HTTP
// dispatch. A Transport turns a method, ordered path segments, and
// RequestOptions into a transport-native Request, then executes it to yield
// a Response. The production implementation speaks real HTTP; the
// transporttest package provides an in-memory double with the same
// contract.
package transport

import "context"

// Transport constructs and executes requests. NewRequest performs no I/O;
// Do is the single potentially blocking step of an operation.
type Transport interface {
	// NewRequest renders the path segments and options into a request
	// handle native to this transport. Status-independent construction
	// failures (bad path, unencodable body) are reported here.
	NewRequest(method string, path []string, opts RequestOptions) (Request, error)

	// Do executes a request previously built by this transport. Errors are
	// connectivity-level failures only; HTTP status codes are data on the
	// Response.
	Do(ctx context.Context, req Request) (Response, error)
}

// Request is a transport-native request handle. The pipeline never inspects
// it beyond a diagnostic summary.
type Request interface {
	// Summary returns a short "METHOD /path" description for diagnostics.
	Summary() string
}

// Response exposes the outcome of an executed request.
type Response interface {
	// StatusCode returns the numeric HTTP status.
	StatusCode() int

	// DecodeJSONBody decodes the JSON body into v, consuming the body. It
	// fails with couch.ErrResponseNotJSON if the body is absent or not
	// JSON, and with a couch.JSONDecodeError if the shape does not match.
	DecodeJSONBody(v any) error
}
