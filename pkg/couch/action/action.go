// Copyright 2025 The Chill Authors
// SPDX-License-Identifier: Apache-2.0

// Package action implements typed CouchDB operations. Every operation is an
// Action: a value describing one API call, split into a request-building
// phase and a response-interpreting phase. The split lets request
// construction be tested by inspecting the built request, and response
// interpretation be tested by feeding a synthetic response, with no server
// involved in either.
package action

import (
	"context"

	"github.com/chill-db/chill-go/pkg/couch"
	"github.com/chill-db/chill-go/pkg/couch/transport"
)

// Action is one API operation with output type O and carried state S.
//
// MakeRequest encodes the action's parameters into exactly one transport
// call and returns the state phase two needs; it performs no I/O. The state
// must be sufficient to build the output from a response alone, because
// TakeResponse must not read the action's fields — it is a pure function of
// the response and the state, callable on a zero-value receiver.
//
// An Action is single-use: it is consumed by the pipeline and must not be
// executed again.
type Action[O, S any] interface {
	MakeRequest(t transport.Transport) (transport.Request, S, error)
	TakeResponse(r transport.Response, state S) (O, error)
}

// Execute runs an action's two phases against a transport. Transport
// dispatch failures are reported as couch.TransportError; HTTP status codes
// are interpreted by the action's TakeResponse.
func Execute[O, S any](ctx context.Context, t transport.Transport, a Action[O, S]) (O, error) {
	var zero O
	req, state, err := a.MakeRequest(t)
	if err != nil {
		return zero, err
	}
	resp, err := t.Do(ctx, req)
	if err != nil {
		return zero, &couch.TransportError{Cause: err}
	}
	return a.TakeResponse(resp, state)
}
