// Copyright 2025 The Chill Authors
// SPDX-License-Identifier: Apache-2.0

package action

import (
	"encoding/json"
	"net/http"

	"github.com/chill-db/chill-go/pkg/couch"
	"github.com/chill-db/chill-go/pkg/couch/transport"
	"github.com/pkg/errors"
)

// namedError decodes the server's error/reason body and hands it to wrap.
// A body that cannot be decoded surfaces as the decode failure itself, so
// no diagnostic is silently dropped.
func namedError(r transport.Response, wrap func(couch.ErrorResponse) error) error {
	var er couch.ErrorResponse
	if err := r.DecodeJSONBody(&er); err != nil {
		return err
	}
	return wrap(er)
}

// errorFromResponse maps a non-success response to a typed error. Statuses
// with operation-specific meaning (e.g. 412 on database creation) are
// handled by the individual actions before falling back here.
func errorFromResponse(r transport.Response) error {
	switch r.StatusCode() {
	case http.StatusNotFound:
		return namedError(r, func(er couch.ErrorResponse) error {
			return &couch.NotFoundError{ErrorResponse: er}
		})
	case http.StatusUnauthorized:
		return namedError(r, func(er couch.ErrorResponse) error {
			return &couch.UnauthorizedError{ErrorResponse: er}
		})
	case http.StatusConflict:
		return namedError(r, func(er couch.ErrorResponse) error {
			return &couch.ConflictError{ErrorResponse: er}
		})
	default:
		var body json.RawMessage
		if err := r.DecodeJSONBody(&body); err != nil {
			var notJSON *couch.NotJSONError
			if errors.As(err, &notJSON) {
				return &couch.ServerResponseError{StatusCode: r.StatusCode(), Body: notJSON.Body}
			}
			return &couch.ServerResponseError{StatusCode: r.StatusCode()}
		}
		return &couch.ServerResponseError{StatusCode: r.StatusCode(), Body: body}
	}
}

// writeResponse is the body CouchDB returns for document writes.
type writeResponse struct {
	OK  bool   `json:"ok"`
	ID  string `json:"id"`
	Rev string `json:"rev"`
}

func (w writeResponse) revision() (couch.Revision, error) {
	rev, err := couch.ParseRevision(w.Rev)
	if err != nil {
		return couch.Revision{}, &couch.JSONDecodeError{Cause: err}
	}
	return rev, nil
}
