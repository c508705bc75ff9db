// Copyright 2025 The Chill Authors
// SPDX-License-Identifier: Apache-2.0

package action

import (
	"context"
	"net/http"

	"github.com/chill-db/chill-go/pkg/couch"
	"github.com/chill-db/chill-go/pkg/couch/transport"
)

// DeleteDocument deletes a document via DELETE on the document's path,
// guarded by the revision the caller last saw. The result is the revision
// of the deletion stub the server stored.
type DeleteDocument struct {
	t    transport.Transport
	path couch.DocumentPath
	rev  couch.Revision
}

// NewDeleteDocument returns an action that deletes the document at path,
// currently at rev.
func NewDeleteDocument(t transport.Transport, path couch.DocumentPath, rev couch.Revision) *DeleteDocument {
	return &DeleteDocument{t: t, path: path, rev: rev}
}

// Run executes the action. The action must not be reused afterwards.
func (a *DeleteDocument) Run(ctx context.Context) (couch.Revision, error) {
	return Execute[couch.Revision, struct{}](ctx, a.t, a)
}

func (a *DeleteDocument) MakeRequest(t transport.Transport) (transport.Request, struct{}, error) {
	opts := transport.NewRequestOptions().
		WithAcceptJSON().
		WithRevisionQuery(a.rev)
	req, err := t.NewRequest(http.MethodDelete, a.path.Segments(), opts)
	if err != nil {
		return nil, struct{}{}, err
	}
	return req, struct{}{}, nil
}

func (a *DeleteDocument) TakeResponse(r transport.Response, _ struct{}) (couch.Revision, error) {
	switch r.StatusCode() {
	case http.StatusOK, http.StatusAccepted:
		var wr writeResponse
		if err := r.DecodeJSONBody(&wr); err != nil {
			return couch.Revision{}, err
		}
		return wr.revision()
	default:
		return couch.Revision{}, errorFromResponse(r)
	}
}
