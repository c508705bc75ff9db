// Copyright 2025 The Chill Authors
// SPDX-License-Identifier: Apache-2.0

package action

import (
	"context"
	"net/http"

	"github.com/chill-db/chill-go/pkg/couch"
	"github.com/chill-db/chill-go/pkg/couch/transport"
)

// UpdateDocument replaces a document's content via PUT on the document's
// path, guarded by the revision the caller last saw. A stale revision
// yields a couch.ConflictError.
type UpdateDocument struct {
	t       transport.Transport
	path    couch.DocumentPath
	rev     couch.Revision
	content any
}

// NewUpdateDocument returns an action that overwrites the document at path,
// currently at rev, with content.
func NewUpdateDocument(t transport.Transport, path couch.DocumentPath, rev couch.Revision, content any) *UpdateDocument {
	return &UpdateDocument{t: t, path: path, rev: rev, content: content}
}

// Run executes the action. The action must not be reused afterwards.
func (a *UpdateDocument) Run(ctx context.Context) (*couch.DocumentMeta, error) {
	return Execute[*couch.DocumentMeta, couch.DocumentPath](ctx, a.t, a)
}

func (a *UpdateDocument) MakeRequest(t transport.Transport) (transport.Request, couch.DocumentPath, error) {
	opts := transport.NewRequestOptions().
		WithAcceptJSON().
		WithRevisionQuery(a.rev).
		WithJSONBody(a.content)
	req, err := t.NewRequest(http.MethodPut, a.path.Segments(), opts)
	if err != nil {
		return nil, couch.DocumentPath{}, err
	}
	return req, a.path, nil
}

func (a *UpdateDocument) TakeResponse(r transport.Response, path couch.DocumentPath) (*couch.DocumentMeta, error) {
	switch r.StatusCode() {
	case http.StatusCreated, http.StatusAccepted:
		var wr writeResponse
		if err := r.DecodeJSONBody(&wr); err != nil {
			return nil, err
		}
		rev, err := wr.revision()
		if err != nil {
			return nil, err
		}
		return &couch.DocumentMeta{Database: path.Database, ID: path.ID, Rev: rev}, nil
	default:
		return nil, errorFromResponse(r)
	}
}
