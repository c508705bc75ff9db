// Copyright 2025 The Chill Authors
// SPDX-License-Identifier: Apache-2.0

package action

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/chill-db/chill-go/pkg/couch"
	"github.com/chill-db/chill-go/pkg/couch/transport"
	"github.com/pkg/errors"
)

// CreateDocument creates a document via POST on the database's path. The
// server assigns the document id unless WithDocumentID is used.
type CreateDocument struct {
	t       transport.Transport
	db      couch.DatabaseName
	content any
	id      *couch.DocumentID
}

// NewCreateDocument returns an action that stores content as a new document
// in db. Content must encode to a JSON object.
func NewCreateDocument(t transport.Transport, db couch.DatabaseName, content any) *CreateDocument {
	return &CreateDocument{t: t, db: db, content: content}
}

// WithDocumentID chooses the new document's id instead of letting the
// server assign one.
func (a *CreateDocument) WithDocumentID(id couch.DocumentID) *CreateDocument {
	a.id = &id
	return a
}

// Run executes the action. The action must not be reused afterwards.
func (a *CreateDocument) Run(ctx context.Context) (*couch.DocumentMeta, error) {
	return Execute[*couch.DocumentMeta, couch.DatabaseName](ctx, a.t, a)
}

func (a *CreateDocument) MakeRequest(t transport.Transport) (transport.Request, couch.DatabaseName, error) {
	body := a.content
	if a.id != nil {
		merged, err := contentWithID(*a.id, a.content)
		if err != nil {
			return nil, "", err
		}
		body = merged
	}
	opts := transport.NewRequestOptions().WithAcceptJSON().WithJSONBody(body)
	req, err := t.NewRequest(http.MethodPost, []string{string(a.db)}, opts)
	if err != nil {
		return nil, "", err
	}
	return req, a.db, nil
}

func (a *CreateDocument) TakeResponse(r transport.Response, db couch.DatabaseName) (*couch.DocumentMeta, error) {
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
		return &couch.DocumentMeta{Database: db, ID: couch.DocumentID(wr.ID), Rev: rev}, nil
	default:
		return nil, errorFromResponse(r)
	}
}

// contentWithID re-encodes content as a field map with _id injected.
func contentWithID(id couch.DocumentID, content any) (map[string]json.RawMessage, error) {
	b, err := json.Marshal(content)
	if err != nil {
		return nil, errors.Wrap(err, "encoding document content")
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return nil, errors.Wrap(err, "document content must be a JSON object")
	}
	if fields == nil {
		fields = map[string]json.RawMessage{}
	}
	idRaw, err := json.Marshal(string(id))
	if err != nil {
		return nil, errors.Wrap(err, "encoding document id")
	}
	fields["_id"] = idRaw
	return fields, nil
}
