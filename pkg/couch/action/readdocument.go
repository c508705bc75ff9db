// Copyright 2025 The Chill Authors
// SPDX-License-Identifier: Apache-2.0

package action

import (
	"context"
	"net/http"

	"github.com/chill-db/chill-go/pkg/couch"
	"github.com/chill-db/chill-go/pkg/couch/transport"
)

// AttachmentContent selects the attachments for which the server should
// send content instead of stubs.
type AttachmentContent int

const (
	// AttachmentContentNone requests stubs for all attachments.
	AttachmentContentNone AttachmentContent = iota
	// AttachmentContentAll requests content for all attachments.
	AttachmentContentAll
)

// ReadDocument reads a document via GET on the document's path. By default
// the server returns the latest revision with attachment stubs; the With*
// modifiers select an older revision or attachment content.
type ReadDocument struct {
	t           transport.Transport
	path        couch.DocumentPath
	revision    *couch.Revision
	attachments *AttachmentContent
}

// NewReadDocument returns an action that reads the document at path.
func NewReadDocument(t transport.Transport, path couch.DocumentPath) *ReadDocument {
	return &ReadDocument{t: t, path: path}
}

// WithRevision reads the given revision instead of the latest.
func (a *ReadDocument) WithRevision(rev couch.Revision) *ReadDocument {
	a.revision = &rev
	return a
}

// WithAttachmentContent selects the attachments to retrieve content for.
func (a *ReadDocument) WithAttachmentContent(c AttachmentContent) *ReadDocument {
	a.attachments = &c
	return a
}

// Run executes the action. The action must not be reused afterwards.
func (a *ReadDocument) Run(ctx context.Context) (*couch.Document, error) {
	return Execute[*couch.Document, couch.DatabaseName](ctx, a.t, a)
}

func (a *ReadDocument) MakeRequest(t transport.Transport) (transport.Request, couch.DatabaseName, error) {
	opts := transport.NewRequestOptions().WithAcceptJSON()
	if a.attachments != nil {
		opts = opts.WithAttachmentsQuery(*a.attachments == AttachmentContentAll)
	}
	if a.revision != nil {
		opts = opts.WithRevisionQuery(*a.revision)
	}
	req, err := t.NewRequest(http.MethodGet, a.path.Segments(), opts)
	if err != nil {
		return nil, "", err
	}
	return req, a.path.Database, nil
}

func (a *ReadDocument) TakeResponse(r transport.Response, db couch.DatabaseName) (*couch.Document, error) {
	switch r.StatusCode() {
	case http.StatusOK:
		var decoded couch.DecodedDocument
		if err := r.DecodeJSONBody(&decoded); err != nil {
			return nil, err
		}
		return couch.NewDocumentFromDecoded(db, decoded), nil
	default:
		return nil, errorFromResponse(r)
	}
}
