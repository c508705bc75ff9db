// Copyright 2025 The Chill Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import "github.com/chill-db/chill-go/pkg/couch"

// RequestOptions describes the non-path HTTP intent of an operation: accept
// header, query parameters, and an optional JSON body. Options are built by
// chained, order-independent setters; every setter returns a new value, so
// a RequestOptions handed to a transport is never mutated afterwards. An
// unset field means the corresponding HTTP artifact is omitted entirely —
// this layer never substitutes defaults.
type RequestOptions struct {
	accept         string
	revision       couch.Revision
	hasRevision    bool
	attachments    bool
	hasAttachments bool
	body           any
	hasBody        bool
}

// NewRequestOptions returns empty options.
func NewRequestOptions() RequestOptions {
	return RequestOptions{}
}

// WithAcceptJSON sets the accept header to JSON.
func (o RequestOptions) WithAcceptJSON() RequestOptions {
	o.accept = "application/json"
	return o
}

// WithRevisionQuery attaches a revision to be rendered as a "rev" query
// parameter.
func (o RequestOptions) WithRevisionQuery(rev couch.Revision) RequestOptions {
	o.revision = rev
	o.hasRevision = true
	return o
}

// WithAttachmentsQuery attaches the "attachments" query flag.
func (o RequestOptions) WithAttachmentsQuery(yes bool) RequestOptions {
	o.attachments = yes
	o.hasAttachments = true
	return o
}

// WithJSONBody attaches a value to be JSON-encoded as the request body.
// Encoding happens at request construction time, so an unencodable value
// surfaces as a NewRequest error.
func (o RequestOptions) WithJSONBody(v any) RequestOptions {
	o.body = v
	o.hasBody = true
	return o
}

// Accept returns the accept media type, if set.
func (o RequestOptions) Accept() (string, bool) {
	return o.accept, o.accept != ""
}

// Revision returns the revision query value, if set.
func (o RequestOptions) Revision() (couch.Revision, bool) {
	return o.revision, o.hasRevision
}

// Attachments returns the attachments query flag, if set.
func (o RequestOptions) Attachments() (bool, bool) {
	return o.attachments, o.hasAttachments
}

// JSONBody returns the request body value, if set.
func (o RequestOptions) JSONBody() (any, bool) {
	return o.body, o.hasBody
}
