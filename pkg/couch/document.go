// Copyright 2025 The Chill Authors
// SPDX-License-Identifier: Apache-2.0

package couch

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
)

// Document is a document read from the server, combined from the carried
// database name and the decoded response body. Content holds the
// application-defined members of the body, i.e. everything except the
// reserved "_"-prefixed members.
type Document struct {
	Database    DatabaseName
	ID          DocumentID
	Rev         Revision
	Deleted     bool
	Attachments map[string]json.RawMessage
	Content     json.RawMessage
}

// Path returns the document's location.
func (d *Document) Path() DocumentPath {
	return DocumentPath{Database: d.Database, ID: d.ID}
}

// DecodeContent unmarshals the document's content into v.
func (d *Document) DecodeContent(v any) error {
	if err := json.Unmarshal(d.Content, v); err != nil {
		return errors.Wrap(err, "decoding document content")
	}
	return nil
}

// DecodedDocument is the wire form of a document response body. It splits
// the reserved "_"-prefixed members from the application content.
type DecodedDocument struct {
	ID          DocumentID
	Rev         Revision
	Deleted     bool
	Attachments map[string]json.RawMessage
	Content     json.RawMessage
}

// UnmarshalJSON decodes a document body, requiring _id and _rev.
func (d *DecodedDocument) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return errors.Wrap(err, "document body must be a JSON object")
	}
	idRaw, ok := fields["_id"]
	if !ok {
		return errors.New("document body missing _id")
	}
	var id string
	if err := json.Unmarshal(idRaw, &id); err != nil {
		return errors.Wrap(err, "decoding _id")
	}
	revRaw, ok := fields["_rev"]
	if !ok {
		return errors.New("document body missing _rev")
	}
	var rev Revision
	if err := json.Unmarshal(revRaw, &rev); err != nil {
		return errors.Wrap(err, "decoding _rev")
	}
	var deleted bool
	if raw, ok := fields["_deleted"]; ok {
		if err := json.Unmarshal(raw, &deleted); err != nil {
			return errors.Wrap(err, "decoding _deleted")
		}
	}
	var attachments map[string]json.RawMessage
	if raw, ok := fields["_attachments"]; ok {
		if err := json.Unmarshal(raw, &attachments); err != nil {
			return errors.Wrap(err, "decoding _attachments")
		}
	}
	for k := range fields {
		if strings.HasPrefix(k, "_") {
			delete(fields, k)
		}
	}
	content, err := json.Marshal(fields)
	if err != nil {
		return errors.Wrap(err, "re-encoding document content")
	}
	*d = DecodedDocument{
		ID:          DocumentID(id),
		Rev:         rev,
		Deleted:     deleted,
		Attachments: attachments,
		Content:     content,
	}
	return nil
}

// NewDocumentFromDecoded combines a database name with a decoded body.
func NewDocumentFromDecoded(db DatabaseName, d DecodedDocument) *Document {
	return &Document{
		Database:    db,
		ID:          d.ID,
		Rev:         d.Rev,
		Deleted:     d.Deleted,
		Attachments: d.Attachments,
		Content:     d.Content,
	}
}

// DocumentMeta is the identity of a document affected by a write operation.
type DocumentMeta struct {
	Database DatabaseName
	ID       DocumentID
	Rev      Revision
}

// ServerInfo is the server greeting returned by GET /.
type ServerInfo struct {
	Couchdb string       `json:"couchdb"`
	Version string       `json:"version"`
	UUID    string       `json:"uuid"`
	Vendor  ServerVendor `json:"vendor"`
}

// ServerVendor describes the server implementation.
type ServerVendor struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}
