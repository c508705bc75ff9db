// Copyright 2025 The Chill Authors
// SPDX-License-Identifier: Apache-2.0

package couch

import (
	"strings"

	"github.com/pkg/errors"
)

// DocumentPath locates a document: a database name plus a document id. The
// id may carry a "_design/" or "_local/" prefix, which occupies its own URL
// path segment.
type DocumentPath struct {
	Database DatabaseName
	ID       DocumentID
}

// NewDocumentPath builds a DocumentPath from its parts.
func NewDocumentPath(db DatabaseName, id DocumentID) DocumentPath {
	return DocumentPath{Database: db, ID: id}
}

// ParseDocumentPath parses a path of the form "/db/doc", "/db/_design/doc"
// or "/db/_local/doc".
func ParseDocumentPath(s string) (DocumentPath, error) {
	rest, ok := strings.CutPrefix(s, "/")
	if !ok {
		return DocumentPath{}, errors.Errorf("invalid document path %q: must begin with '/'", s)
	}
	parts := strings.Split(rest, "/")
	for _, p := range parts {
		if p == "" {
			return DocumentPath{}, errors.Errorf("invalid document path %q: empty segment", s)
		}
	}
	switch {
	case len(parts) == 2:
		return DocumentPath{Database: DatabaseName(parts[0]), ID: DocumentID(parts[1])}, nil
	case len(parts) == 3 && (parts[1] == "_design" || parts[1] == "_local"):
		return DocumentPath{Database: DatabaseName(parts[0]), ID: DocumentID(parts[1] + "/" + parts[2])}, nil
	default:
		return DocumentPath{}, errors.Errorf("invalid document path %q: expected /db/doc", s)
	}
}

// Segments returns the ordered URL path segments for the document.
func (p DocumentPath) Segments() []string {
	id := string(p.ID)
	for _, prefix := range []string{"_design/", "_local/"} {
		if name, ok := strings.CutPrefix(id, prefix); ok {
			return []string{string(p.Database), strings.TrimSuffix(prefix, "/"), name}
		}
	}
	return []string{string(p.Database), id}
}

func (p DocumentPath) String() string {
	return "/" + strings.Join(p.Segments(), "/")
}
