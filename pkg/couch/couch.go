// Copyright 2025 The Chill Authors
// SPDX-License-Identifier: Apache-2.0

// Package couch defines the value types and error surface shared by the
// CouchDB client: database and document identifiers, revisions, documents,
// and the typed errors an operation can return.
package couch

// DatabaseName is the name of a database.
type DatabaseName string

func (n DatabaseName) String() string { return string(n) }

// DocumentID identifies a document within a database.
type DocumentID string

func (id DocumentID) String() string { return string(id) }
