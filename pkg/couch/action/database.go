// Copyright 2025 The Chill Authors
// SPDX-License-Identifier: Apache-2.0

package action

import (
	"context"
	"net/http"

	"github.com/chill-db/chill-go/pkg/couch"
	"github.com/chill-db/chill-go/pkg/couch/transport"
)

// CreateDatabase creates a database via PUT on the database's path. An
// existing database yields a couch.DatabaseExistsError.
type CreateDatabase struct {
	t  transport.Transport
	db couch.DatabaseName
}

// NewCreateDatabase returns an action that creates db.
func NewCreateDatabase(t transport.Transport, db couch.DatabaseName) *CreateDatabase {
	return &CreateDatabase{t: t, db: db}
}

// Run executes the action. The action must not be reused afterwards.
func (a *CreateDatabase) Run(ctx context.Context) error {
	_, err := Execute[struct{}, struct{}](ctx, a.t, a)
	return err
}

func (a *CreateDatabase) MakeRequest(t transport.Transport) (transport.Request, struct{}, error) {
	opts := transport.NewRequestOptions().WithAcceptJSON()
	req, err := t.NewRequest(http.MethodPut, []string{string(a.db)}, opts)
	if err != nil {
		return nil, struct{}{}, err
	}
	return req, struct{}{}, nil
}

func (a *CreateDatabase) TakeResponse(r transport.Response, _ struct{}) (struct{}, error) {
	switch r.StatusCode() {
	case http.StatusCreated, http.StatusAccepted:
		return struct{}{}, nil
	case http.StatusPreconditionFailed:
		return struct{}{}, namedError(r, func(er couch.ErrorResponse) error {
			return &couch.DatabaseExistsError{ErrorResponse: er}
		})
	default:
		return struct{}{}, errorFromResponse(r)
	}
}

// DeleteDatabase deletes a database, and all of its documents, via DELETE
// on the database's path.
type DeleteDatabase struct {
	t  transport.Transport
	db couch.DatabaseName
}

// NewDeleteDatabase returns an action that deletes db.
func NewDeleteDatabase(t transport.Transport, db couch.DatabaseName) *DeleteDatabase {
	return &DeleteDatabase{t: t, db: db}
}

// Run executes the action. The action must not be reused afterwards.
func (a *DeleteDatabase) Run(ctx context.Context) error {
	_, err := Execute[struct{}, struct{}](ctx, a.t, a)
	return err
}

func (a *DeleteDatabase) MakeRequest(t transport.Transport) (transport.Request, struct{}, error) {
	opts := transport.NewRequestOptions().WithAcceptJSON()
	req, err := t.NewRequest(http.MethodDelete, []string{string(a.db)}, opts)
	if err != nil {
		return nil, struct{}{}, err
	}
	return req, struct{}{}, nil
}

func (a *DeleteDatabase) TakeResponse(r transport.Response, _ struct{}) (struct{}, error) {
	switch r.StatusCode() {
	case http.StatusOK, http.StatusAccepted:
		return struct{}{}, nil
	default:
		return struct{}{}, errorFromResponse(r)
	}
}

// ListDatabases lists all database names via GET /_all_dbs.
type ListDatabases struct {
	t transport.Transport
}

// NewListDatabases returns an action that lists all databases.
func NewListDatabases(t transport.Transport) *ListDatabases {
	return &ListDatabases{t: t}
}

// Run executes the action. The action must not be reused afterwards.
func (a *ListDatabases) Run(ctx context.Context) ([]couch.DatabaseName, error) {
	return Execute[[]couch.DatabaseName, struct{}](ctx, a.t, a)
}

func (a *ListDatabases) MakeRequest(t transport.Transport) (transport.Request, struct{}, error) {
	opts := transport.NewRequestOptions().WithAcceptJSON()
	req, err := t.NewRequest(http.MethodGet, []string{"_all_dbs"}, opts)
	if err != nil {
		return nil, struct{}{}, err
	}
	return req, struct{}{}, nil
}

func (a *ListDatabases) TakeResponse(r transport.Response, _ struct{}) ([]couch.DatabaseName, error) {
	switch r.StatusCode() {
	case http.StatusOK:
		var names []couch.DatabaseName
		if err := r.DecodeJSONBody(&names); err != nil {
			return nil, err
		}
		return names, nil
	default:
		return nil, errorFromResponse(r)
	}
}

// ReadServerInfo reads the server greeting via GET /.
type ReadServerInfo struct {
	t transport.Transport
}

// NewReadServerInfo returns an action that reads the server greeting.
func NewReadServerInfo(t transport.Transport) *ReadServerInfo {
	return &ReadServerInfo{t: t}
}

// Run executes the action. The action must not be reused afterwards.
func (a *ReadServerInfo) Run(ctx context.Context) (*couch.ServerInfo, error) {
	return Execute[*couch.ServerInfo, struct{}](ctx, a.t, a)
}

func (a *ReadServerInfo) MakeRequest(t transport.Transport) (transport.Request, struct{}, error) {
	opts := transport.NewRequestOptions().WithAcceptJSON()
	req, err := t.NewRequest(http.MethodGet, nil, opts)
	if err != nil {
		return nil, struct{}{}, err
	}
	return req, struct{}{}, nil
}

func (a *ReadServerInfo) TakeResponse(r transport.Response, _ struct{}) (*couch.ServerInfo, error) {
	switch r.StatusCode() {
	case http.StatusOK:
		var info couch.ServerInfo
		if err := r.DecodeJSONBody(&info); err != nil {
			return nil, err
		}
		return &info, nil
	default:
		return nil, errorFromResponse(r)
	}
}
