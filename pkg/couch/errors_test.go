// Copyright 2025 The Chill Authors
// SPDX-License-Identifier: Apache-2.0

package couch

import (
	"errors"
	"strings"
	"testing"
)

func TestErrorMessagesPreserveServerStrings(t *testing.T) {
	resp := ErrorResponse{Err: "not_found", Reason: "no_db_file"}
	for _, tc := range []struct {
		name string
		err  error
		want string
	}{
		{"response", resp, "not_found: no_db_file"},
		{"not found", &NotFoundError{resp}, "not found: not_found: no_db_file"},
		{"unauthorized", &UnauthorizedError{resp}, "unauthorized: not_found: no_db_file"},
		{"conflict", &ConflictError{resp}, "conflict: not_found: no_db_file"},
		{"database exists", &DatabaseExistsError{resp}, "database exists: not_found: no_db_file"},
		{"no reason", ErrorResponse{Err: "bad_request"}, "bad_request"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.err.Error(); got != tc.want {
				t.Errorf("want %q, got %q", tc.want, got)
			}
		})
	}
}

func TestServerResponseError(t *testing.T) {
	e := &ServerResponseError{StatusCode: 500, Body: []byte(`{"error":"internal_server_error"}`)}
	if !strings.Contains(e.Error(), "500") || !strings.Contains(e.Error(), "internal_server_error") {
		t.Errorf("message should name status and body, got %q", e.Error())
	}
	bare := &ServerResponseError{StatusCode: 502}
	if !strings.Contains(bare.Error(), "502") {
		t.Errorf("message should name status, got %q", bare.Error())
	}
}

func TestNotJSONErrorMatchesSentinel(t *testing.T) {
	var err error = &NotJSONError{Body: []byte("<html></html>")}
	if !errors.Is(err, ErrResponseNotJSON) {
		t.Error("NotJSONError must match ErrResponseNotJSON")
	}
	var notJSON *NotJSONError
	if !errors.As(err, &notJSON) || string(notJSON.Body) != "<html></html>" {
		t.Errorf("raw body not retained: %v", err)
	}
}

func TestWrapperErrorsUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	var te error = &TransportError{Cause: cause}
	if !errors.Is(te, cause) {
		t.Error("TransportError must unwrap to its cause")
	}
	var je error = &JSONDecodeError{Cause: cause}
	if !errors.Is(je, cause) {
		t.Error("JSONDecodeError must unwrap to its cause")
	}
}
