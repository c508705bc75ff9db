// Copyright 2025 The Chill Authors
// SPDX-License-Identifier: Apache-2.0

package action

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/chill-db/chill-go/pkg/couch"
	"github.com/chill-db/chill-go/pkg/couch/transport"
	"github.com/chill-db/chill-go/pkg/couch/transport/transporttest"
	"github.com/google/go-cmp/cmp"
)

func TestUpdateDocumentMakeRequest(t *testing.T) {
	mt := transporttest.New()
	rev := couch.MustParseRevision("1-1234567890abcdef1234567890abcdef")
	content := map[string]any{"name": "George Herman Ruth"}
	want, err := mt.NewRequest(http.MethodPut, []string{"baseball", "babe_ruth"},
		transport.NewRequestOptions().WithAcceptJSON().WithRevisionQuery(rev).WithJSONBody(content))
	if err != nil {
		t.Fatal(err)
	}
	path := couch.NewDocumentPath("baseball", "babe_ruth")
	got, state, err := NewUpdateDocument(mt, path, rev, content).MakeRequest(mt)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("request mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(path, state); diff != "" {
		t.Errorf("state mismatch (-want +got):\n%s", diff)
	}
}

func TestUpdateDocumentTakeResponse(t *testing.T) {
	path := couch.NewDocumentPath("baseball", "babe_ruth")
	rev2 := couch.MustParseRevision("2-67890abcdef1234567890abcdef12345")

	t.Run("created", func(t *testing.T) {
		resp := transporttest.NewResponse(http.StatusCreated).WithJSONBody(map[string]any{
			"ok":  true,
			"id":  "babe_ruth",
			"rev": rev2.String(),
		})
		got, err := (&UpdateDocument{}).TakeResponse(resp, path)
		if err != nil {
			t.Fatal(err)
		}
		want := &couch.DocumentMeta{Database: "baseball", ID: "babe_ruth", Rev: rev2}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("meta mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("conflict", func(t *testing.T) {
		resp := transporttest.NewResponse(http.StatusConflict).WithJSONBody(map[string]any{
			"error":  "conflict",
			"reason": "Document update conflict.",
		})
		_, err := (&UpdateDocument{}).TakeResponse(resp, path)
		var conflict *couch.ConflictError
		if !errors.As(err, &conflict) {
			t.Fatalf("want ConflictError, got %v", err)
		}
	})

	t.Run("not found", func(t *testing.T) {
		resp := transporttest.NewResponse(http.StatusNotFound).WithJSONBody(map[string]any{
			"error":  "not_found",
			"reason": "missing",
		})
		_, err := (&UpdateDocument{}).TakeResponse(resp, path)
		var notFound *couch.NotFoundError
		if !errors.As(err, &notFound) {
			t.Fatalf("want NotFoundError, got %v", err)
		}
		if notFound.Reason != "missing" {
			t.Errorf("reason: want %q, got %q", "missing", notFound.Reason)
		}
	})
}

func TestUpdateDocumentRun(t *testing.T) {
	rev := couch.MustParseRevision("1-1234567890abcdef1234567890abcdef")
	rev2 := couch.MustParseRevision("2-67890abcdef1234567890abcdef12345")
	mt := transporttest.New()
	mt.Enqueue(transporttest.NewResponse(http.StatusCreated).WithJSONBody(map[string]any{
		"ok":  true,
		"id":  "babe_ruth",
		"rev": rev2.String(),
	}))
	path := couch.NewDocumentPath("baseball", "babe_ruth")
	meta, err := NewUpdateDocument(mt, path, rev, map[string]any{"name": "x"}).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !meta.Rev.Equal(rev2) {
		t.Errorf("rev: want %s, got %s", rev2, meta.Rev)
	}
}
