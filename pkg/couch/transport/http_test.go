// Copyright 2025 The Chill Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/chill-db/chill-go/internal/httpx/httpxtest"
	"github.com/chill-db/chill-go/pkg/couch"
)

func TestNewHTTPRejectsBadServerURL(t *testing.T) {
	for _, bad := range []string{"ftp://example.com", "example.com:5984", "://"} {
		if _, err := NewHTTP(bad, nil); err == nil {
			t.Errorf("want error for %q", bad)
		}
	}
	if _, err := NewHTTP("https://couchdb.example.com:6984", nil); err != nil {
		t.Errorf("https URL rejected: %v", err)
	}
}

func TestHTTPNewRequestRendering(t *testing.T) {
	tr, err := NewHTTP("http://localhost:5984", nil)
	if err != nil {
		t.Fatal(err)
	}
	rev := couch.MustParseRevision("1-1234567890abcdef1234567890abcdef")

	for _, tc := range []struct {
		name       string
		method     string
		path       []string
		opts       RequestOptions
		wantURL    string
		wantAccept string
		wantCT     string
		wantBody   string
	}{
		{
			name:    "bare path",
			method:  http.MethodGet,
			path:    []string{"baseball", "babe_ruth"},
			opts:    NewRequestOptions(),
			wantURL: "http://localhost:5984/baseball/babe_ruth",
		},
		{
			name:       "accept and queries",
			method:     http.MethodGet,
			path:       []string{"baseball", "babe_ruth"},
			opts:       NewRequestOptions().WithAcceptJSON().WithRevisionQuery(rev).WithAttachmentsQuery(true),
			wantURL:    "http://localhost:5984/baseball/babe_ruth?attachments=true&rev=" + rev.String(),
			wantAccept: "application/json",
		},
		{
			name:    "segments escaped",
			method:  http.MethodGet,
			path:    []string{"base ball", "a/b"},
			opts:    NewRequestOptions(),
			wantURL: "http://localhost:5984/base%20ball/a%2Fb",
		},
		{
			name:     "json body",
			method:   http.MethodPost,
			path:     []string{"baseball"},
			opts:     NewRequestOptions().WithJSONBody(map[string]any{"name": "Babe Ruth"}),
			wantURL:  "http://localhost:5984/baseball",
			wantCT:   "application/json",
			wantBody: `{"name":"Babe Ruth"}`,
		},
		{
			name:    "empty path is server root",
			method:  http.MethodGet,
			path:    nil,
			opts:    NewRequestOptions(),
			wantURL: "http://localhost:5984/",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			req, err := tr.NewRequest(tc.method, tc.path, tc.opts)
			if err != nil {
				t.Fatal(err)
			}
			hr := req.(*httpRequest).req
			if got := hr.URL.String(); got != tc.wantURL {
				t.Errorf("url: want %q, got %q", tc.wantURL, got)
			}
			if got := hr.Header.Get("Accept"); got != tc.wantAccept {
				t.Errorf("accept: want %q, got %q", tc.wantAccept, got)
			}
			if got := hr.Header.Get("Content-Type"); got != tc.wantCT {
				t.Errorf("content type: want %q, got %q", tc.wantCT, got)
			}
			if tc.wantBody == "" {
				if hr.Body != nil {
					t.Error("want no body")
				}
				return
			}
			b, err := io.ReadAll(hr.Body)
			if err != nil {
				t.Fatal(err)
			}
			if string(b) != tc.wantBody {
				t.Errorf("body: want %s, got %s", tc.wantBody, b)
			}
		})
	}
}

func TestHTTPNewRequestRejectsEmptySegment(t *testing.T) {
	tr, err := NewHTTP("http://localhost:5984", nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tr.NewRequest(http.MethodGet, []string{"baseball", ""}, NewRequestOptions()); err == nil {
		t.Error("want error for empty segment")
	}
}

func TestHTTPNewRequestRejectsUnencodableBody(t *testing.T) {
	tr, err := NewHTTP("http://localhost:5984", nil)
	if err != nil {
		t.Fatal(err)
	}
	_, err = tr.NewRequest(http.MethodPost, []string{"baseball"},
		NewRequestOptions().WithJSONBody(func() {}))
	if err == nil {
		t.Error("want error for unencodable body")
	}
}

func TestHTTPDo(t *testing.T) {
	client := &httpxtest.MockClient{
		Calls: []httpxtest.Call{{
			Method: http.MethodGet,
			URL:    "http://localhost:5984/_all_dbs",
			Response: &http.Response{
				StatusCode: http.StatusOK,
				Header:     http.Header{"Content-Type": []string{"application/json"}},
				Body:       httpxtest.Body(`["baseball"]`),
			},
		}},
		URLValidator: httpxtest.NewURLValidator(t),
	}
	tr, err := NewHTTP("http://localhost:5984", client)
	if err != nil {
		t.Fatal(err)
	}
	req, err := tr.NewRequest(http.MethodGet, []string{"_all_dbs"}, NewRequestOptions().WithAcceptJSON())
	if err != nil {
		t.Fatal(err)
	}
	resp, err := tr.Do(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode() != http.StatusOK {
		t.Errorf("status: want 200, got %d", resp.StatusCode())
	}
	var dbs []string
	if err := resp.DecodeJSONBody(&dbs); err != nil {
		t.Fatal(err)
	}
	if len(dbs) != 1 || dbs[0] != "baseball" {
		t.Errorf("unexpected body: %v", dbs)
	}
}

func TestHTTPDoReportsClientFailure(t *testing.T) {
	client := &httpxtest.MockClient{
		Calls: []httpxtest.Call{{
			Method: http.MethodGet,
			URL:    "http://localhost:5984/",
			Error:  errors.New("connection refused"),
		}},
		URLValidator: httpxtest.NewURLValidator(t),
	}
	tr, err := NewHTTP("http://localhost:5984", client)
	if err != nil {
		t.Fatal(err)
	}
	req, err := tr.NewRequest(http.MethodGet, nil, NewRequestOptions())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tr.Do(context.Background(), req); err == nil {
		t.Error("want error from failing client")
	}
}

func TestHTTPDoRejectsForeignRequest(t *testing.T) {
	tr, err := NewHTTP("http://localhost:5984", &httpxtest.MockClient{SkipURLValidation: true})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tr.Do(context.Background(), foreignRequest{}); err == nil {
		t.Error("want error for a request built by another transport")
	}
}

type foreignRequest struct{}

func (foreignRequest) Summary() string { return "foreign" }

func TestHTTPResponseDecodeJSONBody(t *testing.T) {
	mkResp := func(contentType, body string) *httpResponse {
		h := http.Header{}
		if contentType != "" {
			h.Set("Content-Type", contentType)
		}
		return &httpResponse{resp: &http.Response{
			StatusCode: http.StatusOK,
			Header:     h,
			Body:       httpxtest.Body(body),
		}}
	}

	t.Run("json", func(t *testing.T) {
		var v map[string]any
		if err := mkResp("application/json", `{"ok":true}`).DecodeJSONBody(&v); err != nil {
			t.Fatal(err)
		}
		if v["ok"] != true {
			t.Errorf("unexpected value: %v", v)
		}
	})

	t.Run("json suffix media type", func(t *testing.T) {
		var v map[string]any
		if err := mkResp("application/problem+json", `{"ok":true}`).DecodeJSONBody(&v); err != nil {
			t.Fatal(err)
		}
	})

	t.Run("html body", func(t *testing.T) {
		var v map[string]any
		err := mkResp("text/html; charset=utf-8", "<html></html>").DecodeJSONBody(&v)
		if !errors.Is(err, couch.ErrResponseNotJSON) {
			t.Fatalf("want ErrResponseNotJSON, got %v", err)
		}
		var notJSON *couch.NotJSONError
		if !errors.As(err, &notJSON) || string(notJSON.Body) != "<html></html>" {
			t.Errorf("raw body not retained: %v", err)
		}
	})

	t.Run("empty body", func(t *testing.T) {
		var v map[string]any
		err := mkResp("application/json", "").DecodeJSONBody(&v)
		if !errors.Is(err, couch.ErrResponseNotJSON) {
			t.Fatalf("want ErrResponseNotJSON, got %v", err)
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		var v map[string]any
		err := mkResp("application/json", `{"ok":`).DecodeJSONBody(&v)
		if !errors.Is(err, couch.ErrResponseNotJSON) {
			t.Fatalf("want ErrResponseNotJSON, got %v", err)
		}
	})

	t.Run("shape mismatch", func(t *testing.T) {
		var v []string
		err := mkResp("application/json", `{"ok":true}`).DecodeJSONBody(&v)
		var decodeErr *couch.JSONDecodeError
		if !errors.As(err, &decodeErr) {
			t.Fatalf("want JSONDecodeError, got %v", err)
		}
	})
}
