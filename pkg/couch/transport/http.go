// Copyright 2025 The Chill Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/chill-db/chill-go/internal/httpx"
	"github.com/chill-db/chill-go/pkg/couch"
	"github.com/pkg/errors"
)

// HTTP is the production Transport. It resolves path segments against a
// server base URL and dispatches through an httpx.BasicClient.
type HTTP struct {
	base   *url.URL
	client httpx.BasicClient
}

var _ Transport = &HTTP{}

// NewHTTP returns an HTTP transport for the given server URL. A nil client
// falls back to http.DefaultClient.
func NewHTTP(serverURL string, client httpx.BasicClient) (*HTTP, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, errors.Wrap(err, "parsing server URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.Errorf("server URL %q: scheme must be http or https", serverURL)
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTP{base: u, client: client}, nil
}

// NewRequest renders the segments and options into an *http.Request wrapper.
func (t *HTTP) NewRequest(method string, path []string, opts RequestOptions) (Request, error) {
	escaped := make([]string, len(path))
	for i, seg := range path {
		if seg == "" {
			return nil, errors.New("empty path segment")
		}
		escaped[i] = url.PathEscape(seg)
	}
	u := *t.base
	u.Path = "/" + strings.Join(path, "/")
	u.RawPath = "/" + strings.Join(escaped, "/")
	q := url.Values{}
	if rev, ok := opts.Revision(); ok {
		q.Set("rev", rev.String())
	}
	if att, ok := opts.Attachments(); ok {
		q.Set("attachments", strconv.FormatBool(att))
	}
	u.RawQuery = q.Encode()

	var body io.Reader
	var hasBody bool
	if v, ok := opts.JSONBody(); ok {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, errors.Wrap(err, "encoding request body")
		}
		body = bytes.NewReader(b)
		hasBody = true
	}
	req, err := http.NewRequest(method, u.String(), body)
	if err != nil {
		return nil, errors.Wrap(err, "building request")
	}
	if accept, ok := opts.Accept(); ok {
		req.Header.Set("Accept", accept)
	}
	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}
	return &httpRequest{req: req}, nil
}

// Do executes a request built by this transport.
func (t *HTTP) Do(ctx context.Context, req Request) (Response, error) {
	hr, ok := req.(*httpRequest)
	if !ok {
		return nil, errors.Errorf("foreign request type %T", req)
	}
	resp, err := t.client.Do(hr.req.WithContext(ctx))
	if err != nil {
		return nil, errors.Wrap(err, "executing request")
	}
	return &httpResponse{resp: resp}, nil
}

type httpRequest struct {
	req *http.Request
}

func (r *httpRequest) Summary() string {
	return r.req.Method + " " + r.req.URL.Path
}

type httpResponse struct {
	resp *http.Response
}

func (r *httpResponse) StatusCode() int {
	return r.resp.StatusCode
}

// DecodeJSONBody reads and closes the response body, then decodes it.
func (r *httpResponse) DecodeJSONBody(v any) error {
	defer r.resp.Body.Close()
	b, err := io.ReadAll(r.resp.Body)
	if err != nil {
		return &couch.TransportError{Cause: errors.Wrap(err, "reading response body")}
	}
	if ct := r.resp.Header.Get("Content-Type"); ct != "" {
		if mt, _, err := mime.ParseMediaType(ct); err == nil && mt != "application/json" && !strings.HasSuffix(mt, "+json") {
			return &couch.NotJSONError{Body: b}
		}
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return &couch.NotJSONError{}
	}
	if err := json.Unmarshal(b, v); err != nil {
		var syn *json.SyntaxError
		if errors.As(err, &syn) {
			return &couch.NotJSONError{Body: b}
		}
		return &couch.JSONDecodeError{Cause: err}
	}
	return nil
}
