// Copyright 2025 The Chill Authors
// SPDX-License-Identifier: Apache-2.0

// Package transporttest provides an in-memory Transport for testing the
// operation pipeline without a server. Constructed requests are plain value
// objects comparable against expected values; responses are built directly
// with a chosen status code and optional JSON body.
package transporttest

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/chill-db/chill-go/pkg/couch"
	"github.com/chill-db/chill-go/pkg/couch/transport"
	"github.com/pkg/errors"
)

// Request records a constructed request: the method, the ordered path
// segments, and the fully resolved options, with any body already
// serialized.
type Request struct {
	Method string
	Path   []string
	Accept string
	Query  url.Values
	Body   string
}

var _ transport.Request = Request{}

func (r Request) Summary() string {
	return r.Method + " /" + strings.Join(r.Path, "/")
}

// Transport is an in-memory transport.Transport. NewRequest resolves
// options into a Request value; Do records the request and replays the next
// enqueued response.
type Transport struct {
	requests  []Request
	responses []*Response
}

var _ transport.Transport = &Transport{}

// New returns an empty mock transport.
func New() *Transport {
	return &Transport{}
}

// Enqueue appends a response to be returned by a later Do call.
func (t *Transport) Enqueue(r *Response) {
	t.responses = append(t.responses, r)
}

// Requests returns the requests executed so far, in order.
func (t *Transport) Requests() []Request {
	return t.requests
}

func (t *Transport) NewRequest(method string, path []string, opts transport.RequestOptions) (transport.Request, error) {
	for _, seg := range path {
		if seg == "" {
			return nil, errors.New("empty path segment")
		}
	}
	req := Request{
		Method: method,
		Path:   append([]string(nil), path...),
		Query:  url.Values{},
	}
	if accept, ok := opts.Accept(); ok {
		req.Accept = accept
	}
	if rev, ok := opts.Revision(); ok {
		req.Query.Set("rev", rev.String())
	}
	if att, ok := opts.Attachments(); ok {
		req.Query.Set("attachments", strconv.FormatBool(att))
	}
	if v, ok := opts.JSONBody(); ok {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, errors.Wrap(err, "encoding request body")
		}
		req.Body = string(b)
	}
	return req, nil
}

func (t *Transport) Do(_ context.Context, req transport.Request) (transport.Response, error) {
	r, ok := req.(Request)
	if !ok {
		return nil, errors.Errorf("foreign request type %T", req)
	}
	t.requests = append(t.requests, r)
	if len(t.responses) == 0 {
		return nil, errors.New("no response enqueued")
	}
	resp := t.responses[0]
	t.responses = t.responses[1:]
	return resp, nil
}

// Response is a pre-built transport.Response.
type Response struct {
	status  int
	body    []byte
	raw     bool
	hasBody bool
}

var _ transport.Response = &Response{}

// NewResponse returns a response with the given status code and no body.
func NewResponse(status int) *Response {
	return &Response{status: status}
}

// WithJSONBody sets the response body to the JSON encoding of v. Exactly
// one body may be set.
func (r *Response) WithJSONBody(v any) *Response {
	if r.hasBody {
		panic("response body already set")
	}
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	r.body = b
	r.hasBody = true
	return r
}

func (r *Response) StatusCode() int {
	return r.status
}

// WithRawBody sets a non-JSON response body, as a proxy in front of the
// server might produce. Exactly one body may be set.
func (r *Response) WithRawBody(body string) *Response {
	if r.hasBody {
		panic("response body already set")
	}
	r.body = []byte(body)
	r.raw = true
	r.hasBody = true
	return r
}

// DecodeJSONBody decodes the body into v, failing with
// couch.ErrResponseNotJSON if no body was set or a raw body was.
func (r *Response) DecodeJSONBody(v any) error {
	if !r.hasBody {
		return errors.Wrap(couch.ErrResponseNotJSON, "no JSON body")
	}
	if r.raw {
		return &couch.NotJSONError{Body: r.body}
	}
	if err := json.Unmarshal(r.body, v); err != nil {
		return &couch.JSONDecodeError{Cause: err}
	}
	return nil
}
