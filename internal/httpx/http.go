// Copyright 2025 The Chill Authors
// SPDX-License-Identifier: Apache-2.0

// Package httpx provides a simpler http.Client abstraction and derivative uses.
package httpx

import (
	"bufio"
	"bytes"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/chill-db/chill-go/internal/cache"
	"github.com/pkg/errors"
)

// BasicClient is a simpler http.Client that only requires a Do method.
type BasicClient interface {
	Do(*http.Request) (*http.Response, error)
}

var _ BasicClient = http.DefaultClient

// WithUserAgent is a basic HTTP client that adds a User-Agent header.
type WithUserAgent struct {
	BasicClient
	UserAgent string
}

var _ BasicClient = &WithUserAgent{}

// Do adds the User-Agent header and sends the request.
func (c *WithUserAgent) Do(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", c.UserAgent)
	return c.BasicClient.Do(req)
}

// WithBasicAuth is a basic HTTP client that authenticates every request.
type WithBasicAuth struct {
	BasicClient
	Username string
	Password string
}

var _ BasicClient = &WithBasicAuth{}

// Do adds the Authorization header and sends the request.
func (c *WithBasicAuth) Do(req *http.Request) (*http.Response, error) {
	req.SetBasicAuth(c.Username, c.Password)
	return c.BasicClient.Do(req)
}

// CachedClient is a BasicClient that caches responses.
type CachedClient struct {
	BasicClient
	ch cache.Cache
}

// NewCachedClient returns a new CachedClient.
func NewCachedClient(client BasicClient, c cache.Cache) *CachedClient {
	return &CachedClient{client, c}
}

// Do attempts to fetch from cache (if applicable) or fulfills the request using the underlying client.
func (cc *CachedClient) Do(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		return cc.BasicClient.Do(req)
	}
	respBytes, err := cc.ch.Get(req.URL.String())
	if err == cache.ErrNotExist { // Cache not set
		resp, err := cc.BasicClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		buf := new(bytes.Buffer)
		if err := resp.Write(buf); err != nil {
			return nil, err
		}
		if isServer := (resp.StatusCode >= 500 && resp.StatusCode <= 599); !isServer {
			cc.ch.Set(req.URL.String(), func() (any, error) { return buf.Bytes(), nil })
		}
		respBytes = buf.Bytes()
	} else if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewReader(respBytes.([]byte))), req)
}

var _ BasicClient = &CachedClient{}

// RateLimitedClient is a BasicClient that spaces out requests.
type RateLimitedClient struct {
	BasicClient
	Ticker *time.Ticker
}

// Do waits for the next tick and sends the request.
func (c *RateLimitedClient) Do(req *http.Request) (*http.Response, error) {
	<-c.Ticker.C
	return c.BasicClient.Do(req)
}

var _ BasicClient = &RateLimitedClient{}

// RetryClient is a BasicClient that retries safe requests with exponential
// backoff. Only bodiless GET and HEAD requests are retried; anything else is
// passed through unchanged. Server errors (5xx) count as retryable failures.
type RetryClient struct {
	BasicClient
	// MaxRetries bounds the number of re-attempts after the initial request.
	// Zero means DefaultMaxRetries.
	MaxRetries uint64
	// NewBackOff overrides the default exponential backoff policy.
	NewBackOff func() backoff.BackOff
}

// DefaultMaxRetries is the retry bound used when RetryClient.MaxRetries is zero.
const DefaultMaxRetries = 3

// Do sends the request, retrying GET and HEAD requests on transport failure
// or 5xx. If retries are exhausted on a 5xx, the final response is returned
// so that status codes remain visible to the caller.
func (c *RetryClient) Do(req *http.Request) (*http.Response, error) {
	if (req.Method != http.MethodGet && req.Method != http.MethodHead) || req.Body != nil {
		return c.BasicClient.Do(req)
	}
	var bo backoff.BackOff
	if c.NewBackOff != nil {
		bo = c.NewBackOff()
	} else {
		bo = backoff.NewExponentialBackOff()
	}
	retries := c.MaxRetries
	if retries == 0 {
		retries = DefaultMaxRetries
	}
	for attempt := uint64(0); ; attempt++ {
		resp, err := c.BasicClient.Do(req)
		if err == nil && (resp.StatusCode < 500 || resp.StatusCode > 599) {
			return resp, nil
		}
		d := bo.NextBackOff()
		if attempt == retries || d == backoff.Stop {
			if err != nil {
				return nil, errors.Wrapf(err, "request failed after %d attempts", attempt+1)
			}
			return resp, nil
		}
		if err == nil {
			resp.Body.Close()
		}
		time.Sleep(d)
	}
}

var _ BasicClient = &RetryClient{}
