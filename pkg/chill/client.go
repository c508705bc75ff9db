// Copyright 2025 The Chill Authors
// SPDX-License-Identifier: Apache-2.0

// Package chill is a client for the CouchDB HTTP API. A Client wraps a
// transport and exposes one constructor per operation; each returned action
// is configured with With* modifiers and executed once with Run.
package chill

import (
	"net/http"
	"time"

	"github.com/chill-db/chill-go/internal/cache"
	"github.com/chill-db/chill-go/internal/httpx"
	"github.com/chill-db/chill-go/pkg/couch"
	"github.com/chill-db/chill-go/pkg/couch/action"
	"github.com/chill-db/chill-go/pkg/couch/transport"
)

// Version is the client library version, reported in the User-Agent header.
const Version = "0.1.0"

type config struct {
	httpClient   httpx.BasicClient
	userAgent    string
	username     string
	password     string
	hasAuth      bool
	maxRetries   uint64
	hasRetry     bool
	caching      bool
	rateInterval time.Duration
	transport    transport.Transport
}

// Option configures a Client.
type Option func(*config)

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(c httpx.BasicClient) Option {
	return func(cfg *config) { cfg.httpClient = c }
}

// WithUserAgent overrides the User-Agent header. An empty string disables it.
func WithUserAgent(ua string) Option {
	return func(cfg *config) { cfg.userAgent = ua }
}

// WithBasicAuth authenticates every request with the given credentials.
func WithBasicAuth(username, password string) Option {
	return func(cfg *config) {
		cfg.username = username
		cfg.password = password
		cfg.hasAuth = true
	}
}

// WithRetry retries GET and HEAD requests on transport failure or 5xx, up
// to maxRetries re-attempts with exponential backoff. Zero means the
// default bound.
func WithRetry(maxRetries uint64) Option {
	return func(cfg *config) {
		cfg.maxRetries = maxRetries
		cfg.hasRetry = true
	}
}

// WithCaching memoizes GET and HEAD responses in memory for the lifetime of
// the client.
func WithCaching() Option {
	return func(cfg *config) { cfg.caching = true }
}

// WithRateLimit spaces requests at least interval apart.
func WithRateLimit(interval time.Duration) Option {
	return func(cfg *config) { cfg.rateInterval = interval }
}

// WithTransport substitutes the whole transport, bypassing serverURL. Used
// to run a client against an in-memory transport in tests.
func WithTransport(t transport.Transport) Option {
	return func(cfg *config) { cfg.transport = t }
}

// Client executes operations against one CouchDB server.
type Client struct {
	t transport.Transport
}

// NewClient returns a client for the server at serverURL.
func NewClient(serverURL string, opts ...Option) (*Client, error) {
	cfg := config{
		httpClient: http.DefaultClient,
		userAgent:  "chill-go/" + Version,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.transport != nil {
		return &Client{t: cfg.transport}, nil
	}
	// Innermost to outermost: rate limiting paces every wire request, retry
	// re-attempts through it, a cache hit bypasses both, and the header
	// decorators run before any of them see the request.
	client := cfg.httpClient
	if cfg.rateInterval > 0 {
		client = &httpx.RateLimitedClient{BasicClient: client, Ticker: time.NewTicker(cfg.rateInterval)}
	}
	if cfg.hasRetry {
		client = &httpx.RetryClient{BasicClient: client, MaxRetries: cfg.maxRetries}
	}
	if cfg.caching {
		client = httpx.NewCachedClient(client, &cache.CoalescingMemoryCache{})
	}
	if cfg.hasAuth {
		client = &httpx.WithBasicAuth{BasicClient: client, Username: cfg.username, Password: cfg.password}
	}
	if cfg.userAgent != "" {
		client = &httpx.WithUserAgent{BasicClient: client, UserAgent: cfg.userAgent}
	}
	t, err := transport.NewHTTP(serverURL, client)
	if err != nil {
		return nil, err
	}
	return &Client{t: t}, nil
}

// Transport returns the client's transport.
func (c *Client) Transport() transport.Transport { return c.t }

// ReadServerInfo reads the server greeting.
func (c *Client) ReadServerInfo() *action.ReadServerInfo {
	return action.NewReadServerInfo(c.t)
}

// ListDatabases lists all database names.
func (c *Client) ListDatabases() *action.ListDatabases {
	return action.NewListDatabases(c.t)
}

// CreateDatabase creates the named database.
func (c *Client) CreateDatabase(db couch.DatabaseName) *action.CreateDatabase {
	return action.NewCreateDatabase(c.t, db)
}

// DeleteDatabase deletes the named database and all of its documents.
func (c *Client) DeleteDatabase(db couch.DatabaseName) *action.DeleteDatabase {
	return action.NewDeleteDatabase(c.t, db)
}

// CreateDocument stores content as a new document in db.
func (c *Client) CreateDocument(db couch.DatabaseName, content any) *action.CreateDocument {
	return action.NewCreateDocument(c.t, db, content)
}

// ReadDocument reads the document at path.
func (c *Client) ReadDocument(path couch.DocumentPath) *action.ReadDocument {
	return action.NewReadDocument(c.t, path)
}

// UpdateDocument overwrites the document at path, currently at rev, with
// content.
func (c *Client) UpdateDocument(path couch.DocumentPath, rev couch.Revision, content any) *action.UpdateDocument {
	return action.NewUpdateDocument(c.t, path, rev, content)
}

// DeleteDocument deletes the document at path, currently at rev.
func (c *Client) DeleteDocument(path couch.DocumentPath, rev couch.Revision) *action.DeleteDocument {
	return action.NewDeleteDocument(c.t, path, rev)
}
