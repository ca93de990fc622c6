package query

import (
	"log/slog"

	"github.com/roach88/bqchain/internal/config"
	"github.com/roach88/bqchain/internal/funcs"
	"github.com/roach88/bqchain/internal/queryerr"
	"github.com/roach88/bqchain/internal/translate"
)

// Client is the chain root: it carries the rendering configuration, the
// function registry and the runner used to execute built queries.
type Client struct {
	cfg      config.Config
	runner   Runner
	registry *funcs.Registry
	logger   *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithRunner sets the runner used by Run, Seq and Collect.
func WithRunner(r Runner) ClientOption {
	return func(c *Client) {
		c.runner = r
	}
}

// WithConfig sets indent size and format mode.
func WithConfig(cfg config.Config) ClientOption {
	return func(c *Client) {
		c.cfg = cfg
	}
}

// WithRegistry replaces the function registry.
func WithRegistry(r *funcs.Registry) ClientOption {
	return func(c *Client) {
		if r != nil {
			c.registry = r
		}
	}
}

// WithLogger sets the logger used when running queries.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a Client. Defaults: config.Default(), funcs.Default(),
// slog.Default() and no runner.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		cfg:      config.Default(),
		registry: funcs.Default(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Config returns the client's rendering configuration.
func (c *Client) Config() config.Config {
	return c.cfg
}

// From starts a chain reading table. Panics if table is empty.
func (c *Client) From(table string) Source {
	if table == "" {
		panic(queryerr.InvalidArgument("From: empty table name"))
	}
	return &fromState{joinOps{filterOps{c.root().extend(&fromClause{table: table})}}}
}

// FromSubquery starts a chain reading the result of q. Panics if q is nil.
func (c *Client) FromSubquery(q Executable) Subquery {
	if q == nil {
		panic(queryerr.InvalidArgument("FromSubquery: nil query"))
	}
	return &subqueryState{
		joinOps: joinOps{filterOps{c.root().extend(&fromClause{sub: q.table()})}},
		inner:   q,
	}
}

func (c *Client) root() link {
	return link{client: c, node: &node{clause: rootClause{}}}
}

func (c *Client) options() translate.Options {
	return translate.FromConfig(c.cfg, c.registry)
}
