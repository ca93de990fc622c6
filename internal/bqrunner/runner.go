// Package bqrunner executes built queries on BigQuery as legacy SQL.
//
// Transient failures (HTTP 429/5xx, backendError, rateLimitExceeded) are
// retried with exponential backoff, each attempt under a new job ID.
package bqrunner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/sethvargo/go-retry"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/roach88/bqchain/internal/query"
)

const (
	defaultMaxRetries = 3
	defaultBaseDelay  = 500 * time.Millisecond
)

// Runner implements query.Runner on a BigQuery client.
type Runner struct {
	client     *bigquery.Client
	exec       executor
	clientOpts []option.ClientOption

	jobIDs         JobIDGenerator
	location       string
	labels         map[string]string
	maxBytesBilled int64
	maxRetries     uint64
	baseDelay      time.Duration
	logger         *slog.Logger
}

var _ query.Runner = (*Runner)(nil)

// Option configures a Runner.
type Option func(*Runner)

// WithClientOptions passes options through to bigquery.NewClient
// (credentials, endpoint, user agent).
func WithClientOptions(opts ...option.ClientOption) Option {
	return func(r *Runner) {
		r.clientOpts = append(r.clientOpts, opts...)
	}
}

// WithLocation sets the job location, e.g. "EU".
func WithLocation(loc string) Option {
	return func(r *Runner) {
		r.location = loc
	}
}

// WithMaxBytesBilled caps the bytes a job may bill; BigQuery fails jobs
// that would exceed it. 0 uses the project default.
func WithMaxBytesBilled(n int64) Option {
	return func(r *Runner) {
		r.maxBytesBilled = n
	}
}

// WithLabels attaches labels to every job, next to FingerprintLabel.
func WithLabels(labels map[string]string) Option {
	return func(r *Runner) {
		r.labels = maps.Clone(labels)
	}
}

// WithJobIDs replaces the job ID generator.
func WithJobIDs(g JobIDGenerator) Option {
	return func(r *Runner) {
		if g != nil {
			r.jobIDs = g
		}
	}
}

// WithRetry sets how often a transient failure is retried and the first
// backoff delay. maxRetries 0 disables retries.
func WithRetry(maxRetries int, baseDelay time.Duration) Option {
	return func(r *Runner) {
		r.maxRetries = uint64(max(maxRetries, 0))
		if baseDelay > 0 {
			r.baseDelay = baseDelay
		}
	}
}

// WithLogger sets the logger used for retry diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a Runner billing queries to projectID.
func New(ctx context.Context, projectID string, opts ...Option) (*Runner, error) {
	r := newRunner(opts)
	client, err := bigquery.NewClient(ctx, projectID, r.clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("bigquery client: %w", err)
	}
	r.client = client
	r.exec = clientExecutor{client: client}
	return r, nil
}

func newRunner(opts []Option) *Runner {
	r := &Runner{
		jobIDs:     UUIDv7Generator{},
		maxRetries: defaultMaxRetries,
		baseDelay:  defaultBaseDelay,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Close releases the BigQuery client.
func (r *Runner) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}

// Query runs text as a legacy SQL job and returns its rows.
func (r *Runner) Query(ctx context.Context, text string) (query.Rows, error) {
	var it rowIterator
	err := r.attempt(ctx, text, false, func(ctx context.Context, req request) error {
		var err error
		it, err = r.exec.read(ctx, req)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("bigquery: %w", err)
	}
	return &Rows{it: it}, nil
}

// DryRun validates text without running it and returns the number of
// bytes the query would process.
func (r *Runner) DryRun(ctx context.Context, text string) (int64, error) {
	var n int64
	err := r.attempt(ctx, text, true, func(ctx context.Context, req request) error {
		var err error
		n, err = r.exec.dryRun(ctx, req)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("bigquery dry run: %w", err)
	}
	return n, nil
}

// attempt calls fn until it succeeds, fails permanently or the retry
// budget runs out.
func (r *Runner) attempt(ctx context.Context, text string, dryRun bool, fn func(context.Context, request) error) error {
	backoff := retry.WithMaxRetries(r.maxRetries, retry.NewExponential(r.baseDelay))
	n := 0
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		n++
		req := request{
			text:           text,
			jobID:          r.jobIDs.Generate(),
			location:       r.location,
			labels:         r.jobLabels(text),
			maxBytesBilled: r.maxBytesBilled,
			dryRun:         dryRun,
		}
		err := fn(ctx, req)
		if err == nil {
			return nil
		}
		if !transient(err) {
			return err
		}
		r.logger.WarnContext(ctx, "bigquery job failed, retrying",
			"job_id", req.jobID,
			"attempt", n,
			"error", err,
		)
		return retry.RetryableError(err)
	})
}

var transientReasons = map[string]bool{
	"backendError":      true,
	"internalError":     true,
	"jobBackendError":   true,
	"rateLimitExceeded": true,
}

// transient reports whether err is worth retrying.
func transient(err error) bool {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return false
	}
	switch gerr.Code {
	case 429, 500, 502, 503, 504:
		return true
	}
	for _, item := range gerr.Errors {
		if transientReasons[item.Reason] {
			return true
		}
	}
	return false
}
