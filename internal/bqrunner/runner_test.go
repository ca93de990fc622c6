package bqrunner

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/roach88/bqchain/internal/config"
	"github.com/roach88/bqchain/internal/expr"
	"github.com/roach88/bqchain/internal/query"
	"github.com/roach88/bqchain/internal/testutil"
)

// fakeIterator serves map rows.
type fakeIterator struct {
	cols []string
	rows []map[string]bigquery.Value
	pos  int
}

func (f *fakeIterator) Next(dst any) error {
	if f.pos >= len(f.rows) {
		return iterator.Done
	}
	*dst.(*map[string]bigquery.Value) = f.rows[f.pos]
	f.pos++
	return nil
}

func (f *fakeIterator) columns() []string { return f.cols }

// fakeExecutor fails with the scripted errors, then succeeds.
type fakeExecutor struct {
	failures []error
	it       *fakeIterator
	bytes    int64
	requests []request
}

func (f *fakeExecutor) next(req request) error {
	f.requests = append(f.requests, req)
	if len(f.failures) > 0 {
		err := f.failures[0]
		f.failures = f.failures[1:]
		return err
	}
	return nil
}

func (f *fakeExecutor) read(_ context.Context, req request) (rowIterator, error) {
	if err := f.next(req); err != nil {
		return nil, err
	}
	return f.it, nil
}

func (f *fakeExecutor) dryRun(_ context.Context, req request) (int64, error) {
	if err := f.next(req); err != nil {
		return 0, err
	}
	return f.bytes, nil
}

func newTestRunner(exec executor, opts ...Option) *Runner {
	base := []Option{
		WithJobIDs(testutil.NewSequentialJobIDs("job")),
		WithRetry(3, time.Millisecond),
		WithLogger(slog.New(slog.DiscardHandler)),
	}
	r := newRunner(append(base, opts...))
	r.exec = exec
	return r
}

func unavailable() error {
	return &googleapi.Error{Code: 503, Message: "backend unavailable"}
}

type person struct {
	Name string `bq:"name"`
	Age  int    `bq:"age"`
}

func TestQuery_CollectThroughClient(t *testing.T) {
	exec := &fakeExecutor{it: &fakeIterator{
		cols: []string{"name", "age"},
		rows: []map[string]bigquery.Value{
			{"name": "Ann", "age": int64(31)},
			{"name": "Bob", "age": int64(19)},
		},
	}}
	c := query.NewClient(
		query.WithRunner(newTestRunner(exec,
			WithLocation("EU"),
			WithLabels(map[string]string{"team": "data"}),
			WithMaxBytesBilled(1<<30),
		)),
		query.WithConfig(config.Config{IndentSize: 2, Format: config.FormatFlat}),
		query.WithLogger(slog.New(slog.DiscardHandler)),
	)
	q := c.From("ds.people").WithRange(query.Ago(time.Hour)).
		Where(expr.Gt(expr.Field("age"), expr.Const(18))).
		SelectAll()

	got, err := query.Collect[person](context.Background(), q)

	require.NoError(t, err)
	assert.Equal(t, []person{{"Ann", 31}, {"Bob", 19}}, got)
	require.Len(t, exec.requests, 1)
	req := exec.requests[0]
	assert.Equal(t, "SELECT * FROM [ds.people@-3600000-] WHERE [age] > 18", req.text)
	assert.Equal(t, "job-1", req.jobID)
	assert.Equal(t, "EU", req.location)
	assert.Equal(t, map[string]string{
		"team":           "data",
		FingerprintLabel: Fingerprint(req.text),
	}, req.labels)
	assert.Equal(t, int64(1<<30), req.maxBytesBilled)
	assert.False(t, req.dryRun)
}

func TestQuery_RetriesTransientWithFreshJobIDs(t *testing.T) {
	exec := &fakeExecutor{
		failures: []error{unavailable(), &googleapi.Error{Code: 400, Errors: []googleapi.ErrorItem{{Reason: "rateLimitExceeded"}}}},
		it:       &fakeIterator{},
	}
	r := newTestRunner(exec)

	rows, err := r.Query(context.Background(), "SELECT 1")

	require.NoError(t, err)
	var row map[string]any
	assert.ErrorIs(t, rows.Next(&row), query.ErrDone)
	require.Len(t, exec.requests, 3)
	assert.Equal(t, []string{"job-1", "job-2", "job-3"}, []string{
		exec.requests[0].jobID, exec.requests[1].jobID, exec.requests[2].jobID,
	})
}

func TestQuery_GivesUpAfterMaxRetries(t *testing.T) {
	exec := &fakeExecutor{failures: []error{unavailable(), unavailable(), unavailable()}}
	ids := testutil.NewSequentialJobIDs("job")
	r := newTestRunner(exec, WithRetry(2, time.Millisecond), WithJobIDs(ids))

	_, err := r.Query(context.Background(), "SELECT 1")

	var gerr *googleapi.Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, 503, gerr.Code)
	assert.Len(t, exec.requests, 3)
	assert.Equal(t, 3, ids.Issued())
}

func TestQuery_PermanentErrorNotRetried(t *testing.T) {
	invalid := &googleapi.Error{Code: 400, Message: "Unrecognized name: agee"}
	exec := &fakeExecutor{failures: []error{invalid}}
	r := newTestRunner(exec)

	_, err := r.Query(context.Background(), "SELECT [agee] FROM [t]")

	assert.ErrorIs(t, err, invalid)
	assert.True(t, strings.HasPrefix(err.Error(), "bigquery: "))
	assert.Len(t, exec.requests, 1)
}

func TestQuery_RetriesDisabled(t *testing.T) {
	exec := &fakeExecutor{failures: []error{unavailable()}}
	r := newTestRunner(exec, WithRetry(0, 0))

	_, err := r.Query(context.Background(), "SELECT 1")

	require.Error(t, err)
	assert.Len(t, exec.requests, 1)
}

func TestDryRun(t *testing.T) {
	exec := &fakeExecutor{failures: []error{unavailable()}, bytes: 1 << 20}
	r := newTestRunner(exec, WithJobIDs(testutil.NewFixedJobIDs("dry-a", "dry-b")))

	n, err := r.DryRun(context.Background(), "SELECT * FROM [t]")

	require.NoError(t, err)
	assert.Equal(t, int64(1<<20), n)
	require.Len(t, exec.requests, 2)
	assert.Equal(t, "dry-a", exec.requests[0].jobID)
	assert.Equal(t, "dry-b", exec.requests[1].jobID)
	assert.True(t, exec.requests[1].dryRun)
}

func TestRows_IteratorError(t *testing.T) {
	boom := errors.New("page fetch failed")
	r := &Rows{it: failingIterator{err: boom}}

	var dst map[string]any
	err := r.Next(&dst)

	assert.ErrorIs(t, err, boom)
}

type failingIterator struct{ err error }

func (f failingIterator) Next(any) error    { return f.err }
func (f failingIterator) columns() []string { return nil }

func TestTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"plain error", errors.New("nope"), false},
		{"unavailable", unavailable(), true},
		{"too many requests", &googleapi.Error{Code: 429}, true},
		{"bad request", &googleapi.Error{Code: 400}, false},
		{"backend reason", &googleapi.Error{Code: 400, Errors: []googleapi.ErrorItem{{Reason: "backendError"}}}, true},
		{"invalid reason", &googleapi.Error{Code: 400, Errors: []googleapi.ErrorItem{{Reason: "invalidQuery"}}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, transient(tt.err))
		})
	}
}

func TestNewQuery_LegacySQL(t *testing.T) {
	ctx := context.Background()
	client, err := bigquery.NewClient(ctx, "test-project",
		option.WithoutAuthentication(),
		option.WithEndpoint("http://127.0.0.1:1"),
	)
	require.NoError(t, err)
	defer client.Close()

	q := newQuery(client, request{
		text:           "SELECT 1",
		jobID:          "job-7",
		location:       "US",
		labels:         map[string]string{"k": "v"},
		maxBytesBilled: 1 << 20,
	})

	assert.True(t, q.UseLegacySQL)
	assert.Equal(t, "SELECT 1", q.Q)
	assert.Equal(t, "job-7", q.JobID)
	assert.Equal(t, "US", q.Location)
	assert.Equal(t, map[string]string{"k": "v"}, q.Labels)
	assert.Equal(t, int64(1<<20), q.MaxBytesBilled)
	assert.False(t, q.DryRun)
}

func TestUUIDv7Generator(t *testing.T) {
	g := UUIDv7Generator{}

	a, b := g.Generate(), g.Generate()

	assert.True(t, strings.HasPrefix(a, "bqchain_"))
	assert.Len(t, a, len("bqchain_")+36)
	assert.NotEqual(t, a, b)
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint("SELECT 1")

	assert.Len(t, a, 32)
	assert.Equal(t, a, Fingerprint("SELECT 1"))
	assert.NotEqual(t, a, Fingerprint("SELECT 2"))
}

func TestJobLabels_ConfiguredFingerprintWins(t *testing.T) {
	r := newRunner([]Option{WithLabels(map[string]string{FingerprintLabel: "pinned"})})

	assert.Equal(t, map[string]string{FingerprintLabel: "pinned"}, r.jobLabels("SELECT 1"))
}
