package bqrunner

import (
	"context"

	"cloud.google.com/go/bigquery"
)

// request is one job submission.
type request struct {
	text           string
	jobID          string
	location       string
	labels         map[string]string
	maxBytesBilled int64
	dryRun         bool
}

// executor submits jobs. clientExecutor talks to BigQuery; tests swap in
// a fake.
type executor interface {
	read(ctx context.Context, req request) (rowIterator, error)
	dryRun(ctx context.Context, req request) (int64, error)
}

// rowIterator is the part of *bigquery.RowIterator the runner reads.
type rowIterator interface {
	Next(dst any) error
	columns() []string
}

type clientExecutor struct {
	client *bigquery.Client
}

// newQuery builds a legacy SQL query for req.
func newQuery(client *bigquery.Client, req request) *bigquery.Query {
	q := client.Query(req.text)
	q.UseLegacySQL = true
	q.JobID = req.jobID
	q.Location = req.location
	q.Labels = req.labels
	q.MaxBytesBilled = req.maxBytesBilled
	q.DryRun = req.dryRun
	return q
}

func (c clientExecutor) read(ctx context.Context, req request) (rowIterator, error) {
	it, err := newQuery(c.client, req).Read(ctx)
	if err != nil {
		return nil, err
	}
	return iteratorAdapter{it: it}, nil
}

func (c clientExecutor) dryRun(ctx context.Context, req request) (int64, error) {
	job, err := newQuery(c.client, req).Run(ctx)
	if err != nil {
		return 0, err
	}
	status := job.LastStatus()
	if err := status.Err(); err != nil {
		return 0, err
	}
	return status.Statistics.TotalBytesProcessed, nil
}

type iteratorAdapter struct {
	it *bigquery.RowIterator
}

func (a iteratorAdapter) Next(dst any) error {
	return a.it.Next(dst)
}

// columns is only meaningful after the first Next; the schema arrives
// with the first page.
func (a iteratorAdapter) columns() []string {
	cols := make([]string, len(a.it.Schema))
	for i, f := range a.it.Schema {
		cols[i] = f.Name
	}
	return cols
}
