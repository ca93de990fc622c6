package bqrunner

import (
	"errors"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"github.com/roach88/bqchain/internal/query"
	"github.com/roach88/bqchain/internal/rowcodec"
)

// Rows reads a job's result page by page. Destinations follow
// rowcodec.Decode; nested RECORD columns arrive as maps and REPEATED
// columns as slices.
type Rows struct {
	it rowIterator
}

var _ query.Rows = (*Rows)(nil)

func (r *Rows) Next(dst any) error {
	var row map[string]bigquery.Value
	err := r.it.Next(&row)
	if errors.Is(err, iterator.Done) {
		return query.ErrDone
	}
	if err != nil {
		return fmt.Errorf("bigquery: %w", err)
	}

	record := make(map[string]any, len(row))
	for k, v := range row {
		record[k] = v
	}
	return rowcodec.Decode(record, r.it.columns(), dst)
}

// Columns returns the result schema's field names. The schema is known
// once the first page is fetched, so call it after Next.
func (r *Rows) Columns() []string {
	return r.it.columns()
}
