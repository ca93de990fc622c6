package sqlrunner

import (
	"database/sql"
	"fmt"

	"github.com/roach88/bqchain/internal/query"
	"github.com/roach88/bqchain/internal/rowcodec"
)

// Rows decodes *sql.Rows into caller values; see rowcodec.Decode for the
// accepted destinations.
type Rows struct {
	rows    *sql.Rows
	columns []string
}

var _ query.Rows = (*Rows)(nil)

// Columns returns the result column names in select order.
func (r *Rows) Columns() []string {
	return r.columns
}

func (r *Rows) Next(dst any) error {
	if !r.rows.Next() {
		if err := r.rows.Err(); err != nil {
			return fmt.Errorf("sqlite: %w", err)
		}
		return query.ErrDone
	}

	record, err := r.scan()
	if err != nil {
		return err
	}
	return rowcodec.Decode(record, r.columns, dst)
}

func (r *Rows) Close() error {
	return r.rows.Close()
}

// scan reads the current row into a column → value map. Text comes back
// as string rather than []byte.
func (r *Rows) scan() (map[string]any, error) {
	values := make([]any, len(r.columns))
	targets := make([]any, len(r.columns))
	for i := range values {
		targets[i] = &values[i]
	}
	if err := r.rows.Scan(targets...); err != nil {
		return nil, fmt.Errorf("sqlite: scan: %w", err)
	}

	record := make(map[string]any, len(r.columns))
	for i, col := range r.columns {
		if b, ok := values[i].([]byte); ok {
			values[i] = string(b)
		}
		record[col] = values[i]
	}
	return record, nil
}
