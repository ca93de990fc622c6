package query

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/roach88/bqchain/internal/queryerr"
)

// ErrDone is returned by Rows.Next when no rows remain.
var ErrDone = errors.New("query: no more rows")

// Runner executes query text against a backend.
type Runner interface {
	Query(ctx context.Context, text string) (Rows, error)
}

// Rows is a lazy row sequence. Next decodes the next row into dst (a
// pointer) and returns ErrDone at the end. Rows that hold resources also
// implement io.Closer.
type Rows interface {
	Next(dst any) error
}

func (l link) build() (string, error) {
	return assemble(l.node, l.client.options())
}

func (l link) text() string {
	s, err := l.build()
	if err != nil {
		return "-- " + err.Error()
	}
	return s
}

func (l link) run(ctx context.Context) (Rows, error) {
	text, err := l.build()
	if err != nil {
		return nil, err
	}
	if l.client.runner == nil {
		return nil, queryerr.ErrNoRunner
	}

	l.client.logger.DebugContext(ctx, "running query", "query", text)

	rows, err := l.client.runner.Query(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("run query: %w", err)
	}
	return rows, nil
}

// Seq runs q and yields its rows decoded as T. Iteration stops at the
// first error, which is yielded with the zero T. Rows are closed when the
// loop ends.
func Seq[T any](ctx context.Context, q Executable) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		rows, err := q.Run(ctx)
		if err != nil {
			yield(zero, err)
			return
		}
		if c, ok := rows.(io.Closer); ok {
			defer c.Close()
		}

		for {
			var row T
			err := rows.Next(&row)
			if errors.Is(err, ErrDone) {
				return
			}
			if err != nil {
				yield(zero, fmt.Errorf("read row: %w", err))
				return
			}
			if !yield(row, nil) {
				return
			}
		}
	}
}

// Collect runs q and returns every row decoded as T.
func Collect[T any](ctx context.Context, q Executable) ([]T, error) {
	var out []T
	for row, err := range Seq[T](ctx, q) {
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, nil
}
