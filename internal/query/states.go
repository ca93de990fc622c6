package query

import (
	"context"

	"github.com/roach88/bqchain/internal/expr"
)

// Table is a join operand or subquery source: a bare Source, or any
// executable chain.
//
// This is a sealed interface - only types in this package implement it.
type Table interface {
	table() *node
}

type chained interface {
	chain() *node
}

// Executable is a chain that can be built and run.
type Executable interface {
	Table

	// Build assembles the query text.
	Build() (string, error)

	// String returns the query text, or a SQL comment describing the
	// translation error.
	String() string

	// Run builds the query and hands it to the client's runner.
	Run(ctx context.Context) (Rows, error)

	// AsSubquery starts a new chain reading this query's result.
	AsSubquery() Subquery
}

// Filterable is a chain that can take WHERE conditions, a pre-select
// ORDER BY or the projection.
type Filterable interface {
	chained

	// Where adds a condition. Consecutive calls AND-combine into one WHERE.
	Where(cond expr.Expr) Filterable

	OrderBy(key expr.Expr) Ordered
	OrderByDescending(key expr.Expr) Ordered

	// Select projects proj, usually a field or an expr.NewObject.
	Select(proj expr.Expr) Selected

	// SelectAll projects every column (SELECT *).
	SelectAll() Selected
}

// Joinable is a chain that can still take joins.
type Joinable interface {
	Filterable

	// Join joins t with an INNER or LEFT OUTER join on the condition on.
	// alias.Outer names the FROM source and alias.Inner names t.
	Join(kind JoinKind, t Table, alias Alias, on expr.Expr, opts ...Option) Joinable

	// CrossJoin joins t without a condition.
	CrossJoin(t Table, alias Alias, opts ...Option) Joinable
}

// Source is the head of a chain over a named table. It is the only state
// that can be decorated.
type Source interface {
	Joinable
	Table

	// WithSnapshot reads the table as of at: [table@at].
	WithSnapshot(at Bound) Joinable

	// WithRange reads rows added since from: [table@from-].
	WithRange(from Bound) Joinable

	// WithRangeBetween reads rows added between from and to: [table@from-to].
	WithRangeBetween(from, to Bound) Joinable
}

// Subquery is the head of a chain over another query's result.
type Subquery interface {
	Joinable
	Executable

	// Unwrap returns the wrapped query.
	Unwrap() Executable
}

// Ordered is a pre-select ORDER BY.
type Ordered interface {
	chained

	ThenBy(key expr.Expr) Ordered
	ThenByDescending(key expr.Expr) Ordered
	Select(proj expr.Expr) Limitable
	SelectAll() Limitable
}

// Selected follows Select.
type Selected interface {
	Sortable

	// GroupBy groups by key. An expr.NewObject key groups by each of its
	// field values.
	GroupBy(key expr.Expr, opts ...Option) Grouped
}

// Grouped follows GroupBy.
type Grouped interface {
	Sortable

	Having(cond expr.Expr) Sortable
}

// Sortable can take a post-select ORDER BY.
type Sortable interface {
	Limitable

	OrderBy(key expr.Expr) OrderedSelection
	OrderByDescending(key expr.Expr) OrderedSelection
}

// OrderedSelection is a post-select ORDER BY.
type OrderedSelection interface {
	Limitable

	ThenBy(key expr.Expr) OrderedSelection
	ThenByDescending(key expr.Expr) OrderedSelection
}

// Limitable can take LIMIT.
type Limitable interface {
	Limited

	// Limit caps the row count. Panics if n is negative.
	Limit(n int) Limited
}

// Limited can take IGNORE CASE.
type Limited interface {
	Executable

	IgnoreCase() Executable
}

var (
	_ Source           = fromState{}
	_ Subquery         = subqueryState{}
	_ Joinable         = joinState{}
	_ Filterable       = whereState{}
	_ Ordered          = orderedState{}
	_ Selected         = selectedState{}
	_ Grouped          = groupedState{}
	_ Sortable         = sortOps{}
	_ OrderedSelection = orderedSelectionState{}
	_ Limitable        = limitOps{}
	_ Limited          = limitedOps{}
	_ Executable       = execOps{}
)
