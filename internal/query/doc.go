// Package query builds BigQuery legacy SQL queries as an immutable chain of
// clause nodes.
//
// Every chain operation allocates one node that points at its predecessor
// and returns a state interface exposing only the operations the legacy
// grammar allows next:
//
//	From(+WithSnapshot/WithRange) -> Join -> Where -+-> OrderBy(ThenBy) -> Select ------------------+-> Limit -> IgnoreCase
//	                                                +-> Select -+-> GroupBy -> Having -> OrderBy(ThenBy) |
//	                                                            +-> OrderBy(ThenBy) ------------------+
//
// Illegal sequences (GroupBy before Select, Having without GroupBy, Limit
// before Select) do not compile. Nodes are never mutated, so any prefix of a
// chain can be extended in several directions.
//
// Build walks the chain back to its root, orders the nodes by clause rank
// (stable, so ThenBy keeps call order) and joins the rendered clauses:
//
//	q := client.From("people").
//		Where(expr.Gt(expr.Field("Age"), expr.Const(18))).
//		Select(expr.Field("Name"))
//
//	text, err := q.Build()
//	// SELECT
//	//   [Name]
//	// FROM
//	//   [people]
//	// WHERE
//	//   [Age] > 18
//
// Argument errors at chain operations (nil expressions, empty names, a
// negative limit) panic with a *queryerr.Error of kind InvalidArgument
// before any node is allocated. Translation errors are returned by Build
// and Run.
package query
