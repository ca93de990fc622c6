// Package expr provides the language-neutral expression tree that the
// translator turns into BigQuery legacy SQL.
//
// Expr is a sealed interface using the marker method pattern. Only the node
// types in this package implement it:
//
//	Constant     literal value (nil, bool, string, Char, numbers, time, decimal)
//	Member       field access, nested for record-of-record paths
//	Unary        cast (Convert), logical NOT, and untranslatable unary ops
//	Binary       logical, comparison and arithmetic operators
//	Call         function or method call identified by a Symbol
//	Conditional  ternary test ? ifTrue : ifFalse
//	New          object construction (named projection fields, in order)
//
// Nodes are immutable once built. Builders in builders.go cover the common
// shapes:
//
//	expr.And(
//	    expr.Gt(expr.Field("Age"), expr.Const(18)),
//	    expr.Ne(expr.Field("Address", "City"), expr.Null()),
//	)
//
// Backends switch exhaustively on the node type:
//
//	switch n := e.(type) {
//	case *expr.Binary:
//	case *expr.Member:
//	...
//	}
package expr
