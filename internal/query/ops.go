package query

import (
	"context"
	"slices"

	"github.com/roach88/bqchain/internal/expr"
	"github.com/roach88/bqchain/internal/queryerr"
)

// link is what every state carries: the client and the chain tail.
type link struct {
	client *Client
	node   *node
}

func (l link) chain() *node { return l.node }

// extend appends a node after the tail.
func (l link) extend(c clause) link {
	return link{client: l.client, node: &node{parent: l.node, clause: c}}
}

// replace allocates a node that takes the tail's place. The tail itself is
// left untouched for other chains sharing it.
func (l link) replace(c clause) link {
	return link{client: l.client, node: &node{parent: l.node.parent, clause: c}}
}

// filterOps: Where, pre-select OrderBy, Select.
type filterOps struct {
	link
}

func (f filterOps) Where(cond expr.Expr) Filterable {
	requireExpr("Where", cond)
	if w, ok := f.node.clause.(*whereClause); ok {
		conds := append(slices.Clip(w.conds), cond)
		return whereState{filterOps{f.replace(&whereClause{conds: conds})}}
	}
	return whereState{filterOps{f.extend(&whereClause{conds: []expr.Expr{cond}})}}
}

func (f filterOps) OrderBy(key expr.Expr) Ordered {
	requireExpr("OrderBy", key)
	return orderedState{f.extend(&orderByClause{keys: []sortKey{{key: key}}})}
}

func (f filterOps) OrderByDescending(key expr.Expr) Ordered {
	requireExpr("OrderByDescending", key)
	return orderedState{f.extend(&orderByClause{keys: []sortKey{{key: key, desc: true}}})}
}

func (f filterOps) Select(proj expr.Expr) Selected {
	requireExpr("Select", proj)
	return selectedState{sortOps{limitOps{limitedOps{execOps{f.extend(&selectClause{proj: proj})}}}}}
}

func (f filterOps) SelectAll() Selected {
	return selectedState{sortOps{limitOps{limitedOps{execOps{f.extend(&selectClause{})}}}}}
}

type whereState struct {
	filterOps
}

// joinOps: Join and CrossJoin on top of filterOps.
type joinOps struct {
	filterOps
}

func (j joinOps) Join(kind JoinKind, t Table, alias Alias, on expr.Expr, opts ...Option) Joinable {
	switch kind {
	case InnerJoin, LeftOuterJoin:
	case CrossJoin:
		panic(queryerr.InvalidArgument("Join: use CrossJoin for a cross join"))
	default:
		panic(queryerr.InvalidArgument("Join: unknown join kind %d", int(kind)))
	}
	requireTable("Join", t, alias)
	requireExpr("Join", on)

	m := applyOptions(opts)
	return joinState{joinOps{filterOps{j.extend(&joinClause{
		kind:  kind,
		each:  m.each,
		table: t.table(),
		alias: alias,
		on:    on,
	})}}}
}

func (j joinOps) CrossJoin(t Table, alias Alias, opts ...Option) Joinable {
	requireTable("CrossJoin", t, alias)

	m := applyOptions(opts)
	return joinState{joinOps{filterOps{j.extend(&joinClause{
		kind:  CrossJoin,
		each:  m.each,
		table: t.table(),
		alias: alias,
	})}}}
}

type joinState struct {
	joinOps
}

// fromState is the head of a chain over a named table.
type fromState struct {
	joinOps
}

func (f fromState) table() *node { return f.node }

func (f fromState) WithSnapshot(at Bound) Joinable {
	return f.decorate(snapshotDecoration(at))
}

func (f fromState) WithRange(from Bound) Joinable {
	return f.decorate(rangeDecoration(from, nil))
}

func (f fromState) WithRangeBetween(from, to Bound) Joinable {
	return f.decorate(rangeDecoration(from, &to))
}

// decorate replaces the FROM node; a chain never holds two.
func (f fromState) decorate(decoration string) Joinable {
	src := f.node.clause.(*fromClause)
	return joinState{joinOps{filterOps{f.replace(&fromClause{
		table:      src.table,
		decoration: decoration,
	})}}}
}

// subqueryState is the head of a chain over another query.
type subqueryState struct {
	joinOps
	inner Executable
}

func (s subqueryState) table() *node                          { return s.node }
func (s subqueryState) Build() (string, error)                { return s.build() }
func (s subqueryState) String() string                        { return s.text() }
func (s subqueryState) Run(ctx context.Context) (Rows, error) { return s.run(ctx) }
func (s subqueryState) AsSubquery() Subquery                  { return s.client.FromSubquery(s) }
func (s subqueryState) Unwrap() Executable                    { return s.inner }

// orderedState is a pre-select ORDER BY.
type orderedState struct {
	link
}

func (o orderedState) ThenBy(key expr.Expr) Ordered {
	requireExpr("ThenBy", key)
	return orderedState{o.thenBy(key, false)}
}

func (o orderedState) ThenByDescending(key expr.Expr) Ordered {
	requireExpr("ThenByDescending", key)
	return orderedState{o.thenBy(key, true)}
}

func (o orderedState) Select(proj expr.Expr) Limitable {
	requireExpr("Select", proj)
	return limitOps{limitedOps{execOps{o.extend(&selectClause{proj: proj})}}}
}

func (o orderedState) SelectAll() Limitable {
	return limitOps{limitedOps{execOps{o.extend(&selectClause{})}}}
}

// thenBy replaces the tail OrderBy node with one holding an extra key.
func (l link) thenBy(key expr.Expr, desc bool) link {
	ob := l.node.clause.(*orderByClause)
	keys := append(slices.Clip(ob.keys), sortKey{key: key, desc: desc})
	return l.replace(&orderByClause{keys: keys})
}

type selectedState struct {
	sortOps
}

func (s selectedState) GroupBy(key expr.Expr, opts ...Option) Grouped {
	requireExpr("GroupBy", key)
	m := applyOptions(opts)
	return groupedState{sortOps{limitOps{limitedOps{execOps{s.extend(&groupByClause{key: key, each: m.each})}}}}}
}

type groupedState struct {
	sortOps
}

func (g groupedState) Having(cond expr.Expr) Sortable {
	requireExpr("Having", cond)
	return sortOps{limitOps{limitedOps{execOps{g.extend(&havingClause{cond: cond})}}}}
}

// sortOps: post-select OrderBy.
type sortOps struct {
	limitOps
}

func (s sortOps) OrderBy(key expr.Expr) OrderedSelection {
	requireExpr("OrderBy", key)
	return orderedSelectionState{limitOps{limitedOps{execOps{s.extend(&orderByClause{keys: []sortKey{{key: key}}})}}}}
}

func (s sortOps) OrderByDescending(key expr.Expr) OrderedSelection {
	requireExpr("OrderByDescending", key)
	return orderedSelectionState{limitOps{limitedOps{execOps{s.extend(&orderByClause{keys: []sortKey{{key: key, desc: true}}})}}}}
}

// orderedSelectionState is a post-select ORDER BY.
type orderedSelectionState struct {
	limitOps
}

func (o orderedSelectionState) ThenBy(key expr.Expr) OrderedSelection {
	requireExpr("ThenBy", key)
	return orderedSelectionState{limitOps{limitedOps{execOps{o.thenBy(key, false)}}}}
}

func (o orderedSelectionState) ThenByDescending(key expr.Expr) OrderedSelection {
	requireExpr("ThenByDescending", key)
	return orderedSelectionState{limitOps{limitedOps{execOps{o.thenBy(key, true)}}}}
}

type limitOps struct {
	limitedOps
}

func (l limitOps) Limit(n int) Limited {
	if n < 0 {
		panic(queryerr.InvalidArgument("Limit: negative row count %d", n))
	}
	return limitedOps{execOps{l.extend(&limitClause{n: n})}}
}

type limitedOps struct {
	execOps
}

func (l limitedOps) IgnoreCase() Executable {
	return execOps{l.extend(ignoreCaseClause{})}
}

// execOps: Build, Run and AsSubquery.
type execOps struct {
	link
}

func (e execOps) table() *node                          { return e.node }
func (e execOps) Build() (string, error)                { return e.build() }
func (e execOps) String() string                        { return e.text() }
func (e execOps) Run(ctx context.Context) (Rows, error) { return e.run(ctx) }
func (e execOps) AsSubquery() Subquery                  { return e.client.FromSubquery(e) }

func requireExpr(op string, e expr.Expr) {
	if isNilExpr(e) {
		panic(queryerr.InvalidArgument("%s: nil expression", op))
	}
}

func requireTable(op string, t Table, alias Alias) {
	if t == nil || t.table() == nil {
		panic(queryerr.InvalidArgument("%s: nil table", op))
	}
	if alias.Outer == "" || alias.Inner == "" {
		panic(queryerr.InvalidArgument("%s: alias needs both an outer and an inner name", op))
	}
}

func isNilExpr(e expr.Expr) bool {
	switch n := e.(type) {
	case nil:
		return true
	case *expr.Constant:
		return n == nil
	case *expr.Member:
		return n == nil
	case *expr.Unary:
		return n == nil
	case *expr.Binary:
		return n == nil
	case *expr.Call:
		return n == nil
	case *expr.Conditional:
		return n == nil
	case *expr.New:
		return n == nil
	}
	return false
}
