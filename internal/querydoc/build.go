package querydoc

import (
	"errors"
	"fmt"

	"github.com/roach88/bqchain/internal/expr"
	"github.com/roach88/bqchain/internal/query"
	"github.com/roach88/bqchain/internal/queryerr"
)

// Build replays doc through c. Document errors are InvalidArgument
// errors naming the offending line.
func Build(c *query.Client, doc *Document) (q query.Executable, err error) {
	// Chain operations panic on bad arguments; documents are validated
	// first, so a panic here is a gap in validation. Report it as an error.
	defer func() {
		if r := recover(); r != nil {
			perr, ok := r.(error)
			if !ok || !errors.Is(perr, queryerr.ErrInvalidArgument) {
				panic(r)
			}
			q, err = nil, perr
		}
	}()
	return build(c, doc)
}

func build(c *query.Client, doc *Document) (query.Executable, error) {
	src, err := source(c, doc)
	if err != nil {
		return nil, err
	}

	joined, err := joins(c, src, doc.Joins)
	if err != nil {
		return nil, err
	}

	var filtered query.Filterable = joined
	for i := range doc.Where {
		cond, err := decodeExpr(&doc.Where[i])
		if err != nil {
			return nil, fmt.Errorf("where: %w", err)
		}
		filtered = filtered.Where(cond)
	}

	if doc.Select == nil {
		return nil, queryerr.InvalidArgument("select is required")
	}
	proj, err := decodeProjection(doc.Select)
	if err != nil {
		return nil, fmt.Errorf("select: %w", err)
	}

	var limitable query.Limitable
	if len(doc.PreOrderBy) > 0 {
		if doc.GroupBy != nil || doc.Having != nil || len(doc.OrderBy) > 0 {
			return nil, queryerr.InvalidArgument("pre_order_by cannot be combined with group_by, having or order_by")
		}
		limitable, err = preSelect(filtered, doc.PreOrderBy, proj)
	} else {
		limitable, err = postSelect(filtered, doc, proj)
	}
	if err != nil {
		return nil, err
	}

	var limited query.Limited = limitable
	if doc.Limit != nil {
		if *doc.Limit < 0 {
			return nil, queryerr.InvalidArgument("limit must not be negative, got %d", *doc.Limit)
		}
		limited = limitable.Limit(*doc.Limit)
	}
	if doc.IgnoreCase {
		return limited.IgnoreCase(), nil
	}
	return limited, nil
}

func source(c *query.Client, doc *Document) (query.Joinable, error) {
	switch {
	case doc.From != "" && doc.Subquery != nil:
		return nil, queryerr.InvalidArgument("from and subquery are mutually exclusive")
	case doc.Subquery != nil:
		if doc.Snapshot != nil || doc.Range != nil {
			return nil, queryerr.InvalidArgument("snapshot and range decorate a from table, not a subquery")
		}
		inner, err := build(c, doc.Subquery)
		if err != nil {
			return nil, fmt.Errorf("subquery: %w", err)
		}
		return c.FromSubquery(inner), nil
	case doc.From == "":
		return nil, queryerr.InvalidArgument("from or subquery is required")
	}

	src := c.From(doc.From)
	switch {
	case doc.Snapshot != nil && doc.Range != nil:
		return nil, queryerr.InvalidArgument("snapshot and range are mutually exclusive")
	case doc.Snapshot != nil:
		return src.WithSnapshot(doc.Snapshot.Bound()), nil
	case doc.Range != nil:
		if doc.Range.From == nil {
			return nil, queryerr.InvalidArgument("range needs a from bound")
		}
		if doc.Range.To == nil {
			return src.WithRange(doc.Range.From.Bound()), nil
		}
		return src.WithRangeBetween(doc.Range.From.Bound(), doc.Range.To.Bound()), nil
	}
	return src, nil
}

func joins(c *query.Client, j query.Joinable, specs []JoinSpec) (query.Joinable, error) {
	for i, spec := range specs {
		next, err := join(c, j, spec)
		if err != nil {
			return nil, fmt.Errorf("joins[%d]: %w", i, err)
		}
		j = next
	}
	return j, nil
}

func join(c *query.Client, j query.Joinable, spec JoinSpec) (query.Joinable, error) {
	kind := query.InnerJoin
	if spec.Kind != "" {
		k, ok := query.ParseJoinKind(spec.Kind)
		if !ok {
			return nil, queryerr.InvalidArgument("unknown join kind %q (want inner, left_outer or cross)", spec.Kind)
		}
		kind = k
	}
	if spec.Alias.Outer == "" || spec.Alias.Inner == "" {
		return nil, queryerr.InvalidArgument("join alias needs outer and inner names")
	}

	var table query.Table
	switch {
	case spec.Table != "" && spec.Subquery != nil:
		return nil, queryerr.InvalidArgument("table and subquery are mutually exclusive")
	case spec.Table != "":
		table = c.From(spec.Table)
	case spec.Subquery != nil:
		inner, err := build(c, spec.Subquery)
		if err != nil {
			return nil, fmt.Errorf("subquery: %w", err)
		}
		table = inner
	default:
		return nil, queryerr.InvalidArgument("join needs a table or a subquery")
	}

	alias := query.Alias{Outer: spec.Alias.Outer, Inner: spec.Alias.Inner}
	var opts []query.Option
	if spec.Each {
		opts = append(opts, query.Each())
	}

	if kind == query.CrossJoin {
		if spec.On.Kind != 0 {
			return nil, nodeError(&spec.On, "a cross join takes no on condition")
		}
		return j.CrossJoin(table, alias, opts...), nil
	}
	if spec.On.Kind == 0 {
		return nil, queryerr.InvalidArgument("%s join needs an on condition", kind)
	}
	on, err := decodeExpr(&spec.On)
	if err != nil {
		return nil, fmt.Errorf("on: %w", err)
	}
	return j.Join(kind, table, alias, on, opts...), nil
}

func preSelect(f query.Filterable, keys []SortSpec, proj expr.Expr) (query.Limitable, error) {
	first, err := decodeExpr(&keys[0].Key)
	if err != nil {
		return nil, fmt.Errorf("pre_order_by: %w", err)
	}
	var o query.Ordered
	if keys[0].Desc {
		o = f.OrderByDescending(first)
	} else {
		o = f.OrderBy(first)
	}
	for i := 1; i < len(keys); i++ {
		k, err := decodeExpr(&keys[i].Key)
		if err != nil {
			return nil, fmt.Errorf("pre_order_by: %w", err)
		}
		if keys[i].Desc {
			o = o.ThenByDescending(k)
		} else {
			o = o.ThenBy(k)
		}
	}

	if proj == nil {
		return o.SelectAll(), nil
	}
	return o.Select(proj), nil
}

func postSelect(f query.Filterable, doc *Document, proj expr.Expr) (query.Limitable, error) {
	var sel query.Selected
	if proj == nil {
		sel = f.SelectAll()
	} else {
		sel = f.Select(proj)
	}

	var sortable query.Sortable = sel
	switch {
	case doc.GroupBy != nil:
		key, err := groupKey(doc.GroupBy)
		if err != nil {
			return nil, err
		}
		var opts []query.Option
		if doc.GroupBy.Each {
			opts = append(opts, query.Each())
		}
		grouped := sel.GroupBy(key, opts...)
		sortable = grouped
		if doc.Having != nil {
			cond, err := decodeExpr(doc.Having)
			if err != nil {
				return nil, fmt.Errorf("having: %w", err)
			}
			sortable = grouped.Having(cond)
		}
	case doc.Having != nil:
		return nil, nodeError(doc.Having, "having requires group_by")
	}

	if len(doc.OrderBy) == 0 {
		return sortable, nil
	}
	return orderSelection(sortable, doc.OrderBy)
}

func orderSelection(s query.Sortable, keys []SortSpec) (query.Limitable, error) {
	var o query.OrderedSelection
	for i := range keys {
		k, err := decodeExpr(&keys[i].Key)
		if err != nil {
			return nil, fmt.Errorf("order_by: %w", err)
		}
		switch {
		case i == 0 && keys[i].Desc:
			o = s.OrderByDescending(k)
		case i == 0:
			o = s.OrderBy(k)
		case keys[i].Desc:
			o = o.ThenByDescending(k)
		default:
			o = o.ThenBy(k)
		}
	}
	return o, nil
}

// groupKey turns several keys into an object construction, which GROUP BY
// expands into its field values.
func groupKey(g *GroupSpec) (expr.Expr, error) {
	if len(g.Keys) == 0 {
		return nil, queryerr.InvalidArgument("group_by needs at least one key")
	}
	keys := make([]expr.Expr, len(g.Keys))
	for i := range g.Keys {
		k, err := decodeExpr(&g.Keys[i])
		if err != nil {
			return nil, fmt.Errorf("group_by: %w", err)
		}
		keys[i] = k
	}
	if len(keys) == 1 {
		return keys[0], nil
	}
	props := make([]expr.Prop, len(keys))
	for i, k := range keys {
		props[i] = expr.As(fmt.Sprintf("key%d", i+1), k)
	}
	return expr.NewObject(props...), nil
}
