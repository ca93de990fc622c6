package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/bqchain/internal/expr"
	"github.com/roach88/bqchain/internal/translate"
)

// fromClause reads a table (optionally decorated) or a subquery.
type fromClause struct {
	table      string
	decoration string
	sub        *node
}

func (*fromClause) rank() int { return rankFrom }

func (f *fromClause) render(r *renderer) (string, error) {
	src, err := f.source(r)
	if err != nil {
		return "", err
	}
	if r.alias != "" {
		src += " AS " + translate.Ident(r.alias)
	}
	return translate.Block("FROM", r.indent(1)+src, r.opts), nil
}

func (f *fromClause) source(r *renderer) (string, error) {
	if f.sub != nil {
		return subquery(f.sub, r)
	}
	return translate.Ident(f.table + f.decoration), nil
}

// subquery renders the chain ending at tail in parentheses, two levels
// below the clause keyword.
func subquery(tail *node, r *renderer) (string, error) {
	inner, err := assemble(tail, r.nested(2))
	if err != nil {
		return "", fmt.Errorf("subquery: %w", err)
	}
	if r.flat() {
		return "(" + inner + ")", nil
	}
	return "(\n" + inner + "\n" + r.indent(1) + ")", nil
}

// tableText renders a join operand: a bare source prints as its table,
// anything longer as a subquery.
func tableText(tail *node, r *renderer) (string, error) {
	if f, ok := tail.clause.(*fromClause); ok && tail.parent != nil && tail.parent.clause.rank() == rankRoot {
		return f.source(r)
	}
	return subquery(tail, r)
}

type joinClause struct {
	kind  JoinKind
	each  bool
	table *node
	alias Alias
	on    expr.Expr
}

func (*joinClause) rank() int { return rankJoin }

func (j *joinClause) render(r *renderer) (string, error) {
	keyword := j.kind.keyword()
	if j.each {
		keyword += " EACH"
	}

	table, err := tableText(j.table, r)
	if err != nil {
		return "", fmt.Errorf("join: %w", err)
	}
	s := translate.Block(keyword, r.indent(1)+table+" AS "+translate.Ident(j.alias.Inner), r.opts)
	if j.on == nil {
		return s, nil
	}

	on, err := translate.Clause("ON", j.on, r.opts)
	if err != nil {
		return "", fmt.Errorf("join condition: %w", err)
	}
	return s + r.sep() + on, nil
}

// whereClause holds every condition given to consecutive Where calls;
// they render AND-combined.
type whereClause struct {
	conds []expr.Expr
}

func (*whereClause) rank() int { return rankWhere }

func (w *whereClause) render(r *renderer) (string, error) {
	combined := w.conds[0]
	for _, c := range w.conds[1:] {
		combined = expr.And(combined, c)
	}
	s, err := translate.Clause("WHERE", combined, r.opts)
	if err != nil {
		return "", fmt.Errorf("where: %w", err)
	}
	return s, nil
}

type sortKey struct {
	key  expr.Expr
	desc bool
}

// orderByClause holds the keys of an OrderBy call and its ThenBy calls,
// in call order.
type orderByClause struct {
	keys []sortKey
}

func (*orderByClause) rank() int { return rankOrderBy }

func (o *orderByClause) render(r *renderer) (string, error) {
	parts := make([]string, len(o.keys))
	for i, k := range o.keys {
		s, err := r.inline(k.key)
		if err != nil {
			return "", fmt.Errorf("order by key %d: %w", i+1, err)
		}
		if k.desc {
			s += " DESC"
		}
		parts[i] = s
	}
	return translate.Block("ORDER BY", r.indent(1)+strings.Join(parts, ", "), r.opts), nil
}

// selectClause projects proj; nil selects every column.
type selectClause struct {
	proj expr.Expr
}

func (*selectClause) rank() int { return rankSelect }

func (s *selectClause) render(r *renderer) (string, error) {
	if s.proj == nil {
		return translate.Block("SELECT", r.indent(1)+"*", r.opts), nil
	}
	out, err := translate.Clause("SELECT", s.proj, r.opts)
	if err != nil {
		return "", fmt.Errorf("select: %w", err)
	}
	return out, nil
}

// groupByClause groups by one key, or by every field value of an object
// construction.
type groupByClause struct {
	key  expr.Expr
	each bool
}

func (*groupByClause) rank() int { return rankGroupBy }

func (g *groupByClause) render(r *renderer) (string, error) {
	keys := []expr.Expr{g.key}
	if obj, ok := g.key.(*expr.New); ok {
		keys = keys[:0]
		for _, f := range obj.Fields {
			keys = append(keys, f.Value)
		}
	}

	parts := make([]string, len(keys))
	for i, k := range keys {
		s, err := r.inline(k)
		if err != nil {
			return "", fmt.Errorf("group by key %d: %w", i+1, err)
		}
		parts[i] = s
	}

	keyword := "GROUP BY"
	if g.each {
		keyword = "GROUP EACH BY"
	}
	return translate.Block(keyword, r.indent(1)+strings.Join(parts, ", "), r.opts), nil
}

type havingClause struct {
	cond expr.Expr
}

func (*havingClause) rank() int { return rankHaving }

func (h *havingClause) render(r *renderer) (string, error) {
	s, err := translate.Clause("HAVING", h.cond, r.opts)
	if err != nil {
		return "", fmt.Errorf("having: %w", err)
	}
	return s, nil
}

type limitClause struct {
	n int
}

func (*limitClause) rank() int { return rankLimit }

func (l *limitClause) render(r *renderer) (string, error) {
	return r.indent(0) + "LIMIT " + strconv.Itoa(l.n), nil
}

type ignoreCaseClause struct{}

func (ignoreCaseClause) rank() int { return rankIgnoreCase }

func (ignoreCaseClause) render(r *renderer) (string, error) {
	return r.indent(0) + "IGNORE CASE", nil
}
