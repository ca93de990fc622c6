package query

import (
	"cmp"
	"slices"
	"strings"

	"github.com/roach88/bqchain/internal/expr"
	"github.com/roach88/bqchain/internal/translate"
)

// Clause ranks, in the order the legacy grammar prints them.
const (
	rankRoot       = -1
	rankSelect     = 0
	rankFrom       = 1
	rankJoin       = 2
	rankWhere      = 3
	rankGroupBy    = 4
	rankHaving     = 5
	rankOrderBy    = 6
	rankLimit      = 7
	rankIgnoreCase = 8
)

// node is one link of a chain. Nodes are immutable; extending a chain
// allocates a new node pointing at its predecessor.
type node struct {
	parent *node
	clause clause
}

// clause is the payload of a node.
type clause interface {
	rank() int
	render(r *renderer) (string, error)
}

type rootClause struct{}

func (rootClause) rank() int                        { return rankRoot }
func (rootClause) render(*renderer) (string, error) { return "", nil }

// renderer carries the layout and the alias of the first join for one
// assembly pass.
type renderer struct {
	opts  translate.Options
	alias string
}

func (r *renderer) flat() bool {
	return r.opts.Flat()
}

// indent returns the whitespace for the current depth plus extra levels.
func (r *renderer) indent(extra int) string {
	return r.opts.Indent(r.opts.Depth + extra)
}

// sep separates clauses, and keyword lines from their continuation.
func (r *renderer) sep() string {
	if r.flat() {
		return " "
	}
	return "\n"
}

// nested returns the options for a subquery printed levels deeper. The
// alias does not carry over.
func (r *renderer) nested(levels int) translate.Options {
	opts := r.opts
	opts.Depth += levels
	return opts
}

// inline renders e on one line, independent of depth.
func (r *renderer) inline(e expr.Expr) (string, error) {
	return translate.New(r.opts).Isolated(e)
}

// assemble renders the chain ending at tail.
func assemble(tail *node, opts translate.Options) (string, error) {
	var chain []*node
	for n := tail; n != nil; n = n.parent {
		if n.clause.rank() == rankRoot {
			continue
		}
		chain = append(chain, n)
	}
	slices.Reverse(chain)

	r := &renderer{opts: opts}
	for _, n := range chain {
		if j, ok := n.clause.(*joinClause); ok {
			r.alias = j.alias.Outer
			break
		}
	}

	slices.SortStableFunc(chain, func(a, b *node) int {
		return cmp.Compare(a.clause.rank(), b.clause.rank())
	})

	parts := make([]string, 0, len(chain))
	for _, n := range chain {
		s, err := n.clause.render(r)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, r.sep()), nil
}
