// Package translate renders expression trees as BigQuery legacy SQL text.
//
// A Translator walks one expression and appends text to its own buffer.
// Sub-expressions that must be rendered out of line (function arguments,
// conditional branches, projection values, sort keys) go through Isolated,
// which uses a fresh flat translator and leaves the caller's buffer alone.
//
// Every unsupported shape fails the whole translation with a *queryerr.Error;
// no partial text is returned.
package translate

import (
	"fmt"
	"strings"

	"github.com/roach88/bqchain/internal/config"
	"github.com/roach88/bqchain/internal/expr"
	"github.com/roach88/bqchain/internal/funcs"
	"github.com/roach88/bqchain/internal/queryerr"
)

// Options controls layout and function resolution.
type Options struct {
	// Depth is the nesting level of the text being produced.
	Depth int

	// IndentSize is the number of spaces per level in indented mode.
	IndentSize int

	// Format selects indented or flat output.
	Format config.Format

	// Registry resolves calls. Nil means funcs.Default().
	Registry *funcs.Registry
}

// FromConfig returns options for cfg at depth 0.
func FromConfig(cfg config.Config, registry *funcs.Registry) Options {
	return Options{IndentSize: cfg.IndentSize, Format: cfg.Format, Registry: registry}
}

// Flat reports whether output is single-line.
func (o Options) Flat() bool {
	return o.Format == config.FormatFlat
}

// Indent returns the leading whitespace for depth. Always "" in flat mode.
func (o Options) Indent(depth int) string {
	if o.Flat() || depth <= 0 || o.IndentSize <= 0 {
		return ""
	}
	return strings.Repeat(" ", depth*o.IndentSize)
}

// Deeper returns o one nesting level down.
func (o Options) Deeper() Options {
	o.Depth++
	return o
}

// isolated returns the options used for out-of-line rendering.
func (o Options) isolated() Options {
	return Options{IndentSize: o.IndentSize, Format: config.FormatFlat, Registry: o.Registry}
}

func (o Options) registry() *funcs.Registry {
	if o.Registry == nil {
		return funcs.Default()
	}
	return o.Registry
}

// Translator renders expressions into an internal buffer.
type Translator struct {
	opts Options
	buf  strings.Builder
}

// New creates a Translator.
func New(opts Options) *Translator {
	return &Translator{opts: opts}
}

// Translate renders e with a fresh translator.
func Translate(e expr.Expr, opts Options) (string, error) {
	t := New(opts)
	if err := t.Visit(e); err != nil {
		return "", err
	}
	return t.String(), nil
}

// String returns the text rendered so far.
func (t *Translator) String() string {
	return t.buf.String()
}

// Isolated renders e with a fresh flat, depth-0 translator and returns the
// text. t's buffer is not touched.
func (t *Translator) Isolated(e expr.Expr) (string, error) {
	return Translate(e, t.opts.isolated())
}

// Visit appends the rendering of e to t's buffer.
func (t *Translator) Visit(e expr.Expr) error {
	switch n := e.(type) {
	case nil:
		return queryerr.InvalidArgument("nil expression")
	case *expr.Constant:
		return t.visitConstant(n)
	case *expr.Member:
		return t.visitMember(n)
	case *expr.Unary:
		return t.visitUnary(n)
	case *expr.Binary:
		return t.visitBinary(n)
	case *expr.Call:
		return t.visitCall(n)
	case *expr.Conditional:
		return t.visitConditional(n)
	case *expr.New:
		return t.visitNew(n)
	default:
		return queryerr.UnsupportedOperator(expr.Describe(e))
	}
}

func (t *Translator) visitMember(m *expr.Member) error {
	path, ok := m.Path()
	if !ok {
		return queryerr.New(queryerr.KindUnsupportedOperator, expr.Describe(m.Target),
			"member %q accessed on a non-field target", m.Name)
	}
	for i, name := range path {
		if i > 0 {
			t.buf.WriteByte('.')
		}
		t.buf.WriteString(Ident(name))
	}
	return nil
}

// Ident brackets an identifier: Name -> [Name].
func Ident(name string) string {
	return "[" + name + "]"
}

var castFuncs = map[expr.Kind]string{
	expr.KindBool:    "BOOLEAN",
	expr.KindInt16:   "INTEGER",
	expr.KindInt32:   "INTEGER",
	expr.KindInt64:   "INTEGER",
	expr.KindFloat32: "FLOAT",
	expr.KindFloat64: "FLOAT",
	expr.KindString:  "STRING",
}

func (t *Translator) visitUnary(u *expr.Unary) error {
	switch u.Op {
	case expr.OpConvert:
		fn, ok := castFuncs[u.Type]
		if !ok {
			return queryerr.UnsupportedCast("cast to " + u.Type.String())
		}
		t.buf.WriteString(fn)
		t.buf.WriteByte('(')
		if err := t.Visit(u.Operand); err != nil {
			return err
		}
		t.buf.WriteByte(')')
		return nil

	case expr.OpNot:
		t.buf.WriteString("NOT ")
		if b, ok := u.Operand.(*expr.Binary); ok && (b.Op == expr.OpAnd || b.Op == expr.OpOr) {
			return t.parenthesized(b)
		}
		return t.Visit(u.Operand)

	default:
		return queryerr.UnsupportedOperator(expr.Describe(u))
	}
}

func (t *Translator) visitCall(c *expr.Call) error {
	rule, ok := t.opts.registry().Lookup(c.Func)
	if !ok {
		return queryerr.UnknownFunction(c.Func.String())
	}
	operands := c.Operands()
	if err := rule.CheckArity(c.Func, len(operands)); err != nil {
		return err
	}

	if rule.Formatter != nil {
		s, err := rule.Formatter.Format(c, t)
		if err != nil {
			return err
		}
		t.buf.WriteString(s)
		return nil
	}

	args := make([]string, len(operands))
	for i, op := range operands {
		s, err := t.Isolated(op)
		if err != nil {
			return fmt.Errorf("argument %d of %s: %w", i+1, c.Func, err)
		}
		args[i] = s
	}
	t.buf.WriteString(rule.Name)
	t.buf.WriteByte('(')
	t.buf.WriteString(strings.Join(args, ", "))
	t.buf.WriteByte(')')
	return nil
}

func (t *Translator) visitConditional(c *expr.Conditional) error {
	if _, chained := c.IfFalse.(*expr.Conditional); !chained {
		parts, err := t.isolateAll(c.Test, c.IfTrue, c.IfFalse)
		if err != nil {
			return err
		}
		fmt.Fprintf(&t.buf, "IF(%s, %s, %s)", parts[0], parts[1], parts[2])
		return nil
	}

	var sb strings.Builder
	sb.WriteString("CASE")
	var next expr.Expr = c
	for {
		branch, ok := next.(*expr.Conditional)
		if !ok {
			break
		}
		parts, err := t.isolateAll(branch.Test, branch.IfTrue)
		if err != nil {
			return err
		}
		fmt.Fprintf(&sb, " WHEN %s THEN %s", parts[0], parts[1])
		next = branch.IfFalse
	}
	last, err := t.Isolated(next)
	if err != nil {
		return err
	}
	fmt.Fprintf(&sb, " ELSE %s END", last)

	t.buf.WriteString(sb.String())
	return nil
}

// visitNew renders each field as "indent value AS [name]". The alias is
// dropped when the value is already the bracketed field name.
func (t *Translator) visitNew(n *expr.New) error {
	if len(n.Fields) == 0 {
		return queryerr.InvalidArgument("object construction without fields")
	}

	indent := t.opts.Indent(t.opts.Depth)
	sep := ",\n"
	if t.opts.Flat() {
		sep = ", "
	}

	lines := make([]string, len(n.Fields))
	for i, f := range n.Fields {
		if f.Name == "" {
			return queryerr.InvalidArgument("field %d of object construction has no name", i+1)
		}
		value, err := t.Isolated(f.Value)
		if err != nil {
			return fmt.Errorf("field %s: %w", f.Name, err)
		}
		name := Ident(f.Name)
		if value == name {
			lines[i] = indent + name
		} else {
			lines[i] = indent + value + " AS " + name
		}
	}
	t.buf.WriteString(strings.Join(lines, sep))
	return nil
}

func (t *Translator) isolateAll(es ...expr.Expr) ([]string, error) {
	out := make([]string, len(es))
	for i, e := range es {
		s, err := t.Isolated(e)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

func (t *Translator) parenthesized(e expr.Expr) error {
	t.buf.WriteByte('(')
	if err := t.Visit(e); err != nil {
		return err
	}
	t.buf.WriteByte(')')
	return nil
}
