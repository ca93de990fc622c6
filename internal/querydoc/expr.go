package querydoc

import (
	"strings"
	"time"

	"github.com/cockroachdb/apd/v3"
	"gopkg.in/yaml.v3"

	"github.com/roach88/bqchain/internal/expr"
	"github.com/roach88/bqchain/internal/funcs"
)

// binaryKeys maps operator keys to binary builders.
var binaryKeys = map[string]expr.BinaryOp{
	"eq":  expr.OpEq,
	"ne":  expr.OpNe,
	"lt":  expr.OpLt,
	"le":  expr.OpLe,
	"gt":  expr.OpGt,
	"ge":  expr.OpGe,
	"add": expr.OpAdd,
	"sub": expr.OpSub,
	"mul": expr.OpMul,
	"div": expr.OpDiv,
	"mod": expr.OpMod,
}

// isExprKey reports whether key starts an expression mapping.
func isExprKey(key string) bool {
	if _, ok := binaryKeys[key]; ok {
		return true
	}
	switch key {
	case "field", "null", "and", "or", "not", "cast", "if", "call", "new":
		return true
	}
	return false
}

// decodeExpr converts a document node into an expression.
//
// Scalars are constants: integers become int64, floats exact apd
// decimals, timestamps time.Time. Mappings name an operator by their
// (single) key.
func decodeExpr(n *yaml.Node) (expr.Expr, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		return decodeScalar(n)
	case yaml.MappingNode:
		return decodeMapping(n)
	case yaml.AliasNode:
		return decodeExpr(n.Alias)
	case 0:
		return nil, nodeError(n, "missing expression")
	default:
		return nil, nodeError(n, "a list is not an expression")
	}
}

func decodeScalar(n *yaml.Node) (expr.Expr, error) {
	switch n.ShortTag() {
	case "!!null":
		return expr.Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, nodeError(n, "%v", err)
		}
		return expr.Const(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return nil, nodeError(n, "%v", err)
		}
		return expr.Const(i), nil
	case "!!float":
		d, _, err := apd.NewFromString(n.Value)
		if err != nil {
			return nil, nodeError(n, "number %q: %v", n.Value, err)
		}
		return expr.Const(d), nil
	case "!!timestamp":
		var t time.Time
		if err := n.Decode(&t); err != nil {
			return nil, nodeError(n, "%v", err)
		}
		return expr.Const(t.UTC()), nil
	default:
		return expr.Const(n.Value), nil
	}
}

// entry is one key/value pair of a mapping node.
type entry struct {
	key   *yaml.Node
	value *yaml.Node
}

func entries(n *yaml.Node) []entry {
	out := make([]entry, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		out = append(out, entry{key: n.Content[i], value: n.Content[i+1]})
	}
	return out
}

func decodeMapping(n *yaml.Node) (expr.Expr, error) {
	es := entries(n)
	if len(es) == 0 {
		return nil, nodeError(n, "empty expression")
	}
	if hasKey(es, "call") {
		return decodeCall(es)
	}
	key := es[0].key.Value
	if len(es) != 1 {
		return nil, nodeError(n, "%s expression takes a single key", key)
	}
	v := es[0].value

	if op, ok := binaryKeys[key]; ok {
		args, err := decodeList(v, key)
		if err != nil {
			return nil, err
		}
		if len(args) != 2 {
			return nil, nodeError(v, "%s takes 2 operands, got %d", key, len(args))
		}
		return expr.Op(op, args[0], args[1]), nil
	}

	switch key {
	case "field":
		if v.Kind != yaml.ScalarNode || v.Value == "" {
			return nil, nodeError(v, "field takes a dotted path")
		}
		return expr.Field(strings.Split(v.Value, ".")...), nil
	case "null":
		return expr.Null(), nil
	case "and", "or":
		args, err := decodeList(v, key)
		if err != nil {
			return nil, err
		}
		if len(args) < 2 {
			return nil, nodeError(v, "%s takes at least 2 operands, got %d", key, len(args))
		}
		if key == "and" {
			return expr.And(args[0], args[1], args[2:]...), nil
		}
		return expr.Or(args[0], args[1], args[2:]...), nil
	case "not":
		operand, err := decodeExpr(v)
		if err != nil {
			return nil, err
		}
		return expr.Not(operand), nil
	case "cast":
		return decodeCast(v)
	case "if":
		args, err := decodeList(v, key)
		if err != nil {
			return nil, err
		}
		if len(args) != 3 {
			return nil, nodeError(v, "if takes [test, then, else], got %d operands", len(args))
		}
		return expr.If(args[0], args[1], args[2]), nil
	case "new":
		return decodeObject(v)
	}
	return nil, nodeError(es[0].key, "unknown expression %q", key)
}

func decodeList(n *yaml.Node, op string) ([]expr.Expr, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, nodeError(n, "%s takes a list of operands", op)
	}
	out := make([]expr.Expr, len(n.Content))
	for i, item := range n.Content {
		e, err := decodeExpr(item)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

func decodeCast(n *yaml.Node) (expr.Expr, error) {
	if n.Kind != yaml.MappingNode {
		return nil, nodeError(n, "cast takes {to: kind, value: expr}")
	}
	var kindNode, valueNode *yaml.Node
	for _, e := range entries(n) {
		switch e.key.Value {
		case "to":
			kindNode = e.value
		case "value":
			valueNode = e.value
		default:
			return nil, nodeError(e.key, "unknown cast key %q", e.key.Value)
		}
	}
	if kindNode == nil || valueNode == nil {
		return nil, nodeError(n, "cast takes {to: kind, value: expr}")
	}
	kind, ok := expr.ParseKind(kindNode.Value)
	if !ok {
		return nil, nodeError(kindNode, "unknown cast kind %q", kindNode.Value)
	}
	value, err := decodeExpr(valueNode)
	if err != nil {
		return nil, err
	}
	return expr.Convert(value, kind), nil
}

func hasKey(es []entry, key string) bool {
	for _, e := range es {
		if e.key.Value == key {
			return true
		}
	}
	return false
}

// decodeCall reads {call: Namespace.Name, target: expr, args: [...]}.
func decodeCall(es []entry) (expr.Expr, error) {
	var (
		sym    expr.Symbol
		target expr.Expr
		args   []expr.Expr
		err    error
	)
	for _, e := range es {
		switch e.key.Value {
		case "call":
			if e.value.Kind != yaml.ScalarNode || e.value.Value == "" {
				return nil, nodeError(e.value, "call takes a function symbol")
			}
			sym = funcs.ParseSymbol(e.value.Value)
		case "target":
			if target, err = decodeExpr(e.value); err != nil {
				return nil, err
			}
		case "args":
			if args, err = decodeList(e.value, "args"); err != nil {
				return nil, err
			}
		default:
			return nil, nodeError(e.key, "unknown call key %q", e.key.Value)
		}
	}
	if target != nil {
		return expr.Method(target, sym, args...), nil
	}
	return expr.CallFunc(sym, args...), nil
}

// decodeObject reads an ordered mapping of output name to expression.
func decodeObject(n *yaml.Node) (*expr.New, error) {
	if n.Kind != yaml.MappingNode || len(n.Content) == 0 {
		return nil, nodeError(n, "new takes a mapping of name to expression")
	}
	props := make([]expr.Prop, 0, len(n.Content)/2)
	for _, e := range entries(n) {
		if e.key.Value == "" {
			return nil, nodeError(e.key, "empty output name")
		}
		v, err := decodeExpr(e.value)
		if err != nil {
			return nil, err
		}
		props = append(props, expr.As(e.key.Value, v))
	}
	return expr.NewObject(props...), nil
}

// decodeProjection reads a select value: "*" (nil), an expression, or an
// output mapping. A mapping is an expression when it has a call key or a
// single operator key; a lone output column named like an operator needs
// an explicit {new: {...}}.
func decodeProjection(n *yaml.Node) (expr.Expr, error) {
	switch {
	case n.Kind == yaml.ScalarNode && n.Value == "*":
		return nil, nil
	case n.Kind == yaml.MappingNode && isExprMapping(n):
		return decodeExpr(n)
	case n.Kind == yaml.MappingNode:
		return decodeObject(n)
	}
	return decodeExpr(n)
}

func isExprMapping(n *yaml.Node) bool {
	es := entries(n)
	if hasKey(es, "call") {
		return true
	}
	return len(es) == 1 && isExprKey(es[0].key.Value)
}
