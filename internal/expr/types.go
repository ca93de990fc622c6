package expr

import "fmt"

// Expr is a node of the expression tree.
//
// This is a sealed interface - only types in this package implement it.
type Expr interface {
	exprNode() // Marker method - seals interface to this package
}

// Constant is a literal value.
//
// Supported values: nil, bool, string, Char, signed/unsigned integers,
// float32/float64, time.Time, apd.Decimal / *apd.Decimal, and *New for a
// nested record literal. Anything else fails translation.
type Constant struct {
	Value any
}

func (*Constant) exprNode() {}

// Char is a single character literal. It is distinct from int32 so that
// rune-typed numbers still render as numbers.
type Char rune

// Member is a field access.
//
// Target nil means the field belongs to the current row. A *Member target
// means record-of-record access: Field("a", "b", "c") is
//
//	&Member{Target: &Member{Target: &Member{Name: "a"}, Name: "b"}, Name: "c"}
type Member struct {
	Target Expr
	Name   string
}

func (*Member) exprNode() {}

// Path returns the access path root-to-leaf, and false if the chain ends in
// something other than the row root.
func (m *Member) Path() ([]string, bool) {
	var rev []string
	var next Expr = m
	for next != nil {
		cur, ok := next.(*Member)
		if !ok {
			return nil, false
		}
		rev = append(rev, cur.Name)
		next = cur.Target
	}

	path := make([]string, len(rev))
	for i, name := range rev {
		path[len(rev)-1-i] = name
	}
	return path, true
}

// Unary is a single-operand expression.
//
// For Op == OpConvert, Type is the conversion target.
type Unary struct {
	Op      UnaryOp
	Operand Expr
	Type    Kind
}

func (*Unary) exprNode() {}

// Binary is a two-operand expression.
type Binary struct {
	Op    BinaryOp
	Left  Expr
	Right Expr
}

func (*Binary) exprNode() {}

// Symbol identifies a function: the namespace that declares it plus its
// name. The function registry maps symbols to emission rules.
type Symbol struct {
	Namespace string
	Name      string
}

// String returns "Namespace.Name".
func (s Symbol) String() string {
	if s.Namespace == "" {
		return s.Name
	}
	return s.Namespace + "." + s.Name
}

// Call is a function or method call.
//
// Target is the receiver for method-style calls (nil for plain functions).
// When present it is emitted as the first argument.
type Call struct {
	Target Expr
	Func   Symbol
	Args   []Expr
}

func (*Call) exprNode() {}

// Operands returns the receiver (if any) followed by Args.
func (c *Call) Operands() []Expr {
	if c.Target == nil {
		return c.Args
	}
	ops := make([]Expr, 0, len(c.Args)+1)
	ops = append(ops, c.Target)
	return append(ops, c.Args...)
}

// Conditional is test ? IfTrue : IfFalse.
type Conditional struct {
	Test    Expr
	IfTrue  Expr
	IfFalse Expr
}

func (*Conditional) exprNode() {}

// Prop is one named value of an object construction.
type Prop struct {
	Name  string
	Value Expr
}

// New is an object construction (anonymous projection). Field order is
// significant and preserved in output.
type New struct {
	Fields []Prop
}

func (*New) exprNode() {}

// Describe returns a short description of a node for error messages.
func Describe(e Expr) string {
	switch n := e.(type) {
	case nil:
		return "<nil>"
	case *Constant:
		return fmt.Sprintf("constant %T", n.Value)
	case *Member:
		if path, ok := n.Path(); ok {
			return fmt.Sprintf("member %v", path)
		}
		return "member " + n.Name
	case *Unary:
		return "unary " + n.Op.String()
	case *Binary:
		return "binary " + n.Op.String()
	case *Call:
		return "call " + n.Func.String()
	case *Conditional:
		return "conditional"
	case *New:
		return "new"
	default:
		return fmt.Sprintf("%T", e)
	}
}
