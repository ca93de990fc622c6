package expr

import "reflect"

// Field builds a member access for a root-to-leaf path.
// Field("a", "b") is a.b. Panics on an empty path.
func Field(path ...string) *Member {
	if len(path) == 0 {
		panic("expr.Field: empty path")
	}
	m := &Member{Name: path[0]}
	for _, name := range path[1:] {
		m = &Member{Target: m, Name: name}
	}
	return m
}

// Const builds a constant.
func Const(v any) *Constant {
	return &Constant{Value: v}
}

// Null builds the NULL constant.
func Null() *Constant {
	return &Constant{Value: nil}
}

// IsNull reports whether e is the NULL constant.
func IsNull(e Expr) bool {
	c, ok := e.(*Constant)
	return ok && IsNullValue(c.Value)
}

// IsNullValue reports whether a constant value means NULL: nil itself or
// a typed nil pointer such as (*apd.Decimal)(nil).
func IsNullValue(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

func binary(op BinaryOp, l, r Expr) *Binary {
	return &Binary{Op: op, Left: l, Right: r}
}

func Eq(l, r Expr) *Binary  { return binary(OpEq, l, r) }
func Ne(l, r Expr) *Binary  { return binary(OpNe, l, r) }
func Lt(l, r Expr) *Binary  { return binary(OpLt, l, r) }
func Le(l, r Expr) *Binary  { return binary(OpLe, l, r) }
func Gt(l, r Expr) *Binary  { return binary(OpGt, l, r) }
func Ge(l, r Expr) *Binary  { return binary(OpGe, l, r) }
func Add(l, r Expr) *Binary { return binary(OpAdd, l, r) }
func Sub(l, r Expr) *Binary { return binary(OpSub, l, r) }
func Mul(l, r Expr) *Binary { return binary(OpMul, l, r) }
func Div(l, r Expr) *Binary { return binary(OpDiv, l, r) }
func Mod(l, r Expr) *Binary { return binary(OpMod, l, r) }

// Op builds a binary node for any operator, including untranslatable ones.
func Op(op BinaryOp, l, r Expr) *Binary { return binary(op, l, r) }

// And left-folds its operands: And(a, b, c) is (a AND b) AND c.
func And(first, second Expr, rest ...Expr) *Binary {
	return fold(OpAnd, first, second, rest)
}

// Or left-folds its operands.
func Or(first, second Expr, rest ...Expr) *Binary {
	return fold(OpOr, first, second, rest)
}

func fold(op BinaryOp, first, second Expr, rest []Expr) *Binary {
	acc := binary(op, first, second)
	for _, e := range rest {
		acc = binary(op, acc, e)
	}
	return acc
}

// Not builds a logical negation.
func Not(e Expr) *Unary {
	return &Unary{Op: OpNot, Operand: e}
}

// Negate builds an arithmetic negation.
func Negate(e Expr) *Unary {
	return &Unary{Op: OpNegate, Operand: e}
}

// Convert builds a cast of e to kind.
func Convert(e Expr, kind Kind) *Unary {
	return &Unary{Op: OpConvert, Operand: e, Type: kind}
}

// If builds a conditional. Nest If in ifFalse to build an else-if chain.
func If(test, ifTrue, ifFalse Expr) *Conditional {
	return &Conditional{Test: test, IfTrue: ifTrue, IfFalse: ifFalse}
}

// CallFunc builds a plain function call.
func CallFunc(fn Symbol, args ...Expr) *Call {
	return &Call{Func: fn, Args: args}
}

// Method builds a method-style call on target.
func Method(target Expr, fn Symbol, args ...Expr) *Call {
	return &Call{Target: target, Func: fn, Args: args}
}

// As is a shorthand for Prop construction inside NewObject.
// Example: NewObject(As("name", Field("Name")), As("n", Const(1)))
func As(name string, value Expr) Prop {
	return Prop{Name: name, Value: value}
}

// NewObject builds an object construction from ordered fields.
func NewObject(fields ...Prop) *New {
	return &New{Fields: fields}
}

// Sym is a shorthand for Symbol construction.
func Sym(namespace, name string) Symbol {
	return Symbol{Namespace: namespace, Name: name}
}
