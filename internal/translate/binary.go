package translate

import (
	"github.com/roach88/bqchain/internal/expr"
	"github.com/roach88/bqchain/internal/queryerr"
)

type binaryRule struct {
	token string
	prec  int
	assoc bool
}

const (
	precOr = iota + 1
	precAnd
	precNot
	precCompare
	precAdditive
	precMultiplicative
)

var binaryRules = map[expr.BinaryOp]binaryRule{
	expr.OpOr:  {"OR", precOr, true},
	expr.OpAnd: {"AND", precAnd, true},
	expr.OpEq:  {"=", precCompare, false},
	expr.OpNe:  {"!=", precCompare, false},
	expr.OpLt:  {"<", precCompare, false},
	expr.OpLe:  {"<=", precCompare, false},
	expr.OpGt:  {">", precCompare, false},
	expr.OpGe:  {">=", precCompare, false},
	expr.OpAdd: {"+", precAdditive, true},
	expr.OpSub: {"-", precAdditive, false},
	expr.OpMul: {"*", precMultiplicative, true},
	expr.OpDiv: {"/", precMultiplicative, false},
	expr.OpMod: {"%", precMultiplicative, false},
}

func (t *Translator) visitBinary(b *expr.Binary) error {
	rule, ok := binaryRules[b.Op]
	if !ok {
		return queryerr.UnsupportedOperator(expr.Describe(b))
	}

	// Comparisons against NULL become IS [NOT] NULL; the NULL itself is
	// never printed.
	if expr.IsNull(b.Right) && (b.Op == expr.OpEq || b.Op == expr.OpNe) {
		if err := t.operand(b.Left, b.Op, rule, false); err != nil {
			return err
		}
		if b.Op == expr.OpEq {
			t.buf.WriteString(" IS NULL")
		} else {
			t.buf.WriteString(" IS NOT NULL")
		}
		return nil
	}

	if err := t.operand(b.Left, b.Op, rule, false); err != nil {
		return err
	}
	t.buf.WriteString(" " + rule.token + " ")
	return t.operand(b.Right, b.Op, rule, true)
}

// operand renders one side of a binary node, parenthesizing it when the
// child binds looser than the parent. At equal precedence the child is
// wrapped on the right unless both use the same associative operator, and
// on both sides for comparisons.
func (t *Translator) operand(child expr.Expr, parentOp expr.BinaryOp, parent binaryRule, right bool) error {
	prec := childPrec(child)
	if prec == 0 {
		return t.Visit(child)
	}

	wrap := prec < parent.prec
	if prec == parent.prec {
		switch {
		case parent.prec == precCompare:
			wrap = true
		case right:
			cb := child.(*expr.Binary)
			wrap = !(parent.assoc && cb.Op == parentOp)
		}
	}

	if wrap {
		return t.parenthesized(child)
	}
	return t.Visit(child)
}

// childPrec returns the binding strength of a node printed as an operand,
// or 0 if it never needs parentheses.
func childPrec(e expr.Expr) int {
	switch n := e.(type) {
	case *expr.Binary:
		if rule, ok := binaryRules[n.Op]; ok {
			return rule.prec
		}
	case *expr.Unary:
		if n.Op == expr.OpNot {
			return precNot
		}
	}
	return 0
}
