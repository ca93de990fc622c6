package funcs

import "github.com/roach88/bqchain/internal/expr"

var (
	symIn                  = expr.Sym(NsComparison, "In")
	symNotIn               = expr.Sym(NsComparison, "NotIn")
	symBetween             = expr.Sym(NsComparison, "Between")
	symIsNull              = expr.Sym(NsComparison, "IsNull")
	symIsExplicitlyDefined = expr.Sym(NsComparison, "IsExplicitlyDefined")
	symIfNull              = expr.Sym(NsComparison, "IfNull")
	symCoalesce            = expr.Sym(NsComparison, "Coalesce")
	symIsInf               = expr.Sym(NsComparison, "IsInf")
	symIsNaN               = expr.Sym(NsComparison, "IsNaN")
)

func comparisonEntries() []Entry {
	return []Entry{
		custom(symIn, "IN", "x IN (a, b, ...)", 2, Variadic, inList("IN")),
		custom(symNotIn, "NOT IN", "x NOT IN (a, b, ...)", 2, Variadic, inList("NOT IN")),
		custom(symBetween, "BETWEEN", "x BETWEEN low AND high", 3, 3, betweenFormatter),
		fn(symIsNull, "ISNULL", 1, 1),
		fn(symIsExplicitlyDefined, "IS_EXPLICITLY_DEFINED", 1, 1),
		fn(symIfNull, "IFNULL", 2, 2),
		fn(symCoalesce, "COALESCE", 1, Variadic),
		fn(symIsInf, "IS_INF", 1, 1),
		fn(symIsNaN, "IS_NAN", 1, 1),
	}
}

// In tests x against a list of values: x IN (a, b, ...).
func In(x expr.Expr, values ...expr.Expr) *expr.Call {
	return expr.Method(x, symIn, values...)
}

// NotIn is the negation of In.
func NotIn(x expr.Expr, values ...expr.Expr) *expr.Call {
	return expr.Method(x, symNotIn, values...)
}

func Between(x, low, high expr.Expr) *expr.Call {
	return expr.Method(x, symBetween, low, high)
}

func IsNull(x expr.Expr) *expr.Call              { return expr.CallFunc(symIsNull, x) }
func IsExplicitlyDefined(x expr.Expr) *expr.Call { return expr.CallFunc(symIsExplicitlyDefined, x) }
func IfNull(x, fallback expr.Expr) *expr.Call    { return expr.CallFunc(symIfNull, x, fallback) }
func Coalesce(xs ...expr.Expr) *expr.Call        { return expr.CallFunc(symCoalesce, xs...) }
func IsInf(x expr.Expr) *expr.Call               { return expr.CallFunc(symIsInf, x) }
func IsNaN(x expr.Expr) *expr.Call               { return expr.CallFunc(symIsNaN, x) }
