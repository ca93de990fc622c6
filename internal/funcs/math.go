package funcs

import "github.com/roach88/bqchain/internal/expr"

var (
	symAbs      = expr.Sym(NsMath, "Abs")
	symCeil     = expr.Sym(NsMath, "Ceil")
	symFloor    = expr.Sym(NsMath, "Floor")
	symRound    = expr.Sym(NsMath, "Round")
	symSqrt     = expr.Sym(NsMath, "Sqrt")
	symPow      = expr.Sym(NsMath, "Pow")
	symLn       = expr.Sym(NsMath, "Ln")
	symLog      = expr.Sym(NsMath, "Log")
	symLog2     = expr.Sym(NsMath, "Log2")
	symLog10    = expr.Sym(NsMath, "Log10")
	symExp      = expr.Sym(NsMath, "Exp")
	symPi       = expr.Sym(NsMath, "Pi")
	symRand     = expr.Sym(NsMath, "Rand")
	symSign     = expr.Sym(NsMath, "Sign")
	symGreatest = expr.Sym(NsMath, "Greatest")
	symLeast    = expr.Sym(NsMath, "Least")
)

func mathEntries() []Entry {
	return []Entry{
		fn(symAbs, "ABS", 1, 1),
		fn(symCeil, "CEIL", 1, 1),
		fn(symFloor, "FLOOR", 1, 1),
		fn(symRound, "ROUND", 1, 2),
		fn(symSqrt, "SQRT", 1, 1),
		fn(symPow, "POW", 2, 2),
		fn(symLn, "LN", 1, 1),
		fn(symLog, "LOG", 1, 1),
		fn(symLog2, "LOG2", 1, 1),
		fn(symLog10, "LOG10", 1, 1),
		fn(symExp, "EXP", 1, 1),
		fn(symPi, "PI", 0, 0),
		fn(symRand, "RAND", 0, 1),
		fn(symSign, "SIGN", 1, 1),
		fn(symGreatest, "GREATEST", 1, Variadic),
		fn(symLeast, "LEAST", 1, Variadic),
	}
}

func Abs(x expr.Expr) *expr.Call    { return expr.CallFunc(symAbs, x) }
func Ceil(x expr.Expr) *expr.Call   { return expr.CallFunc(symCeil, x) }
func Floor(x expr.Expr) *expr.Call  { return expr.CallFunc(symFloor, x) }
func Sqrt(x expr.Expr) *expr.Call   { return expr.CallFunc(symSqrt, x) }
func Pow(x, y expr.Expr) *expr.Call { return expr.CallFunc(symPow, x, y) }
func Ln(x expr.Expr) *expr.Call     { return expr.CallFunc(symLn, x) }
func Log(x expr.Expr) *expr.Call    { return expr.CallFunc(symLog, x) }
func Log2(x expr.Expr) *expr.Call   { return expr.CallFunc(symLog2, x) }
func Log10(x expr.Expr) *expr.Call  { return expr.CallFunc(symLog10, x) }
func Exp(x expr.Expr) *expr.Call    { return expr.CallFunc(symExp, x) }
func Pi() *expr.Call                { return expr.CallFunc(symPi) }
func Sign(x expr.Expr) *expr.Call   { return expr.CallFunc(symSign, x) }

// Round rounds x, optionally to a number of decimal places.
func Round(x expr.Expr, places ...expr.Expr) *expr.Call {
	return expr.CallFunc(symRound, append([]expr.Expr{x}, places...)...)
}

// Rand takes an optional seed.
func Rand(seed ...expr.Expr) *expr.Call { return expr.CallFunc(symRand, seed...) }

func Greatest(xs ...expr.Expr) *expr.Call { return expr.CallFunc(symGreatest, xs...) }
func Least(xs ...expr.Expr) *expr.Call    { return expr.CallFunc(symLeast, xs...) }
