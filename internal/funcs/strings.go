package funcs

import "github.com/roach88/bqchain/internal/expr"

var (
	symConcat   = expr.Sym(NsString, "Concat")
	symContains = expr.Sym(NsString, "Contains")
	symLength   = expr.Sym(NsString, "Length")
	symLower    = expr.Sym(NsString, "Lower")
	symUpper    = expr.Sym(NsString, "Upper")
	symLeft     = expr.Sym(NsString, "Left")
	symRight    = expr.Sym(NsString, "Right")
	symSubstr   = expr.Sym(NsString, "Substr")
	symInstr    = expr.Sym(NsString, "Instr")
	symLpad     = expr.Sym(NsString, "Lpad")
	symRpad     = expr.Sym(NsString, "Rpad")
	symLtrim    = expr.Sym(NsString, "Ltrim")
	symRtrim    = expr.Sym(NsString, "Rtrim")
	symReplace  = expr.Sym(NsString, "Replace")
	symSplit    = expr.Sym(NsString, "Split")

	symRegexpMatch   = expr.Sym(NsRegexp, "Match")
	symRegexpExtract = expr.Sym(NsRegexp, "Extract")
	symRegexpReplace = expr.Sym(NsRegexp, "Replace")
)

func stringEntries() []Entry {
	return []Entry{
		fn(symConcat, "CONCAT", 1, Variadic),
		custom(symContains, "CONTAINS", "x CONTAINS y", 2, 2, infix("CONTAINS")),
		fn(symLength, "LENGTH", 1, 1),
		fn(symLower, "LOWER", 1, 1),
		fn(symUpper, "UPPER", 1, 1),
		fn(symLeft, "LEFT", 2, 2),
		fn(symRight, "RIGHT", 2, 2),
		fn(symSubstr, "SUBSTR", 2, 3),
		fn(symInstr, "INSTR", 2, 2),
		fn(symLpad, "LPAD", 3, 3),
		fn(symRpad, "RPAD", 3, 3),
		fn(symLtrim, "LTRIM", 1, 2),
		fn(symRtrim, "RTRIM", 1, 2),
		fn(symReplace, "REPLACE", 3, 3),
		fn(symSplit, "SPLIT", 1, 2),
	}
}

func regexpEntries() []Entry {
	return []Entry{
		fn(symRegexpMatch, "REGEXP_MATCH", 2, 2),
		fn(symRegexpExtract, "REGEXP_EXTRACT", 2, 2),
		fn(symRegexpReplace, "REGEXP_REPLACE", 3, 3),
	}
}

func Concat(parts ...expr.Expr) *expr.Call { return expr.CallFunc(symConcat, parts...) }

// Contains is method-style: s.Contains(sub) renders as s CONTAINS sub.
func Contains(s, sub expr.Expr) *expr.Call { return expr.Method(s, symContains, sub) }

func Length(s expr.Expr) *expr.Call            { return expr.CallFunc(symLength, s) }
func Lower(s expr.Expr) *expr.Call             { return expr.CallFunc(symLower, s) }
func Upper(s expr.Expr) *expr.Call             { return expr.CallFunc(symUpper, s) }
func Left(s, n expr.Expr) *expr.Call           { return expr.CallFunc(symLeft, s, n) }
func Right(s, n expr.Expr) *expr.Call          { return expr.CallFunc(symRight, s, n) }
func Instr(s, sub expr.Expr) *expr.Call        { return expr.CallFunc(symInstr, s, sub) }
func Lpad(s, n, pad expr.Expr) *expr.Call      { return expr.CallFunc(symLpad, s, n, pad) }
func Rpad(s, n, pad expr.Expr) *expr.Call      { return expr.CallFunc(symRpad, s, n, pad) }
func Replace(s, from, to expr.Expr) *expr.Call { return expr.CallFunc(symReplace, s, from, to) }

func Substr(s, start expr.Expr, length ...expr.Expr) *expr.Call {
	return expr.CallFunc(symSubstr, append([]expr.Expr{s, start}, length...)...)
}

func Ltrim(s expr.Expr, chars ...expr.Expr) *expr.Call {
	return expr.CallFunc(symLtrim, append([]expr.Expr{s}, chars...)...)
}

func Rtrim(s expr.Expr, chars ...expr.Expr) *expr.Call {
	return expr.CallFunc(symRtrim, append([]expr.Expr{s}, chars...)...)
}

func Split(s expr.Expr, delim ...expr.Expr) *expr.Call {
	return expr.CallFunc(symSplit, append([]expr.Expr{s}, delim...)...)
}

func RegexpMatch(s, re expr.Expr) *expr.Call         { return expr.CallFunc(symRegexpMatch, s, re) }
func RegexpExtract(s, re expr.Expr) *expr.Call       { return expr.CallFunc(symRegexpExtract, s, re) }
func RegexpReplace(s, re, repl expr.Expr) *expr.Call { return expr.CallFunc(symRegexpReplace, s, re, repl) }
