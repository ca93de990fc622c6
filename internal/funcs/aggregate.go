package funcs

import "github.com/roach88/bqchain/internal/expr"

// Namespaces of the built-in catalog.
const (
	NsAggregate  = "Aggregate"
	NsString     = "String"
	NsRegexp     = "Regexp"
	NsMath       = "Math"
	NsDateTime   = "DateTime"
	NsComparison = "Comparison"
	NsJSON       = "JSON"
	NsURL        = "URL"
	NsIP         = "IP"
	NsOther      = "Other"
)

var (
	symAvg                 = expr.Sym(NsAggregate, "Avg")
	symCount               = expr.Sym(NsAggregate, "Count")
	symCountDistinct       = expr.Sym(NsAggregate, "CountDistinct")
	symExactCountDistinct  = expr.Sym(NsAggregate, "ExactCountDistinct")
	symSum                 = expr.Sym(NsAggregate, "Sum")
	symMin                 = expr.Sym(NsAggregate, "Min")
	symMax                 = expr.Sym(NsAggregate, "Max")
	symFirst               = expr.Sym(NsAggregate, "First")
	symLast                = expr.Sym(NsAggregate, "Last")
	symNth                 = expr.Sym(NsAggregate, "Nth")
	symGroupConcat         = expr.Sym(NsAggregate, "GroupConcat")
	symGroupConcatUnquoted = expr.Sym(NsAggregate, "GroupConcatUnquoted")
	symStdDev              = expr.Sym(NsAggregate, "StdDev")
	symVariance            = expr.Sym(NsAggregate, "Variance")
	symQuantiles           = expr.Sym(NsAggregate, "Quantiles")
	symTop                 = expr.Sym(NsAggregate, "Top")
	symCorr                = expr.Sym(NsAggregate, "Corr")
	symCovarPop            = expr.Sym(NsAggregate, "CovarPop")
	symWithin              = expr.Sym(NsAggregate, "Within")
)

func aggregateEntries() []Entry {
	return []Entry{
		fn(symAvg, "AVG", 1, 1),
		custom(symCount, "COUNT", "COUNT(*) | COUNT(x)", 0, 1, countFormatter),
		custom(symCountDistinct, "COUNT", "COUNT(DISTINCT x[, n])", 1, 2, countDistinctFormatter),
		fn(symExactCountDistinct, "EXACT_COUNT_DISTINCT", 1, 1),
		fn(symSum, "SUM", 1, 1),
		fn(symMin, "MIN", 1, 1),
		fn(symMax, "MAX", 1, 1),
		fn(symFirst, "FIRST", 1, 1),
		fn(symLast, "LAST", 1, 1),
		fn(symNth, "NTH", 2, 2),
		fn(symGroupConcat, "GROUP_CONCAT", 1, 2),
		fn(symGroupConcatUnquoted, "GROUP_CONCAT_UNQUOTED", 1, 2),
		fn(symStdDev, "STDDEV", 1, 1),
		fn(symVariance, "VARIANCE", 1, 1),
		fn(symQuantiles, "QUANTILES", 1, 2),
		fn(symTop, "TOP", 1, 3),
		fn(symCorr, "CORR", 2, 2),
		fn(symCovarPop, "COVAR_POP", 2, 2),
		custom(symWithin, "WITHIN", "agg WITHIN RECORD | agg WITHIN [field]", 2, 2, withinFormatter),
	}
}

func Avg(x expr.Expr) *expr.Call { return expr.CallFunc(symAvg, x) }

// Count counts rows when called without arguments (COUNT(*)).
func Count(x ...expr.Expr) *expr.Call { return expr.CallFunc(symCount, x...) }

// CountDistinct takes the field and an optional approximation threshold.
func CountDistinct(x expr.Expr, threshold ...expr.Expr) *expr.Call {
	return expr.CallFunc(symCountDistinct, append([]expr.Expr{x}, threshold...)...)
}

func ExactCountDistinct(x expr.Expr) *expr.Call { return expr.CallFunc(symExactCountDistinct, x) }
func Sum(x expr.Expr) *expr.Call                { return expr.CallFunc(symSum, x) }
func Min(x expr.Expr) *expr.Call                { return expr.CallFunc(symMin, x) }
func Max(x expr.Expr) *expr.Call                { return expr.CallFunc(symMax, x) }
func First(x expr.Expr) *expr.Call              { return expr.CallFunc(symFirst, x) }
func Last(x expr.Expr) *expr.Call               { return expr.CallFunc(symLast, x) }
func Nth(n, x expr.Expr) *expr.Call             { return expr.CallFunc(symNth, n, x) }
func StdDev(x expr.Expr) *expr.Call             { return expr.CallFunc(symStdDev, x) }
func Variance(x expr.Expr) *expr.Call           { return expr.CallFunc(symVariance, x) }
func Corr(x, y expr.Expr) *expr.Call            { return expr.CallFunc(symCorr, x, y) }
func CovarPop(x, y expr.Expr) *expr.Call        { return expr.CallFunc(symCovarPop, x, y) }

func GroupConcat(x expr.Expr, sep ...expr.Expr) *expr.Call {
	return expr.CallFunc(symGroupConcat, append([]expr.Expr{x}, sep...)...)
}

func GroupConcatUnquoted(x expr.Expr, sep ...expr.Expr) *expr.Call {
	return expr.CallFunc(symGroupConcatUnquoted, append([]expr.Expr{x}, sep...)...)
}

func Quantiles(x expr.Expr, buckets ...expr.Expr) *expr.Call {
	return expr.CallFunc(symQuantiles, append([]expr.Expr{x}, buckets...)...)
}

func Top(x expr.Expr, rest ...expr.Expr) *expr.Call {
	return expr.CallFunc(symTop, append([]expr.Expr{x}, rest...)...)
}

// WithinRecord scopes an aggregate to each record.
func WithinRecord(agg *expr.Call) *expr.Call {
	return expr.CallFunc(symWithin, agg, expr.Const("RECORD"))
}

// WithinField scopes an aggregate to a repeated field.
func WithinField(agg *expr.Call, field *expr.Member) *expr.Call {
	return expr.CallFunc(symWithin, agg, field)
}
