package translate

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bqchain/internal/config"
	"github.com/roach88/bqchain/internal/expr"
	"github.com/roach88/bqchain/internal/funcs"
	"github.com/roach88/bqchain/internal/queryerr"
)

var (
	indented = Options{IndentSize: 2, Format: config.FormatIndent}
	flat     = Options{IndentSize: 2, Format: config.FormatFlat}
)

func render(t *testing.T, e expr.Expr) string {
	t.Helper()
	s, err := Translate(e, flat)
	require.NoError(t, err)
	return s
}

func TestBinary(t *testing.T) {
	a, b, c := expr.Field("a"), expr.Field("b"), expr.Field("c")

	tests := []struct {
		name string
		e    expr.Expr
		want string
	}{
		{"greater", expr.Gt(expr.Field("Age"), expr.Const(18)), "[Age] > 18"},
		{"and", expr.And(expr.Eq(a, expr.Const(1)), expr.Ne(b, expr.Const("x"))), "[a] = 1 AND [b] != 'x'"},
		{"and chain", expr.And(a, b, c), "[a] AND [b] AND [c]"},
		{"or under and", expr.And(expr.Or(a, b), c), "([a] OR [b]) AND [c]"},
		{"and under or", expr.Or(expr.And(a, b), c), "[a] AND [b] OR [c]"},
		{"sub right", expr.Sub(a, expr.Add(b, c)), "[a] - ([b] + [c])"},
		{"add right", expr.Add(a, expr.Add(b, c)), "[a] + [b] + [c]"},
		{"mul right mod", expr.Mul(a, expr.Mod(b, c)), "[a] * ([b] % [c])"},
		{"add under mul", expr.Mul(expr.Add(a, b), c), "([a] + [b]) * [c]"},
		{"arith under compare", expr.Eq(expr.Add(a, expr.Const(1)), expr.Const(2)), "[a] + 1 = 2"},
		{"compare under compare", expr.Eq(expr.Eq(a, b), c), "([a] = [b]) = [c]"},
		{"all comparisons", expr.And(expr.Lt(a, b), expr.Le(a, b), expr.Ge(a, b)), "[a] < [b] AND [a] <= [b] AND [a] >= [b]"},
		{"div", expr.Div(a, expr.Const(2)), "[a] / 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, render(t, tt.e))
		})
	}
}

func TestBinary_NullComparison(t *testing.T) {
	lefts := []expr.Expr{
		expr.Field("x"),
		expr.Field("a", "b"),
		funcs.Lower(expr.Field("s")),
		expr.Add(expr.Field("n"), expr.Const(1)),
	}

	for _, left := range lefts {
		isNull := render(t, expr.Eq(left, expr.Null()))
		assert.True(t, strings.HasSuffix(isNull, " IS NULL"), isNull)
		assert.NotContains(t, isNull, "= NULL")

		notNull := render(t, expr.Ne(left, expr.Null()))
		assert.True(t, strings.HasSuffix(notNull, " IS NOT NULL"), notNull)
		assert.NotContains(t, notNull, "!= NULL")
	}

	assert.Equal(t, "[x] IS NULL", render(t, expr.Eq(expr.Field("x"), expr.Null())))
	assert.Equal(t, "[x] IS NOT NULL", render(t, expr.Ne(expr.Field("x"), expr.Null())))

	var noDecimal *apd.Decimal
	assert.Equal(t, "[x] IS NULL", render(t, expr.Eq(expr.Field("x"), expr.Const(noDecimal))))
	assert.Equal(t, "[x] IS NOT NULL", render(t, expr.Ne(expr.Field("x"), expr.Const(noDecimal))))
	assert.Equal(t, "NULL", render(t, expr.Const(noDecimal)))
}

func TestBinary_UnsupportedOperators(t *testing.T) {
	for _, op := range []expr.BinaryOp{
		expr.OpXor, expr.OpCoalesce, expr.OpPower, expr.OpBitAnd,
		expr.OpBitOr, expr.OpShiftLeft, expr.OpShiftRight,
	} {
		t.Run(op.String(), func(t *testing.T) {
			_, err := Translate(expr.Op(op, expr.Field("a"), expr.Field("b")), flat)

			require.Error(t, err)
			assert.ErrorIs(t, err, queryerr.ErrUnsupportedOperator)
			assert.Contains(t, err.Error(), op.String())
		})
	}
}

func TestUnary_Not(t *testing.T) {
	a, b := expr.Field("a"), expr.Field("b")

	assert.Equal(t, "NOT [a]", render(t, expr.Not(a)))
	assert.Equal(t, "NOT [a] = 1", render(t, expr.Not(expr.Eq(a, expr.Const(1)))))
	assert.Equal(t, "NOT ([a] AND [b])", render(t, expr.Not(expr.And(a, b))))
	assert.Equal(t, "NOT [a] AND [b]", render(t, expr.And(expr.Not(a), b)))
	assert.Equal(t, "(NOT [a]) = true", render(t, expr.Eq(expr.Not(a), expr.Const(true))))
}

func TestUnary_Unsupported(t *testing.T) {
	_, err := Translate(expr.Negate(expr.Field("a")), flat)
	assert.ErrorIs(t, err, queryerr.ErrUnsupportedOperator)

	_, err = Translate(&expr.Unary{Op: expr.OpBitNot, Operand: expr.Field("a")}, flat)
	assert.ErrorIs(t, err, queryerr.ErrUnsupportedOperator)
}

func TestUnary_Convert(t *testing.T) {
	x := expr.Field("x")

	tests := []struct {
		kind expr.Kind
		want string
	}{
		{expr.KindBool, "BOOLEAN([x])"},
		{expr.KindInt16, "INTEGER([x])"},
		{expr.KindInt32, "INTEGER([x])"},
		{expr.KindInt64, "INTEGER([x])"},
		{expr.KindFloat32, "FLOAT([x])"},
		{expr.KindFloat64, "FLOAT([x])"},
		{expr.KindString, "STRING([x])"},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, render(t, expr.Convert(x, tt.kind)))
		})
	}

	for _, kind := range []expr.Kind{expr.KindTime, expr.KindUint8, expr.KindDecimal, expr.KindRecord} {
		_, err := Translate(expr.Convert(x, kind), flat)
		assert.ErrorIs(t, err, queryerr.ErrUnsupportedCast, kind.String())
	}
}

func TestMember(t *testing.T) {
	assert.Equal(t, "[Name]", render(t, expr.Field("Name")))
	assert.Equal(t, "[a].[b].[c]", render(t, expr.Field("a", "b", "c")))

	_, err := Translate(&expr.Member{Target: expr.Const(1), Name: "x"}, flat)
	assert.ErrorIs(t, err, queryerr.ErrUnsupportedOperator)
}

func TestConstant(t *testing.T) {
	dec, _, err := apd.NewFromString("12.3400")
	require.NoError(t, err)

	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"true", true, "true"},
		{"false", false, "false"},
		{"null", nil, "NULL"},
		{"string", "bob", "'bob'"},
		{"quote escaped", "it's", `'it\'s'`},
		{"backslash escaped", `a\b`, `'a\\b'`},
		{"nfc", "e\u0301", "'\u00e9'"},
		{"char", expr.Char('x'), "'x'"},
		{"rune is a number", 'x', "120"},
		{"int", 7, "7"},
		{"negative int64", int64(-42), "-42"},
		{"uint8", uint8(255), "255"},
		{"uint64", uint64(math.MaxUint64), "18446744073709551615"},
		{"float", 1.5, "1.5"},
		{"large float", 1e21, "1000000000000000000000"},
		{"float32", float32(0.1), "0.1"},
		{"decimal", *dec, "12.3400"},
		{"decimal pointer", dec, "12.3400"},
		{"time", time.Date(2024, 3, 1, 12, 30, 0, 500_000_000, time.FixedZone("CET", 3600)), "TIMESTAMP('2024-03-01 11:30:00.500000')"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, render(t, expr.Const(tt.value)))
		})
	}
}

func TestConstant_Unsupported(t *testing.T) {
	inf, _, err := apd.NewFromString("Infinity")
	require.NoError(t, err)

	for name, v := range map[string]any{
		"struct":      struct{}{},
		"slice":       []int{1},
		"nan":         math.NaN(),
		"inf":         math.Inf(1),
		"decimal inf": inf,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Translate(expr.Const(v), flat)
			assert.ErrorIs(t, err, queryerr.ErrUnsupportedConstant)
		})
	}
}

func TestConstant_NestedRecord(t *testing.T) {
	rec := expr.NewObject(expr.As("x", expr.Const(1)), expr.As("y", expr.Field("y")))

	assert.Equal(t, "1 AS [x], [y]", render(t, expr.Const(rec)))
}

func TestCall(t *testing.T) {
	a, b := expr.Field("a"), expr.Field("b")

	tests := []struct {
		name string
		e    expr.Expr
		want string
	}{
		{"default form", funcs.Abs(a), "ABS([a])"},
		{"nullary", funcs.Pi(), "PI()"},
		{"variadic", funcs.Concat(a, expr.Const("-"), b), "CONCAT([a], '-', [b])"},
		{"nested argument", funcs.Abs(expr.Add(a, expr.Const(1))), "ABS([a] + 1)"},
		{"nested call", funcs.Upper(funcs.Substr(a, expr.Const(1), expr.Const(3))), "UPPER(SUBSTR([a], 1, 3))"},
		{"receiver first", expr.Method(a, expr.Sym(funcs.NsString, "Lower")), "LOWER([a])"},
		{"count star", funcs.Count(), "COUNT(*)"},
		{"infix", funcs.Contains(expr.Field("Name"), expr.Const("bob")), "[Name] CONTAINS 'bob'"},
		{"in list", funcs.In(a, expr.Const(1), expr.Const(2)), "[a] IN (1, 2)"},
		{"date add", funcs.DateAdd(funcs.Now(), expr.Const(-1), "DAY"), `DATE_ADD(NOW(), -1, "DAY")`},
		{"within", funcs.WithinRecord(funcs.Count(expr.Field("children", "name"))), "COUNT([children].[name]) WITHIN RECORD"},
		{"in predicate", expr.And(funcs.Between(a, expr.Const(1), expr.Const(5)), expr.Gt(b, expr.Const(0))), "[a] BETWEEN 1 AND 5 AND [b] > 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, render(t, tt.e))
		})
	}
}

func TestCall_UnknownFunction(t *testing.T) {
	_, err := Translate(expr.CallFunc(expr.Sym("Geo", "Distance"), expr.Field("a")), flat)

	require.Error(t, err)
	assert.ErrorIs(t, err, queryerr.ErrUnknownFunction)
	assert.Contains(t, err.Error(), "Geo.Distance")
}

func TestCall_ArityChecked(t *testing.T) {
	_, err := Translate(expr.CallFunc(expr.Sym(funcs.NsMath, "Abs")), flat)
	assert.ErrorIs(t, err, queryerr.ErrInvalidArgument)

	_, err = Translate(expr.CallFunc(expr.Sym(funcs.NsMath, "Pi"), expr.Const(1)), flat)
	assert.ErrorIs(t, err, queryerr.ErrInvalidArgument)
}

func TestCall_ArgumentErrorPropagates(t *testing.T) {
	_, err := Translate(funcs.Abs(expr.Op(expr.OpXor, expr.Field("a"), expr.Field("b"))), flat)

	require.Error(t, err)
	assert.ErrorIs(t, err, queryerr.ErrUnsupportedOperator)
	assert.Contains(t, err.Error(), "argument 1 of Math.Abs")
}

func TestCall_CustomRegistry(t *testing.T) {
	sym := expr.Sym("Geo", "Distance")
	reg := funcs.NewRegistry(funcs.Entry{Symbol: sym, Rule: funcs.Rule{Name: "ST_DISTANCE", MinArgs: 2, MaxArgs: 2}})
	opts := flat
	opts.Registry = reg

	got, err := Translate(expr.CallFunc(sym, expr.Field("p"), expr.Field("q")), opts)
	require.NoError(t, err)
	assert.Equal(t, "ST_DISTANCE([p], [q])", got)

	_, err = Translate(funcs.Abs(expr.Field("a")), opts)
	assert.ErrorIs(t, err, queryerr.ErrUnknownFunction)
}

func TestConditional_Single(t *testing.T) {
	got := render(t, expr.If(expr.Gt(expr.Field("a"), expr.Const(1)), expr.Const("x"), expr.Const("y")))

	assert.Equal(t, "IF([a] > 1, 'x', 'y')", got)
}

func TestConditional_Chain(t *testing.T) {
	a := expr.Field("a")
	e := expr.If(expr.Gt(a, expr.Const(1)), expr.Const("x"),
		expr.If(expr.Gt(a, expr.Const(0)), expr.Const("y"), expr.Const("z")))

	assert.Equal(t, "CASE WHEN [a] > 1 THEN 'x' WHEN [a] > 0 THEN 'y' ELSE 'z' END", render(t, e))
}

func TestConditional_ChainHasOneWhenPerBranch(t *testing.T) {
	for branches := 2; branches <= 6; branches++ {
		var e expr.Expr = expr.Const("last")
		for i := branches; i > 0; i-- {
			e = expr.If(expr.Eq(expr.Field("k"), expr.Const(i)), expr.Const(i*10), e)
		}

		got := render(t, e)

		assert.True(t, strings.HasPrefix(got, "CASE WHEN "), got)
		assert.True(t, strings.HasSuffix(got, " ELSE 'last' END"), got)
		assert.Equal(t, branches, strings.Count(got, " WHEN "))
		assert.Equal(t, 1, strings.Count(got, " ELSE "))
		assert.NotContains(t, got, "IF(")
	}
}

func TestConditional_NestedInTrueBranchStaysIF(t *testing.T) {
	a := expr.Field("a")
	e := expr.If(expr.Gt(a, expr.Const(1)),
		expr.If(expr.Gt(a, expr.Const(2)), expr.Const(2), expr.Const(1)),
		expr.Const(0))

	assert.Equal(t, "IF([a] > 1, IF([a] > 2, 2, 1), 0)", render(t, e))
}

func TestNew_Indented(t *testing.T) {
	obj := expr.NewObject(
		expr.As("Name", expr.Field("Name")),
		expr.As("Years", expr.Field("Age")),
		expr.As("Adult", expr.Ge(expr.Field("Age"), expr.Const(18))),
	)
	opts := indented
	opts.Depth = 1

	got, err := Translate(obj, opts)

	require.NoError(t, err)
	assert.Equal(t, "  [Name],\n  [Age] AS [Years],\n  [Age] >= 18 AS [Adult]", got)
}

func TestNew_Flat(t *testing.T) {
	obj := expr.NewObject(
		expr.As("Name", expr.Field("Name")),
		expr.As("Years", expr.Field("Age")),
	)

	assert.Equal(t, "[Name], [Age] AS [Years]", render(t, obj))
}

func TestNew_ElidesOnlyExactPassthrough(t *testing.T) {
	obj := expr.NewObject(
		expr.As("b", expr.Field("a", "b")),
		expr.As("c", funcs.Lower(expr.Field("c"))),
	)

	assert.Equal(t, "[a].[b] AS [b], LOWER([c]) AS [c]", render(t, obj))
}

func TestNew_Invalid(t *testing.T) {
	_, err := Translate(expr.NewObject(), flat)
	assert.ErrorIs(t, err, queryerr.ErrInvalidArgument)

	_, err = Translate(expr.NewObject(expr.As("", expr.Field("a"))), flat)
	assert.ErrorIs(t, err, queryerr.ErrInvalidArgument)
}

func TestIsolated_LeavesBufferUntouched(t *testing.T) {
	tr := New(indented)
	require.NoError(t, tr.Visit(expr.Field("a")))

	s, err := tr.Isolated(expr.And(expr.Field("b"), expr.Field("c")))

	require.NoError(t, err)
	assert.Equal(t, "[b] AND [c]", s)
	assert.Equal(t, "[a]", tr.String())
}

func TestTranslate_NoPartialText(t *testing.T) {
	e := expr.And(expr.Gt(expr.Field("a"), expr.Const(1)), expr.Op(expr.OpXor, expr.Field("b"), expr.Field("c")))

	got, err := Translate(e, flat)

	assert.Error(t, err)
	assert.Empty(t, got)
}

func TestTranslate_NilExpression(t *testing.T) {
	_, err := Translate(nil, flat)
	assert.ErrorIs(t, err, queryerr.ErrInvalidArgument)
}

func TestClause(t *testing.T) {
	pred := expr.Gt(expr.Field("Age"), expr.Const(18))

	got, err := Clause("WHERE", pred, indented)
	require.NoError(t, err)
	assert.Equal(t, "WHERE\n  [Age] > 18", got)

	deeper := indented
	deeper.Depth = 1
	got, err = Clause("WHERE", pred, deeper)
	require.NoError(t, err)
	assert.Equal(t, "  WHERE\n    [Age] > 18", got)

	got, err = Clause("WHERE", pred, flat)
	require.NoError(t, err)
	assert.Equal(t, "WHERE [Age] > 18", got)
}

func TestClause_ObjectBodyIndentsFields(t *testing.T) {
	obj := expr.NewObject(expr.As("Name", expr.Field("Name")), expr.As("Years", expr.Field("Age")))

	got, err := Clause("SELECT", obj, indented)

	require.NoError(t, err)
	assert.Equal(t, "SELECT\n  [Name],\n  [Age] AS [Years]", got)
}

func TestOptions_Indent(t *testing.T) {
	assert.Equal(t, "    ", Options{IndentSize: 2}.Indent(2))
	assert.Equal(t, "", Options{IndentSize: 2, Format: config.FormatFlat}.Indent(2))
	assert.Equal(t, "", Options{IndentSize: 0}.Indent(3))
}
