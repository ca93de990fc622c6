package funcs

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bqchain/internal/expr"
	"github.com/roach88/bqchain/internal/queryerr"
)

// stubArgs renders members as [name] and constants with %v.
type stubArgs struct{}

func (stubArgs) Isolated(e expr.Expr) (string, error) {
	switch n := e.(type) {
	case *expr.Member:
		return "[" + n.Name + "]", nil
	case *expr.Constant:
		return fmt.Sprintf("%v", n.Value), nil
	case *expr.Call:
		return n.Func.Name + "()", nil
	default:
		return "", queryerr.UnsupportedOperator(expr.Describe(e))
	}
}

func format(t *testing.T, call *expr.Call) (string, error) {
	t.Helper()
	rule, ok := Default().Lookup(call.Func)
	require.True(t, ok, "missing %s", call.Func)
	require.NoError(t, rule.CheckArity(call.Func, len(call.Operands())))
	require.NotNil(t, rule.Formatter, "%s has no formatter", call.Func)
	return rule.Formatter.Format(call, stubArgs{})
}

func TestDefault_HasNoDuplicates(t *testing.T) {
	assert.NotPanics(t, func() { NewRegistry(catalog()...) })
	assert.Equal(t, len(catalog()), Default().Len())
}

func TestDefault_IsShared(t *testing.T) {
	assert.Same(t, Default(), Default())
}

func TestLookup_Miss(t *testing.T) {
	_, ok := Default().Lookup(expr.Sym("Math", "Nope"))
	assert.False(t, ok)
}

func TestNewRegistry_DuplicatePanics(t *testing.T) {
	e := fn(symAbs, "ABS", 1, 1)
	assert.Panics(t, func() { NewRegistry(e, e) })
}

func TestWith_CopiesAndOverrides(t *testing.T) {
	base := NewRegistry(fn(symAbs, "ABS", 1, 1))
	ext := base.With(fn(symAbs, "MY_ABS", 1, 1), fn(symSqrt, "SQRT", 1, 1))

	rule, _ := base.Lookup(symAbs)
	assert.Equal(t, "ABS", rule.Name)
	assert.Equal(t, 1, base.Len())

	rule, _ = ext.Lookup(symAbs)
	assert.Equal(t, "MY_ABS", rule.Name)
	assert.Equal(t, 2, ext.Len())
}

func TestSymbols_Sorted(t *testing.T) {
	r := NewRegistry(fn(symSqrt, "SQRT", 1, 1), fn(symAvg, "AVG", 1, 1), fn(symAbs, "ABS", 1, 1))

	got := r.Symbols()

	require.Len(t, got, 3)
	assert.Equal(t, "Aggregate.Avg", got[0].String())
	assert.Equal(t, "Math.Abs", got[1].String())
	assert.Equal(t, "Math.Sqrt", got[2].String())
}

func TestRule_CheckArity(t *testing.T) {
	tests := []struct {
		name    string
		rule    Rule
		n       int
		wantErr bool
	}{
		{"exact ok", Rule{MinArgs: 2, MaxArgs: 2}, 2, false},
		{"exact short", Rule{MinArgs: 2, MaxArgs: 2}, 1, true},
		{"range high", Rule{MinArgs: 1, MaxArgs: 3}, 4, true},
		{"variadic many", Rule{MinArgs: 1, MaxArgs: Variadic}, 12, false},
		{"variadic none", Rule{MinArgs: 1, MaxArgs: Variadic}, 0, true},
		{"nullary", Rule{MinArgs: 0, MaxArgs: 0}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule.CheckArity(symAbs, tt.n)
			if tt.wantErr {
				assert.ErrorIs(t, err, queryerr.ErrInvalidArgument)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRule_ArityString(t *testing.T) {
	assert.Equal(t, "2", Rule{MinArgs: 2, MaxArgs: 2}.ArityString())
	assert.Equal(t, "1..3", Rule{MinArgs: 1, MaxArgs: 3}.ArityString())
	assert.Equal(t, "1+", Rule{MinArgs: 1, MaxArgs: Variadic}.ArityString())
}

func TestRule_Describe(t *testing.T) {
	rule, _ := Default().Lookup(symAbs)
	assert.Equal(t, "ABS(...)", rule.Describe())

	rule, _ = Default().Lookup(symContains)
	assert.Equal(t, "x CONTAINS y", rule.Describe())
}

func TestFormatters(t *testing.T) {
	tests := []struct {
		name string
		call *expr.Call
		want string
	}{
		{"count star", Count(), "COUNT(*)"},
		{"count field", Count(expr.Field("id")), "COUNT([id])"},
		{"count distinct", CountDistinct(expr.Field("id")), "COUNT(DISTINCT [id])"},
		{"count distinct threshold", CountDistinct(expr.Field("id"), expr.Const(1000)), "COUNT(DISTINCT [id], 1000)"},
		{"contains", Contains(expr.Field("Name"), expr.Const("x")), "[Name] CONTAINS x"},
		{"in", In(expr.Field("k"), expr.Const(1), expr.Const(2)), "[k] IN (1, 2)"},
		{"not in", NotIn(expr.Field("k"), expr.Const(3)), "[k] NOT IN (3)"},
		{"between", Between(expr.Field("n"), expr.Const(1), expr.Const(9)), "[n] BETWEEN 1 AND 9"},
		{"date add", DateAdd(expr.Field("ts"), expr.Const(3), "day"), `DATE_ADD([ts], 3, "DAY")`},
		{"within record", WithinRecord(Sum(expr.Field("x"))), "Sum() WITHIN RECORD"},
		{"within field", WithinField(Count(expr.Field("x")), expr.Field("children")), "Count() WITHIN [children]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := format(t, tt.call)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDateAdd_RejectsBadUnit(t *testing.T) {
	_, err := format(t, DateAdd(expr.Field("ts"), expr.Const(1), "fortnight"))
	assert.ErrorIs(t, err, queryerr.ErrInvalidArgument)

	call := expr.CallFunc(symDateAdd, expr.Field("ts"), expr.Const(1), expr.Field("unit"))
	_, err = format(t, call)
	assert.ErrorIs(t, err, queryerr.ErrInvalidArgument)
}

func TestWithin_RequiresAggregate(t *testing.T) {
	call := expr.CallFunc(symWithin, expr.Field("x"), expr.Const("RECORD"))
	_, err := format(t, call)
	assert.ErrorIs(t, err, queryerr.ErrInvalidArgument)
}

func TestFormatter_PropagatesArgumentError(t *testing.T) {
	_, err := format(t, In(expr.Not(expr.Field("x")), expr.Const(1)))

	require.Error(t, err)
	assert.ErrorIs(t, err, queryerr.ErrUnsupportedOperator)
	assert.Contains(t, err.Error(), "argument 1 of Comparison.In")
}

func TestParseSymbol(t *testing.T) {
	assert.Equal(t, expr.Sym("Math", "Abs"), ParseSymbol("Math.Abs"))
	assert.Equal(t, expr.Symbol{Name: "NOW"}, ParseSymbol("NOW"))
}
