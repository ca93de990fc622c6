package funcs

import (
	"fmt"
	"strings"

	"github.com/roach88/bqchain/internal/expr"
	"github.com/roach88/bqchain/internal/queryerr"
)

// renderAll renders every operand (receiver first) in isolation.
func renderAll(call *expr.Call, args ArgRenderer) ([]string, error) {
	ops := call.Operands()
	out := make([]string, len(ops))
	for i, op := range ops {
		s, err := args.Isolated(op)
		if err != nil {
			return nil, fmt.Errorf("argument %d of %s: %w", i+1, call.Func, err)
		}
		out[i] = s
	}
	return out, nil
}

// countFormatter emits COUNT(*) for a bare count and COUNT(x) otherwise.
func countFormatter(call *expr.Call, args ArgRenderer) (string, error) {
	parts, err := renderAll(call, args)
	if err != nil {
		return "", err
	}
	if len(parts) == 0 {
		return "COUNT(*)", nil
	}
	return "COUNT(" + parts[0] + ")", nil
}

// countDistinctFormatter emits COUNT(DISTINCT x[, n]).
func countDistinctFormatter(call *expr.Call, args ArgRenderer) (string, error) {
	parts, err := renderAll(call, args)
	if err != nil {
		return "", err
	}
	return "COUNT(DISTINCT " + strings.Join(parts, ", ") + ")", nil
}

// infix returns a formatter for "left KEYWORD right".
func infix(keyword string) FormatterFunc {
	return func(call *expr.Call, args ArgRenderer) (string, error) {
		parts, err := renderAll(call, args)
		if err != nil {
			return "", err
		}
		return parts[0] + " " + keyword + " " + parts[1], nil
	}
}

// inList returns a formatter for "x IN (a, b, ...)".
func inList(keyword string) FormatterFunc {
	return func(call *expr.Call, args ArgRenderer) (string, error) {
		parts, err := renderAll(call, args)
		if err != nil {
			return "", err
		}
		return parts[0] + " " + keyword + " (" + strings.Join(parts[1:], ", ") + ")", nil
	}
}

// betweenFormatter emits "x BETWEEN low AND high".
func betweenFormatter(call *expr.Call, args ArgRenderer) (string, error) {
	parts, err := renderAll(call, args)
	if err != nil {
		return "", err
	}
	return parts[0] + " BETWEEN " + parts[1] + " AND " + parts[2], nil
}

var dateAddUnits = map[string]bool{
	"YEAR":   true,
	"MONTH":  true,
	"DAY":    true,
	"HOUR":   true,
	"MINUTE": true,
	"SECOND": true,
}

// dateAddFormatter emits DATE_ADD(ts, n, "UNIT"). The unit must be a string
// constant naming one of the legacy interval units.
func dateAddFormatter(call *expr.Call, args ArgRenderer) (string, error) {
	ops := call.Operands()
	unit, ok := stringConstant(ops[2])
	if !ok {
		return "", queryerr.New(queryerr.KindInvalidArgument, call.Func.String(),
			"interval unit must be a string constant")
	}
	unit = strings.ToUpper(unit)
	if !dateAddUnits[unit] {
		return "", queryerr.New(queryerr.KindInvalidArgument, call.Func.String(),
			"unknown interval unit %q", unit)
	}

	ts, err := args.Isolated(ops[0])
	if err != nil {
		return "", fmt.Errorf("argument 1 of %s: %w", call.Func, err)
	}
	n, err := args.Isolated(ops[1])
	if err != nil {
		return "", fmt.Errorf("argument 2 of %s: %w", call.Func, err)
	}
	return fmt.Sprintf("DATE_ADD(%s, %s, %q)", ts, n, unit), nil
}

// withinFormatter emits "aggregate WITHIN RECORD" or "aggregate WITHIN [field]".
func withinFormatter(call *expr.Call, args ArgRenderer) (string, error) {
	ops := call.Operands()
	if _, ok := ops[0].(*expr.Call); !ok {
		return "", queryerr.New(queryerr.KindInvalidArgument, call.Func.String(),
			"first argument must be an aggregate call")
	}
	agg, err := args.Isolated(ops[0])
	if err != nil {
		return "", fmt.Errorf("argument 1 of %s: %w", call.Func, err)
	}

	switch scope := ops[1].(type) {
	case *expr.Member:
		s, err := args.Isolated(scope)
		if err != nil {
			return "", fmt.Errorf("argument 2 of %s: %w", call.Func, err)
		}
		return agg + " WITHIN " + s, nil
	default:
		if s, ok := stringConstant(scope); ok && strings.EqualFold(s, "RECORD") {
			return agg + " WITHIN RECORD", nil
		}
		return "", queryerr.New(queryerr.KindInvalidArgument, call.Func.String(),
			"scope must be RECORD or a field")
	}
}

func stringConstant(e expr.Expr) (string, bool) {
	c, ok := e.(*expr.Constant)
	if !ok {
		return "", false
	}
	s, ok := c.Value.(string)
	return s, ok
}
