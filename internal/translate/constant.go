package translate

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/apd/v3"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/bqchain/internal/expr"
	"github.com/roach88/bqchain/internal/queryerr"
)

// TimestampLayout is the layout of timestamp literals, always in UTC:
// TIMESTAMP('2024-03-01 12:30:00.000000').
const TimestampLayout = "2006-01-02 15:04:05.000000"

func (t *Translator) visitConstant(c *expr.Constant) error {
	s, err := t.literal(c.Value)
	if err != nil {
		return err
	}
	t.buf.WriteString(s)
	return nil
}

// literal renders a constant value. *expr.New values are written directly
// to the buffer and yield "".
func (t *Translator) literal(v any) (string, error) {
	if expr.IsNullValue(v) {
		return "NULL", nil
	}
	switch x := v.(type) {
	case bool:
		if x {
			return "true", nil
		}
		return "false", nil
	case string:
		return Quote(x), nil
	case expr.Char:
		return Quote(string(rune(x))), nil
	case int:
		return strconv.FormatInt(int64(x), 10), nil
	case int8:
		return strconv.FormatInt(int64(x), 10), nil
	case int16:
		return strconv.FormatInt(int64(x), 10), nil
	case int32:
		return strconv.FormatInt(int64(x), 10), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case uint:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint64:
		return strconv.FormatUint(x, 10), nil
	case float32:
		return formatFloat(float64(x), 32)
	case float64:
		return formatFloat(x, 64)
	case apd.Decimal:
		return formatDecimal(&x)
	case *apd.Decimal:
		return formatDecimal(x)
	case time.Time:
		return "TIMESTAMP('" + x.UTC().Format(TimestampLayout) + "')", nil
	case *expr.New:
		return "", t.visitNew(x)
	default:
		return "", queryerr.UnsupportedConstant(fmt.Sprintf("constant %T", v))
	}
}

func formatFloat(f float64, bits int) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", queryerr.UnsupportedConstant(fmt.Sprintf("float %v", f))
	}
	return strconv.FormatFloat(f, 'f', -1, bits), nil
}

func formatDecimal(d *apd.Decimal) (string, error) {
	if d.Form != apd.Finite {
		return "", queryerr.UnsupportedConstant("decimal " + d.String())
	}
	return d.Text('f'), nil
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// Quote renders s as a single-quoted string literal. The text is normalized
// to NFC first.
func Quote(s string) string {
	return "'" + quoteEscaper.Replace(norm.NFC.String(s)) + "'"
}
