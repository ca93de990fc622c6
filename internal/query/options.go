package query

import (
	"strconv"
	"time"

	"github.com/roach88/bqchain/internal/queryerr"
)

// Bound is one end of a snapshot or range table decoration.
type Bound struct {
	ms       int64
	relative bool
}

// Oldest is the earliest available snapshot: @0.
var Oldest = Bound{}

// At is an absolute point in time, printed as epoch milliseconds. Panics
// for times before the Unix epoch, which the decorator syntax cannot
// express.
func At(t time.Time) Bound {
	ms := t.UnixMilli()
	if ms < 0 {
		panic(queryerr.InvalidArgument("At: %s is before the Unix epoch", t.UTC().Format(time.RFC3339)))
	}
	return Bound{ms: ms}
}

// Ago is a point relative to now, printed as negative milliseconds.
// Panics if d is negative.
func Ago(d time.Duration) Bound {
	if d < 0 {
		panic(queryerr.InvalidArgument("Ago: negative duration %s", d))
	}
	return Bound{ms: d.Milliseconds(), relative: true}
}

func (b Bound) String() string {
	if b.relative {
		return "-" + strconv.FormatInt(b.ms, 10)
	}
	return strconv.FormatInt(b.ms, 10)
}

func snapshotDecoration(at Bound) string {
	return "@" + at.String()
}

func rangeDecoration(from Bound, to *Bound) string {
	s := "@" + from.String() + "-"
	if to != nil {
		s += to.String()
	}
	return s
}

// JoinKind selects the join operator.
type JoinKind int

const (
	InnerJoin JoinKind = iota
	LeftOuterJoin
	CrossJoin
)

func (k JoinKind) keyword() string {
	switch k {
	case InnerJoin:
		return "INNER JOIN"
	case LeftOuterJoin:
		return "LEFT OUTER JOIN"
	case CrossJoin:
		return "CROSS JOIN"
	default:
		return "JOIN"
	}
}

func (k JoinKind) String() string {
	switch k {
	case InnerJoin:
		return "inner"
	case LeftOuterJoin:
		return "left_outer"
	case CrossJoin:
		return "cross"
	default:
		return "JoinKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// ParseJoinKind maps "inner", "left_outer" or "cross" to a JoinKind.
func ParseJoinKind(s string) (JoinKind, bool) {
	for _, k := range []JoinKind{InnerJoin, LeftOuterJoin, CrossJoin} {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

// Alias names the two sides of a join. Outer becomes the alias of the FROM
// source; Inner the alias of the joined table.
type Alias struct {
	Outer string
	Inner string
}

// Option modifies a Join or GroupBy.
type Option func(*modifiers)

type modifiers struct {
	each bool
}

// Each requests the EACH variant (JOIN EACH, GROUP EACH BY) for large
// inputs.
func Each() Option {
	return func(m *modifiers) {
		m.each = true
	}
}

func applyOptions(opts []Option) modifiers {
	var m modifiers
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	return m
}
