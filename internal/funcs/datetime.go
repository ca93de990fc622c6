package funcs

import "github.com/roach88/bqchain/internal/expr"

var (
	symCurrentDate      = expr.Sym(NsDateTime, "CurrentDate")
	symCurrentTime      = expr.Sym(NsDateTime, "CurrentTime")
	symCurrentTimestamp = expr.Sym(NsDateTime, "CurrentTimestamp")
	symNow              = expr.Sym(NsDateTime, "Now")
	symDate             = expr.Sym(NsDateTime, "Date")
	symDateAdd          = expr.Sym(NsDateTime, "DateAdd")
	symDateDiff         = expr.Sym(NsDateTime, "DateDiff")
	symDay              = expr.Sym(NsDateTime, "Day")
	symDayOfWeek        = expr.Sym(NsDateTime, "DayOfWeek")
	symDayOfYear        = expr.Sym(NsDateTime, "DayOfYear")
	symHour             = expr.Sym(NsDateTime, "Hour")
	symMinute           = expr.Sym(NsDateTime, "Minute")
	symMonth            = expr.Sym(NsDateTime, "Month")
	symQuarter          = expr.Sym(NsDateTime, "Quarter")
	symSecond           = expr.Sym(NsDateTime, "Second")
	symYear             = expr.Sym(NsDateTime, "Year")
	symFormatUTCUsec    = expr.Sym(NsDateTime, "FormatUTCUsec")
	symStrftimeUTCUsec  = expr.Sym(NsDateTime, "StrftimeUTCUsec")
	symTimestamp        = expr.Sym(NsDateTime, "Timestamp")
	symTimestampToSec   = expr.Sym(NsDateTime, "TimestampToSec")
	symTimestampToMsec  = expr.Sym(NsDateTime, "TimestampToMsec")
	symTimestampToUsec  = expr.Sym(NsDateTime, "TimestampToUsec")
	symSecToTimestamp   = expr.Sym(NsDateTime, "SecToTimestamp")
	symUTCUsecToDay     = expr.Sym(NsDateTime, "UTCUsecToDay")
	symParseUTCUsec     = expr.Sym(NsDateTime, "ParseUTCUsec")
)

func dateTimeEntries() []Entry {
	return []Entry{
		fn(symCurrentDate, "CURRENT_DATE", 0, 0),
		fn(symCurrentTime, "CURRENT_TIME", 0, 0),
		fn(symCurrentTimestamp, "CURRENT_TIMESTAMP", 0, 0),
		fn(symNow, "NOW", 0, 0),
		fn(symDate, "DATE", 1, 1),
		custom(symDateAdd, "DATE_ADD", `DATE_ADD(ts, n, "UNIT")`, 3, 3, dateAddFormatter),
		fn(symDateDiff, "DATEDIFF", 2, 2),
		fn(symDay, "DAY", 1, 1),
		fn(symDayOfWeek, "DAYOFWEEK", 1, 1),
		fn(symDayOfYear, "DAYOFYEAR", 1, 1),
		fn(symHour, "HOUR", 1, 1),
		fn(symMinute, "MINUTE", 1, 1),
		fn(symMonth, "MONTH", 1, 1),
		fn(symQuarter, "QUARTER", 1, 1),
		fn(symSecond, "SECOND", 1, 1),
		fn(symYear, "YEAR", 1, 1),
		fn(symFormatUTCUsec, "FORMAT_UTC_USEC", 1, 1),
		fn(symStrftimeUTCUsec, "STRFTIME_UTC_USEC", 2, 2),
		fn(symTimestamp, "TIMESTAMP", 1, 1),
		fn(symTimestampToSec, "TIMESTAMP_TO_SEC", 1, 1),
		fn(symTimestampToMsec, "TIMESTAMP_TO_MSEC", 1, 1),
		fn(symTimestampToUsec, "TIMESTAMP_TO_USEC", 1, 1),
		fn(symSecToTimestamp, "SEC_TO_TIMESTAMP", 1, 1),
		fn(symUTCUsecToDay, "UTC_USEC_TO_DAY", 1, 1),
		fn(symParseUTCUsec, "PARSE_UTC_USEC", 1, 1),
	}
}

func CurrentDate() *expr.Call      { return expr.CallFunc(symCurrentDate) }
func CurrentTime() *expr.Call      { return expr.CallFunc(symCurrentTime) }
func CurrentTimestamp() *expr.Call { return expr.CallFunc(symCurrentTimestamp) }
func Now() *expr.Call              { return expr.CallFunc(symNow) }

func Date(ts expr.Expr) *expr.Call                    { return expr.CallFunc(symDate, ts) }
func DateDiff(a, b expr.Expr) *expr.Call              { return expr.CallFunc(symDateDiff, a, b) }
func Day(ts expr.Expr) *expr.Call                     { return expr.CallFunc(symDay, ts) }
func DayOfWeek(ts expr.Expr) *expr.Call               { return expr.CallFunc(symDayOfWeek, ts) }
func DayOfYear(ts expr.Expr) *expr.Call               { return expr.CallFunc(symDayOfYear, ts) }
func Hour(ts expr.Expr) *expr.Call                    { return expr.CallFunc(symHour, ts) }
func Minute(ts expr.Expr) *expr.Call                  { return expr.CallFunc(symMinute, ts) }
func Month(ts expr.Expr) *expr.Call                   { return expr.CallFunc(symMonth, ts) }
func Quarter(ts expr.Expr) *expr.Call                 { return expr.CallFunc(symQuarter, ts) }
func Second(ts expr.Expr) *expr.Call                  { return expr.CallFunc(symSecond, ts) }
func Year(ts expr.Expr) *expr.Call                    { return expr.CallFunc(symYear, ts) }
func FormatUTCUsec(us expr.Expr) *expr.Call           { return expr.CallFunc(symFormatUTCUsec, us) }
func StrftimeUTCUsec(us, layout expr.Expr) *expr.Call { return expr.CallFunc(symStrftimeUTCUsec, us, layout) }
func Timestamp(s expr.Expr) *expr.Call                { return expr.CallFunc(symTimestamp, s) }
func TimestampToSec(ts expr.Expr) *expr.Call          { return expr.CallFunc(symTimestampToSec, ts) }
func TimestampToMsec(ts expr.Expr) *expr.Call         { return expr.CallFunc(symTimestampToMsec, ts) }
func TimestampToUsec(ts expr.Expr) *expr.Call         { return expr.CallFunc(symTimestampToUsec, ts) }
func SecToTimestamp(sec expr.Expr) *expr.Call         { return expr.CallFunc(symSecToTimestamp, sec) }
func UTCUsecToDay(us expr.Expr) *expr.Call            { return expr.CallFunc(symUTCUsecToDay, us) }
func ParseUTCUsec(s expr.Expr) *expr.Call             { return expr.CallFunc(symParseUTCUsec, s) }

// DateAdd shifts ts by n units. unit is one of YEAR, MONTH, DAY, HOUR,
// MINUTE or SECOND.
func DateAdd(ts, n expr.Expr, unit string) *expr.Call {
	return expr.CallFunc(symDateAdd, ts, n, expr.Const(unit))
}
