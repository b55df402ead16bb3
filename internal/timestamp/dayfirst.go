package timestamp

// DayOrderResolver decides whether an ambiguous numeric date such as "05/06/2024" lists
// the day before the month. sep is the separator between the first two fields.
type DayOrderResolver interface {
	DayFirst(s string, sep byte) bool
}

// HeuristicDayOrder resolves day/month order with IsDayFirstFormat.
type HeuristicDayOrder struct{}

func (HeuristicDayOrder) DayFirst(s string, sep byte) bool {
	return IsDayFirstFormat(s, sep)
}

// FixedDayOrder always answers the same way regardless of the input.
type FixedDayOrder bool

const (
	DayFirstOrder   FixedDayOrder = true
	MonthFirstOrder FixedDayOrder = false
)

func (f FixedDayOrder) DayFirst(string, byte) bool {
	return bool(f)
}

// DayOrderFromString maps "auto", "day" and "month" to a resolver. Unknown names
// fall back to the heuristic with ok == false.
func DayOrderFromString(name string) (DayOrderResolver, bool) {
	switch name {
	case "", "auto":
		return HeuristicDayOrder{}, true
	case "day", "dmy":
		return DayFirstOrder, true
	case "month", "mdy":
		return MonthFirstOrder, true
	default:
		return HeuristicDayOrder{}, false
	}
}

// fieldCap bounds accumulated field values so long digit runs cannot overflow.
const fieldCap = 1000

// IsDayFirstFormat reads the leading numeric field of s, skips one sep, and reads the
// next numeric field. A first field in 13..31 means day-first; otherwise a second field in
// 13..31 means month-first. When neither field settles it, the answer is day-first.
//
// This is a best-effort guess: "05/06/2024" is reported as day-first even though both
// readings are valid.
func IsDayFirstFormat(s string, sep byte) bool {
	pos := 0
	first := 0
	for pos < len(s) && isDigit(s[pos]) {
		first = accumulate(first, s[pos])
		pos++
	}
	if pos < len(s) && s[pos] == sep {
		pos++
	}
	second := 0
	for pos < len(s) && isDigit(s[pos]) {
		second = accumulate(second, s[pos])
		pos++
	}

	if first > 12 && first <= 31 {
		return true
	}
	if second > 12 && second <= 31 {
		return false
	}
	return true
}

func accumulate(n int, c byte) int {
	n = n*10 + int(c-'0')
	if n > fieldCap {
		return fieldCap
	}
	return n
}
