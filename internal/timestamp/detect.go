package timestamp

import "time"

// Patterns whose field order cannot be confused with another convention. Order matters:
// the first pattern that matches wins.
var unambiguousFormats = []string{
	"%Y-%m-%dT%H:%M:%S",
	"%Y-%m-%dT%H:%M:%S%z",
	"%Y-%m-%dT%H:%M:%SZ",
	"%Y-%m-%d %H:%M:%S",
	"%Y-%m-%d %H:%M:%S%z",
	"%Y-%m-%d",
	"%Y/%m/%d %H:%M:%S",
}

// Patterns tried only after the day-order resolver has been consulted.
const (
	FormatDayFirstSlash   = "%d/%m/%Y %H:%M:%S"
	FormatMonthFirstSlash = "%m/%d/%Y %H:%M:%S"
	FormatDayFirstDash    = "%d-%m-%Y %H:%M:%S"
)

// Detector runs column detection and single-shot parsing with a configurable day-order
// strategy. The zero value uses HeuristicDayOrder.
type Detector struct {
	DayOrder DayOrderResolver
}

var defaultDetector Detector

// DetectColumnType classifies one sample with the default Detector.
func DetectColumnType(s string) ColumnTypeInfo {
	return defaultDetector.DetectColumnType(s)
}

// AutoParseTimestamp detects and converts one value with the default Detector.
func AutoParseTimestamp(s string) (float64, bool) {
	return defaultDetector.AutoParseTimestamp(s)
}

func (d Detector) dayOrder() DayOrderResolver {
	if d.DayOrder == nil {
		return HeuristicDayOrder{}
	}
	return d.DayOrder
}

// DetectColumnType classifies a sample value. Rules are evaluated in order and the first
// match decides:
//
//  1. empty after trimming: STRING
//  2. 0x/0X prefix with at least one more byte: HEX
//  3. numeric with decimal separator or exponent: NUMBER
//  4. numeric integer: epoch scale by magnitude, else NUMBER
//  5. date-time matching an unambiguous pattern: DATETIME with that pattern
//  6. contains '/' and does not start with '2': day/month resolved, DATETIME
//  7. contains '-' and does not start with '2': day-first only, DATETIME
//  8. steps 5-7 again, accepting a pattern that matches a prefix of the value
//  9. anything else: STRING
func (d Detector) DetectColumnType(s string) ColumnTypeInfo {
	trimmed := Trim(s)
	if trimmed == "" {
		return ColumnTypeInfo{Type: TypeString}
	}
	if isHexLiteral(trimmed) {
		return ColumnTypeInfo{Type: TypeHex}
	}

	if num := CheckNumeric(trimmed); num.IsNumber {
		if !num.Integral() {
			return ColumnTypeInfo{Type: TypeNumber}
		}
		if ts, ok := parseInt(trimmed); ok {
			return ColumnTypeInfo{Type: DetectEpochType(ts)}
		}
		return ColumnTypeInfo{Type: TypeNumber}
	}

	base, _, hasFrac := splitFraction(trimmed)
	if format, _, _, ok := d.matchDatetime(base); ok {
		return ColumnTypeInfo{Type: TypeDatetime, Format: format, HasFractional: hasFrac}
	}
	return ColumnTypeInfo{Type: TypeString}
}

// AutoParseTimestamp converts a value without a cached ColumnTypeInfo. It walks the same
// decision tree as DetectColumnType but returns the reading directly. STRING values and
// values no branch can convert are absent.
func (d Detector) AutoParseTimestamp(s string) (float64, bool) {
	trimmed := Trim(s)
	if trimmed == "" {
		return 0, false
	}
	if isHexLiteral(trimmed) {
		n, ok := parseHex(trimmed)
		return float64(n), ok
	}

	if num := CheckNumeric(trimmed); num.IsNumber {
		if num.Integral() {
			if ts, ok := parseInt(trimmed); ok {
				return EpochToSeconds(ts, DetectEpochType(ts)), true
			}
		}
		// Integers too wide for int64 are still decimal numbers.
		if v, ok := ToDouble(trimmed); ok {
			return v, true
		}
	}

	base, frac, _ := splitFraction(trimmed)
	if _, sec, inline, ok := d.matchDatetime(base); ok {
		return float64(sec) + float64(frac+inline)/float64(time.Second), true
	}
	return 0, false
}

// matchDatetime tries the unambiguous patterns, then the guarded slash and dash
// heuristics, against a fraction-stripped base string. The first round demands that the
// whole string is consumed; the second accepts a match on a prefix, so trailing text such
// as a zone name does not lose the column.
func (d Detector) matchDatetime(base string) (string, int64, time.Duration, bool) {
	if format, sec, frac, ok := d.matchRound(base, true); ok {
		return format, sec, frac, true
	}
	return d.matchRound(base, false)
}

func (d Detector) matchRound(base string, whole bool) (string, int64, time.Duration, bool) {
	for _, format := range unambiguousFormats {
		if sec, frac, ok := parseFormat(base, format, whole); ok {
			return format, sec, frac, true
		}
	}

	// Year-first strings were handled above; a leading '2' is almost always a year.
	if base == "" || base[0] == '2' {
		return "", 0, 0, false
	}

	if containsByte(base, '/') {
		format := FormatMonthFirstSlash
		if d.dayOrder().DayFirst(base, '/') {
			format = FormatDayFirstSlash
		}
		if sec, frac, ok := parseFormat(base, format, whole); ok {
			return format, sec, frac, true
		}
	}

	// Dash-separated dates are never tried month-first.
	if containsByte(base, '-') && d.dayOrder().DayFirst(base, '-') {
		if sec, frac, ok := parseFormat(base, FormatDayFirstDash, whole); ok {
			return FormatDayFirstDash, sec, frac, true
		}
	}

	return "", 0, 0, false
}

func containsByte(s string, c byte) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			return true
		}
	}
	return false
}
