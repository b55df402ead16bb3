package timestamp

// format.go matches text against strptime-style patterns without consulting the process
// locale. Supported directives:
//
//	%Y  year, 1-4 digits            %y  two-digit year (69-99 -> 19xx, 00-68 -> 20xx)
//	%m  month, 1-2 digits           %d  day of month, 1-2 digits (%e is an alias)
//	%H  hour 0-23, 1-2 digits       %M  minute, 1-2 digits
//	%S  second, 1-2 digits, then an optional ".digits" fraction
//	%z  UTC offset: +hh, +hhmm or +hh:mm
//	%T  same as %H:%M:%S            %F  same as %Y-%m-%d
//	%%  literal percent sign
//
// Any other byte in the pattern must appear verbatim, except whitespace, which matches a
// run of zero or more whitespace bytes.
//
// A pattern may match a prefix of the input; the rest is ignored as long as the match does
// not stop inside a digit run. Detection first demands a whole-input match so that a
// pattern carrying %z wins over its offset-less sibling.

import (
	"time"
)

// TryParseFormat parses base against one pattern and returns seconds since the Unix epoch
// with frac added on top. Calendar fields are read as UTC unless the pattern carries %z.
// A fraction read by %S is added as well.
func TryParseFormat(base, format string, frac time.Duration) (float64, bool) {
	sec, inline, ok := parseFormat(base, format, false)
	if !ok {
		return 0, false
	}
	return float64(sec) + float64(frac+inline)/float64(time.Second), true
}

// parseFormat returns the instant described by s as Unix seconds plus any fraction read
// by %S. With whole set, trailing input fails the match.
func parseFormat(s, format string, whole bool) (int64, time.Duration, bool) {
	p := formatParser{input: s, month: -1, day: -1, year: -1}
	if !p.match(format) {
		return 0, 0, false
	}
	if p.pos < len(p.input) && (whole || isDigit(p.input[p.pos])) {
		return 0, 0, false
	}
	sec, ok := p.unix()
	return sec, p.frac, ok
}

type formatParser struct {
	input string
	pos   int

	year, month, day     int
	hour, minute, second int
	offset               int // seconds east of UTC
	frac                 time.Duration
}

func (p *formatParser) match(format string) bool {
	for i := 0; i < len(format); i++ {
		c := format[i]
		switch {
		case c == '%':
			i++
			if i >= len(format) || !p.directive(format[i]) {
				return false
			}
		case isSpace(c):
			for p.pos < len(p.input) && isSpace(p.input[p.pos]) {
				p.pos++
			}
		default:
			if p.pos >= len(p.input) || p.input[p.pos] != c {
				return false
			}
			p.pos++
		}
	}
	return true
}

func (p *formatParser) directive(d byte) bool {
	var ok bool
	switch d {
	case 'Y':
		p.year, ok = p.number(4)
	case 'y':
		var yy int
		if yy, ok = p.number(2); ok {
			p.year = pivotYear(yy)
		}
	case 'm':
		p.month, ok = p.number(2)
	case 'd':
		p.day, ok = p.number(2)
	case 'e':
		if p.pos < len(p.input) && p.input[p.pos] == ' ' {
			p.pos++
		}
		p.day, ok = p.number(2)
	case 'H':
		p.hour, ok = p.number(2)
	case 'M':
		p.minute, ok = p.number(2)
	case 'S':
		if p.second, ok = p.number(2); ok {
			p.fraction()
		}
	case 'z':
		ok = p.zone()
	case 'T':
		ok = p.match("%H:%M:%S")
	case 'F':
		ok = p.match("%Y-%m-%d")
	case '%':
		if p.pos < len(p.input) && p.input[p.pos] == '%' {
			p.pos++
			ok = true
		}
	}
	return ok
}

// number reads between one and width digits.
func (p *formatParser) number(width int) (int, bool) {
	n, start := 0, p.pos
	for p.pos < len(p.input) && p.pos-start < width && isDigit(p.input[p.pos]) {
		n = n*10 + int(p.input[p.pos]-'0')
		p.pos++
	}
	return n, p.pos > start
}

// fraction consumes ".digits" after the seconds field. This is where a fraction lands
// when a UTC offset follows it and ExtractFractionalSeconds left it in place.
func (p *formatParser) fraction() {
	if p.pos+1 >= len(p.input) || p.input[p.pos] != '.' || !isDigit(p.input[p.pos+1]) {
		return
	}
	start := p.pos + 1
	end := start
	for end < len(p.input) && isDigit(p.input[end]) {
		end++
	}
	p.frac = fractionFromDigits(p.input[start:end])
	p.pos = end
}

// zone reads a numeric UTC offset: sign, two hour digits, then an optional ':' and two
// minute digits.
func (p *formatParser) zone() bool {
	if p.pos >= len(p.input) {
		return false
	}
	sign := 1
	switch p.input[p.pos] {
	case '+':
	case '-':
		sign = -1
	default:
		return false
	}
	p.pos++

	hh, ok := p.fixed(2)
	if !ok || hh > 23 {
		return false
	}
	mm := 0
	if p.pos < len(p.input) && p.input[p.pos] == ':' {
		p.pos++
		if mm, ok = p.fixed(2); !ok {
			return false
		}
	} else if m, ok := p.fixed(2); ok {
		mm = m
	}
	if mm > 59 {
		return false
	}
	p.offset = sign * (hh*3600 + mm*60)
	return true
}

// fixed reads exactly n digits, leaving the position untouched on failure.
func (p *formatParser) fixed(n int) (int, bool) {
	if p.pos+n > len(p.input) {
		return 0, false
	}
	v := 0
	for _, c := range []byte(p.input[p.pos : p.pos+n]) {
		if !isDigit(c) {
			return 0, false
		}
		v = v*10 + int(c-'0')
	}
	p.pos += n
	return v, true
}

func (p *formatParser) unix() (int64, bool) {
	if p.year < 0 || p.month < 1 || p.month > 12 || p.day < 1 {
		return 0, false
	}
	if p.day > daysIn(p.year, time.Month(p.month)) {
		return 0, false
	}
	if p.hour > 23 || p.minute > 59 || p.second > 59 {
		return 0, false
	}
	t := time.Date(p.year, time.Month(p.month), p.day, p.hour, p.minute, p.second, 0, time.UTC)
	return t.Unix() - int64(p.offset), true
}

func daysIn(year int, m time.Month) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func pivotYear(yy int) int {
	if yy >= 69 {
		return 1900 + yy
	}
	return 2000 + yy
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}
