package timestamp

import (
	"strconv"
	"time"
)

// fractionDigits is the normalised width of a fractional-seconds field (nanoseconds).
const fractionDigits = 9

// ExtractFractionalSeconds splits a ".nnn" fractional-seconds suffix off a date-time
// string. The last '.' is only taken as a fraction marker when it follows the last ':',
// so dotted dates such as "2024.01.15" pass through untouched.
//
// The digit run after the dot is right-padded or truncated to nine digits and returned as
// a duration; the dot and its digits are removed from the returned base string. When no
// fraction is found the input is returned unchanged with a zero duration.
func ExtractFractionalSeconds(s string) (string, time.Duration) {
	base, frac, _ := splitFraction(s)
	return base, frac
}

// splitFraction is ExtractFractionalSeconds plus a flag telling whether a fractional
// segment was removed, which detection records as ColumnTypeInfo.HasFractional.
func splitFraction(s string) (string, time.Duration, bool) {
	dot := lastIndexByte(s, '.')
	colon := lastIndexByte(s, ':')
	if dot < 0 || colon < 0 || dot <= colon {
		return s, 0, false
	}

	start := dot + 1
	end := start
	for end < len(s) && isDigit(s[end]) {
		end++
	}
	if end == start {
		return s, 0, false
	}

	return s[:dot] + s[end:], fractionFromDigits(s[start:end]), true
}

// fractionFromDigits right-pads or truncates a digit run to nanoseconds.
func fractionFromDigits(digits string) time.Duration {
	var buf [fractionDigits]byte
	for i := range buf {
		buf[i] = '0'
	}
	copy(buf[:], digits)

	n, err := strconv.ParseInt(string(buf[:]), 10, 64)
	if err != nil {
		return 0
	}
	return time.Duration(n)
}

func lastIndexByte(s string, c byte) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == c {
			return i
		}
	}
	return -1
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
