package timestamp

// numeric.go classifies text as numeric by scanning characters, and converts decimal
// text (comma or dot separator) to float64.

import (
	"math"
	"strconv"
	"strings"
)

// cutset for Trim. Other Unicode spaces are left alone; they are not field padding.
const trimCutset = " \t\r\n"

// Trim removes leading and trailing spaces, tabs, carriage returns and newlines.
func Trim(s string) string {
	return strings.Trim(s, trimCutset)
}

// CheckNumeric scans s left to right and reports whether it is a number made of digits,
// at most one decimal separator ('.' or ','), at most one exponent marker ('e' or 'E'),
// and signs only at position 0 or directly after the exponent marker.
//
// A decimal separator after the exponent, a trailing sign or exponent marker, or the
// absence of any digit makes the string non-numeric.
func CheckNumeric(s string) NumericInfo {
	info := NumericInfo{IsNumber: true}
	hasDigit := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == 'e' || c == 'E':
			if info.HasExponent {
				return NumericInfo{}
			}
			info.HasExponent = true
		case c == '+' || c == '-':
			if i != 0 && s[i-1] != 'e' && s[i-1] != 'E' {
				return NumericInfo{}
			}
		case c == '.' || c == ',':
			if info.HasDecimal || info.HasExponent {
				return NumericInfo{}
			}
			info.HasDecimal = true
		case c >= '0' && c <= '9':
			hasDigit = true
		default:
			return NumericInfo{}
		}
	}

	if !hasDigit {
		return NumericInfo{}
	}
	switch s[len(s)-1] {
	case 'e', 'E', '+', '-':
		return NumericInfo{}
	}
	return info
}

// ToDouble parses decimal text into a finite float64. A comma is accepted as the decimal
// separator. Hex-float syntax, infinities and NaN are rejected.
func ToDouble(s string) (float64, bool) {
	if s == "" || strings.ContainsAny(s, "xX_") {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// parseInt parses a whole base-10 token as int64.
func parseInt(s string) (int64, bool) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// parseHex parses an optionally signed base-16 integer with or without a 0x/0X prefix.
func parseHex(s string) (int64, bool) {
	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	if s == "" || s[0] == '+' || s[0] == '-' {
		return 0, false
	}
	if neg {
		s = "-" + s
	}
	n, err := strconv.ParseInt(s, 16, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// isHexLiteral reports whether s has the 0x/0X prefix used to classify HEX columns.
func isHexLiteral(s string) bool {
	return len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}
