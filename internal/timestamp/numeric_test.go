package timestamp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckNumeric(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  NumericInfo
	}{
		{name: "integer", input: "123", want: NumericInfo{IsNumber: true}},
		{name: "negative integer", input: "-42", want: NumericInfo{IsNumber: true}},
		{name: "explicit plus", input: "+7", want: NumericInfo{IsNumber: true}},
		{name: "dot decimal", input: "3.14", want: NumericInfo{IsNumber: true, HasDecimal: true}},
		{name: "comma decimal", input: "3,14", want: NumericInfo{IsNumber: true, HasDecimal: true}},
		{name: "leading separator", input: ".5", want: NumericInfo{IsNumber: true, HasDecimal: true}},
		{name: "exponent", input: "1e5", want: NumericInfo{IsNumber: true, HasExponent: true}},
		{name: "signed exponent", input: "1.5E-3", want: NumericInfo{IsNumber: true, HasDecimal: true, HasExponent: true}},

		{name: "two separators", input: "1.2.3"},
		{name: "dot and comma", input: "1,000.5"},
		{name: "two exponents", input: "1e2e3"},
		{name: "separator after exponent", input: "1e5.0"},
		{name: "sign in the middle", input: "12-3"},
		{name: "trailing exponent", input: "12e"},
		{name: "trailing exponent sign", input: "12e+"},
		{name: "sign only", input: "-"},
		{name: "separator only", input: "."},
		{name: "letters", input: "abc"},
		{name: "digits then letters", input: "12abc"},
		{name: "date", input: "2024-01-15"},
		{name: "hex literal", input: "0x1F"},
		{name: "empty", input: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckNumeric(tt.input)
			assert.Equal(t, tt.want.IsNumber, got.IsNumber, "IsNumber")
			if tt.want.IsNumber {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestToDouble(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   float64
		wantOK bool
	}{
		{name: "dot decimal", input: "3.14", want: 3.14, wantOK: true},
		{name: "comma decimal", input: "3,14", want: 3.14, wantOK: true},
		{name: "negative", input: "-0,5", want: -0.5, wantOK: true},
		{name: "exponent", input: "2.5e3", want: 2500, wantOK: true},
		{name: "integer", input: "42", want: 42, wantOK: true},
		{name: "empty", input: ""},
		{name: "text", input: "abc"},
		{name: "infinity", input: "inf"},
		{name: "nan", input: "NaN"},
		{name: "overflow", input: "1e400"},
		{name: "hex float", input: "0x1p3"},
		{name: "underscore", input: "1_000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToDouble(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.want, got, 1e-12)
			}
		})
	}
}

func TestTrim(t *testing.T) {
	assert.Equal(t, "a b", Trim(" \t a b\r\n"))
	assert.Equal(t, "", Trim(" \t\r\n "))
	assert.Equal(t, "x", Trim("x"))
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		input  string
		want   int64
		wantOK bool
	}{
		{"0x1F", 31, true},
		{"0XfF", 255, true},
		{"ff", 255, true},
		{"-0x10", -16, true},
		{"+0x10", 16, true},
		{"0x", 0, false},
		{"0xZZ", 0, false},
		{"0x-1", 0, false},
		{"0x1_0", 0, false},
		{"0x10000000000000000", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := parseHex(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
