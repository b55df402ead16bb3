package timestamp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseWithType(t *testing.T) {
	datetime := ColumnTypeInfo{Type: TypeDatetime, Format: "%Y-%m-%d %H:%M:%S"}
	datetimeFrac := ColumnTypeInfo{Type: TypeDatetime, Format: "%Y-%m-%d %H:%M:%S", HasFractional: true}

	tests := []struct {
		name   string
		input  string
		info   ColumnTypeInfo
		want   float64
		wantOK bool
	}{
		{name: "number", input: "3.14", info: ColumnTypeInfo{Type: TypeNumber}, want: 3.14, wantOK: true},
		{name: "number with comma", input: " 1,5 ", info: ColumnTypeInfo{Type: TypeNumber}, want: 1.5, wantOK: true},
		{name: "number column integer row", input: "7", info: ColumnTypeInfo{Type: TypeNumber}, want: 7, wantOK: true},
		{name: "number outlier", input: "n/a", info: ColumnTypeInfo{Type: TypeNumber}},
		{name: "hex", input: "0x1F", info: ColumnTypeInfo{Type: TypeHex}, want: 31, wantOK: true},
		{name: "hex without prefix", input: "ff", info: ColumnTypeInfo{Type: TypeHex}, want: 255, wantOK: true},
		{name: "hex garbage", input: "0xZZ", info: ColumnTypeInfo{Type: TypeHex}},
		{name: "hex trailing text", input: "0x1Fg", info: ColumnTypeInfo{Type: TypeHex}},
		{name: "epoch seconds", input: "1700000000", info: ColumnTypeInfo{Type: TypeEpochSeconds}, want: 1700000000, wantOK: true},
		{name: "epoch millis", input: "1700000000123", info: ColumnTypeInfo{Type: TypeEpochMillis}, want: 1700000000.123, wantOK: true},
		{name: "epoch micros", input: "1700000000123456", info: ColumnTypeInfo{Type: TypeEpochMicros}, want: 1700000000.123456, wantOK: true},
		{name: "epoch nanos", input: "1700000000123456789", info: ColumnTypeInfo{Type: TypeEpochNanos}, want: 1700000000.123456789, wantOK: true},
		{name: "epoch column keeps its scale", input: "1500", info: ColumnTypeInfo{Type: TypeEpochMillis}, want: 1.5, wantOK: true},
		{name: "epoch with decimals", input: "1700000000.5", info: ColumnTypeInfo{Type: TypeEpochSeconds}},
		{name: "epoch partial token", input: "1700000000abc", info: ColumnTypeInfo{Type: TypeEpochSeconds}},
		{name: "epoch millis with decimals", input: "1700000000123.5", info: ColumnTypeInfo{Type: TypeEpochMillis}},
		{name: "epoch overflow", input: "99999999999999999999", info: ColumnTypeInfo{Type: TypeEpochNanos}},
		{name: "datetime", input: "2024-01-15 10:30:00", info: datetime, want: 1705314600, wantOK: true},
		{name: "datetime fraction kept", input: "2024-01-15 10:30:00.75", info: datetimeFrac, want: 1705314600.75, wantOK: true},
		{name: "datetime fraction dropped", input: "2024-01-15 10:30:00.75", info: datetime, want: 1705314600, wantOK: true},
		{name: "datetime truncated row", input: "2024-01-15 10:3", info: datetime},
		{name: "datetime trailing zone name", input: "2024-01-15 10:30:00 UTC", info: datetime, want: 1705314600, wantOK: true},
		{
			name:   "datetime fraction before offset",
			input:  "2024-01-15T10:30:00.25+01:00",
			info:   ColumnTypeInfo{Type: TypeDatetime, Format: "%Y-%m-%dT%H:%M:%S%z"},
			want:   1705311000.25,
			wantOK: true,
		},
		{name: "datetime wrong shape", input: "15/01/2024 10:30:00", info: datetime},
		{name: "datetime without format", input: "2024-01-15 10:30:00", info: ColumnTypeInfo{Type: TypeDatetime}},
		{name: "string", input: "hello", info: ColumnTypeInfo{Type: TypeString}},
		{name: "string column numeric row", input: "42", info: ColumnTypeInfo{Type: TypeString}},
		{name: "empty", input: "", info: ColumnTypeInfo{Type: TypeNumber}},
		{name: "whitespace", input: " \t", info: ColumnTypeInfo{Type: TypeEpochSeconds}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseWithType(tt.input, tt.info)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.want, got, 1e-6)
			}
		})
	}
}

func TestColumnType_Text(t *testing.T) {
	for ct := TypeString; ct <= TypeDatetime; ct++ {
		b, err := ct.MarshalText()
		assert.NoError(t, err)

		var back ColumnType
		assert.NoError(t, back.UnmarshalText(b))
		assert.Equal(t, ct, back)
	}

	var ct ColumnType
	assert.Error(t, ct.UnmarshalText([]byte("DATE")))
	assert.Equal(t, "ColumnType(99)", ColumnType(99).String())
}

func TestColumnType_Predicates(t *testing.T) {
	assert.True(t, TypeEpochMicros.IsEpoch())
	assert.False(t, TypeDatetime.IsEpoch())
	assert.True(t, TypeDatetime.IsTimestamp())
	assert.False(t, TypeNumber.IsTimestamp())
	assert.False(t, TypeHex.IsTimestamp())
}
