package timestamp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDetectEpochType(t *testing.T) {
	tests := []struct {
		name string
		ts   int64
		want ColumnType
	}{
		{name: "seconds", ts: 1700000000, want: TypeEpochSeconds},
		{name: "millis", ts: 1700000000000, want: TypeEpochMillis},
		{name: "micros", ts: 1700000000000000, want: TypeEpochMicros},
		{name: "nanos", ts: 1700000000000000000, want: TypeEpochNanos},
		{name: "lower bound is exclusive", ts: EpochFirst, want: TypeNumber},
		{name: "upper bound is exclusive", ts: EpochLast, want: TypeNumber},
		{name: "millis lower bound", ts: EpochFirst * 1000, want: TypeNumber},
		{name: "nanos upper bound", ts: EpochLast * 1_000_000_000, want: TypeNumber},
		{name: "just inside seconds", ts: EpochFirst + 1, want: TypeEpochSeconds},
		{name: "between windows", ts: 100_000_000_000, want: TypeNumber},
		{name: "small", ts: 42, want: TypeNumber},
		{name: "zero", ts: 0, want: TypeNumber},
		{name: "negative", ts: -1700000000, want: TypeNumber},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectEpochType(tt.ts))
		})
	}
}

func TestEpochToSeconds_RoundTrip(t *testing.T) {
	tests := []struct {
		ts   int64
		want float64
	}{
		{1700000000, 1700000000},
		{1700000000123, 1700000000.123},
		{1700000000123456, 1700000000.123456},
		{1700000000123456789, 1700000000.123456789},
	}

	for _, tt := range tests {
		got := EpochToSeconds(tt.ts, DetectEpochType(tt.ts))
		assert.InDelta(t, tt.want, got, 1e-6, "ts=%d", tt.ts)
	}
}

func TestEpochToSeconds_NonEpochTypeIsSeconds(t *testing.T) {
	assert.Equal(t, 42.0, EpochToSeconds(42, TypeNumber))
	assert.Equal(t, 42.0, EpochToSeconds(42, TypeString))
}

func TestEpochWindowDates(t *testing.T) {
	assert.Equal(t, time.Date(2014, 5, 13, 16, 53, 20, 0, time.UTC).Unix(), EpochFirst)
	assert.Equal(t, time.Date(2033, 5, 18, 3, 33, 20, 0, time.UTC).Unix(), EpochLast)
}
