package timestamp

// ParseWithType converts one value using a cached ColumnTypeInfo. It dispatches on
// info.Type only and never re-classifies the value, so an outlier row that does not fit
// the column's type is reported as absent rather than reinterpreted.
//
// STRING columns, empty values and malformed values are absent.
func ParseWithType(s string, info ColumnTypeInfo) (float64, bool) {
	trimmed := Trim(s)
	if trimmed == "" {
		return 0, false
	}

	switch info.Type {
	case TypeNumber:
		return ToDouble(trimmed)

	case TypeHex:
		n, ok := parseHex(trimmed)
		return float64(n), ok

	case TypeEpochSeconds, TypeEpochMillis, TypeEpochMicros, TypeEpochNanos:
		ts, ok := parseInt(trimmed)
		if !ok {
			return 0, false
		}
		return EpochToSeconds(ts, info.Type), true

	case TypeDatetime:
		if info.Format == "" {
			return 0, false
		}
		base, frac := ExtractFractionalSeconds(trimmed)
		if !info.HasFractional {
			frac = 0
		}
		return TryParseFormat(base, info.Format, frac)

	default:
		return 0, false
	}
}
