package timestamp

import "fmt"

// ColumnType is the semantic type inferred for a column.
type ColumnType int

const (
	TypeString ColumnType = iota
	TypeNumber
	TypeHex
	TypeEpochSeconds
	TypeEpochMillis
	TypeEpochMicros
	TypeEpochNanos
	TypeDatetime
)

var columnTypeNames = [...]string{
	TypeString:       "STRING",
	TypeNumber:       "NUMBER",
	TypeHex:          "HEX",
	TypeEpochSeconds: "EPOCH_SECONDS",
	TypeEpochMillis:  "EPOCH_MILLIS",
	TypeEpochMicros:  "EPOCH_MICROS",
	TypeEpochNanos:   "EPOCH_NANOS",
	TypeDatetime:     "DATETIME",
}

func (t ColumnType) String() string {
	if t < 0 || int(t) >= len(columnTypeNames) {
		return fmt.Sprintf("ColumnType(%d)", int(t))
	}
	return columnTypeNames[t]
}

// ParseColumnType is the inverse of String. Matching is exact.
func ParseColumnType(s string) (ColumnType, bool) {
	for i, name := range columnTypeNames {
		if name == s {
			return ColumnType(i), true
		}
	}
	return TypeString, false
}

// MarshalText encodes the type by name so JSON payloads and database rows stay readable.
func (t ColumnType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes a name produced by MarshalText.
func (t *ColumnType) UnmarshalText(b []byte) error {
	ct, ok := ParseColumnType(string(b))
	if !ok {
		return fmt.Errorf("unknown column type %q", string(b))
	}
	*t = ct
	return nil
}

// IsEpoch reports whether t is one of the four epoch scales.
func (t ColumnType) IsEpoch() bool {
	return t >= TypeEpochSeconds && t <= TypeEpochNanos
}

// IsTimestamp reports whether values of this type represent instants in time.
func (t ColumnType) IsTimestamp() bool {
	return t.IsEpoch() || t == TypeDatetime
}

// ColumnTypeInfo is the cached decision for one column. It is produced once from a sample
// and then passed by value to ParseWithType for every row of that column.
//
// Format and HasFractional are only meaningful when Type is TypeDatetime.
type ColumnTypeInfo struct {
	Type          ColumnType `json:"type"`
	Format        string     `json:"format,omitempty"`
	HasFractional bool       `json:"has_fractional,omitempty"`
}

func (i ColumnTypeInfo) String() string {
	if i.Type != TypeDatetime {
		return i.Type.String()
	}
	if i.HasFractional {
		return fmt.Sprintf("%s(%s +frac)", i.Type, i.Format)
	}
	return fmt.Sprintf("%s(%s)", i.Type, i.Format)
}

// NumericInfo is the result of a character-level scan by CheckNumeric.
type NumericInfo struct {
	IsNumber    bool
	HasDecimal  bool
	HasExponent bool
}

// Integral reports whether the scanned text is a number without decimal point or exponent.
func (n NumericInfo) Integral() bool {
	return n.IsNumber && !n.HasDecimal && !n.HasExponent
}
