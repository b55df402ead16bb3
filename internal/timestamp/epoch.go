package timestamp

// Bounds of the reference window used to recognise epoch integers, in seconds.
// Values are compared with strict inequality, so the bounds themselves are plain numbers.
const (
	EpochFirst int64 = 1400000000 // 2014-05-13T16:53:20Z
	EpochLast  int64 = 2000000000 // 2033-05-18T03:33:20Z
)

// epochScales is evaluated in order; the first window containing the value wins.
var epochScales = []struct {
	typ   ColumnType
	scale int64
	unit  float64
}{
	{TypeEpochNanos, 1_000_000_000, 1e-9},
	{TypeEpochMicros, 1_000_000, 1e-6},
	{TypeEpochMillis, 1_000, 1e-3},
	{TypeEpochSeconds, 1, 1},
}

// DetectEpochType classifies an integer by magnitude as seconds, millis, micros or nanos
// since the Unix epoch. Values outside all four scaled windows are TypeNumber.
func DetectEpochType(ts int64) ColumnType {
	for _, e := range epochScales {
		if ts > EpochFirst*e.scale && ts < EpochLast*e.scale {
			return e.typ
		}
	}
	return TypeNumber
}

// EpochToSeconds converts an epoch integer of the given scale to seconds. Any type other
// than the millis, micros and nanos scales is treated as seconds.
func EpochToSeconds(ts int64, t ColumnType) float64 {
	for _, e := range epochScales {
		if e.typ == t {
			return float64(ts) * e.unit
		}
	}
	return float64(ts)
}
