// Package timestamp infers the semantic type of a column of raw text values and converts
// each value to a float64 reading.
//
// Detection runs once per column on a representative sample and yields a [ColumnTypeInfo].
// Every row in the column is then converted with [ParseWithType] using that same info, so
// the expensive heuristics (numeric classification, epoch magnitude, day/month ordering,
// format trials) never run on the per-row path.
//
// # Column Types
//
//   - STRING: opaque text, no reading
//   - NUMBER: decimal text, comma or dot as separator
//   - HEX: 0x-prefixed base-16 integer
//   - EPOCH_SECONDS / EPOCH_MILLIS / EPOCH_MICROS / EPOCH_NANOS: integers whose magnitude
//     places them inside one of four scaled windows around the present
//   - DATETIME: formatted date-time matched against a fixed, ordered format list
//
// Timestamps are reported as seconds since the Unix epoch (UTC) with nanosecond
// fractional precision carried through the split in [ExtractFractionalSeconds].
//
// # Failure Model
//
// Nothing in this package returns an error or panics on bad input. A value that cannot be
// converted is reported as absent (ok == false). Callers decide whether absence means a
// gap, a skipped row, or a failed import.
//
// # Ambiguous Dates
//
// Numeric dates such as 05/06/2024 are resolved by a [DayOrderResolver]. The default,
// [HeuristicDayOrder], treats a field greater than 12 as the day and falls back to
// day-first. Slash-separated dates may resolve either way; dash-separated dates are only
// ever tried day-first.
//
// All functions are safe for concurrent use.
package timestamp
