// Package ingest turns a delimited text file into typed numeric columns.
//
// Each column's type is decided once from a sample value and cached; every row is then
// converted with that cached decision. Column conversion runs in parallel.
package ingest

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/tsimport/internal/timestamp"
)

// Defaults applied by Options.withDefaults.
const (
	DefaultSampleRows = 10
	DefaultWorkers    = 4

	// ContextCheckInterval is how many rows are read between cancellation checks.
	ContextCheckInterval = 100
)

var (
	ErrEmptyInput          = errors.New("input is empty")
	ErrNoDataRows          = errors.New("input has a header but no data rows")
	ErrUnknownTimeColumn   = errors.New("time column not found in header")
	ErrTimeFormatNeedsName = errors.New("time format requires a time column")
)

// Options controls how a file is read. The zero value guesses the delimiter, samples the
// default number of rows and resolves day/month order heuristically.
type Options struct {
	Delimiter  rune   // 0 means guess from the header line
	SampleRows int    // rows scanned for each column's first non-empty sample
	TimeColumn string // header name of the time axis; empty picks the first timestamp column
	TimeFormat string // Qt-style format forced on TimeColumn
	DayOrder   timestamp.DayOrderResolver
	Workers    int // columns converted concurrently
	Logger     *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.SampleRows <= 0 {
		o.SampleRows = DefaultSampleRows
	}
	if o.Workers <= 0 {
		o.Workers = DefaultWorkers
	}
	if o.DayOrder == nil {
		o.DayOrder = timestamp.HeuristicDayOrder{}
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Column is one converted column. Values has one entry per data row; an entry is
// invalid when the cell was missing, empty or did not fit the column type.
// STRING columns carry no values.
type Column struct {
	Name     string
	Position int
	Info     timestamp.ColumnTypeInfo
	Sample   string
	Values   []pgtype.Float8
	Missing  int
}

// Numeric reports whether the column produced values.
func (c *Column) Numeric() bool {
	return c.Info.Type != timestamp.TypeString
}

// Table is the result of reading one file.
type Table struct {
	Columns   []Column
	TimeIndex int // index into Columns, or -1 when rows are indexed by position
	Rows      int
	Unsorted  bool // time column values decrease somewhere
	Delimiter rune
	BytesRead int64
}

// TimeColumn returns the time axis column, or nil when rows are indexed by position.
func (t *Table) TimeColumn() *Column {
	if t.TimeIndex < 0 || t.TimeIndex >= len(t.Columns) {
		return nil
	}
	return &t.Columns[t.TimeIndex]
}

// Time returns the time axis value of row i. Without a time column it is the row index.
func (t *Table) Time(i int) (float64, bool) {
	col := t.TimeColumn()
	if col == nil {
		return float64(i), i >= 0 && i < t.Rows
	}
	if i < 0 || i >= len(col.Values) {
		return 0, false
	}
	v := col.Values[i]
	return v.Float64, v.Valid
}

// Read parses a delimited file from r. size is the expected byte count for progress
// reporting and may be 0.
func Read(ctx context.Context, r io.Reader, size int64, opts Options) (*Table, error) {
	opts = opts.withDefaults()
	log := opts.Logger

	src, counter := WrapForStreaming(r, size)
	br := bufio.NewReaderSize(src, sniffLimit)

	delim := opts.Delimiter
	if delim == 0 {
		delim = GuessDelimiter(br)
	}

	reader := csv.NewReader(br)
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = false

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyInput
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	names := NormalizeHeader(header)

	raw := make([][]string, len(names))
	rows := 0
	for {
		if rows%ContextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", rows+1, err)
		}
		if isBlankRecord(record) {
			continue
		}

		// Short rows leave trailing cells absent; extra cells are ignored.
		for i := range raw {
			cell := ""
			if i < len(record) {
				cell = record[i]
			}
			raw[i] = append(raw[i], cell)
		}
		rows++
	}

	if rows == 0 {
		return nil, ErrNoDataRows
	}

	table := &Table{
		Columns:   make([]Column, len(names)),
		TimeIndex: -1,
		Rows:      rows,
		Delimiter: delim,
		BytesRead: counter.BytesRead(),
	}

	detector := timestamp.Detector{DayOrder: opts.DayOrder}
	for i, name := range names {
		sample := firstSample(raw[i], opts.SampleRows)
		table.Columns[i] = Column{
			Name:     name,
			Position: i,
			Sample:   sample,
			Info:     detector.DetectColumnType(sample),
		}
		log.Debug("column detected", "column", name, "position", i, "info", table.Columns[i].Info.String())
	}

	if err := table.resolveTimeColumn(opts); err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i := range table.Columns {
		col := &table.Columns[i]
		if !col.Numeric() {
			continue
		}
		values := raw[i]
		g.Go(func() error {
			return convertColumn(gctx, col, values)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if tc := table.TimeColumn(); tc != nil {
		table.Unsorted = !isSorted(tc.Values)
	}

	log.Debug("file parsed",
		"rows", table.Rows,
		"columns", len(table.Columns),
		"delimiter", string(delim),
		"time_column", timeColumnName(table),
		"unsorted", table.Unsorted,
		"bytes", table.BytesRead,
		"progress", counter.Progress(),
	)

	return table, nil
}

// resolveTimeColumn picks the time axis and applies a forced time format.
func (t *Table) resolveTimeColumn(opts Options) error {
	if opts.TimeColumn == "" {
		if opts.TimeFormat != "" {
			return ErrTimeFormatNeedsName
		}
		for i := range t.Columns {
			if t.Columns[i].Info.Type.IsTimestamp() {
				t.TimeIndex = i
				return nil
			}
		}
		return nil
	}

	for i := range t.Columns {
		if !strings.EqualFold(t.Columns[i].Name, opts.TimeColumn) {
			continue
		}
		t.TimeIndex = i
		if opts.TimeFormat != "" {
			t.Columns[i].Info = timestamp.CompileQtFormat(opts.TimeFormat)
		}
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownTimeColumn, opts.TimeColumn)
}

func convertColumn(ctx context.Context, col *Column, raw []string) error {
	info := col.Info
	col.Values = make([]pgtype.Float8, len(raw))
	for i, s := range raw {
		if i%ContextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		v, ok := timestamp.ParseWithType(s, info)
		if !ok {
			col.Missing++
			continue
		}
		col.Values[i] = pgtype.Float8{Float64: v, Valid: true}
	}
	return nil
}

// firstSample returns the first non-empty value among the first limit rows.
func firstSample(values []string, limit int) string {
	if limit > len(values) {
		limit = len(values)
	}
	for _, v := range values[:limit] {
		if t := timestamp.Trim(v); t != "" {
			return t
		}
	}
	return ""
}

func isSorted(values []pgtype.Float8) bool {
	started := false
	var prev float64
	for _, v := range values {
		if !v.Valid {
			continue
		}
		if started && v.Float64 < prev {
			return false
		}
		prev, started = v.Float64, true
	}
	return true
}

func isBlankRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func timeColumnName(t *Table) string {
	if c := t.TimeColumn(); c != nil {
		return c.Name
	}
	return ""
}
