package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/tsimport/internal/ingest"
	"github.com/JonMunkholm/tsimport/internal/store"
	"github.com/JonMunkholm/tsimport/internal/timestamp"
)

// DefaultImportTimeout bounds one import from acquiring a slot to commit.
const DefaultImportTimeout = 10 * time.Minute

// Reading page sizes.
const (
	DefaultReadingsLimit = 1000
	MaxReadingsLimit     = 10000
)

// Store is the persistence the service needs. *store.Store implements it.
type Store interface {
	SaveImport(ctx context.Context, fileName string, table *ingest.Table) (store.Import, error)
	GetImport(ctx context.Context, id uuid.UUID) (store.Import, []store.ImportColumn, error)
	ListImports(ctx context.Context, limit int) ([]store.Import, error)
	GetReadings(ctx context.Context, id uuid.UUID, position, offset, limit int) ([]store.Reading, error)
	DeleteImport(ctx context.Context, id uuid.UUID) error
	DeleteImportsBefore(ctx context.Context, cutoff time.Time) (int64, error)
	Ping(ctx context.Context) error
}

// Options configures a Service. Zero fields take package defaults.
type Options struct {
	MaxFileSize   int64 // bytes; 0 disables the check
	MaxConcurrent int
	MaxWait       time.Duration
	Timeout       time.Duration
	SampleRows    int
	Workers       int
	DayOrder      timestamp.DayOrderResolver
	Logger        *slog.Logger
}

// Service runs imports and answers queries about stored imports.
type Service struct {
	store    Store
	limiter  *ImportLimiter
	detector timestamp.Detector
	opts     Options
	log      *slog.Logger
	now      func() time.Time
}

// NewService creates a Service backed by st.
func NewService(st Store, opts Options) *Service {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultImportTimeout
	}
	if opts.DayOrder == nil {
		opts.DayOrder = timestamp.HeuristicDayOrder{}
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	return &Service{
		store:    st,
		limiter:  NewImportLimiter(opts.MaxConcurrent, opts.MaxWait),
		detector: timestamp.Detector{DayOrder: opts.DayOrder},
		opts:     opts,
		log:      log,
		now:      time.Now,
	}
}

// ImportRequest describes one uploaded file.
type ImportRequest struct {
	FileName   string
	Reader     io.Reader
	Size       int64 // bytes, or -1 when unknown
	Delimiter  rune
	TimeColumn string
	TimeFormat string
}

// ColumnSummary describes one column of a finished import.
type ColumnSummary struct {
	Position int                      `json:"position"`
	Name     string                   `json:"name"`
	Info     timestamp.ColumnTypeInfo `json:"info"`
	Sample   string                   `json:"sample"`
	Missing  int                      `json:"missing"`
}

// ImportResult is returned by Import.
type ImportResult struct {
	Import   store.Import    `json:"import"`
	Columns  []ColumnSummary `json:"columns"`
	Duration time.Duration   `json:"duration_ns"`
}

// Import parses req and stores the result.
func (s *Service) Import(ctx context.Context, req ImportRequest) (ImportResult, error) {
	start := time.Now()

	if req.Reader == nil {
		return ImportResult{}, ErrNoFile
	}
	if req.Size == 0 {
		return ImportResult{}, ErrEmptyFile
	}
	if s.opts.MaxFileSize > 0 && req.Size > s.opts.MaxFileSize {
		return ImportResult{}, fmt.Errorf("%w: %d bytes exceeds %d", ErrFileTooLarge, req.Size, s.opts.MaxFileSize)
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return ImportResult{}, err
	}
	defer s.limiter.Release()

	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	size := req.Size
	if size < 0 {
		size = 0
	}
	table, err := ingest.Read(ctx, req.Reader, size, ingest.Options{
		Delimiter:  req.Delimiter,
		SampleRows: s.opts.SampleRows,
		TimeColumn: req.TimeColumn,
		TimeFormat: req.TimeFormat,
		DayOrder:   s.opts.DayOrder,
		Workers:    s.opts.Workers,
		Logger:     s.log,
	})
	if err != nil {
		return ImportResult{}, fmt.Errorf("read %s: %w", req.FileName, translateIngestError(err))
	}

	imp, err := s.store.SaveImport(ctx, req.FileName, table)
	if err != nil {
		return ImportResult{}, fmt.Errorf("save %s: %w", req.FileName, err)
	}

	result := ImportResult{
		Import:   imp,
		Columns:  make([]ColumnSummary, len(table.Columns)),
		Duration: time.Since(start),
	}
	for i, col := range table.Columns {
		result.Columns[i] = ColumnSummary{
			Position: col.Position,
			Name:     col.Name,
			Info:     col.Info,
			Sample:   col.Sample,
			Missing:  col.Missing,
		}
	}

	s.log.Info("import complete",
		"import_id", imp.ID,
		"file", req.FileName,
		"rows", imp.Rows,
		"columns", imp.Columns,
		"time_column", imp.TimeColumn,
		"unsorted", imp.Unsorted,
		"duration_ms", result.Duration.Milliseconds(),
		"client_ip", ClientIPFromContext(ctx),
		"user_agent", UserAgentFromContext(ctx),
	)

	return result, nil
}

// Detect classifies each sample independently.
func (s *Service) Detect(samples []string) []timestamp.ColumnTypeInfo {
	infos := make([]timestamp.ColumnTypeInfo, len(samples))
	for i, sample := range samples {
		infos[i] = s.detector.DetectColumnType(sample)
	}
	return infos
}

// ParseValue converts one value to seconds. With an empty format the type is detected
// from the value itself; otherwise format is a Qt-style date-time format.
func (s *Service) ParseValue(value, format string) (float64, bool) {
	if format == "" {
		return s.detector.AutoParseTimestamp(value)
	}
	return timestamp.FormatParseTimestamp(value, format)
}

// ListImports returns recent imports, newest first.
func (s *Service) ListImports(ctx context.Context, limit int) ([]store.Import, error) {
	imports, err := s.store.ListImports(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list imports: %w", err)
	}
	return imports, nil
}

// GetImport returns one import with its column decisions.
func (s *Service) GetImport(ctx context.Context, id string) (ImportResult, error) {
	uid, err := parseImportID(id)
	if err != nil {
		return ImportResult{}, err
	}

	imp, columns, err := s.store.GetImport(ctx, uid)
	if errors.Is(err, store.ErrNotFound) {
		return ImportResult{}, ErrImportNotFound
	}
	if err != nil {
		return ImportResult{}, fmt.Errorf("get import: %w", err)
	}

	result := ImportResult{Import: imp, Columns: make([]ColumnSummary, len(columns))}
	for i, c := range columns {
		result.Columns[i] = ColumnSummary(c)
	}
	return result, nil
}

// Readings returns a page of one column's values. limit is clamped to MaxReadingsLimit.
func (s *Service) Readings(ctx context.Context, id string, position, offset, limit int) ([]store.Reading, error) {
	uid, err := parseImportID(id)
	if err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = DefaultReadingsLimit
	}
	if limit > MaxReadingsLimit {
		limit = MaxReadingsLimit
	}

	readings, err := s.store.GetReadings(ctx, uid, position, offset, limit)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUnknownColumn
	}
	if err != nil {
		return nil, fmt.Errorf("get readings: %w", err)
	}
	return readings, nil
}

// DeleteImport removes an import and its readings.
func (s *Service) DeleteImport(ctx context.Context, id string) error {
	uid, err := parseImportID(id)
	if err != nil {
		return err
	}

	err = s.store.DeleteImport(ctx, uid)
	if errors.Is(err, store.ErrNotFound) {
		return ErrImportNotFound
	}
	if err != nil {
		return fmt.Errorf("delete import: %w", err)
	}

	s.log.Info("import deleted", "import_id", uid)
	return nil
}

// Health reports database reachability and limiter usage.
func (s *Service) Health(ctx context.Context) (LimiterStatus, error) {
	return s.limiter.Status(), s.store.Ping(ctx)
}

// WaitForImports blocks until running imports finish or ctx ends.
func (s *Service) WaitForImports(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// parseImportID treats malformed IDs as missing imports.
func parseImportID(id string) (uuid.UUID, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, ErrImportNotFound
	}
	return uid, nil
}
