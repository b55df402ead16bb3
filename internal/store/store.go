// Package store persists finished imports in PostgreSQL.
//
// An import is three tables: one imports row, one import_columns row per header column,
// and one import_readings row per (numeric column, data row). Absent readings are NULL.
package store

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/tsimport/internal/ingest"
	"github.com/JonMunkholm/tsimport/internal/timestamp"
)

//go:embed schema.sql
var schemaSQL string

// ErrNotFound is returned when an import or column does not exist.
var ErrNotFound = errors.New("not found")

// DefaultListLimit caps ListImports when no limit is given.
const DefaultListLimit = 50

// Import is the summary row of one stored file.
type Import struct {
	ID         uuid.UUID `json:"id"`
	FileName   string    `json:"file_name"`
	Rows       int       `json:"rows"`
	Columns    int       `json:"columns"`
	TimeColumn string    `json:"time_column,omitempty"`
	Unsorted   bool      `json:"unsorted"`
	Delimiter  string    `json:"delimiter"`
	BytesRead  int64     `json:"bytes_read"`
	CreatedAt  time.Time `json:"created_at"`
}

// ImportColumn is the cached type decision for one column of an import.
type ImportColumn struct {
	Position int                      `json:"position"`
	Name     string                   `json:"name"`
	Info     timestamp.ColumnTypeInfo `json:"info"`
	Sample   string                   `json:"sample"`
	Missing  int                      `json:"missing"`
}

// Reading is one stored cell. Time and Value are invalid when absent.
type Reading struct {
	Row   int           `json:"row"`
	Time  pgtype.Float8 `json:"time"`
	Value pgtype.Float8 `json:"value"`
}

// Store reads and writes imports through a pgx pool.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store on pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Migrate creates the tables when they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// SaveImport stores a parsed table in one transaction and returns its summary.
func (s *Store) SaveImport(ctx context.Context, fileName string, table *ingest.Table) (Import, error) {
	imp := Import{
		ID:        uuid.New(),
		FileName:  fileName,
		Rows:      table.Rows,
		Columns:   len(table.Columns),
		Unsorted:  table.Unsorted,
		Delimiter: string(table.Delimiter),
		BytesRead: table.BytesRead,
	}
	if tc := table.TimeColumn(); tc != nil {
		imp.TimeColumn = tc.Name
	}
	id := toPgUUID(imp.ID)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Import{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO imports (id, file_name, row_count, column_count, time_column, unsorted, delimiter, bytes_read)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`,
		id, imp.FileName, imp.Rows, imp.Columns, toPgText(imp.TimeColumn), imp.Unsorted, imp.Delimiter, imp.BytesRead,
	).Scan(&imp.CreatedAt)
	if err != nil {
		return Import{}, fmt.Errorf("insert import: %w", err)
	}

	batch := &pgx.Batch{}
	for _, col := range table.Columns {
		batch.Queue(`
			INSERT INTO import_columns (import_id, position, name, column_type, format, has_fractional, sample, missing)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			id, col.Position, col.Name, col.Info.Type.String(), toPgText(col.Info.Format),
			col.Info.HasFractional, col.Sample, col.Missing,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return Import{}, fmt.Errorf("insert columns: %w", err)
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"import_readings"},
		readingColumns,
		newReadingSource(id, table),
	)
	if err != nil {
		return Import{}, fmt.Errorf("copy readings: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Import{}, fmt.Errorf("commit: %w", err)
	}

	return imp, nil
}

const importColumns = `id, file_name, row_count, column_count, time_column, unsorted, delimiter, bytes_read, created_at`

func scanImport(row pgx.Row) (Import, error) {
	var (
		imp        Import
		id         pgtype.UUID
		timeColumn pgtype.Text
	)
	err := row.Scan(&id, &imp.FileName, &imp.Rows, &imp.Columns, &timeColumn,
		&imp.Unsorted, &imp.Delimiter, &imp.BytesRead, &imp.CreatedAt)
	if err != nil {
		return Import{}, err
	}
	imp.ID = uuid.UUID(id.Bytes)
	imp.TimeColumn = timeColumn.String
	return imp, nil
}

// GetImport returns an import and its columns ordered by position.
func (s *Store) GetImport(ctx context.Context, id uuid.UUID) (Import, []ImportColumn, error) {
	imp, err := scanImport(s.pool.QueryRow(ctx,
		`SELECT `+importColumns+` FROM imports WHERE id = $1`, toPgUUID(id)))
	if errors.Is(err, pgx.ErrNoRows) {
		return Import{}, nil, ErrNotFound
	}
	if err != nil {
		return Import{}, nil, fmt.Errorf("get import: %w", err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT position, name, column_type, format, has_fractional, sample, missing
		FROM import_columns WHERE import_id = $1 ORDER BY position`, toPgUUID(id))
	if err != nil {
		return Import{}, nil, fmt.Errorf("get columns: %w", err)
	}
	defer rows.Close()

	var columns []ImportColumn
	for rows.Next() {
		var (
			c        ImportColumn
			typeName string
			format   pgtype.Text
		)
		if err := rows.Scan(&c.Position, &c.Name, &typeName, &format, &c.Info.HasFractional, &c.Sample, &c.Missing); err != nil {
			return Import{}, nil, fmt.Errorf("scan column: %w", err)
		}
		if err := c.Info.Type.UnmarshalText([]byte(typeName)); err != nil {
			return Import{}, nil, fmt.Errorf("column %d: %w", c.Position, err)
		}
		c.Info.Format = format.String
		columns = append(columns, c)
	}
	if err := rows.Err(); err != nil {
		return Import{}, nil, fmt.Errorf("iterate columns: %w", err)
	}

	return imp, columns, nil
}

// ListImports returns the most recent imports first.
func (s *Store) ListImports(ctx context.Context, limit int) ([]Import, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := s.pool.Query(ctx,
		`SELECT `+importColumns+` FROM imports ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list imports: %w", err)
	}
	defer rows.Close()

	imports := []Import{}
	for rows.Next() {
		imp, err := scanImport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan import: %w", err)
		}
		imports = append(imports, imp)
	}
	return imports, rows.Err()
}

// GetReadings returns a page of readings for one column ordered by row.
func (s *Store) GetReadings(ctx context.Context, id uuid.UUID, position, offset, limit int) ([]Reading, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM import_columns WHERE import_id = $1 AND position = $2)`,
		toPgUUID(id), position,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("check column: %w", err)
	}
	if !exists {
		return nil, ErrNotFound
	}

	rows, err := s.pool.Query(ctx, `
		SELECT row_index, t, value FROM import_readings
		WHERE import_id = $1 AND position = $2
		ORDER BY row_index
		OFFSET $3 LIMIT $4`,
		toPgUUID(id), position, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("get readings: %w", err)
	}
	defer rows.Close()

	readings := []Reading{}
	for rows.Next() {
		var r Reading
		if err := rows.Scan(&r.Row, &r.Time, &r.Value); err != nil {
			return nil, fmt.Errorf("scan reading: %w", err)
		}
		readings = append(readings, r)
	}
	return readings, rows.Err()
}

// DeleteImport removes an import and everything stored under it.
func (s *Store) DeleteImport(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM imports WHERE id = $1`, toPgUUID(id))
	if err != nil {
		return fmt.Errorf("delete import: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func toPgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

func toPgText(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

// DeleteImportsBefore removes imports created before cutoff and returns how many went.
func (s *Store) DeleteImportsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM imports WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete expired imports: %w", err)
	}
	return tag.RowsAffected(), nil
}
