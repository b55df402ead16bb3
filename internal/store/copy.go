package store

import (
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/tsimport/internal/ingest"
)

var readingColumns = []string{"import_id", "position", "row_index", "t", "value"}

// readingSource streams every numeric cell of a table to CopyFrom, column by column.
// It implements pgx.CopyFromSource.
type readingSource struct {
	id      pgtype.UUID
	table   *ingest.Table
	columns []int // indexes of numeric columns
	col     int
	row     int
	started bool
}

func newReadingSource(id pgtype.UUID, table *ingest.Table) *readingSource {
	src := &readingSource{id: id, table: table}
	for i := range table.Columns {
		if table.Columns[i].Numeric() {
			src.columns = append(src.columns, i)
		}
	}
	return src
}

func (s *readingSource) Next() bool {
	if !s.started {
		s.started = true
	} else {
		s.row++
	}
	for s.col < len(s.columns) {
		if s.row < len(s.table.Columns[s.columns[s.col]].Values) {
			return true
		}
		s.col++
		s.row = 0
	}
	return false
}

func (s *readingSource) Values() ([]any, error) {
	col := &s.table.Columns[s.columns[s.col]]
	t, ok := s.table.Time(s.row)
	return []any{
		s.id,
		col.Position,
		s.row,
		pgtype.Float8{Float64: t, Valid: ok},
		col.Values[s.row],
	}, nil
}

func (s *readingSource) Err() error {
	return nil
}
