package store

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/tsimport/internal/ingest"
	"github.com/JonMunkholm/tsimport/internal/timestamp"
)

func f8(v float64) pgtype.Float8 { return pgtype.Float8{Float64: v, Valid: true} }

func drain(t *testing.T, src *readingSource) [][]any {
	t.Helper()
	var out [][]any
	for src.Next() {
		vals, err := src.Values()
		require.NoError(t, err)
		out = append(out, vals)
	}
	require.NoError(t, src.Err())
	return out
}

func TestReadingSource(t *testing.T) {
	id := toPgUUID(uuid.New())
	table := &ingest.Table{
		Rows:      2,
		TimeIndex: 0,
		Columns: []ingest.Column{
			{Name: "t", Position: 0, Info: timestamp.ColumnTypeInfo{Type: timestamp.TypeEpochSeconds},
				Values: []pgtype.Float8{f8(100), {}}},
			{Name: "label", Position: 1, Info: timestamp.ColumnTypeInfo{Type: timestamp.TypeString}},
			{Name: "v", Position: 2, Info: timestamp.ColumnTypeInfo{Type: timestamp.TypeNumber},
				Values: []pgtype.Float8{{}, f8(2.5)}},
		},
	}

	rows := drain(t, newReadingSource(id, table))

	require.Len(t, rows, 4)
	assert.Equal(t, []any{id, 0, 0, f8(100), f8(100)}, rows[0])
	assert.Equal(t, []any{id, 0, 1, pgtype.Float8{}, pgtype.Float8{}}, rows[1])
	assert.Equal(t, []any{id, 2, 0, f8(100), pgtype.Float8{}}, rows[2])
	assert.Equal(t, []any{id, 2, 1, pgtype.Float8{}, f8(2.5)}, rows[3])
}

func TestReadingSource_RowIndexTime(t *testing.T) {
	table := &ingest.Table{
		Rows:      2,
		TimeIndex: -1,
		Columns: []ingest.Column{
			{Name: "v", Info: timestamp.ColumnTypeInfo{Type: timestamp.TypeNumber},
				Values: []pgtype.Float8{f8(1), f8(2)}},
		},
	}

	rows := drain(t, newReadingSource(pgtype.UUID{}, table))

	require.Len(t, rows, 2)
	assert.Equal(t, f8(0), rows[0][3])
	assert.Equal(t, f8(1), rows[1][3])
}

func TestReadingSource_NoNumericColumns(t *testing.T) {
	table := &ingest.Table{
		Rows:      1,
		TimeIndex: -1,
		Columns:   []ingest.Column{{Name: "s", Info: timestamp.ColumnTypeInfo{Type: timestamp.TypeString}}},
	}

	assert.Empty(t, drain(t, newReadingSource(pgtype.UUID{}, table)))
}

func TestToPgText(t *testing.T) {
	assert.False(t, toPgText("").Valid)
	assert.Equal(t, pgtype.Text{String: "x", Valid: true}, toPgText("x"))
}
