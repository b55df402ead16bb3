package ingest

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapForStreaming(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{"plain", []byte("a,b\n1,2\n"), "a,b\n1,2\n"},
		{"utf8 bom stripped", []byte("\xEF\xBB\xBFa,b\n"), "a,b\n"},
		{"invalid byte replaced", []byte("a\xffb\n"), "a�b\n"},
		{"utf16le with bom", []byte{0xFF, 0xFE, 'a', 0, ',', 0, 'b', 0}, "a,b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, counter := WrapForStreaming(strings.NewReader(string(tt.input)), int64(len(tt.input)))
			got, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
			assert.Equal(t, int64(len(tt.input)), counter.BytesRead())
			assert.Equal(t, 100, counter.Progress())
		})
	}
}

func TestCountingReader_UnknownTotal(t *testing.T) {
	c := NewCountingReader(strings.NewReader("abc"), 0)
	_, err := io.ReadAll(c)
	require.NoError(t, err)
	assert.Equal(t, int64(3), c.BytesRead())
	assert.Equal(t, 0, c.Progress())
}
