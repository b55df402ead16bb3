package ingest

import (
	"bufio"
	"fmt"
	"strings"
)

// Delimiters considered when none is configured, in tie-break order.
var candidateDelimiters = []rune{',', ';', '\t', '|'}

// sniffLimit bounds how far GuessDelimiter looks for the end of the first line.
const sniffLimit = 64 * 1024

// GuessDelimiter peeks at the first line of br and returns the candidate delimiter that
// occurs most often outside double quotes. Nothing is consumed from br. Comma wins when
// no candidate appears.
func GuessDelimiter(br *bufio.Reader) rune {
	// Peek returns whatever is buffered alongside io.EOF or ErrBufferFull.
	buf, _ := br.Peek(sniffLimit)
	line := string(buf)
	if i := strings.IndexAny(line, "\r\n"); i >= 0 {
		line = line[:i]
	}
	return guessFromLine(line)
}

func guessFromLine(line string) rune {
	counts := make(map[rune]int, len(candidateDelimiters))
	quoted := false
	for _, r := range line {
		if r == '"' {
			quoted = !quoted
			continue
		}
		if !quoted {
			counts[r]++
		}
	}

	best, bestCount := ',', 0
	for _, d := range candidateDelimiters {
		if counts[d] > bestCount {
			best, bestCount = d, counts[d]
		}
	}
	return best
}

// NormalizeHeader cleans header cells and makes every name unique and non-empty.
// Blank names become column_N (1-based position); repeated names get _2, _3, ...
func NormalizeHeader(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int, len(header))

	for i, h := range header {
		name := cleanCell(h)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		key := strings.ToLower(name)
		if n := seen[key]; n > 0 {
			seen[key] = n + 1
			name = fmt.Sprintf("%s_%d", name, n+1)
			key = strings.ToLower(name)
		}
		seen[key]++
		out[i] = name
	}
	return out
}

// cleanCell trims whitespace, an Excel ="..." wrapper and surrounding quotes.
func cleanCell(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") && len(s) >= 3 {
		s = s[2 : len(s)-1]
	}
	return strings.TrimSpace(strings.Trim(s, `"'`))
}
