package timestamp

import "strings"

// Qt-style tokens accepted from user configuration, longest first so "yyyy" wins over "yy".
var qtTokens = []struct {
	token     string
	directive string
}{
	{"yyyy", "%Y"},
	{"yy", "%y"},
	{"MM", "%m"},
	{"dd", "%d"},
	{"hh", "%H"},
	{"HH", "%H"},
	{"mm", "%M"},
	{"ss", "%S"},
}

// CompileQtFormat translates a Qt-style date-time template (yyyy, yy, MM, dd, hh, HH, mm,
// ss) into a DATETIME ColumnTypeInfo. A ".z" run (".zzz", ".zzzzzz", ...) is removed from
// the pattern and sets HasFractional; the fraction is then handled by
// ExtractFractionalSeconds instead of the pattern matcher. Text inside single quotes is
// literal, and two single quotes produce one.
func CompileQtFormat(format string) ColumnTypeInfo {
	var b strings.Builder
	hasFrac := false

	for i := 0; i < len(format); {
		c := format[i]

		if c == '.' && i+1 < len(format) && format[i+1] == 'z' {
			i++
			for i < len(format) && format[i] == 'z' {
				i++
			}
			hasFrac = true
			continue
		}

		if c == '\'' {
			if i+1 < len(format) && format[i+1] == '\'' {
				b.WriteByte('\'')
				i += 2
				continue
			}
			end := strings.IndexByte(format[i+1:], '\'')
			if end < 0 {
				end = len(format) - i - 1
			}
			writeLiteral(&b, format[i+1:i+1+end])
			i += end + 2
			continue
		}

		if directive, n := qtToken(format[i:]); n > 0 {
			b.WriteString(directive)
			i += n
			continue
		}

		writeLiteral(&b, format[i:i+1])
		i++
	}

	return ColumnTypeInfo{Type: TypeDatetime, Format: b.String(), HasFractional: hasFrac}
}

func qtToken(s string) (string, int) {
	for _, t := range qtTokens {
		if strings.HasPrefix(s, t.token) {
			return t.directive, len(t.token)
		}
	}
	return "", 0
}

func writeLiteral(b *strings.Builder, s string) {
	b.WriteString(strings.ReplaceAll(s, "%", "%%"))
}

// FormatParseTimestamp parses one value against a Qt-style template. A trailing fraction
// only counts when the template carries a ".z" marker; otherwise it is ignored.
func FormatParseTimestamp(s, format string) (float64, bool) {
	trimmed := Trim(s)
	if trimmed == "" {
		return 0, false
	}
	info := CompileQtFormat(format)
	if info.Format == "" {
		return 0, false
	}
	base, frac := ExtractFractionalSeconds(trimmed)
	if !info.HasFractional {
		frac = 0
	}
	return TryParseFormat(base, info.Format, frac)
}
