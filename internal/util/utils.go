package util

import (
	"bytes"
	"fmt"
	"strings"
)

func GetLineAndColumn(src string, pos int) (line int, column int) {
	line = 1
	column = 1
	for i, char := range src {
		if i == pos {
			break
		}
		if char == '\n' {
			line++
			column = 1
		} else {
			column++
		}
	}
	return
}

// FormatErrorContext renders the source line holding pos with a caret under
// the offending column, plus up to two preceding lines.
func FormatErrorContext(src string, pos int) string {
	if pos < 0 || pos > len(src) {
		return ""
	}
	errLine, errCol := GetLineAndColumn(src, pos)
	lines := strings.Split(src, "\n")

	var result bytes.Buffer
	startLine := errLine - 2
	if startLine < 1 {
		startLine = 1
	}
	for i := startLine; i <= errLine && i <= len(lines); i++ {
		content := lines[i-1]
		if i == errLine {
			margin := fmt.Sprintf("  >  %3d | ", i)
			fmt.Fprintf(&result, "%s%s\n", margin, content)
			caretCol := errCol - 1
			if caretCol > len(content) {
				caretCol = len(content)
			}
			fmt.Fprintf(&result, "%s^\n", blankOut(margin+content[:caretCol]))
		} else {
			fmt.Fprintf(&result, "     %3d | %s\n", i, content)
		}
	}
	return result.String()
}

// blankOut replaces visible characters with spaces, keeping tabs so the
// caret lines up.
func blankOut(s string) string {
	var buf bytes.Buffer
	for _, c := range s {
		if c == '\t' {
			buf.WriteRune('\t')
		} else {
			buf.WriteRune(' ')
		}
	}
	return buf.String()
}
