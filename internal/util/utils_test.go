package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetLineAndColumn(t *testing.T) {
	src := "x = 1;\ny = 2;\nz = oops;"

	line, col := GetLineAndColumn(src, 0)
	assert.Equal(t, 1, line)
	assert.Equal(t, 1, col)

	line, col = GetLineAndColumn(src, 7)
	assert.Equal(t, 2, line)
	assert.Equal(t, 1, col)

	line, col = GetLineAndColumn(src, 18)
	assert.Equal(t, 3, line)
	assert.Equal(t, 5, col)
}

func TestFormatErrorContext(t *testing.T) {
	src := "x = 1;\ny = 2;\nz = oops;"
	out := FormatErrorContext(src, 18)

	assert.Contains(t, out, "       1 | x = 1;")
	assert.Contains(t, out, "       2 | y = 2;")
	assert.Contains(t, out, "  >    3 | z = oops;")
	assert.Contains(t, out, "^")
}

func TestFormatErrorContextOutOfRange(t *testing.T) {
	assert.Equal(t, "", FormatErrorContext("x;", -1))
	assert.Equal(t, "", FormatErrorContext("x;", 10))
}
