package interp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vex/internal/value"
)

func TestVectorBuilders(t *testing.T) {
	assertScript(t, "c(1, 2, 3);", "1 2 3")
	assertScript(t, "c(1, 2.5);", "1 2.5")
	assertScript(t, `c(1, "a");`, `"1" "a"`)
	assertScript(t, "c(T, 2);", "1 2")
	assertScript(t, "c(NULL, 1, NULL);", "1")
	assertScript(t, "c();", "NULL")
	assertScript(t, "c(c(1, 2), 3);", "1 2 3")

	assertScript(t, "rep(1:2, 3);", "1 2 1 2 1 2")
	assertScript(t, "rep(5, 0);", "")
	assertScript(t, "repEach(1:3, 2);", "1 1 2 2 3 3")
	assertScript(t, "repEach(1:3, c(3, 0, 1));", "1 1 1 3")
	assertScriptError(t, "repEach(1:3, c(1, 2));", "size() 1 or match")

	assertScript(t, "seq(1, 10, 3);", "1 4 7 10")
	assertScript(t, "seq(5, 1);", "5 4 3 2 1")
	assertScript(t, "seq(1, 2, 0.5);", "1 1.5 2")
	assertScriptError(t, "seq(1, 10, 0);", "by must not be 0")
	assertScriptError(t, "seq(1, 10, -1);", "wrong sign")
	// Extreme endpoints overflow the length cap, not the sign test.
	assertScriptError(t, "seq(-9223372036854775807, 9223372036854775807);", "sequence is too long")
	assertScript(t, "seq(9223372036854775805, 9223372036854775807);", "9223372036854775805 9223372036854775806 9223372036854775807")
	assertScript(t, `seqAlong(c("a", "b", "c"));`, "0 1 2")
}

func TestVectorInspection(t *testing.T) {
	assertScript(t, "size(1:4);", "4")
	assertScript(t, "size(NULL);", "0")
	assertScript(t, "rev(1:3);", "3 2 1")
	assertScript(t, `rev(c("a", "b"));`, `"b" "a"`)
	assertScript(t, "sort(c(3, 1, 2));", "1 2 3")
	assertScript(t, "sort(c(3, 1, 2), F);", "3 2 1")
	assertScript(t, `sort(c("b", "a", "c"));`, `"a" "b" "c"`)
}

func TestTypeInspectionAndCoercion(t *testing.T) {
	assertScript(t, "class(1);", `"integer"`)
	assertScript(t, "class(1.5);", `"float"`)
	assertScript(t, "class(NULL);", `"NULL"`)
	assertScript(t, "isInteger(1);", "T")
	assertScript(t, "isFloat(1);", "F")
	assertScript(t, "isNULL(NULL);", "T")
	assertScript(t, "isString(c(1, 2));", "F")

	assertScript(t, "asInteger(c(1.9, -1.9));", "1 -1")
	assertScript(t, `asInteger("42");`, "42")
	assertScript(t, "asFloat(c(T, F));", "1 0")
	assertScript(t, "asString(c(1, 2.5));", `"1" "2.5"`)
	assertScript(t, `asLogical(c("T", "false"));`, "T F")
	assertScriptError(t, `asLogical("maybe");`, "cannot be converted to logical")
	assertScriptError(t, `asInteger("x");`, "cannot be converted to integer")
}

func TestStatistics(t *testing.T) {
	assertScript(t, "sum(1:4);", "10")
	assertScript(t, "sum(c(T, T, F));", "2")
	assertScript(t, "sum(c(1.5, 2.5));", "4")
	assertScript(t, "prod(1:4);", "24")
	assertScript(t, "mean(1:4);", "2.5")
	assertScript(t, "abs(c(-1, 2));", "1 2")
	assertScript(t, "abs(-1.5);", "1.5")
	assertScript(t, "sqrt(c(4, 9));", "2 3")
	assertScript(t, "floor(1.7);", "1")
	assertScript(t, "round(2.5);", "3")
	assertScriptError(t, "sum(c(9223372036854775807, 1));", "integer overflow")
}

func TestOutputBuiltins(t *testing.T) {
	in, out := newTestInterp(t)
	_, err := in.EvaluateScript(`print(1:3); cat("a", 1:2); cat("!");`)
	require.NoError(t, err)
	assert.Equal(t, "1 2 3\na 1 2!", out.String())
}

func TestStop(t *testing.T) {
	assertScriptError(t, `stop("boom");`, "boom")
	assertScriptError(t, "stop();", "stop() called")
	// stop() only fires when reached; resource style failures stay branchable.
	assertScript(t, `if (F) stop("boom"); else 7;`, "7")
}

func TestConsoleBuiltins(t *testing.T) {
	in, out := newTestInterp(t)
	_, err := in.EvaluateScript(`x = 42; ls();`)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "x = 42")
	assert.Contains(t, out.String(), "PI")

	out.Reset()
	_, err = in.EvaluateScript(`function("rep");`)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "rep(")

	out.Reset()
	_, err = in.EvaluateScript(`function("nosuch");`)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "no function named 'nosuch'")

	v, err := in.EvaluateScript("version();")
	require.NoError(t, err)
	assert.Equal(t, `"`+Version+`"`, v.String())

	_, err = in.EvaluateScript(`x = 1; rm("x"); x;`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "undefined identifier 'x'")
}

func TestFileBuiltins(t *testing.T) {
	in, _ := newTestInterp(t)
	dir := t.TempDir()
	in.SetWorkDir(dir)

	v, err := in.EvaluateScript(`writeFile("out.txt", c("one", "two"));`)
	require.NoError(t, err)
	assert.Equal(t, "T", v.String())

	data, err := os.ReadFile(filepath.Join(dir, "out.txt"))
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\n", string(data))

	v, err = in.EvaluateScript(`readFile("out.txt");`)
	require.NoError(t, err)
	assert.Equal(t, `"one" "two"`, v.String())

	v, err = in.EvaluateScript(`fileExists("out.txt");`)
	require.NoError(t, err)
	assert.Equal(t, "T", v.String())

	v, err = in.EvaluateScript(`writeFile("out.txt", "three", T); readFile("out.txt");`)
	require.NoError(t, err)
	assert.Equal(t, `"one" "two" "three"`, v.String())

	v, err = in.EvaluateScript(`deleteFile("out.txt");`)
	require.NoError(t, err)
	assert.Equal(t, "T", v.String())

	// Failures are branchable values, not errors.
	v, err = in.EvaluateScript(`readFile("missing.txt");`)
	require.NoError(t, err)
	assert.Equal(t, value.KindNull, v.Kind())

	v, err = in.EvaluateScript(`if (isNULL(readFile("missing.txt"))) "fallback"; else "read";`)
	require.NoError(t, err)
	assert.Equal(t, `"fallback"`, v.String())

	v, err = in.EvaluateScript(`deleteFile("missing.txt");`)
	require.NoError(t, err)
	assert.Equal(t, "F", v.String())
}
