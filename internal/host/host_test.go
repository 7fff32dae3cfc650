package host

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vex/internal/interp"
	"vex/internal/value"
)

func newHostInterp(t *testing.T) *interp.Interpreter {
	t.Helper()
	reg := interp.NewRegistry()
	require.NoError(t, Register(reg))
	in := interp.New(reg, value.NewSymbolTable())
	var out bytes.Buffer
	in.SetOutput(&out)
	in.SetLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	in.SetWorkDir(t.TempDir())
	return in
}

func eval(t *testing.T, in *interp.Interpreter, src string) value.Value {
	t.Helper()
	v, err := in.EvaluateScript(src)
	require.NoError(t, err, "script: %s", src)
	return v
}

func TestRegisterRejectsDoubleRegistration(t *testing.T) {
	reg := interp.NewRegistry()
	require.NoError(t, Register(reg))
	require.Error(t, Register(reg))
}

func TestPathElement(t *testing.T) {
	in := newHostInterp(t)

	assert.Equal(t, "F", eval(t, in, `p = Path("notes.txt"); p.exists;`).String())
	assert.Equal(t, `"notes.txt"`, eval(t, in, "p.path;").String())
	assert.Equal(t, "-1", eval(t, in, "p.size;").String())

	assert.Equal(t, "T", eval(t, in, `p.writeLines(c("alpha", "beta"));`).String())
	assert.Equal(t, "T", eval(t, in, "p.exists;").String())
	assert.Equal(t, `"alpha" "beta"`, eval(t, in, "p.readLines();").String())
	assert.Equal(t, "11", eval(t, in, "p.size;").String())

	assert.Equal(t, "T", eval(t, in, "p.delete();").String())
	assert.Equal(t, "F", eval(t, in, "p.delete();").String())

	// Reading a missing file is a branchable NULL, not an error.
	v := eval(t, in, "p.readLines();")
	assert.Equal(t, value.KindNull, v.Kind())

	_, err := in.EvaluateScript(`p.path = "other";`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read-only")
}

func TestDatabaseElementSQLite(t *testing.T) {
	in := newHostInterp(t)

	assert.Equal(t, "T", eval(t, in, `db = Database("sqlite3", ":memory:"); db.open;`).String())
	assert.Equal(t, `"sqlite3"`, eval(t, in, "db.driver;").String())

	v := eval(t, in, `db.execute("CREATE TABLE runs (gen INTEGER, fitness REAL)");`)
	assert.Equal(t, value.KindInteger, v.Kind())

	assert.Equal(t, "1", eval(t, in, `db.execute("INSERT INTO runs VALUES (1, 0.25)");`).String())
	assert.Equal(t, "1", eval(t, in, `db.execute("INSERT INTO runs VALUES (2, 0.5)");`).String())

	rows := eval(t, in, `db.query("SELECT gen, fitness FROM runs ORDER BY gen");`)
	require.Equal(t, 2, rows.Count())
	assert.Contains(t, rows.(*value.String).Values[0], "1")

	// Bad SQL is a branchable F, not an error.
	assert.Equal(t, "F", eval(t, in, `db.execute("NOT SQL");`).String())
	v = eval(t, in, `db.query("NOT SQL");`)
	assert.Equal(t, value.KindNull, v.Kind())

	eval(t, in, "db.close();")
	assert.Equal(t, "F", eval(t, in, "db.open;").String())
	assert.Equal(t, "F", eval(t, in, `db.execute("SELECT 1");`).String())
}

func TestDatabaseConstructorFailureIsNull(t *testing.T) {
	in := newHostInterp(t)
	v := eval(t, in, `db = Database("sqlite3", "/no/such/dir/x.db"); isNULL(db);`)
	assert.Equal(t, "T", v.String())
}

func TestDatabaseReleaseClosesConnection(t *testing.T) {
	ctx := &interp.CallContext{Log: slog.New(slog.NewTextHandler(io.Discard, nil))}
	v, err := fnDatabase(ctx, []value.Value{
		value.NewString("sqlite3"), value.NewString(":memory:"),
	})
	require.NoError(t, err)
	el := v.(*value.Object).Elements[0].(*DatabaseElement)

	el.Retain()
	el.Retain()
	el.Release()
	open, err := el.MemberValue("open")
	require.NoError(t, err)
	assert.Equal(t, "T", open.String())

	el.Release()
	open, err = el.MemberValue("open")
	require.NoError(t, err)
	assert.Equal(t, "F", open.String())
}
