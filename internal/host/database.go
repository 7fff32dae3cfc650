package host

import (
	"database/sql"
	"strings"
	"sync/atomic"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"vex/internal/interp"
	"vex/internal/value"
)

// DatabaseElement exposes a database/sql connection to scripts, the element
// hosts use to persist per-run output. The connection is reference counted
// through the symbol table; dropping the last binding closes it.
type DatabaseElement struct {
	driver string
	dsn    string
	db     *sql.DB
	refs   atomic.Int32
}

var (
	dbExecuteSig = value.NewSignature("execute", value.MaskInteger|value.MaskLogical|value.MaskSingleton).
			AddArg(value.MaskString|value.MaskSingleton, "statement")
	dbQuerySig = value.NewSignature("query", value.MaskString|value.MaskNull).
			AddArg(value.MaskString|value.MaskSingleton, "statement")
	dbCloseSig = value.NewSignature("close", value.MaskNull)
)

func (e *DatabaseElement) ElementType() string        { return "Database" }
func (e *DatabaseElement) ReadOnlyMembers() []string  { return []string{"driver", "dsn", "open"} }
func (e *DatabaseElement) ReadWriteMembers() []string { return nil }

func (e *DatabaseElement) MemberValue(name string) (value.Value, error) {
	switch name {
	case "driver":
		return value.NewString(e.driver), nil
	case "dsn":
		return value.NewString(e.dsn), nil
	case "open":
		return value.FromBool(e.db != nil), nil
	}
	return nil, value.Scriptf(-1, -1, "member '%s' is not defined for element type Database", name)
}

func (e *DatabaseElement) SetMemberValue(name string, v value.Value) error {
	switch name {
	case "driver", "dsn", "open":
		return value.Scriptf(-1, -1, "member '%s' is read-only", name)
	}
	return value.Scriptf(-1, -1, "member '%s' is not defined for element type Database", name)
}

func (e *DatabaseElement) Methods() []string { return []string{"execute", "query", "close"} }

func (e *DatabaseElement) MethodSignature(name string) (*value.Signature, bool) {
	switch name {
	case "execute":
		return dbExecuteSig, true
	case "query":
		return dbQuerySig, true
	case "close":
		return dbCloseSig, true
	}
	return nil, false
}

func (e *DatabaseElement) ExecuteMethod(name string, args []value.Value, hc *value.HostContext) (value.Value, error) {
	switch name {
	case "execute":
		if e.db == nil {
			return value.False, nil
		}
		stmt := args[0].(*value.String).Values[0]
		res, err := e.db.Exec(stmt)
		if err != nil {
			hc.Log.Debug("execute failed", "driver", e.driver, "err", err)
			return value.False, nil
		}
		affected, err := res.RowsAffected()
		if err != nil {
			affected = 0
		}
		return value.NewInteger(affected), nil
	case "query":
		if e.db == nil {
			return value.NullValue, nil
		}
		stmt := args[0].(*value.String).Values[0]
		rows, err := e.db.Query(stmt)
		if err != nil {
			hc.Log.Debug("query failed", "driver", e.driver, "err", err)
			return value.NullValue, nil
		}
		defer rows.Close()
		out, err := scanRows(rows)
		if err != nil {
			hc.Log.Debug("query scan failed", "driver", e.driver, "err", err)
			return value.NullValue, nil
		}
		return value.NewString(out...), nil
	case "close":
		e.closeDB()
		return value.NullInvisible, nil
	}
	return nil, value.Scriptf(-1, -1, "method '%s' is not defined for element type Database", name)
}

// scanRows renders every row as one tab-joined string.
func scanRows(rows *sql.Rows) ([]string, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var out []string
	raw := make([]sql.NullString, len(cols))
	ptrs := make([]any, len(cols))
	for i := range raw {
		ptrs[i] = &raw[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		fields := make([]string, len(cols))
		for i, v := range raw {
			if v.Valid {
				fields[i] = v.String
			} else {
				fields[i] = "NULL"
			}
		}
		out = append(out, strings.Join(fields, "\t"))
	}
	return out, rows.Err()
}

func (e *DatabaseElement) closeDB() {
	if e.db != nil {
		e.db.Close()
		e.db = nil
	}
}

// Retain and Release implement the runtime's reference protocol; the last
// release closes the connection.
func (e *DatabaseElement) Retain() {
	e.refs.Add(1)
}

func (e *DatabaseElement) Release() {
	if e.refs.Add(-1) <= 0 {
		e.closeDB()
	}
}

// fnDatabase is the Database() constructor. An unreachable database yields
// NULL so scripts can branch on the failure.
func fnDatabase(ctx *interp.CallContext, args []value.Value) (value.Value, error) {
	driver := args[0].(*value.String).Values[0]
	dsn := args[1].(*value.String).Values[0]
	db, err := sql.Open(driver, dsn)
	if err == nil {
		err = db.Ping()
	}
	if err != nil {
		ctx.Log.Debug("database open failed", "driver", driver, "err", err)
		if db != nil {
			db.Close()
		}
		return value.NullValue, nil
	}
	return value.NewObject("Database", &DatabaseElement{driver: driver, dsn: dsn, db: db}), nil
}
