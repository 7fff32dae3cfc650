package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubElement counts retains and releases.
type stubElement struct {
	refs int
}

func (e *stubElement) ElementType() string        { return "Stub" }
func (e *stubElement) ReadOnlyMembers() []string  { return nil }
func (e *stubElement) ReadWriteMembers() []string { return nil }
func (e *stubElement) MemberValue(name string) (Value, error) {
	return nil, Scriptf(-1, -1, "no member '%s'", name)
}
func (e *stubElement) SetMemberValue(name string, v Value) error {
	return Scriptf(-1, -1, "no member '%s'", name)
}
func (e *stubElement) Methods() []string { return nil }
func (e *stubElement) MethodSignature(name string) (*Signature, bool) {
	return nil, false
}
func (e *stubElement) ExecuteMethod(name string, args []Value, hc *HostContext) (Value, error) {
	return nil, Scriptf(-1, -1, "no method '%s'", name)
}
func (e *stubElement) Retain()  { e.refs++ }
func (e *stubElement) Release() { e.refs-- }

func TestIntrinsicConstants(t *testing.T) {
	st := NewSymbolTable()
	for _, name := range []string{"T", "F", "NULL", "PI", "E", "INF", "NAN"} {
		v, err := st.Get(name)
		require.NoError(t, err, name)
		assert.Equal(t, BorrowedEphemeral, v.Ownership(), "Get hands out borrows")
	}
}

func TestSetRejectsConstants(t *testing.T) {
	st := NewSymbolTable()
	err := st.Set("T", NewInteger(5))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'T' is a constant")
}

func TestSetCopiesBorrowedValues(t *testing.T) {
	st := NewSymbolTable()
	orig := NewInteger(1, 2, 3)
	require.NoError(t, st.Set("x", orig.Borrow()))

	got, err := st.Mutable("x")
	require.NoError(t, err)
	require.NoError(t, got.(*Integer).SetAt(0, 99))
	assert.Equal(t, int64(1), orig.Values[0], "table slot must not alias the source")
}

func TestSetStoresOwnedValuesDirectly(t *testing.T) {
	st := NewSymbolTable()
	owned := NewInteger(1)
	require.NoError(t, st.Set("x", owned))

	got, err := st.Mutable("x")
	require.NoError(t, err)
	assert.Same(t, Value(owned), got)
}

func TestGetUnknownIdentifier(t *testing.T) {
	st := NewSymbolTable()
	_, err := st.Get("nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "undefined identifier 'nope'")
}

func TestMutableUpgradesSingletonConstant(t *testing.T) {
	st := NewSymbolTable()
	require.NoError(t, st.Set("x", IntegerConst(5)))

	got, err := st.Mutable("x")
	require.NoError(t, err)
	require.NoError(t, got.(*Integer).SetAt(0, 6))

	v, err := st.Get("x")
	require.NoError(t, err)
	assert.Equal(t, int64(6), v.(*Integer).Values[0])
}

func TestDefineConstant(t *testing.T) {
	st := NewSymbolTable()
	require.NoError(t, st.DefineConstant("K", NewInteger(42)))

	err := st.Set("K", NewInteger(1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'K' is a constant")

	err = st.Remove("K")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be removed")

	err = st.DefineConstant("K", NewInteger(2))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already defined")

	st.RemoveConstantForHost("K")
	_, err = st.Get("K")
	assert.Error(t, err)
}

func TestObjectRetainRelease(t *testing.T) {
	st := NewSymbolTable()
	e := &stubElement{}
	obj := NewObject("Stub", e)

	require.NoError(t, st.Set("o", obj))
	assert.Equal(t, 1, e.refs)

	// Overwriting releases the old binding.
	require.NoError(t, st.Set("o", NewInteger(1)))
	assert.Equal(t, 0, e.refs)

	require.NoError(t, st.Set("o2", NewObject("Stub", e)))
	require.NoError(t, st.Remove("o2"))
	assert.Equal(t, 0, e.refs)
}

func TestNames(t *testing.T) {
	st := NewSymbolTable()
	require.NoError(t, st.Set("b", NewInteger(1)))
	require.NoError(t, st.Set("a", NewInteger(2)))
	consts, vars := st.Names()
	assert.Contains(t, consts, "PI")
	assert.Equal(t, []string{"a", "b"}, vars)
}
