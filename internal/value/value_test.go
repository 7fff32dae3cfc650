package value

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyIsDeepAndOwned(t *testing.T) {
	orig := NewInteger(1, 2, 3)
	cp := orig.Copy().(*Integer)

	require.NoError(t, cp.SetAt(0, 99))
	assert.Equal(t, int64(1), orig.Values[0])
	assert.Equal(t, Owned, cp.Ownership())
	assert.True(t, cp.IsMutable())
}

func TestBorrowAliasesButCannotMutate(t *testing.T) {
	orig := NewFloat(1.5, 2.5)
	b := orig.Borrow().(*Float)

	assert.Equal(t, BorrowedEphemeral, b.Ownership())
	assert.Equal(t, orig.Values[1], b.Values[1])

	err := b.SetAt(0, 9.9)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "immutable value")
	assert.Equal(t, 1.5, orig.Values[0])
}

func TestSingletonConstantRejectsMutation(t *testing.T) {
	c := IntegerConst(7)
	assert.False(t, c.IsMutable())

	err := c.SetAt(0, 8)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "immutable value")

	err = c.Push(9)
	require.Error(t, err)
}

func TestPermanentAcceptsOnlyImmutableSingletons(t *testing.T) {
	p, err := Permanent(StringConst("x"))
	require.NoError(t, err)
	assert.Equal(t, BorrowedPermanent, p.Ownership())

	_, err = Permanent(NewInteger(1))
	require.Error(t, err)
	var internal *InternalError
	require.ErrorAs(t, err, &internal)

	_, err = Permanent(LogicalConst(true).Copy())
	require.Error(t, err)
}

func TestPermanentStatics(t *testing.T) {
	assert.Equal(t, BorrowedPermanent, True.Ownership())
	assert.Equal(t, BorrowedPermanent, False.Ownership())
	assert.Equal(t, BorrowedPermanent, NullValue.Ownership())
	assert.False(t, IsInvisible(NullValue))
	assert.True(t, IsInvisible(NullInvisible))
}

func TestMarkInvisible(t *testing.T) {
	v := MarkInvisible(NewInteger(7))
	assert.True(t, IsInvisible(v))
	assert.Equal(t, KindInteger, v.Kind())
	assert.Equal(t, "7", v.String())
	assert.Equal(t, BorrowedEphemeral, v.Ownership())

	// Borrow keeps the flag, Copy drops it.
	assert.True(t, IsInvisible(v.Borrow()))
	assert.False(t, IsInvisible(v.Copy()))
}

func TestPromotedKind(t *testing.T) {
	tests := []struct {
		a, b Kind
		want Kind
	}{
		{KindLogical, KindInteger, KindInteger},
		{KindInteger, KindFloat, KindFloat},
		{KindFloat, KindString, KindString},
		{KindLogical, KindLogical, KindLogical},
		{KindString, KindInteger, KindString},
	}
	for _, tt := range tests {
		got, err := PromotedKind(tt.a, tt.b)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := PromotedKind(KindNull, KindInteger)
	assert.Error(t, err)
	_, err = PromotedKind(KindInteger, KindObject)
	assert.Error(t, err)
}

func TestConversions(t *testing.T) {
	n, err := IntegerAt(NewFloat(3.9), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n, "float to integer truncates toward zero")

	n, err = IntegerAt(NewFloat(-3.9), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(-3), n)

	_, err = IntegerAt(NewFloat(1e19), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")

	_, err = IntegerAt(NewFloat(math.NaN()), 0)
	require.Error(t, err)

	b, err := LogicalAt(NewInteger(0, 5), 1)
	require.NoError(t, err)
	assert.True(t, b)

	_, err = LogicalAt(NewFloat(math.NaN()), 0)
	require.Error(t, err)

	s, err := StringAt(NewFloat(math.Inf(1)), 0)
	require.NoError(t, err)
	assert.Equal(t, "INF", s)
}

func TestCompare(t *testing.T) {
	c, err := Compare(NewInteger(3), 0, NewFloat(3.0), 0)
	require.NoError(t, err)
	assert.Equal(t, 0, c)

	c, err = Compare(NewString("10"), 0, NewInteger(9), 0)
	require.NoError(t, err)
	assert.Equal(t, -1, c, "string promotion compares lexically")

	c, err = Compare(NewLogical(true), 0, NewInteger(0), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, c)

	_, err = Compare(NewInteger(1), 0, &Null{}, 0)
	assert.Error(t, err)
}

func TestPushFromIndexBuildsMatchingVectors(t *testing.T) {
	src := NewString("a", "b", "c")
	dst := src.NewMatching()
	require.NoError(t, dst.PushFromIndex(src, 2))
	require.NoError(t, dst.PushFromIndex(src, 0))
	assert.Equal(t, []string{"c", "a"}, dst.(*String).Values)

	err := dst.PushFromIndex(NewInteger(1), 0)
	assert.Error(t, err)
}

func TestStringForms(t *testing.T) {
	assert.Equal(t, "T F", NewLogical(true, false).String())
	assert.Equal(t, "1 2 3", NewInteger(1, 2, 3).String())
	assert.Equal(t, `"hi"`, NewString("hi").String())
	assert.Equal(t, "NULL", (&Null{}).String())
	assert.Equal(t, "NAN", FormatFloat(math.NaN()))
	assert.Equal(t, "-INF", FormatFloat(math.Inf(-1)))
}
