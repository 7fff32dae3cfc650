package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vex/internal/parser"
	"vex/internal/value"
)

func TestFoldLiterals(t *testing.T) {
	root, err := parser.Parse(`x = 5; y = 2.5; s = "hi";`)
	require.NoError(t, err)
	require.NoError(t, Optimize(root, NewRegistry()))

	num := root.Children[0].Children[1]
	require.NotNil(t, num.CachedValue)
	assert.Equal(t, value.KindInteger, num.CachedValue.Kind())
	assert.Equal(t, value.BorrowedEphemeral, num.CachedValue.Ownership())
	assert.False(t, num.CachedValue.IsMutable())

	flt := root.Children[1].Children[1]
	require.NotNil(t, flt.CachedValue)
	assert.Equal(t, value.KindFloat, flt.CachedValue.Kind())

	str := root.Children[2].Children[1]
	require.NotNil(t, str.CachedValue)
	assert.Equal(t, value.KindString, str.CachedValue.Kind())
}

func TestFoldNegativeLiteral(t *testing.T) {
	root, err := parser.Parse("x = -7;")
	require.NoError(t, err)
	require.NoError(t, Optimize(root, NewRegistry()))

	neg := root.Children[0].Children[1]
	require.NotNil(t, neg.CachedValue)
	assert.Equal(t, int64(-7), neg.CachedValue.(*value.Integer).Values[0])
}

func TestFoldPropagatesThroughReturnAndBlock(t *testing.T) {
	root, err := parser.Parse("{ 42; }")
	require.NoError(t, err)
	require.NoError(t, Optimize(root, NewRegistry()))

	block := root.Children[0]
	require.NotNil(t, block.CachedValue)
	assert.Equal(t, int64(42), block.CachedValue.(*value.Integer).Values[0])

	root, err = parser.Parse("for (i in 1:2) return 9;")
	require.NoError(t, err)
	require.NoError(t, Optimize(root, NewRegistry()))
	ret := root.Children[0].Children[2]
	require.NotNil(t, ret.CachedValue)
	assert.Equal(t, int64(9), ret.CachedValue.(*value.Integer).Values[0])
}

func TestOptimizeIsIdempotent(t *testing.T) {
	root, err := parser.Parse("x = 5 + 3;")
	require.NoError(t, err)
	reg := NewRegistry()
	require.NoError(t, Optimize(root, reg))

	num := root.Children[0].Children[1].Children[0]
	first := num.CachedValue
	require.NotNil(t, first)

	require.NoError(t, Optimize(root, reg))
	assert.Same(t, first, num.CachedValue, "a second pass must not re-fold")
}

func TestResolveFunctionNames(t *testing.T) {
	root, err := parser.Parse("size(1:3);")
	require.NoError(t, err)
	require.NoError(t, Optimize(root, NewRegistry()))

	head := root.Children[0].Children[0]
	require.NotNil(t, head.CachedSignature)
	assert.Equal(t, "size", head.CachedSignature.Name)

	root, err = parser.Parse("frobnicate(1);")
	require.NoError(t, err)
	err = Optimize(root, NewRegistry())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unrecognized function name 'frobnicate'")
}

func TestResolveMemberNames(t *testing.T) {
	root, err := parser.Parse("x.weight;")
	require.NoError(t, err)
	reg := NewRegistry()
	err = Optimize(root, reg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unrecognized member name 'weight'")

	reg.RegisterMemberNames("weight")
	root, err = parser.Parse("x.weight;")
	require.NoError(t, err)
	require.NoError(t, Optimize(root, reg))
	assert.Equal(t, "weight", root.Children[0].CachedName)
}

func TestNumberLiteralErrors(t *testing.T) {
	root, err := parser.Parse("99999999999999999999;")
	require.NoError(t, err)
	err = Optimize(root, NewRegistry())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestCallOfNonCallable(t *testing.T) {
	root, err := parser.Parse("3(1);")
	require.NoError(t, err)
	err = Optimize(root, NewRegistry())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be called")
}
