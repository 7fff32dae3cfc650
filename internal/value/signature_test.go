package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckArgumentsArity(t *testing.T) {
	sig := NewSignature("f", MaskAnyBase).
		AddArg(MaskAnyBase, "x").
		AddArg(MaskInteger|MaskSingleton|MaskOptional, "count")

	require.NoError(t, sig.CheckArguments([]Value{NewInteger(1)}, 0, 1))
	require.NoError(t, sig.CheckArguments([]Value{NewInteger(1), NewInteger(2)}, 0, 1))

	err := sig.CheckArguments(nil, 0, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required argument 'x'")

	err = sig.CheckArguments([]Value{NewInteger(1), NewInteger(2), NewInteger(3)}, 0, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at most 2 argument(s)")
}

func TestCheckArgumentsKindAndSingleton(t *testing.T) {
	sig := NewSignature("f", MaskAnyBase).
		AddArg(MaskAnyBase, "x").
		AddArg(MaskInteger|MaskSingleton|MaskOptional, "count")

	err := sig.CheckArguments([]Value{NewInteger(1), NewString("two")}, 0, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "argument 2 to function 'f' cannot be type string")

	err = sig.CheckArguments([]Value{NewInteger(1), NewInteger(2, 3)}, 0, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "argument 2 to function 'f' must be a singleton")
}

func TestCheckArgumentsNullHandling(t *testing.T) {
	sig := NewSignature("f", MaskAnyBase).
		AddArg(MaskNull|MaskInteger|MaskSingleton, "x")

	require.NoError(t, sig.CheckArguments([]Value{&Null{}}, 0, 1),
		"NULL skips the singleton size check when the mask admits it")

	noNull := NewSignature("g", MaskAnyBase).AddArg(MaskInteger, "x")
	err := noNull.CheckArguments([]Value{&Null{}}, 0, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be type NULL")
}

func TestCheckArgumentsEllipsis(t *testing.T) {
	sig := NewSignature("c", MaskAny).AddEllipsis()
	require.NoError(t, sig.CheckArguments(nil, 0, 1))
	require.NoError(t, sig.CheckArguments([]Value{NewInteger(1), NewString("x"), &Null{}}, 0, 1))
}

func TestCheckReturn(t *testing.T) {
	sig := NewSignature("f", MaskInteger|MaskSingleton)
	require.NoError(t, sig.CheckReturn(NewInteger(1)))

	err := sig.CheckReturn(NewString("x"))
	var internal *InternalError
	require.ErrorAs(t, err, &internal)

	err = sig.CheckReturn(NewInteger(1, 2))
	require.ErrorAs(t, err, &internal)
}

func TestBuilderPanics(t *testing.T) {
	assert.Panics(t, func() {
		NewSignature("f", MaskAnyBase).
			AddArg(MaskInteger|MaskOptional, "a").
			AddArg(MaskInteger, "b")
	}, "required after optional")

	assert.Panics(t, func() {
		NewSignature("f", MaskAnyBase).AddEllipsis().AddArg(MaskInteger, "a")
	}, "argument after ellipsis")

	assert.Panics(t, func() {
		NewSignature("f", MaskAnyBase).AddEllipsis().AddEllipsis()
	}, "duplicate ellipsis")
}

func TestSignatureString(t *testing.T) {
	sig := NewSignature("rep", MaskAny).
		AddArg(MaskAnyBase, "x").
		AddArg(MaskInteger|MaskSingleton, "count")
	assert.Equal(t, "(any)rep(any x, i$ count)", sig.String())

	opt := NewSignature("seq", MaskNumeric).
		AddArg(MaskNumeric|MaskSingleton, "from").
		AddArg(MaskNumeric|MaskSingleton, "to").
		AddArg(MaskNumeric|MaskSingleton|MaskOptional, "by")
	assert.Equal(t, "(numeric)seq(numeric$ from, numeric$ to, [numeric$ by])", opt.String())
}
