package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTruthyOnlyNilAndFalseAreFalsey(t *testing.T) {
	assert.False(t, IsTruthy(Nil))
	assert.False(t, IsTruthy(BoolValue(false)))
	assert.True(t, IsTruthy(BoolValue(true)))
	assert.True(t, IsTruthy(NumberValue(0)))
	assert.True(t, IsTruthy(StringValue("")))
}

func TestValuesEqualCrossVariantIsFalse(t *testing.T) {
	assert.False(t, ValuesEqual(NumberValue(0), StringValue("")))
	assert.False(t, ValuesEqual(Nil, BoolValue(false)))
}

func TestValuesEqualSameVariant(t *testing.T) {
	assert.True(t, ValuesEqual(NumberValue(1), NumberValue(1)))
	assert.False(t, ValuesEqual(NumberValue(1), NumberValue(2)))
	assert.True(t, ValuesEqual(StringValue("a"), StringValue("a")))
	assert.True(t, ValuesEqual(Nil, Nil))
}

func TestValuesEqualCallablesCompareByIdentity(t *testing.T) {
	a := &BuiltIn{Name: "a", Ar: 0, Fn: func([]Value) (Value, error) { return Nil, nil }}
	b := &BuiltIn{Name: "a", Ar: 0, Fn: func([]Value) (Value, error) { return Nil, nil }}
	assert.True(t, ValuesEqual(a, a))
	assert.False(t, ValuesEqual(a, b))
}

func TestNumberValueStringifyStripsTrailingZero(t *testing.T) {
	assert.Equal(t, "6", NumberValue(6).String())
	assert.Equal(t, "6.5", NumberValue(6.5).String())
}

func TestBoolAndNilStringify(t *testing.T) {
	assert.Equal(t, "true", BoolValue(true).String())
	assert.Equal(t, "false", BoolValue(false).String())
	assert.Equal(t, "nil", Nil.String())
}
