package object

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStringHashKey(t *testing.T) {
	hello1 := NewString("Hello World")
	hello2 := NewString("Hello World")
	diff1 := NewString("My name is johnny")
	diff2 := NewString("My name is johnny")

	require.Equal(t, hello1.HashKey(), hello2.HashKey())
	require.Equal(t, diff1.HashKey(), diff2.HashKey())
	require.NotEqual(t, hello1.HashKey(), diff1.HashKey())
}

func TestHashKeysDistinguishTypes(t *testing.T) {
	require.NotEqual(t, NewInteger(1).HashKey(), True.HashKey())
	require.NotEqual(t, NewInteger(0).HashKey(), False.HashKey())
	require.Equal(t, NewInteger(7).HashKey(), NewInteger(7).HashKey())
}

func TestHashKeyOf(t *testing.T) {
	key, err := HashKeyOf(NewInteger(3))
	require.Nil(t, err)
	require.Equal(t, HashKey{Type: INTEGER, Value: 3}, key)

	_, err = HashKeyOf(NewArray(nil))
	require.NotNil(t, err)
	require.Equal(t, "unusable as hash key: ARRAY", err.Message)

	_, err = HashKeyOf(&Closure{Fn: &CompiledFunction{}})
	require.NotNil(t, err)
	require.Equal(t, "unusable as hash key: CLOSURE", err.Message)
}

func TestHashGetSet(t *testing.T) {
	h := NewHash(nil)
	require.Nil(t, h.Set(NewString("name"), NewString("monkey")))
	require.Nil(t, h.Set(NewInteger(1), True))

	value, err := h.Get(NewString("name"))
	require.Nil(t, err)
	require.Equal(t, NewString("monkey"), value)

	value, err = h.Get(NewInteger(1))
	require.Nil(t, err)
	require.Equal(t, True, value)

	value, err = h.Get(NewString("missing"))
	require.Nil(t, err)
	require.Equal(t, Null, value)

	_, err = h.Get(NewHash(nil))
	require.NotNil(t, err)
	require.Equal(t, "unusable as hash key: HASH", err.Message)

	err = h.Set(NewArray(nil), Null)
	require.NotNil(t, err)
}
