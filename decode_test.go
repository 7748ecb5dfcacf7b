package jsonpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshal_PreservesObjectKeyOrder(t *testing.T) {
	v, err := Unmarshal([]byte(`{"z": 1, "a": 2, "m": 3}`))
	require.NoError(t, err)

	obj, ok := v.(*Object)
	require.True(t, ok)
	assert.Equal(t, []string{"z", "a", "m"}, obj.Keys())
}

func TestUnmarshal_NestedObjectKeyOrder(t *testing.T) {
	v, err := Unmarshal([]byte(`{"o": {"j": 1, "k": 2, "i": 3}}`))
	require.NoError(t, err)

	root, ok := v.(*Object)
	require.True(t, ok)
	nested, ok := root.Get("o")
	require.True(t, ok)
	obj, ok := nested.(*Object)
	require.True(t, ok)
	assert.Equal(t, []string{"j", "k", "i"}, obj.Keys())
}

func TestUnmarshal_Scalars(t *testing.T) {
	tests := []struct {
		src  string
		want any
	}{
		{`null`, nil},
		{`true`, true},
		{`false`, false},
		{`"hi"`, "hi"},
		{`42`, float64(42)},
		{`-1.5`, float64(-1.5)},
	}
	for _, tt := range tests {
		v, err := Unmarshal([]byte(tt.src))
		require.NoError(t, err)
		assert.Equal(t, tt.want, v)
	}
}

func TestUnmarshal_Array(t *testing.T) {
	v, err := Unmarshal([]byte(`[1, "two", [3]]`))
	require.NoError(t, err)

	arr, ok := v.([]any)
	require.True(t, ok)
	require.Len(t, arr, 3)
	assert.Equal(t, float64(1), arr[0])
	assert.Equal(t, "two", arr[1])
	assert.Equal(t, []any{float64(3)}, arr[2])
}

func TestUnmarshal_TrailingData(t *testing.T) {
	_, err := Unmarshal([]byte(`{} garbage`))
	assert.Error(t, err)
}

func TestUnmarshal_MalformedJSON(t *testing.T) {
	_, err := Unmarshal([]byte(`{"a":`))
	assert.Error(t, err)
}

func TestMarshal_RoundTripsObjectKeyOrder(t *testing.T) {
	obj := NewObjectSize(3)
	obj.Set("z", 1.0)
	obj.Set("a", 2.0)
	obj.Set("m", 3.0)

	out, err := Marshal(obj)
	require.NoError(t, err)

	roundTripped, err := Unmarshal(out)
	require.NoError(t, err)
	rt, ok := roundTripped.(*Object)
	require.True(t, ok)
	assert.Equal(t, []string{"z", "a", "m"}, rt.Keys())
	v, _ := rt.Get("a")
	assert.Equal(t, float64(2), v)
}
