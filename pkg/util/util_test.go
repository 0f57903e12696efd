package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty(""))
	assert.True(t, IsEmpty("  \t"))
	assert.False(t, IsEmpty(" a "))
}

func TestMask(t *testing.T) {
	assert.Equal(t, "", Mask(""))
	assert.Equal(t, "**", Mask("ab"))
	assert.Equal(t, "s****t", Mask("secret"))
}

func TestRecast(t *testing.T) {
	type item struct {
		Name  string  `json:"name"`
		Value float64 `json:"value"`
	}

	var out map[string]any
	require.NoError(t, Recast(item{Name: "a", Value: 2}, &out))
	assert.Equal(t, map[string]any{"name": "a", "value": 2.0}, out)

	var back item
	require.NoError(t, Recast([]byte(`{"name":"b","value":1.5}`), &back))
	assert.Equal(t, item{Name: "b", Value: 1.5}, back)
}
