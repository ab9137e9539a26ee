package main

import (
	"testing"

	assert2 "github.com/stretchr/testify/assert"
)

func TestStringSlice(t *testing.T) {
	assert := assert2.New(t)

	t.Run("multiple-flags", func(t *testing.T) {
		var s stringSlice
		assert.NoError(s.Set("TVL"))
		assert.NoError(s.Set("yields"))
		assert.Equal(stringSlice{"TVL", "yields"}, s)
	})

	t.Run("space-separated", func(t *testing.T) {
		var s stringSlice
		assert.NoError(s.Set("TVL yields"))
		assert.Equal(stringSlice{"TVL", "yields"}, s)
	})

	t.Run("empty-value-ignored", func(t *testing.T) {
		var s stringSlice
		assert.NoError(s.Set("  "))
		assert.Empty(s)
	})

	t.Run("string", func(t *testing.T) {
		s := stringSlice{"TVL", "yields"}
		assert.Equal("TVL yields", s.String())
	})
}
