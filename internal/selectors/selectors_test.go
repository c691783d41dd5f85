package selectors

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCache(t *testing.T) {
	t.Run("compile", func(t *testing.T) {
		var assert = require.New(t)
		var cache = NewCache()

		sel, err := cache.Compile(`a[href]`)

		assert.NoError(err)
		assert.NotNil(sel)
	})

	t.Run("compile error", func(t *testing.T) {
		var assert = require.New(t)
		var cache = NewCache()

		_, err := cache.Compile(`a[`)

		assert.Error(err)
	})

	t.Run("cached", func(t *testing.T) {
		var assert = require.New(t)
		var cache = NewCache()

		a, err := cache.Compile(`a[href]`)
		assert.NoError(err)

		b, err := cache.Compile(`a[href]`)
		assert.NoError(err)

		assert.NotNil(a)
		assert.NotNil(b)
	})
}

func TestCompile(t *testing.T) {
	var assert = require.New(t)

	sel, err := Compile(`a[href]`)

	assert.NoError(err)
	assert.NotNil(sel)
}
