package newshound

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLimit(t *testing.T) {
	t.Run("shared gate", func(t *testing.T) {
		var ctx = context.Background()
		var assert = require.New(t)
		var interval = 20 * time.Millisecond
		var l = Limit(interval)
		var a = parse(t, "https://a.example.com/")
		var b = parse(t, "https://b.example.com/")

		start := time.Now()
		assert.NoError(l.Limit(ctx, a))
		assert.NoError(l.Limit(ctx, b))

		// Different hosts still contend on the shared gate.
		assert.GreaterOrEqual(time.Since(start), interval)
	})

	t.Run("per host gate", func(t *testing.T) {
		var ctx = context.Background()
		var assert = require.New(t)
		var l = LimitPerHost(50 * time.Millisecond)
		var a = parse(t, "https://a.example.com/")
		var b = parse(t, "https://b.example.com/")

		start := time.Now()
		assert.NoError(l.Limit(ctx, a))
		assert.NoError(l.Limit(ctx, b))

		assert.Less(time.Since(start), 50*time.Millisecond)
	})
}
