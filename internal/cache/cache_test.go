package cache

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avoronov/skyfare/internal/extract"
)

func TestKey(t *testing.T) {
	k1 := Key("AbCd123")
	k2 := Key("AbCd124")

	assert.True(t, strings.HasPrefix(k1, "search:"))
	assert.NotEqual(t, k1, k2)
	assert.Equal(t, k1, Key("AbCd123"))
	// sha256 hex digest after the prefix
	assert.Len(t, k1, len("search:")+64)
}

func TestNoOpCache(t *testing.T) {
	c := NewNoOpCache()
	ctx := context.Background()

	result := &extract.FlightResult{PriceLevel: extract.PriceLevelLow}
	require.NoError(t, c.Set(ctx, "q", result))

	got, ok := c.Get(ctx, "q")
	assert.False(t, ok)
	assert.Nil(t, got)

	assert.NoError(t, c.Close())
}
