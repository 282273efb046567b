package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGetSet(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(0, 0)

	_, err := c.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	vec := []float32{0.1, 0.2}
	require.NoError(t, c.Set(ctx, "resume text", vec))
	vec[0] = 9

	got, err := c.Get(ctx, "resume text")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2}, got, "stored vector is a copy")

	_, err = c.Get(ctx, "resume text ")
	assert.ErrorIs(t, err, ErrNotFound, "keys are exact text")

	assert.ErrorIs(t, c.Set(ctx, "", vec), ErrInvalidKey)
}

func TestMemoryEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(2, 0)

	require.NoError(t, c.Set(ctx, "a", []float32{1}))
	require.NoError(t, c.Set(ctx, "b", []float32{2}))
	_, err := c.Get(ctx, "a")
	require.NoError(t, err)
	require.NoError(t, c.Set(ctx, "c", []float32{3}))

	assert.Equal(t, 2, c.Len())
	_, err = c.Get(ctx, "b")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = c.Get(ctx, "a")
	assert.NoError(t, err)

	require.NoError(t, c.Clear(ctx))
	assert.Equal(t, 0, c.Len())
}

func TestMemoryEntriesExpire(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(10, 50*time.Millisecond)

	require.NoError(t, c.Set(ctx, "jd", []float32{1}))
	_, err := c.Get(ctx, "jd")
	require.NoError(t, err)

	time.Sleep(150 * time.Millisecond)
	_, err = c.Get(ctx, "jd")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestKeyIsExact(t *testing.T) {
	assert.NotEqual(t, Key("Go"), Key("go"))
	assert.Len(t, Key("anything"), 64)
}
