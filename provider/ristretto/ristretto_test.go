package ristretto

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRistrettoRejectsInvalidConfig(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestRistrettoRoundTrip(t *testing.T) {
	ctx := context.Background()
	p, err := New(Config{NumCounters: 1e4, MaxCost: 1 << 20, BufferItems: 64, Metrics: true})
	require.NoError(t, err)
	defer p.Close(ctx)

	ok, err := p.Set(ctx, "Settings/volume", []byte("7"), 1)
	require.NoError(t, err)
	require.True(t, ok)

	b, ok, err := p.Get(ctx, "Settings/volume")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "7", string(b))

	require.NoError(t, p.Del(ctx, "Settings/volume"))
	p.c.Wait()
	_, ok, _ = p.Get(ctx, "Settings/volume")
	assert.False(t, ok)
	assert.NotNil(t, p.Metrics())
}

func TestRistrettoOverBudgetIsNotStored(t *testing.T) {
	ctx := context.Background()
	p, err := New(Config{NumCounters: 100, MaxCost: 10, BufferItems: 64})
	require.NoError(t, err)
	defer p.Close(ctx)

	_, err = p.Set(ctx, "Blob/big", make([]byte, 64), 1000)
	require.NoError(t, err)
	_, ok, _ := p.Get(ctx, "Blob/big")
	assert.False(t, ok)
}
