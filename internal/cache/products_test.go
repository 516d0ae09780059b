package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog/internal/dbtest"
	"catalog/internal/models"
	"catalog/internal/store"
)

func setup(t *testing.T) (*Products, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := NewRedisClient(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return NewProducts(store.NewProductStore(dbtest.Open(t)), client, time.Minute), mr
}

func TestGetFillsCache(t *testing.T) {
	c, mr := setup(t)
	ctx := context.Background()

	p, err := c.Create(ctx, models.Fields{Name: "Tee", Description: "cotton", Price: decimal.NewFromInt(10)})
	require.NoError(t, err)
	assert.False(t, mr.Exists(key(p.ID)))

	got, err := c.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tee", got.Name)
	assert.True(t, mr.Exists(key(p.ID)))
	assert.Equal(t, time.Minute, mr.TTL(key(p.ID)))

	cached, err := c.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, cached.ID)
	assert.True(t, got.Price.Equal(cached.Price))
}

func TestUpdateAndDeleteEvict(t *testing.T) {
	c, mr := setup(t)
	ctx := context.Background()

	p, err := c.Create(ctx, models.Fields{Name: "Tee", Description: "cotton", Price: decimal.NewFromInt(10)})
	require.NoError(t, err)
	_, err = c.Get(ctx, p.ID)
	require.NoError(t, err)

	_, err = c.Update(ctx, p.ID, models.Fields{Name: "Tee", Description: "cotton", Price: decimal.NewFromInt(15)})
	require.NoError(t, err)
	assert.False(t, mr.Exists(key(p.ID)))

	got, err := c.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(15).Equal(got.Price))

	require.NoError(t, c.Delete(ctx, p.ID))
	assert.False(t, mr.Exists(key(p.ID)))
	_, err = c.Get(ctx, p.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetFallsBackWhenRedisDown(t *testing.T) {
	c, mr := setup(t)
	ctx := context.Background()

	p, err := c.Create(ctx, models.Fields{Name: "Mug", Description: "ceramic", Price: decimal.NewFromInt(8)})
	require.NoError(t, err)

	mr.Close()

	got, err := c.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mug", got.Name)
}
