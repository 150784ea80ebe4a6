package party

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-arot/internal/settlement"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, time.Minute)
}

func TestCacheRoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	terms := settlement.CrateTerms{
		"plastic":  {Qty: 3, Price: 20},
		"type_one": {Price: 25},
	}
	c.Set(ctx, KindCustomer, 7, terms)

	got, ok := c.Get(ctx, KindCustomer, 7)
	require.True(t, ok)
	require.Equal(t, 20.0, got["plastic"].Price)
	require.Equal(t, 25.0, got["type_one"].Price)

	// Same serial under the other kind is a different key.
	_, ok = c.Get(ctx, KindSupplier, 7)
	require.False(t, ok)
}

func TestCacheInvalidate(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, KindSupplier, 12, settlement.CrateTerms{"wood": {Price: 35}})
	_, ok := c.Get(ctx, KindSupplier, 12)
	require.True(t, ok)

	c.Invalidate(ctx, KindSupplier, 12)
	_, ok = c.Get(ctx, KindSupplier, 12)
	require.False(t, ok)
}

func TestCacheNilReceiverIsMiss(t *testing.T) {
	var c *Cache
	_, ok := c.Get(context.Background(), KindCustomer, 1)
	require.False(t, ok)
	c.Set(context.Background(), KindCustomer, 1, nil)
	c.Invalidate(context.Background(), KindCustomer, 1)
}
