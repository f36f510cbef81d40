package store

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func setupRedisGuestStore(t *testing.T) *RedisGuestStore {
	t.Helper()
	c := context.Background()

	container, err := tcredis.Run(c, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, container.Terminate(context.Background()))
	})

	endpoint, err := container.Endpoint(c, "")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisGuestStore(client)
}

func TestRedisGuestStore(t *testing.T) {
	guestStore := setupRedisGuestStore(t)
	c := context.Background()

	t.Run("load of an unknown guest returns an empty cart", func(t *testing.T) {
		lines, err := guestStore.Load(c, "unknown")
		require.NoError(t, err)
		assert.Empty(t, lines)
	})

	t.Run("save then load round trips the lines", func(t *testing.T) {
		saved := []Line{
			{
				ID:          "guest_abc",
				ProductID:   "sku-1",
				ProductName: "Block print dupatta",
				UnitPrice:   decimal.RequireFromString("74.75"),
				Quantity:    2,
			},
		}
		require.NoError(t, guestStore.Save(c, "guest-1", saved))

		loaded, err := guestStore.Load(c, "guest-1")
		require.NoError(t, err)
		require.Len(t, loaded, 1)
		assert.Equal(t, "sku-1", loaded[0].ProductID)
		assert.True(t, loaded[0].UnitPrice.Equal(decimal.RequireFromString("74.75")))
		assert.EqualValues(t, 2, loaded[0].Quantity)
	})

	t.Run("clear removes the cart", func(t *testing.T) {
		require.NoError(t, guestStore.Save(c, "guest-2", []Line{{ProductID: "sku-1", Quantity: 1}}))
		require.NoError(t, guestStore.Clear(c, "guest-2"))

		lines, err := guestStore.Load(c, "guest-2")
		require.NoError(t, err)
		assert.Empty(t, lines)

		// clearing twice is fine
		require.NoError(t, guestStore.Clear(c, "guest-2"))
	})
}
