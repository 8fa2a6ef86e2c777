package infrastructure

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warehouse/internal/service/orderqueue/domain"
)

func TestMemoryOrderRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryOrderRepository()

	for i := 0; i < 3; i++ {
		o, err := domain.NewOrder(1, 2, 3, 4)
		require.NoError(t, err)
		require.NoError(t, repo.Insert(ctx, o))
		assert.Equal(t, int64(i+1), o.ID)
	}

	orders, err := repo.ListUnprocessed(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	for i, o := range orders {
		assert.Equal(t, int64(i+1), o.ID)
	}

	require.NoError(t, repo.Delete(ctx, 2))
	assert.ErrorIs(t, repo.Delete(ctx, 2), domain.ErrOrderNotFound)

	orders, err = repo.ListUnprocessed(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, int64(3), orders[1].ID)

	// ids are never reused after a delete
	o, _ := domain.NewOrder(0, 0, 0, 0)
	require.NoError(t, repo.Insert(ctx, o))
	assert.Equal(t, int64(4), o.ID)
}

func TestMemoryOrderRepositoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryOrderRepository()
	o, _ := domain.NewOrder(1, 1, 1, 1)
	require.NoError(t, repo.Insert(ctx, o))

	orders, _ := repo.ListUnprocessed(ctx)
	orders[0].Chairs = 99

	orders, _ = repo.ListUnprocessed(ctx)
	assert.Equal(t, 1, orders[0].Chairs)
}

func TestNewOrderRejectsNegative(t *testing.T) {
	_, err := domain.NewOrder(1, -1, 0, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}
