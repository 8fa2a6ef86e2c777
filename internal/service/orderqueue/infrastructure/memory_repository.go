package infrastructure

import (
	"context"
	"sort"
	"sync"

	"warehouse/internal/service/orderqueue/domain"
)

// MemoryOrderRepository 是进程内实现，用于本地运行和测试。ID 单调递增。
type MemoryOrderRepository struct {
	mu     sync.RWMutex
	nextID int64
	orders map[int64]domain.Order
}

func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{orders: make(map[int64]domain.Order)}
}

func (r *MemoryOrderRepository) Insert(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	order.ID = r.nextID
	r.orders[order.ID] = *order
	return nil
}

func (r *MemoryOrderRepository) ListUnprocessed(_ context.Context) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Order, 0, len(r.orders))
	for _, o := range r.orders {
		if o.Processed {
			continue
		}
		o := o
		out = append(out, &o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryOrderRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[id]; !ok {
		return domain.ErrOrderNotFound
	}
	delete(r.orders, id)
	return nil
}
