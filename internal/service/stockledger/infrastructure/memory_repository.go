package infrastructure

import (
	"context"
	"sort"
	"sync"

	"warehouse/internal/service/stockledger/domain"
)

// MemoryStockRepository 是进程内实现，用于本地运行和测试。
type MemoryStockRepository struct {
	mu    sync.Mutex
	stock map[string]int
}

func NewMemoryStockRepository() *MemoryStockRepository {
	return &MemoryStockRepository{stock: make(map[string]int)}
}

func (r *MemoryStockRepository) Get(_ context.Context, product string) (*domain.StockEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.stock[product]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return &domain.StockEntry{Product: product, Quantity: q}, nil
}

func (r *MemoryStockRepository) Adjust(_ context.Context, product string, delta int) (*domain.StockEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.stock[product]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	q += delta
	r.stock[product] = q
	return &domain.StockEntry{Product: product, Quantity: q}, nil
}

func (r *MemoryStockRepository) Seed(_ context.Context, products []string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range products {
		if _, ok := r.stock[p]; !ok {
			r.stock[p] = quantity
		}
	}
	return nil
}

func (r *MemoryStockRepository) List(_ context.Context) ([]*domain.StockEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entries := make([]*domain.StockEntry, 0, len(r.stock))
	for p, q := range r.stock {
		entries = append(entries, &domain.StockEntry{Product: p, Quantity: q})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Product < entries[j].Product })
	return entries, nil
}
