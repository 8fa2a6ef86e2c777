// internal/service/stockledger/domain/repository.go
package domain

import "context"

// StockRepository 定义了库存持久化的契约。
// Adjust 必须是原子的 read-modify-write，商品不存在时返回 ErrProductNotFound。
type StockRepository interface {
	Get(ctx context.Context, product string) (*StockEntry, error)
	Adjust(ctx context.Context, product string, delta int) (*StockEntry, error)
	// Seed 为缺失的商品写入初始库存，已存在的商品保持不变。
	Seed(ctx context.Context, products []string, quantity int) error
	List(ctx context.Context) ([]*StockEntry, error)
}
