// internal/service/orderqueue/domain/repository.go
package domain

import "context"

// OrderRepository 定义了订单队列的持久化接口。
// 它位于领域层，但由基础设施层实现。
type OrderRepository interface {
	// Insert 保存新订单并回填 ID。
	Insert(ctx context.Context, order *Order) error

	// ListUnprocessed 按 ID 升序返回所有未处理的订单。
	ListUnprocessed(ctx context.Context) ([]*Order, error)

	// Delete 删除订单，不存在时返回 ErrOrderNotFound。
	Delete(ctx context.Context, id int64) error
}
