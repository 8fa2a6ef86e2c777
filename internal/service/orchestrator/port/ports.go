// internal/service/orchestrator/port/ports.go
package port

import (
	"context"

	"warehouse/internal/service/orchestrator/domain"
)

// 服务名，用于地址解析
const (
	OrderQueueService  = "order-queue"
	StockLedgerService = "stock-ledger"
)

// OrderQueue 定义了与订单队列服务交互的接口
type OrderQueue interface {
	// Insert 提交订单并返回队列分配的 ID
	Insert(ctx context.Context, order domain.Order) (int64, error)
	ListUnprocessed(ctx context.Context) (domain.PendingOrders, error)
	Delete(ctx context.Context, orderID int64) error
}

// StockLedger 定义了与库存台账服务交互的接口
type StockLedger interface {
	// Decrease 原样发送数量，Malformed 会以 "error" 的形式到达台账。
	Decrease(ctx context.Context, product domain.Product, quantity domain.Quantity) error
	Read(ctx context.Context, product domain.Product) (int, error)
	Increase(ctx context.Context, product domain.Product, amount int) error
}

// EventPublisher 发布编排事件，失败不影响主流程。
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

// Resolver 把服务名解析为 base URL，例如 http://10.0.0.3:8080
type Resolver interface {
	Resolve(ctx context.Context, service string) (string, error)
}

// ReplenishRule 判断台账中的库存是否需要补货
type ReplenishRule interface {
	ShouldReplenish(ctx context.Context, quantity, lowWaterMark int) (bool, error)
}
