// internal/service/orchestrator/domain/event.go
package domain

import "time"

const (
	EventOrderFulfilled   = "order.fulfilled"
	EventStockReplenished = "stock.replenished"
)

// Event 是编排器对外发布的通知，消费方不能假设它与库存变更是原子的。
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	InstanceID string    `json:"instance_id"`
	OrderID    int64     `json:"order_id,omitempty"`
	Product    Product   `json:"product,omitempty"`
	Quantity   int       `json:"quantity,omitempty"`
	At         time.Time `json:"at"`
}
