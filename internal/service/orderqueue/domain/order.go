// internal/service/orderqueue/domain/order.go
package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrInvalidQuantity = errors.New("invalid quantity")
)

// Order 是待处理的履约请求，一旦创建就不会被原地修改，只会被删除。
type Order struct {
	ID        int64
	Computers int
	Chairs    int
	Desks     int
	Cupboards int
	Processed bool
	CreatedAt time.Time
}

// NewOrder 校验数量后创建一个未处理的订单，ID 由仓储分配。
func NewOrder(computers, chairs, desks, cupboards int) (*Order, error) {
	for name, q := range map[string]int{
		"computers": computers,
		"chairs":    chairs,
		"desks":     desks,
		"cupboards": cupboards,
	} {
		if q < 0 {
			return nil, fmt.Errorf("%w: %s must be >= 0, got %d", ErrInvalidQuantity, name, q)
		}
	}
	return &Order{
		Computers: computers,
		Chairs:    chairs,
		Desks:     desks,
		Cupboards: cupboards,
		CreatedAt: time.Now().UTC(),
	}, nil
}
