package infrastructure

import (
	"time"

	"warehouse/internal/service/orderqueue/domain"
)

// OrderModel 对应数据库中的 orders 表
type OrderModel struct {
	OrderID     int64 `gorm:"column:order_id;primaryKey;autoIncrement"`
	Computers   int   `gorm:"not null;default:0"`
	Chairs      int   `gorm:"not null;default:0"`
	Desks       int   `gorm:"not null;default:0"`
	Cupboards   int   `gorm:"not null;default:0"`
	IsProcessed bool  `gorm:"column:is_processed;not null;default:false;index"`
	CreatedAt   time.Time
}

// TableName 指定 GORM 应该使用的表名
func (OrderModel) TableName() string {
	return "orders"
}

func toOrderModel(o *domain.Order) *OrderModel {
	return &OrderModel{
		OrderID:     o.ID,
		Computers:   o.Computers,
		Chairs:      o.Chairs,
		Desks:       o.Desks,
		Cupboards:   o.Cupboards,
		IsProcessed: o.Processed,
		CreatedAt:   o.CreatedAt,
	}
}

func toDomainOrder(m *OrderModel) *domain.Order {
	return &domain.Order{
		ID:        m.OrderID,
		Computers: m.Computers,
		Chairs:    m.Chairs,
		Desks:     m.Desks,
		Cupboards: m.Cupboards,
		Processed: m.IsProcessed,
		CreatedAt: m.CreatedAt,
	}
}
