package infrastructure

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"warehouse/internal/service/orderqueue/domain"
)

// GormOrderRepository 是 OrderRepository 的 GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository 创建仓储并确保表结构存在。
func NewGormOrderRepository(db *gorm.DB) (*GormOrderRepository, error) {
	if err := db.AutoMigrate(&OrderModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate orders table: %w", err)
	}
	return &GormOrderRepository{db: db}, nil
}

func (r *GormOrderRepository) Insert(ctx context.Context, order *domain.Order) error {
	model := toOrderModel(order)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	order.ID = model.OrderID
	return nil
}

func (r *GormOrderRepository) ListUnprocessed(ctx context.Context) ([]*domain.Order, error) {
	var models []*OrderModel
	err := r.db.WithContext(ctx).
		Where("is_processed = ?", false).
		Order("order_id ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("list unprocessed orders: %w", err)
	}
	orders := make([]*domain.Order, len(models))
	for i, m := range models {
		orders[i] = toDomainOrder(m)
	}
	return orders, nil
}

func (r *GormOrderRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Where("order_id = ?", id).Delete(&OrderModel{})
	if res.Error != nil {
		return fmt.Errorf("delete order %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}
