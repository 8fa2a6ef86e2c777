package infrastructure

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"warehouse/internal/service/stockledger/domain"
)

// GormStockRepository 是 StockRepository 的 GORM 实现
type GormStockRepository struct {
	db *gorm.DB
}

// NewGormStockRepository 创建仓储并确保表结构存在。
func NewGormStockRepository(db *gorm.DB) (*GormStockRepository, error) {
	if err := db.AutoMigrate(&StockModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate stock table: %w", err)
	}
	return &GormStockRepository{db: db}, nil
}

func (r *GormStockRepository) Get(ctx context.Context, product string) (*domain.StockEntry, error) {
	var m StockModel
	if err := r.db.WithContext(ctx).Where("product = ?", product).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("get stock for %s: %w", product, err)
	}
	return toDomainStock(&m), nil
}

// Adjust 在数据库侧做 quantity = quantity + delta，避免先读后写的丢失更新。
func (r *GormStockRepository) Adjust(ctx context.Context, product string, delta int) (*domain.StockEntry, error) {
	var entry *domain.StockEntry
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&StockModel{}).
			Where("product = ?", product).
			Update("quantity", gorm.Expr("quantity + ?", delta))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrProductNotFound
		}
		var m StockModel
		if err := tx.Where("product = ?", product).First(&m).Error; err != nil {
			return err
		}
		entry = toDomainStock(&m)
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("adjust stock for %s by %d: %w", product, delta, err)
	}
	return entry, nil
}

func (r *GormStockRepository) Seed(ctx context.Context, products []string, quantity int) error {
	models := make([]StockModel, len(products))
	for i, p := range products {
		models[i] = StockModel{Product: p, Quantity: quantity}
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models).Error
	if err != nil {
		return fmt.Errorf("seed stock: %w", err)
	}
	return nil
}

func (r *GormStockRepository) List(ctx context.Context) ([]*domain.StockEntry, error) {
	var models []*StockModel
	if err := r.db.WithContext(ctx).Order("product ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	entries := make([]*domain.StockEntry, len(models))
	for i, m := range models {
		entries[i] = toDomainStock(m)
	}
	return entries, nil
}
