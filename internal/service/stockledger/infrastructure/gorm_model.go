package infrastructure

import (
	"time"

	"warehouse/internal/service/stockledger/domain"
)

// StockModel 对应数据库中的 stock 表
type StockModel struct {
	Product   string `gorm:"primaryKey;size:64"`
	Quantity  int    `gorm:"not null;default:0"`
	UpdatedAt time.Time
}

// TableName 指定 GORM 应该使用的表名
func (StockModel) TableName() string {
	return "stock"
}

func toDomainStock(m *StockModel) *domain.StockEntry {
	return &domain.StockEntry{Product: m.Product, Quantity: m.Quantity}
}
