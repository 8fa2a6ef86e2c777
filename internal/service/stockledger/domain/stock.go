// internal/service/stockledger/domain/stock.go
package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidQuantity = errors.New("invalid quantity")
)

// DefaultProducts 是仓库管理的固定商品集合，启动时按此顺序播种。
var DefaultProducts = []string{"computers", "chairs", "desks", "cupboards"}

// StockEntry 是某个商品的当前库存。库存允许为负，下限由调用方自行约束。
type StockEntry struct {
	Product  string
	Quantity int
}

// StockChange 描述一次已生效的库存变更，用于推送给 /stream 的订阅者。
type StockChange struct {
	Product  string    `json:"product"`
	Delta    int       `json:"delta"`
	Quantity int       `json:"quantity"`
	At       time.Time `json:"at"`
}

// ValidateAdjustment 检查调整请求，数量必须是非负整数。
func ValidateAdjustment(product string, quantity int) error {
	if product == "" {
		return fmt.Errorf("%w: product is required", ErrInvalidQuantity)
	}
	if quantity < 0 {
		return fmt.Errorf("%w: quantity must be >= 0, got %d", ErrInvalidQuantity, quantity)
	}
	return nil
}
