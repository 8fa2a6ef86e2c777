// internal/service/orchestrator/domain/order.go
package domain

// Product 是仓库管理的商品
type Product string

const (
	Computers Product = "computers"
	Chairs    Product = "chairs"
	Desks     Product = "desks"
	Cupboards Product = "cupboards"
)

// Products 是对账时的固定处理顺序
var Products = []Product{Computers, Chairs, Desks, Cupboards}

// Order 是编排器在本轮生成的订单，只存在于内存中。
type Order struct {
	Computers Quantity `json:"computers"`
	Chairs    Quantity `json:"chairs"`
	Desks     Quantity `json:"desks"`
	Cupboards Quantity `json:"cupboards"`
}

// Get 返回某个商品的请求数量，未知商品返回 nil。
func (o Order) Get(p Product) Quantity {
	switch p {
	case Computers:
		return o.Computers
	case Chairs:
		return o.Chairs
	case Desks:
		return o.Desks
	case Cupboards:
		return o.Cupboards
	}
	return nil
}

// HasMalformed 报告订单中是否有畸形数量
func (o Order) HasMalformed() bool {
	for _, p := range Products {
		if _, ok := o.Get(p).(Malformed); ok {
			return true
		}
	}
	return false
}
