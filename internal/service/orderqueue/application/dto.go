// internal/service/orderqueue/application/dto.go
package application

import "warehouse/internal/service/orderqueue/domain"

// AddOrderRequest 是新增订单用例的输入，缺省字段按 0 处理。
type AddOrderRequest struct {
	Computers int `json:"computers"`
	Chairs    int `json:"chairs"`
	Desks     int `json:"desks"`
	Cupboards int `json:"cupboards"`
}

// AddOrderResponse 是新增订单用例的输出
type AddOrderResponse struct {
	Message string `json:"message"`
	OrderID int64  `json:"order_id"`
}

// OrderDTO 是 /checkorders 返回的单条订单
type OrderDTO struct {
	OrderID   int64 `json:"order_id"`
	Cupboards int   `json:"cupboards"`
	Computers int   `json:"computers"`
	Chairs    int   `json:"chairs"`
	Desks     int   `json:"desks"`
}

func toOrderDTO(o *domain.Order) OrderDTO {
	return OrderDTO{
		OrderID:   o.ID,
		Cupboards: o.Cupboards,
		Computers: o.Computers,
		Chairs:    o.Chairs,
		Desks:     o.Desks,
	}
}
