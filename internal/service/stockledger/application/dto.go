// internal/service/stockledger/application/dto.go
package application

// AdjustStockRequest 是增减库存用例的输入。Quantity 缺省时视为无效请求。
type AdjustStockRequest struct {
	Product  string `json:"product"`
	Quantity *int   `json:"quantity"`
}

// StockDTO 是 /checkstock 的返回体
type StockDTO struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
}

// MessageResponse 是写操作成功时的返回体
type MessageResponse struct {
	Message string `json:"message"`
}
