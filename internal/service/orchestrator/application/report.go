// internal/service/orchestrator/application/report.go
package application

import "warehouse/internal/service/orchestrator/domain"

// CycleOutcome 描述一轮编排的结局
type CycleOutcome string

const (
	// CycleIdle 队列为空，本轮没有对账
	CycleIdle CycleOutcome = "idle"

	// CycleNoOrderID 队列有响应但解析不出订单 ID
	CycleNoOrderID CycleOutcome = "no_order_id"

	// CycleFetchFailed 拉取待处理订单失败或响应结构无法识别
	CycleFetchFailed CycleOutcome = "fetch_failed"

	CycleProcessed CycleOutcome = "processed"
)

// ProductOutcome 描述单个商品在对账阶段的结局
type ProductOutcome string

const (
	ProductMalformed       ProductOutcome = "malformed"
	ProductDecreaseFailed  ProductOutcome = "decrease_failed"
	ProductReadFailed      ProductOutcome = "read_failed"
	ProductRuleFailed      ProductOutcome = "rule_failed"
	ProductSufficient      ProductOutcome = "sufficient"
	ProductReplenished     ProductOutcome = "replenished"
	ProductReplenishFailed ProductOutcome = "replenish_failed"
)

// ProductReport 是单个商品的对账结果。Level 是扣减后读到的库存，读取失败时为 0。
type ProductReport struct {
	Product  domain.Product
	Quantity domain.Quantity
	Outcome  ProductOutcome
	Level    int
}

// CycleReport 是 RunCycle 的返回值，ID 为 0 表示缺失。
type CycleReport struct {
	Order       domain.Order
	SubmittedID int64
	ResolvedID  int64
	Outcome     CycleOutcome
	Products    []ProductReport
	Deleted     bool
}

// Product 返回某个商品的报告
func (r *CycleReport) Product(p domain.Product) (ProductReport, bool) {
	for _, pr := range r.Products {
		if pr.Product == p {
			return pr, true
		}
	}
	return ProductReport{}, false
}
