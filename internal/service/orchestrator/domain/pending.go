// internal/service/orchestrator/domain/pending.go
package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrProtocol 表示订单队列返回了无法识别的 JSON 结构
var ErrProtocol = errors.New("unexpected pending orders shape")

// PendingOrder 是订单队列中一条未处理的订单。ID 为 0 表示缺失。
// 数量字段缺失时为 nil，无法识别的值记为 Malformed，不影响 ID 的解析。
type PendingOrder struct {
	ID        int64
	Computers Quantity
	Chairs    Quantity
	Desks     Quantity
	Cupboards Quantity
}

// UnmarshalJSON 只要求 order_id 类型正确，数量字段按 ParseQuantity 宽松解析。
func (o *PendingOrder) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		return fmt.Errorf("pending order is not an object: %.64s", data)
	}

	*o = PendingOrder{}
	if raw, ok := fields["order_id"]; ok && string(bytes.TrimSpace(raw)) != "null" {
		if err := json.Unmarshal(raw, &o.ID); err != nil {
			return fmt.Errorf("order_id: %w", err)
		}
	}
	for _, p := range Products {
		raw, ok := fields[string(p)]
		if !ok {
			continue
		}
		q, err := ParseQuantity(raw)
		if err != nil {
			q = Malformed{}
		}
		o.set(p, q)
	}
	return nil
}

func (o *PendingOrder) set(p Product, q Quantity) {
	switch p {
	case Computers:
		o.Computers = q
	case Chairs:
		o.Chairs = q
	case Desks:
		o.Desks = q
	case Cupboards:
		o.Cupboards = q
	}
}

// PendingOrders 是 /checkorders 响应的三种形态之一：NoPending、SinglePending、ManyPending。
type PendingOrders interface {
	isPendingOrders()
}

type NoPending struct{}

type SinglePending struct {
	Order PendingOrder
}

type ManyPending struct {
	Orders []PendingOrder
}

func (NoPending) isPendingOrders()     {}
func (SinglePending) isPendingOrders() {}
func (ManyPending) isPendingOrders()   {}

// DecodePendingOrders 把响应体解码为带标签的变体。
// 空数组、null 和空对象都视为没有待处理订单，其他非数组非对象的值返回 ErrProtocol。
// 数组只有第一条参与本轮处理，所以只有它必须可解码，后面解不开的条目被丢弃。
func DecodePendingOrders(body []byte) (PendingOrders, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrProtocol)
	}
	switch body[0] {
	case '[':
		var entries []json.RawMessage
		if err := json.Unmarshal(body, &entries); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrProtocol, err)
		}
		if len(entries) == 0 {
			return NoPending{}, nil
		}
		orders := make([]PendingOrder, 0, len(entries))
		for i, raw := range entries {
			var order PendingOrder
			if err := json.Unmarshal(raw, &order); err != nil {
				if i == 0 {
					return nil, fmt.Errorf("%w: first entry: %v", ErrProtocol, err)
				}
				continue
			}
			orders = append(orders, order)
		}
		return ManyPending{Orders: orders}, nil
	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(body, &fields); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrProtocol, err)
		}
		if len(fields) == 0 {
			return NoPending{}, nil
		}
		var order PendingOrder
		if err := json.Unmarshal(body, &order); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrProtocol, err)
		}
		return SinglePending{Order: order}, nil
	case 'n':
		if string(body) == "null" {
			return NoPending{}, nil
		}
	}
	return nil, fmt.Errorf("%w: %.64s", ErrProtocol, body)
}

// ResolveOrderID 选出本轮要处理的订单 ID：ManyPending 取第一条，SinglePending 取其本身。
// 没有候选或 ID 为 0 时返回 false。
func ResolveOrderID(p PendingOrders) (int64, bool) {
	var id int64
	switch v := p.(type) {
	case SinglePending:
		id = v.Order.ID
	case ManyPending:
		if len(v.Orders) > 0 {
			id = v.Orders[0].ID
		}
	}
	return id, id != 0
}
