// internal/service/orchestrator/domain/quantity.go
package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// MalformedSentinel 是畸形数量在 JSON 中的字面值
const MalformedSentinel = "error"

// Quantity 是订单中单个商品的请求数量，只有 Valid 和 Malformed 两种取值。
// 调用方用 type switch 区分两者。
type Quantity interface {
	fmt.Stringer
	isQuantity()
}

// Valid 是一个合法的非负数量
type Valid int

// Malformed 表示生成器故意产生的坏数据
type Malformed struct{}

func (Valid) isQuantity()     {}
func (Malformed) isQuantity() {}

func (v Valid) String() string   { return strconv.Itoa(int(v)) }
func (Malformed) String() string { return MalformedSentinel }

// MarshalJSON 把畸形数量编码成字符串 "error"，与下游服务看到的线上格式一致。
func (Malformed) MarshalJSON() ([]byte, error) {
	return json.Marshal(MalformedSentinel)
}

// ParseQuantity 从 JSON 值解析数量：整数为 Valid，"error" 为 Malformed。
func ParseQuantity(raw json.RawMessage) (Quantity, error) {
	raw = bytes.TrimSpace(raw)
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == MalformedSentinel {
			return Malformed{}, nil
		}
		return nil, fmt.Errorf("unexpected quantity string %q", s)
	}
	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, fmt.Errorf("quantity is neither an integer nor %q: %s", MalformedSentinel, raw)
	}
	if n < 0 {
		return nil, fmt.Errorf("quantity must be >= 0, got %d", n)
	}
	return Valid(n), nil
}
