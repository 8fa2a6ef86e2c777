// internal/service/orchestrator/domain/synthesizer.go
package domain

// MaxQuantity 是生成订单时单个商品数量的上限，下限为 1。
const MaxQuantity = 10

// RandomSource 是生成器依赖的随机源，*rand.Rand (math/rand/v2) 满足该接口。
type RandomSource interface {
	IntN(n int) int
}

// Synthesizer 每轮生成一个随机订单。每个商品独立地以 1/malformedOneIn 的概率变成 Malformed。
type Synthesizer struct {
	rnd            RandomSource
	malformedOneIn int
}

// NewSynthesizer 创建生成器，malformedOneIn <= 0 时从不生成畸形数量。
func NewSynthesizer(rnd RandomSource, malformedOneIn int) *Synthesizer {
	return &Synthesizer{rnd: rnd, malformedOneIn: malformedOneIn}
}

// Next 生成下一个订单
func (s *Synthesizer) Next() Order {
	return Order{
		Computers: s.quantity(),
		Chairs:    s.quantity(),
		Desks:     s.quantity(),
		Cupboards: s.quantity(),
	}
}

func (s *Synthesizer) quantity() Quantity {
	if s.malformedOneIn > 0 && s.rnd.IntN(s.malformedOneIn) == 0 {
		return Malformed{}
	}
	return Valid(s.rnd.IntN(MaxQuantity) + 1)
}
