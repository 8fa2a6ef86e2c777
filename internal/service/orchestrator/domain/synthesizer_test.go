package domain

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynthesizerDistribution(t *testing.T) {
	s := NewSynthesizer(rand.New(rand.NewPCG(1, 2)), 20)

	const orders = 20000
	var malformed, total int
	seen := make(map[Valid]bool)
	for i := 0; i < orders; i++ {
		o := s.Next()
		for _, p := range Products {
			total++
			switch q := o.Get(p).(type) {
			case Malformed:
				malformed++
			case Valid:
				require.GreaterOrEqual(t, int(q), 1)
				require.LessOrEqual(t, int(q), MaxQuantity)
				seen[q] = true
			default:
				t.Fatalf("unexpected quantity %T", q)
			}
		}
	}

	ratio := float64(malformed) / float64(total)
	assert.InDelta(t, 0.05, ratio, 0.01, "malformed ratio")
	assert.Len(t, seen, MaxQuantity, "every value in [1,10] should appear")
}

type scripted []int

func (s *scripted) IntN(n int) int {
	v := (*s)[0]
	*s = (*s)[1:]
	if v >= n {
		panic("scripted value out of range")
	}
	return v
}

func TestSynthesizerIsDrivenBySource(t *testing.T) {
	// computers valid 1, chairs malformed, desks valid 10, cupboards valid 4
	src := scripted{5, 0, 0, 3, 9, 7, 3}
	o := NewSynthesizer(&src, 20).Next()

	assert.Equal(t, Valid(1), o.Computers)
	assert.Equal(t, Malformed{}, o.Chairs)
	assert.Equal(t, Valid(10), o.Desks)
	assert.Equal(t, Valid(4), o.Cupboards)
	assert.True(t, o.HasMalformed())
	assert.Empty(t, src)
}

func TestSynthesizerWithoutMalformed(t *testing.T) {
	s := NewSynthesizer(rand.New(rand.NewPCG(3, 4)), 0)
	for i := 0; i < 1000; i++ {
		assert.False(t, s.Next().HasMalformed())
	}
}
