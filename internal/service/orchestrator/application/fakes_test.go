package application

import (
	"context"
	"fmt"
	"sync"

	"warehouse/internal/service/orchestrator/domain"
)

type fakeQueue struct {
	mu        sync.Mutex
	nextID    int64
	insertErr error
	pending   domain.PendingOrders
	listErr   error
	deleteErr error
	inserted  []domain.Order
	deleted   []int64
}

func (q *fakeQueue) Insert(_ context.Context, o domain.Order) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.insertErr != nil {
		return 0, q.insertErr
	}
	q.nextID++
	q.inserted = append(q.inserted, o)
	return q.nextID, nil
}

func (q *fakeQueue) ListUnprocessed(context.Context) (domain.PendingOrders, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pending, q.listErr
}

func (q *fakeQueue) Delete(_ context.Context, id int64) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.deleted = append(q.deleted, id)
	return q.deleteErr
}

// fakeLedger 模拟一个允许负库存的台账，并记录每次调用
type fakeLedger struct {
	mu          sync.Mutex
	stock       map[domain.Product]int
	decreaseErr map[domain.Product]error
	readErr     map[domain.Product]error
	increaseErr error
	calls       []string
}

func newFakeLedger(level int) *fakeLedger {
	l := &fakeLedger{
		stock:       make(map[domain.Product]int),
		decreaseErr: make(map[domain.Product]error),
		readErr:     make(map[domain.Product]error),
	}
	for _, p := range domain.Products {
		l.stock[p] = level
	}
	return l
}

func (l *fakeLedger) Decrease(_ context.Context, p domain.Product, q domain.Quantity) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, fmt.Sprintf("decrease %s %s", p, q))
	if err := l.decreaseErr[p]; err != nil {
		return err
	}
	v, ok := q.(domain.Valid)
	if !ok {
		return fmt.Errorf("400: invalid quantity %s", q)
	}
	l.stock[p] -= int(v)
	return nil
}

func (l *fakeLedger) Read(_ context.Context, p domain.Product) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, fmt.Sprintf("read %s", p))
	if err := l.readErr[p]; err != nil {
		return 0, err
	}
	return l.stock[p], nil
}

func (l *fakeLedger) Increase(_ context.Context, p domain.Product, amount int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, fmt.Sprintf("increase %s %d", p, amount))
	if l.increaseErr != nil {
		return l.increaseErr
	}
	l.stock[p] += amount
	return nil
}

func (l *fakeLedger) Calls() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e domain.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

type thresholdRule struct{}

func (thresholdRule) ShouldReplenish(_ context.Context, quantity, lowWaterMark int) (bool, error) {
	return quantity < lowWaterMark, nil
}

// scripted 按顺序返回预设的随机数
type scripted []int

func (s *scripted) IntN(n int) int {
	if len(*s) == 0 {
		panic("scripted source exhausted")
	}
	v := (*s)[0]
	*s = (*s)[1:]
	return v % n
}
