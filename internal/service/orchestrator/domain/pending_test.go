package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePendingOrders(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		want   PendingOrders
		wantID int64
		hasID  bool
	}{
		{"empty array", `[]`, NoPending{}, 0, false},
		{"null", `null`, NoPending{}, 0, false},
		{"empty object", `{}`, NoPending{}, 0, false},
		{
			"many takes first",
			`[{"order_id":4,"chairs":1},{"order_id":9}]`,
			ManyPending{Orders: []PendingOrder{{ID: 4, Chairs: Valid(1)}, {ID: 9}}},
			4, true,
		},
		{"single object", ` {"order_id":12,"desks":2}`, SinglePending{Order: PendingOrder{ID: 12, Desks: Valid(2)}}, 12, true},
		{"first element without id", `[{"chairs":1},{"order_id":2}]`, ManyPending{Orders: []PendingOrder{{Chairs: Valid(1)}, {ID: 2}}}, 0, false},
		{"zero id", `{"order_id":0}`, SinglePending{Order: PendingOrder{}}, 0, false},
		{"null id", `[{"order_id":null,"desks":1}]`, ManyPending{Orders: []PendingOrder{{Desks: Valid(1)}}}, 0, false},
		{
			"sentinel quantity keeps the order",
			`[{"order_id":7,"chairs":"error"}]`,
			ManyPending{Orders: []PendingOrder{{ID: 7, Chairs: Malformed{}}}},
			7, true,
		},
		{
			"fractional quantity in a later entry",
			`[{"order_id":7,"chairs":1},{"order_id":8,"desks":2.5}]`,
			ManyPending{Orders: []PendingOrder{{ID: 7, Chairs: Valid(1)}, {ID: 8, Desks: Malformed{}}}},
			7, true,
		},
		{
			"undecodable later entry is dropped",
			`[{"order_id":5},{"order_id":"x"},42]`,
			ManyPending{Orders: []PendingOrder{{ID: 5}}},
			5, true,
		},
		{
			"negative and string quantities on a single order",
			`{"order_id":3,"computers":-2,"cupboards":"four","desks":0}`,
			SinglePending{Order: PendingOrder{ID: 3, Computers: Malformed{}, Cupboards: Malformed{}, Desks: Valid(0)}},
			3, true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodePendingOrders([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			id, ok := ResolveOrderID(got)
			assert.Equal(t, tt.hasID, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestDecodePendingOrdersProtocolErrors(t *testing.T) {
	for _, body := range []string{``, `42`, `"orders"`, `true`, `[1,2]`, `[null]`, `[{"order_id":"x"},{"order_id":2}]`, `{"order_id":"x"}`, `{"order_id":1.5}`, `nul`} {
		_, err := DecodePendingOrders([]byte(body))
		assert.ErrorIs(t, err, ErrProtocol, body)
	}
}

func TestResolveOrderIDWithoutCandidate(t *testing.T) {
	_, ok := ResolveOrderID(nil)
	assert.False(t, ok)
	_, ok = ResolveOrderID(ManyPending{})
	assert.False(t, ok)
}
