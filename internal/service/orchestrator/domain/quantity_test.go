package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderWireFormat(t *testing.T) {
	o := Order{Computers: Valid(3), Chairs: Malformed{}, Desks: Valid(0), Cupboards: Valid(10)}
	data, err := json.Marshal(o)
	require.NoError(t, err)
	assert.JSONEq(t, `{"computers":3,"chairs":"error","desks":0,"cupboards":10}`, string(data))
}

func TestParseQuantity(t *testing.T) {
	q, err := ParseQuantity(json.RawMessage(`7`))
	require.NoError(t, err)
	assert.Equal(t, Valid(7), q)

	q, err = ParseQuantity(json.RawMessage(` "error" `))
	require.NoError(t, err)
	assert.Equal(t, Malformed{}, q)

	for _, raw := range []string{`"seven"`, `-1`, `1.5`, `null`, `{}`} {
		_, err := ParseQuantity(json.RawMessage(raw))
		assert.Error(t, err, raw)
	}
}

func TestQuantityString(t *testing.T) {
	assert.Equal(t, "4", Valid(4).String())
	assert.Equal(t, "error", Malformed{}.String())
}
