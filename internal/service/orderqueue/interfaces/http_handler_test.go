package interfaces

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"warehouse/internal/service/orderqueue/application"
	"warehouse/internal/service/orderqueue/infrastructure"
)

func setupMux(t *testing.T) *http.ServeMux {
	t.Helper()
	repo := infrastructure.NewMemoryOrderRepository()
	svc := application.NewOrderQueueService(repo, noop.NewTracerProvider().Tracer("test"))
	mux := http.NewServeMux()
	NewOrderQueueHandler(svc).RegisterRoutes(mux)
	return mux
}

func do(mux http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func TestAddThenCheckAccumulates(t *testing.T) {
	mux := setupMux(t)

	const n = 5
	for i := 0; i < n; i++ {
		rr := do(mux, http.MethodPost, "/addorders", `{"computers":1,"chairs":2,"desks":3,"cupboards":4}`)
		require.Equal(t, http.StatusCreated, rr.Code)

		var resp application.AddOrderResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "Order added successfully", resp.Message)
		assert.Equal(t, int64(i+1), resp.OrderID)
	}

	rr := do(mux, http.MethodGet, "/checkorders", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var orders []application.OrderDTO
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &orders))
	require.Len(t, orders, n)
	assert.Equal(t, int64(1), orders[0].OrderID)
	assert.Equal(t, 2, orders[0].Chairs)
}

func TestCheckOrdersEmptyIsArray(t *testing.T) {
	rr := do(setupMux(t), http.MethodGet, "/checkorders", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestAddOrdersMissingFieldsDefaultToZero(t *testing.T) {
	mux := setupMux(t)
	rr := do(mux, http.MethodPost, "/addorders", `{"chairs":7}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = do(mux, http.MethodGet, "/checkorders", "")
	assert.JSONEq(t, `[{"order_id":1,"cupboards":0,"computers":0,"chairs":7,"desks":0}]`, rr.Body.String())
}

func TestAddOrdersRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"sentinel string", `{"computers":"error","chairs":1,"desks":1,"cupboards":1}`},
		{"negative", `{"computers":-1}`},
		{"fraction", `{"desks":1.5}`},
		{"not json", `chairs=1`},
		{"unknown field", `{"sofas":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := setupMux(t)
			rr := do(mux, http.MethodPost, "/addorders", tt.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Contains(t, rr.Body.String(), `"error"`)

			rr = do(mux, http.MethodGet, "/checkorders", "")
			assert.JSONEq(t, `[]`, rr.Body.String())
		})
	}
}

func TestDeleteOrders(t *testing.T) {
	mux := setupMux(t)
	do(mux, http.MethodPost, "/addorders", `{"chairs":1}`)
	do(mux, http.MethodPost, "/addorders", `{"chairs":2}`)

	rr := do(mux, http.MethodGet, "/deleteorders/1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"Order 1 deleted successfully"}`, rr.Body.String())

	rr = do(mux, http.MethodDelete, "/deleteorders/2", "")
	require.Equal(t, http.StatusOK, rr.Code)

	rr = do(mux, http.MethodGet, "/checkorders", "")
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestDeleteUnknownOrderIsNotFound(t *testing.T) {
	mux := setupMux(t)

	rr := do(mux, http.MethodGet, "/deleteorders/42", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"message":"Order not found"}`, rr.Body.String())

	// the service keeps serving afterwards
	rr = do(mux, http.MethodGet, "/checkorders", "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestDeleteOrdersBadID(t *testing.T) {
	rr := do(setupMux(t), http.MethodGet, "/deleteorders/abc", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
