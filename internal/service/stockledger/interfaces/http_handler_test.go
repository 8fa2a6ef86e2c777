package interfaces

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"warehouse/internal/service/stockledger/application"
	"warehouse/internal/service/stockledger/infrastructure"
)

func setupMux(t *testing.T, hub *StreamHub) *http.ServeMux {
	t.Helper()
	var notifier application.ChangeNotifier
	var stream http.Handler
	if hub != nil {
		notifier, stream = hub, hub
	}
	svc := application.NewStockLedgerService(infrastructure.NewMemoryStockRepository(), noop.NewTracerProvider().Tracer("test"), notifier)
	require.NoError(t, svc.SeedDefaults(context.Background(), 100))
	mux := http.NewServeMux()
	NewStockLedgerHandler(svc, stream).RegisterRoutes(mux)
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

func TestCheckStock(t *testing.T) {
	mux := setupMux(t, nil)

	rr := do(mux, http.MethodGet, "/checkstock?product=chairs", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"product":"chairs","quantity":100}`, rr.Body.String())

	rr = do(mux, http.MethodGet, "/checkstock?product=sofas", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"Product not found"}`, rr.Body.String())

	rr = do(mux, http.MethodGet, "/checkstock", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDecreaseThenIncrease(t *testing.T) {
	mux := setupMux(t, nil)

	rr := do(mux, http.MethodPost, "/decreasestock", `{"product":"chairs","quantity":98}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"Stock decreased successfully"}`, rr.Body.String())

	rr = do(mux, http.MethodGet, "/checkstock?product=chairs", "")
	assert.JSONEq(t, `{"product":"chairs","quantity":2}`, rr.Body.String())

	rr = do(mux, http.MethodPost, "/increasestock", `{"product":"chairs","quantity":100}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"Stock increased successfully"}`, rr.Body.String())

	rr = do(mux, http.MethodGet, "/checkstock?product=chairs", "")
	assert.JSONEq(t, `{"product":"chairs","quantity":102}`, rr.Body.String())
}

func TestAdjustStockErrors(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"sentinel quantity", "/decreasestock", `{"product":"desks","quantity":"error"}`, http.StatusBadRequest},
		{"negative quantity", "/decreasestock", `{"product":"desks","quantity":-2}`, http.StatusBadRequest},
		{"missing quantity", "/increasestock", `{"product":"desks"}`, http.StatusBadRequest},
		{"not json", "/increasestock", `product=desks`, http.StatusBadRequest},
		{"unknown product", "/decreasestock", `{"product":"sofas","quantity":1}`, http.StatusNotFound},
		{"unknown product increase", "/increasestock", `{"product":"sofas","quantity":1}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := setupMux(t, nil)
			rr := do(mux, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.status, rr.Code)
			assert.Contains(t, rr.Body.String(), `"error"`)

			rr = do(mux, http.MethodGet, "/checkstock?product=desks", "")
			assert.JSONEq(t, `{"product":"desks","quantity":100}`, rr.Body.String())
		})
	}
}

func TestAdjustRequiresPost(t *testing.T) {
	rr := do(setupMux(t, nil), http.MethodGet, "/decreasestock", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
