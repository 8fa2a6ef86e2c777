package httpclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func newTestClient(opts ...Option) *Client {
	return NewClient(noop.NewTracerProvider().Tracer("test"), opts...)
}

func TestCallSendsJSONAndDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var in map[string]int
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]int{"echo": in["chairs"]})
	}))
	defer srv.Close()

	resp, err := newTestClient().Call(context.Background(), http.MethodPost, srv.URL+"/x", map[string]int{"chairs": 3})
	require.NoError(t, err)
	require.NoError(t, resp.Expect(http.StatusCreated))

	var out map[string]int
	require.NoError(t, resp.Decode(&out))
	assert.Equal(t, 3, out["echo"])
}

func TestResponseErrorsAreClassified(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    error
	}{
		{
			name: "non json content type",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/html")
				_, _ = w.Write([]byte("<html></html>"))
			},
			want: ErrContentType,
		},
		{
			name: "empty body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
			},
			want: ErrDecode,
		},
		{
			name: "broken json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte("{"))
			},
			want: ErrDecode,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			resp, err := newTestClient().Call(context.Background(), http.MethodGet, srv.URL, nil)
			require.NoError(t, err)
			var v any
			assert.True(t, errors.Is(resp.Decode(&v), tt.want))
		})
	}
}

func TestExpectStatus(t *testing.T) {
	resp := &Response{StatusCode: http.StatusNotFound, Header: http.Header{}, Body: []byte(`{"message":"Order not found"}`)}
	err := resp.Expect(http.StatusOK)
	assert.True(t, errors.Is(err, ErrStatus))
	assert.Contains(t, err.Error(), "404")
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newTestClient().Call(context.Background(), http.MethodGet, url, nil)
	assert.True(t, errors.Is(err, ErrTransport))
}

func TestTimeoutOption(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := newTestClient(WithTimeout(50*time.Millisecond)).Call(context.Background(), http.MethodGet, srv.URL, nil)
	assert.True(t, errors.Is(err, ErrTransport))
}
