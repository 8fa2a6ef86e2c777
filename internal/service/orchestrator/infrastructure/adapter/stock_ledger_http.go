// internal/service/orchestrator/infrastructure/adapter/stock_ledger_http.go
package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/pkg/errors"

	"warehouse/internal/pkg/httpclient"
	"warehouse/internal/service/orchestrator/domain"
	"warehouse/internal/service/orchestrator/port"
)

// ErrLedgerRejected 表示台账返回了 200 但响应体里带有 error 字段
var ErrLedgerRejected = errors.New("stock ledger reported an error")

// StockLedgerHTTPAdapter 是 port.StockLedger 接口的 HTTP 实现。
type StockLedgerHTTPAdapter struct {
	client   *httpclient.Client
	resolver port.Resolver
}

// NewStockLedgerHTTPAdapter 创建一个新的库存台账适配器
func NewStockLedgerHTTPAdapter(client *httpclient.Client, resolver port.Resolver) *StockLedgerHTTPAdapter {
	return &StockLedgerHTTPAdapter{client: client, resolver: resolver}
}

type adjustRequest struct {
	Product  domain.Product `json:"product"`
	Quantity any            `json:"quantity"`
}

type ledgerReply struct {
	Message string          `json:"message"`
	Error   json.RawMessage `json:"error"`
}

type stockReply struct {
	Product  string `json:"product"`
	Quantity *int   `json:"quantity"`
}

// Decrease 以下任一情况都算失败：传输错误、非 200、非 JSON、响应体带 error 字段。
func (a *StockLedgerHTTPAdapter) Decrease(ctx context.Context, product domain.Product, quantity domain.Quantity) error {
	return a.adjust(ctx, "/decreasestock", adjustRequest{Product: product, Quantity: quantity})
}

func (a *StockLedgerHTTPAdapter) Increase(ctx context.Context, product domain.Product, amount int) error {
	return a.adjust(ctx, "/increasestock", adjustRequest{Product: product, Quantity: amount})
}

func (a *StockLedgerHTTPAdapter) Read(ctx context.Context, product domain.Product) (int, error) {
	base, err := a.resolver.Resolve(ctx, port.StockLedgerService)
	if err != nil {
		return 0, err
	}
	q := url.Values{"product": {string(product)}}
	resp, err := a.client.Call(ctx, http.MethodGet, base+"/checkstock?"+q.Encode(), nil)
	if err != nil {
		return 0, err
	}
	if err := resp.Expect(http.StatusOK); err != nil {
		return 0, err
	}
	var out stockReply
	if err := resp.Decode(&out); err != nil {
		return 0, err
	}
	if out.Quantity == nil {
		return 0, errors.Wrapf(ErrMissingField, "quantity for %s", product)
	}
	return *out.Quantity, nil
}

func (a *StockLedgerHTTPAdapter) adjust(ctx context.Context, path string, body adjustRequest) error {
	base, err := a.resolver.Resolve(ctx, port.StockLedgerService)
	if err != nil {
		return err
	}
	resp, err := a.client.Call(ctx, http.MethodPost, base+path, body)
	if err != nil {
		return err
	}
	if err := resp.Expect(http.StatusOK); err != nil {
		return err
	}
	var out ledgerReply
	if err := resp.Decode(&out); err != nil {
		return err
	}
	if len(out.Error) > 0 && string(out.Error) != "null" {
		return errors.Wrapf(ErrLedgerRejected, "%s: %s", path, out.Error)
	}
	return nil
}
