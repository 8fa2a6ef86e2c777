// internal/service/orchestrator/infrastructure/adapter/order_queue_http.go
package adapter

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pkg/errors"

	"warehouse/internal/pkg/httpclient"
	"warehouse/internal/pkg/logger"
	"warehouse/internal/service/orchestrator/domain"
	"warehouse/internal/service/orchestrator/port"
)

// ErrMissingField 表示响应可以解码，但缺少必须的字段
var ErrMissingField = errors.New("missing field in response")

// OrderQueueHTTPAdapter 是 port.OrderQueue 接口的 HTTP 实现。
type OrderQueueHTTPAdapter struct {
	client   *httpclient.Client
	resolver port.Resolver
}

// NewOrderQueueHTTPAdapter 创建一个新的订单队列适配器
func NewOrderQueueHTTPAdapter(client *httpclient.Client, resolver port.Resolver) *OrderQueueHTTPAdapter {
	return &OrderQueueHTTPAdapter{client: client, resolver: resolver}
}

type addOrderResponse struct {
	Message string `json:"message"`
	OrderID *int64 `json:"order_id"`
}

func (a *OrderQueueHTTPAdapter) Insert(ctx context.Context, order domain.Order) (int64, error) {
	base, err := a.resolver.Resolve(ctx, port.OrderQueueService)
	if err != nil {
		return 0, err
	}
	resp, err := a.client.Call(ctx, http.MethodPost, base+"/addorders", order)
	if err != nil {
		return 0, err
	}
	if err := resp.Expect(http.StatusCreated); err != nil {
		return 0, err
	}
	var out addOrderResponse
	if err := resp.Decode(&out); err != nil {
		return 0, err
	}
	if out.OrderID == nil || *out.OrderID == 0 {
		return 0, errors.Wrap(ErrMissingField, "order_id")
	}
	logger.Ctx(ctx).Info().Int64("order_id", *out.OrderID).Msg("Order was added.")
	return *out.OrderID, nil
}

func (a *OrderQueueHTTPAdapter) ListUnprocessed(ctx context.Context) (domain.PendingOrders, error) {
	base, err := a.resolver.Resolve(ctx, port.OrderQueueService)
	if err != nil {
		return nil, err
	}
	resp, err := a.client.Call(ctx, http.MethodGet, base+"/checkorders", nil)
	if err != nil {
		return nil, err
	}
	if err := resp.Expect(http.StatusOK); err != nil {
		return nil, err
	}
	if ct := resp.ContentType(); ct != "application/json" {
		return nil, errors.Wrapf(httpclient.ErrContentType, "got %q", ct)
	}
	return domain.DecodePendingOrders(resp.Body)
}

func (a *OrderQueueHTTPAdapter) Delete(ctx context.Context, orderID int64) error {
	base, err := a.resolver.Resolve(ctx, port.OrderQueueService)
	if err != nil {
		return err
	}
	// 队列服务的删除接口同时接受 GET，沿用 GET 以兼容旧版本
	resp, err := a.client.Call(ctx, http.MethodGet, fmt.Sprintf("%s/deleteorders/%d", base, orderID), nil)
	if err != nil {
		return err
	}
	return resp.Expect(http.StatusOK)
}
