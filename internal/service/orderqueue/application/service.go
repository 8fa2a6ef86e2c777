// internal/service/orderqueue/application/service.go
package application

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"warehouse/internal/pkg/logger"
	"warehouse/internal/service/orderqueue/domain"
)

var ordersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "warehouse",
	Subsystem: "order_queue",
	Name:      "orders_total",
	Help:      "Orders handled by the order queue, by operation and result.",
}, []string{"operation", "result"})

// OrderQueueService 定义了订单队列提供的业务用例
type OrderQueueService struct {
	repo   domain.OrderRepository
	tracer trace.Tracer
}

// NewOrderQueueService 创建一个新的订单队列服务实例
func NewOrderQueueService(repo domain.OrderRepository, tracer trace.Tracer) *OrderQueueService {
	return &OrderQueueService{repo: repo, tracer: tracer}
}

// AddOrder 写入一个新的未处理订单
func (s *OrderQueueService) AddOrder(ctx context.Context, req *AddOrderRequest) (*AddOrderResponse, error) {
	ctx, span := s.tracer.Start(ctx, "service.AddOrder")
	defer span.End()

	order, err := domain.NewOrder(req.Computers, req.Chairs, req.Desks, req.Cupboards)
	if err != nil {
		span.RecordError(err)
		ordersTotal.WithLabelValues("insert", "invalid").Inc()
		return nil, err
	}
	if err := s.repo.Insert(ctx, order); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		ordersTotal.WithLabelValues("insert", "error").Inc()
		return nil, err
	}

	span.SetAttributes(attribute.Int64("order.id", order.ID))
	ordersTotal.WithLabelValues("insert", "ok").Inc()
	logger.Ctx(ctx).Info().Int64("order_id", order.ID).Msg("Inserted new order")
	return &AddOrderResponse{Message: "Order added successfully", OrderID: order.ID}, nil
}

// CheckOrders 返回所有未处理的订单
func (s *OrderQueueService) CheckOrders(ctx context.Context) ([]OrderDTO, error) {
	ctx, span := s.tracer.Start(ctx, "service.CheckOrders")
	defer span.End()

	orders, err := s.repo.ListUnprocessed(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list failed")
		return nil, err
	}
	out := make([]OrderDTO, len(orders))
	for i, o := range orders {
		out[i] = toOrderDTO(o)
	}
	span.SetAttributes(attribute.Int("orders.unprocessed", len(out)))
	logger.Ctx(ctx).Info().Int("count", len(out)).Msg("Fetched unprocessed orders")
	return out, nil
}

// DeleteOrder 删除订单，不存在时返回 domain.ErrOrderNotFound
func (s *OrderQueueService) DeleteOrder(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "service.DeleteOrder")
	defer span.End()
	span.SetAttributes(attribute.Int64("order.id", id))

	if err := s.repo.Delete(ctx, id); err != nil {
		span.RecordError(err)
		if errors.Is(err, domain.ErrOrderNotFound) {
			ordersTotal.WithLabelValues("delete", "not_found").Inc()
			logger.Ctx(ctx).Error().Int64("order_id", id).Msg("No order found to delete.")
		} else {
			span.SetStatus(codes.Error, "delete failed")
			ordersTotal.WithLabelValues("delete", "error").Inc()
		}
		return err
	}
	ordersTotal.WithLabelValues("delete", "ok").Inc()
	logger.Ctx(ctx).Info().Int64("order_id", id).Msg("Deleted order")
	return nil
}
