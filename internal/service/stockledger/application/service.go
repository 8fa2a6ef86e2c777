// internal/service/stockledger/application/service.go
package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"warehouse/internal/pkg/logger"
	"warehouse/internal/service/stockledger/domain"
)

var (
	adjustmentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "warehouse",
		Subsystem: "stock_ledger",
		Name:      "adjustments_total",
		Help:      "Applied stock adjustments, by product and direction.",
	}, []string{"product", "direction"})

	stockLevel = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "warehouse",
		Subsystem: "stock_ledger",
		Name:      "quantity",
		Help:      "Last observed stock level per product.",
	}, []string{"product"})
)

// ChangeNotifier 接收已生效的库存变更，实现方不能阻塞调用方。
type ChangeNotifier interface {
	Publish(change domain.StockChange)
}

type noopNotifier struct{}

func (noopNotifier) Publish(domain.StockChange) {}

// StockLedgerService 定义了库存台账提供的业务用例
type StockLedgerService struct {
	repo     domain.StockRepository
	tracer   trace.Tracer
	notifier ChangeNotifier
}

// NewStockLedgerService 创建服务实例，notifier 可以为 nil。
func NewStockLedgerService(repo domain.StockRepository, tracer trace.Tracer, notifier ChangeNotifier) *StockLedgerService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &StockLedgerService{repo: repo, tracer: tracer, notifier: notifier}
}

// SeedDefaults 为缺失的默认商品写入初始库存
func (s *StockLedgerService) SeedDefaults(ctx context.Context, quantity int) error {
	if err := s.repo.Seed(ctx, domain.DefaultProducts, quantity); err != nil {
		return err
	}
	entries, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list stock after seeding: %w", err)
	}
	// 启动时就把所有已知商品的库存写进 gauge，而不是等第一次变更
	for _, e := range entries {
		stockLevel.WithLabelValues(e.Product).Set(float64(e.Quantity))
	}
	logger.Ctx(ctx).Info().
		Strs("products", domain.DefaultProducts).
		Int("quantity", quantity).
		Int("tracked", len(entries)).
		Msg("✅ Stock seeded for missing products.")
	return nil
}

// CheckStock 读取单个商品的库存
func (s *StockLedgerService) CheckStock(ctx context.Context, product string) (*StockDTO, error) {
	ctx, span := s.tracer.Start(ctx, "service.CheckStock")
	defer span.End()
	span.SetAttributes(attribute.String("stock.product", product))

	entry, err := s.repo.Get(ctx, product)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, domain.ErrProductNotFound) {
			logger.Ctx(ctx).Warn().Str("product", product).Msg("Product not found in stock.")
		} else {
			span.SetStatus(codes.Error, "read failed")
		}
		return nil, err
	}
	stockLevel.WithLabelValues(entry.Product).Set(float64(entry.Quantity))
	logger.Ctx(ctx).Info().Str("product", product).Int("quantity", entry.Quantity).Msg("Checked stock")
	return &StockDTO{Product: entry.Product, Quantity: entry.Quantity}, nil
}

// IncreaseStock 增加库存
func (s *StockLedgerService) IncreaseStock(ctx context.Context, req *AdjustStockRequest) (*MessageResponse, error) {
	if err := s.adjust(ctx, "increase", req, 1); err != nil {
		return nil, err
	}
	return &MessageResponse{Message: "Stock increased successfully"}, nil
}

// DecreaseStock 无条件扣减库存，结果可以为负。
func (s *StockLedgerService) DecreaseStock(ctx context.Context, req *AdjustStockRequest) (*MessageResponse, error) {
	if err := s.adjust(ctx, "decrease", req, -1); err != nil {
		return nil, err
	}
	return &MessageResponse{Message: "Stock decreased successfully"}, nil
}

func (s *StockLedgerService) adjust(ctx context.Context, direction string, req *AdjustStockRequest, sign int) error {
	ctx, span := s.tracer.Start(ctx, "service."+direction+"Stock")
	defer span.End()

	if req.Quantity == nil {
		err := fmt.Errorf("%w: quantity is required", domain.ErrInvalidQuantity)
		span.RecordError(err)
		return err
	}
	if err := domain.ValidateAdjustment(req.Product, *req.Quantity); err != nil {
		span.RecordError(err)
		return err
	}
	span.SetAttributes(
		attribute.String("stock.product", req.Product),
		attribute.Int("stock.quantity", *req.Quantity),
	)

	delta := sign * *req.Quantity
	entry, err := s.repo.Adjust(ctx, req.Product, delta)
	if err != nil {
		span.RecordError(err)
		if !errors.Is(err, domain.ErrProductNotFound) {
			span.SetStatus(codes.Error, direction+" failed")
		}
		logger.Ctx(ctx).Error().Err(err).Str("product", req.Product).Int("quantity", *req.Quantity).Msgf("Failed to %s stock", direction)
		return err
	}

	adjustmentsTotal.WithLabelValues(entry.Product, direction).Inc()
	stockLevel.WithLabelValues(entry.Product).Set(float64(entry.Quantity))
	logger.Ctx(ctx).Info().
		Str("product", entry.Product).
		Int("delta", delta).
		Int("quantity", entry.Quantity).
		Msgf("Stock %sd", direction)

	s.notifier.Publish(domain.StockChange{
		Product:  entry.Product,
		Delta:    delta,
		Quantity: entry.Quantity,
		At:       time.Now().UTC(),
	})
	return nil
}
