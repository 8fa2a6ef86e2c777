// internal/service/orchestrator/application/loop.go
package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"warehouse/internal/pkg/logger"
	"warehouse/internal/service/orchestrator/domain"
	"warehouse/internal/service/orchestrator/port"
)

// Settings 是编排循环的运行参数
type Settings struct {
	Interval        time.Duration
	LowWaterMark    int
	ReplenishAmount int
	// ValidateQuantities 为 true 时，Malformed 数量不会发往台账，直接记为扣减失败。
	ValidateQuantities bool
}

// Loop 是单线程的轮询编排器，每轮依次执行
// 生成 -> 提交 -> 拉取待处理 -> 解析 ID -> 对账 -> 删除 -> 休眠。
// 多个实例之间不共享状态，也不加锁。
type Loop struct {
	queue      port.OrderQueue
	ledger     port.StockLedger
	events     port.EventPublisher
	rule       port.ReplenishRule
	synth      *domain.Synthesizer
	tracer     trace.Tracer
	settings   Settings
	instanceID string
}

// NewLoop 创建编排循环，events 可以为 nil。
func NewLoop(
	queue port.OrderQueue,
	ledger port.StockLedger,
	events port.EventPublisher,
	rule port.ReplenishRule,
	synth *domain.Synthesizer,
	tracer trace.Tracer,
	settings Settings,
) *Loop {
	return &Loop{
		queue:      queue,
		ledger:     ledger,
		events:     events,
		rule:       rule,
		synth:      synth,
		tracer:     tracer,
		settings:   settings,
		instanceID: uuid.NewString(),
	}
}

// Run 不断执行 RunCycle，直到 ctx 被取消。
// 取消只在休眠时生效，进行中的一轮会完整跑完。
func (l *Loop) Run(ctx context.Context) error {
	logger.Ctx(ctx).Info().
		Str("instance_id", l.instanceID).
		Dur("interval", l.settings.Interval).
		Msg("✅ Orchestrator loop started")
	for {
		if ctx.Err() != nil {
			break
		}
		l.RunCycle(context.WithoutCancel(ctx))
		if err := sleep(ctx, l.settings.Interval); err != nil {
			break
		}
	}
	logger.Ctx(ctx).Info().Str("instance_id", l.instanceID).Msg("🛑 Orchestrator loop stopped")
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunCycle 执行一轮编排。所有外部失败都只记录日志，不会中断本轮的其余步骤。
func (l *Loop) RunCycle(ctx context.Context) *CycleReport {
	ctx, span := l.tracer.Start(ctx, "orchestrator.Cycle")
	defer span.End()
	log := logger.Ctx(ctx).With().Str("instance_id", l.instanceID).Logger()
	ctx = log.WithContext(ctx)

	// 1. 生成
	order := l.synth.Next()
	report := &CycleReport{Order: order}
	log.Info().
		Stringer("computers", order.Computers).
		Stringer("chairs", order.Chairs).
		Stringer("desks", order.Desks).
		Stringer("cupboards", order.Cupboards).
		Bool("malformed", order.HasMalformed()).
		Msg("Generated order")
	span.SetAttributes(attribute.Bool("order.malformed", order.HasMalformed()))

	// 2. 提交，失败时本轮没有提交 ID，但仍继续拉取
	if id, err := l.queue.Insert(ctx, order); err != nil {
		callFailuresTotal.WithLabelValues("submit").Inc()
		span.RecordError(err)
		log.Error().Err(err).Msg("Failed to submit order")
	} else {
		report.SubmittedID = id
		span.SetAttributes(attribute.Int64("order.submitted_id", id))
	}

	// 3. 拉取待处理订单，与刚提交的订单无关
	pending, err := l.queue.ListUnprocessed(ctx)
	if err != nil {
		callFailuresTotal.WithLabelValues("fetch").Inc()
		span.RecordError(err)
		if errors.Is(err, domain.ErrProtocol) {
			log.Error().Err(err).Msg("Unknown response type from order queue")
		} else {
			log.Error().Err(err).Msg("Failed to get orders from order queue")
		}
		pending = nil
	}

	// 4. 解析 ID
	orderID, ok := domain.ResolveOrderID(pending)
	if !ok {
		if pending == nil {
			report.Outcome = CycleFetchFailed
		} else if _, empty := pending.(domain.NoPending); empty {
			report.Outcome = CycleIdle
			log.Info().Msg("No more orders to pick up")
		} else {
			report.Outcome = CycleNoOrderID
			log.Error().Msg("No order_id found in the response")
		}
		cyclesTotal.WithLabelValues(string(report.Outcome)).Inc()
		return report
	}
	report.ResolvedID = orderID
	span.SetAttributes(attribute.Int64("order.resolved_id", orderID))
	if report.SubmittedID != 0 && report.SubmittedID != orderID {
		log.Debug().Int64("submitted_id", report.SubmittedID).Int64("order_id", orderID).
			Msg("Reconciling generated quantities against a different queued order")
	}

	// 5. 对账：按固定顺序处理每个商品，互不影响
	for _, p := range domain.Products {
		report.Products = append(report.Products, l.reconcile(ctx, orderID, p, order.Get(p)))
	}

	// 6. 删除
	if err := l.queue.Delete(ctx, orderID); err != nil {
		callFailuresTotal.WithLabelValues("delete").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "delete failed")
		log.Error().Err(err).Int64("order_id", orderID).Msg("Failed to delete order")
	} else {
		report.Deleted = true
		log.Info().Int64("order_id", orderID).Msg("Deleted processed order")
		l.publish(ctx, domain.Event{Type: domain.EventOrderFulfilled, OrderID: orderID})
	}

	report.Outcome = CycleProcessed
	cyclesTotal.WithLabelValues(string(report.Outcome)).Inc()
	return report
}

func (l *Loop) reconcile(ctx context.Context, orderID int64, product domain.Product, quantity domain.Quantity) ProductReport {
	ctx, span := l.tracer.Start(ctx, "orchestrator.Reconcile", trace.WithAttributes(
		attribute.String("stock.product", string(product)),
		attribute.String("stock.quantity", quantity.String()),
	))
	defer span.End()
	log := logger.Ctx(ctx).With().Int64("order_id", orderID).Str("product", string(product)).Stringer("quantity", quantity).Logger()
	pr := ProductReport{Product: product, Quantity: quantity}

	if _, bad := quantity.(domain.Malformed); bad && l.settings.ValidateQuantities {
		malformedTotal.WithLabelValues(string(product)).Inc()
		log.Error().Msg("Malformed quantity, not sending decrease to stock ledger")
		pr.Outcome = ProductMalformed
		return pr
	}

	if err := l.ledger.Decrease(ctx, product, quantity); err != nil {
		callFailuresTotal.WithLabelValues("decrease").Inc()
		span.RecordError(err)
		log.Error().Err(err).Msg("Failed to decrease stock")
		pr.Outcome = ProductDecreaseFailed
		return pr
	}
	log.Info().Msgf("Picked up order: %d - %s (Quantity: %s)", orderID, product, quantity)

	level, err := l.ledger.Read(ctx, product)
	if err != nil {
		callFailuresTotal.WithLabelValues("read").Inc()
		span.RecordError(err)
		log.Error().Err(err).Msg("Failed to check stock")
		pr.Outcome = ProductReadFailed
		return pr
	}
	pr.Level = level

	replenish, err := l.rule.ShouldReplenish(ctx, level, l.settings.LowWaterMark)
	switch {
	case err != nil:
		span.RecordError(err)
		log.Error().Err(err).Int("level", level).Msg("Failed to evaluate replenish rule")
		pr.Outcome = ProductRuleFailed
	case !replenish:
		pr.Outcome = ProductSufficient
	default:
		if err := l.ledger.Increase(ctx, product, l.settings.ReplenishAmount); err != nil {
			callFailuresTotal.WithLabelValues("increase").Inc()
			span.RecordError(err)
			log.Error().Err(err).Int("level", level).Msg("Failed to increase stock")
			pr.Outcome = ProductReplenishFailed
		} else {
			replenishmentsTotal.WithLabelValues(string(product)).Inc()
			log.Info().Int("level", level).Int("amount", l.settings.ReplenishAmount).Msg("Replenished stock")
			pr.Outcome = ProductReplenished
			l.publish(ctx, domain.Event{
				Type:     domain.EventStockReplenished,
				OrderID:  orderID,
				Product:  product,
				Quantity: l.settings.ReplenishAmount,
			})
		}
	}
	return pr
}

// publish 发布事件，失败只记录日志
func (l *Loop) publish(ctx context.Context, event domain.Event) {
	if l.events == nil {
		return
	}
	event.ID = uuid.NewString()
	event.InstanceID = l.instanceID
	event.At = time.Now().UTC()
	if err := l.events.Publish(ctx, event); err != nil {
		callFailuresTotal.WithLabelValues("publish").Inc()
		logger.Ctx(ctx).Warn().Err(err).Str("event_type", event.Type).Msg("Failed to publish event")
	}
}
