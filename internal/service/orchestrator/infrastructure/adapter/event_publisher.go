// internal/service/orchestrator/infrastructure/adapter/event_publisher.go
package adapter

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"

	"warehouse/internal/pkg/mq"
	"warehouse/internal/service/orchestrator/domain"
)

// KafkaEventPublisher 把编排事件写入 Kafka，key 为订单 ID 或商品名。
type KafkaEventPublisher struct {
	writer mq.MessageWriter
}

func NewKafkaEventPublisher(writer mq.MessageWriter) *KafkaEventPublisher {
	return &KafkaEventPublisher{writer: writer}
}

func (p *KafkaEventPublisher) Publish(ctx context.Context, event domain.Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "marshal event")
	}
	key := string(event.Product)
	if event.OrderID != 0 {
		key = strconv.FormatInt(event.OrderID, 10)
	}
	if err := mq.ProduceMessage(ctx, p.writer, []byte(key), value); err != nil {
		return errors.Wrapf(err, "publish %s event", event.Type)
	}
	return nil
}

// NoopEventPublisher 在未配置 Kafka 时使用
type NoopEventPublisher struct{}

func (NoopEventPublisher) Publish(context.Context, domain.Event) error { return nil }
