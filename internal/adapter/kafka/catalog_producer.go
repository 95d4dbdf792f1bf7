package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"
	"github.com/ojuansoares/dolse-vitta/internal/usecase"
)

// CatalogProducer implements usecase.CatalogEvents on a Kafka topic. Messages
// are keyed by resource kind so changes of one kind stay ordered.
type CatalogProducer struct {
	p     sarama.SyncProducer
	topic string
}

func NewCatalogProducer(p sarama.SyncProducer, topic string) *CatalogProducer {
	return &CatalogProducer{p: p, topic: topic}
}

func (c *CatalogProducer) PublishCatalogChanged(ctx context.Context, msg usecase.CatalogChangedMsg) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	_, _, err = c.p.SendMessage(&sarama.ProducerMessage{
		Topic: c.topic,
		Key:   sarama.StringEncoder(msg.Kind),
		Value: sarama.ByteEncoder(body),
	})
	if err != nil {
		return fmt.Errorf("send %s: %w", c.topic, err)
	}
	return nil
}

func (c *CatalogProducer) Close() error { return c.p.Close() }

var _ usecase.CatalogEvents = (*CatalogProducer)(nil)
