package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/ojuansoares/dolse-vitta/internal/usecase"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Topology names the exchange, queue and binding used for order.placed.
type Topology struct {
	Exchange   string
	Queue      string
	RoutingKey string
}

// Declare sets up the exchange, queue and binding. Safe to repeat.
func (t Topology) Declare(ch *amqp.Channel) error {
	// 1. declare exchange (topic type, durable)
	if err := ch.ExchangeDeclare(
		t.Exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	// 2. declare queue
	q, err := ch.QueueDeclare(
		t.Queue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	// 3. bind queue → exchange
	if err := ch.QueueBind(q.Name, t.RoutingKey, t.Exchange, false, nil); err != nil {
		return fmt.Errorf("queue bind: %w", err)
	}
	return nil
}

// RabbitProducer implements usecase.OrderEvents.
type RabbitProducer struct {
	mu   sync.Mutex
	ch   *amqp.Channel
	topo Topology
}

// NewRabbitProducer declares the topology and puts the channel in confirm mode.
func NewRabbitProducer(ch *amqp.Channel, topo Topology) (*RabbitProducer, error) {
	if err := topo.Declare(ch); err != nil {
		return nil, err
	}
	if err := ch.Confirm(false); err != nil {
		return nil, fmt.Errorf("enable confirm mode: %w", err)
	}
	return &RabbitProducer{ch: ch, topo: topo}, nil
}

// PublishPlaced sends an order.placed event and waits for the broker confirm.
func (p *RabbitProducer) PublishPlaced(ctx context.Context, msg usecase.OrderPlacedMsg) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // survive broker restarts
		MessageId:    msg.OrderID,
		Body:         body,
	}

	p.mu.Lock()
	dc, err := p.ch.PublishWithDeferredConfirmWithContext(ctx, p.topo.Exchange, p.topo.RoutingKey, false, false, pub)
	p.mu.Unlock()
	if err != nil {
		return fmt.Errorf("publish: %w", err)
	}

	acked, err := dc.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("await confirm: %w", err)
	}
	if !acked {
		return fmt.Errorf("publish: broker nacked order %s", msg.OrderID)
	}
	return nil
}

var _ usecase.OrderEvents = (*RabbitProducer)(nil)
