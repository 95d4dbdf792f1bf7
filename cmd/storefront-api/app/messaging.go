package app

import (
	"context"
	"fmt"

	"github.com/ojuansoares/dolse-vitta/configs"
	"github.com/ojuansoares/dolse-vitta/internal/adapter/kafka"
	"github.com/ojuansoares/dolse-vitta/internal/adapter/queue"
	"github.com/ojuansoares/dolse-vitta/internal/usecase"
	amqp "github.com/rabbitmq/amqp091-go"
)

// setupRabbit opens one connection with a confirm-mode channel for
// publishing order.placed and a second channel for the summary projector.
func setupRabbit(cfg configs.Config, summaries usecase.SummaryCache) (*queue.RabbitProducer, worker, func(), error) {
	conn, err := amqp.Dial(cfg.Rabbit.URL)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("rabbitmq dial: %w", err)
	}
	closeConn := func() { _ = conn.Close() }

	pubCh, err := conn.Channel()
	if err != nil {
		closeConn()
		return nil, nil, nil, fmt.Errorf("rabbitmq channel: %w", err)
	}
	topo := queue.Topology{
		Exchange:   cfg.Rabbit.Exchange,
		Queue:      cfg.Rabbit.Queue,
		RoutingKey: cfg.Rabbit.RoutingKey,
	}
	producer, err := queue.NewRabbitProducer(pubCh, topo)
	if err != nil {
		closeConn()
		return nil, nil, nil, err
	}

	subCh, err := conn.Channel()
	if err != nil {
		closeConn()
		return nil, nil, nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	// register queue-handler
	router := queue.NewRouter(subCh, queue.WithPrefetch(cfg.Rabbit.Prefetch))
	router.Register(topo.Queue, queue.NewOrderPlacedHandler(summaries).Handler())

	run := func(ctx context.Context) error {
		if err := router.Start(ctx); err != nil {
			return fmt.Errorf("rabbitmq consume: %w", err)
		}
		<-ctx.Done()
		router.Wait()
		return nil
	}
	return producer, run, closeConn, nil
}

// setupKafka wires the catalog.changed producer and the consumer group that
// drops the listing cache.
func setupKafka(cfg configs.Config, inv kafka.Invalidator) (*kafka.CatalogProducer, worker, func(), error) {
	sp, err := kafka.NewSyncProducer(cfg.Kafka.Brokers)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("kafka producer: %w", err)
	}
	producer := kafka.NewCatalogProducer(sp, cfg.Kafka.Topic)

	grp, err := kafka.NewGroup(cfg.Kafka.Brokers, cfg.Kafka.GroupID)
	if err != nil {
		_ = producer.Close()
		return nil, nil, nil, fmt.Errorf("kafka group: %w", err)
	}

	h := kafka.NewCatalogChangedHandler(inv)
	consumer := kafka.NewConsumer(grp, []string{cfg.Kafka.Topic}, h.Handle)

	closeAll := func() {
		_ = grp.Close()
		_ = producer.Close()
	}
	return producer, consumer.Start, closeAll, nil
}
