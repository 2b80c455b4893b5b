package queue

import (
	"context"
	"fmt"

	"github.com/OFFIS-RIT/letternet/pkg/logger"

	"github.com/rabbitmq/amqp091-go"
)

// Handler processes the body of one delivery.
type Handler func(ctx context.Context, body []byte) error

// Subscribe binds a private queue to topic and runs handler for every
// message until ctx is done or the channel closes. Each subscriber gets its
// own copy of every message.
func Subscribe(ctx context.Context, ch *amqp091.Channel, topic string, handler Handler) error {
	if err := declareExchange(ch); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	q, err := ch.QueueDeclare(
		"",    // server-named
		false, // durable
		true,  // autoDelete
		true,  // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}
	if err := ch.QueueBind(q.Name, topic, Exchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}

	msgs, err := ch.Consume(
		q.Name,
		"",    // consumer tag
		false, // autoAck
		true,  // exclusive
		false, // noLocal
		false, // noWait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to consume: %w", err)
	}

	logger.Info("[Queue] Subscribed", "topic", topic, "queue", q.Name)
	for {
		select {
		case <-ctx.Done():
			logger.Info("[Queue] Stopping subscriber", "topic", topic)
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("delivery channel for %s closed", topic)
			}
			deliver(ctx, msg, handler)
		}
	}
}

// acknowledger is the part of amqp091.Delivery used to settle a message.
type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

func settle(ctx context.Context, msg acknowledger, body []byte, routingKey string, handler Handler) {
	if err := handler(ctx, body); err != nil {
		logger.Error("[Queue] Error processing message", "topic", routingKey, "err", err)
		if err := msg.Nack(false, false); err != nil {
			logger.Error("[Queue] Failed to nack message", "err", err)
		}
		return
	}
	if err := msg.Ack(false); err != nil {
		logger.Error("[Queue] Failed to ack message", "err", err)
	}
}

func deliver(ctx context.Context, msg amqp091.Delivery, handler Handler) {
	settle(ctx, &msg, msg.Body, msg.RoutingKey, handler)
}
