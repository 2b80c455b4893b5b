package queue

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/OFFIS-RIT/letternet/internal/util"
	"github.com/OFFIS-RIT/letternet/pkg/logger"

	"github.com/rabbitmq/amqp091-go"
)

// Exchange is the topic exchange record events are published on.
const Exchange = "pubsub_exchange"

// Channel is the part of *amqp091.Channel used for publishing.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
}

// Enabled reports whether a broker is configured.
func Enabled() bool {
	return util.GetEnv("RABBITMQ_HOST") != ""
}

// URL builds the broker address from the RABBITMQ_* environment.
func URL() string {
	u := url.URL{
		Scheme: "amqp",
		User:   url.UserPassword(util.GetEnv("RABBITMQ_USER"), util.GetEnv("RABBITMQ_PASSWORD")),
		Host:   fmt.Sprintf("%s:%s", util.GetEnv("RABBITMQ_HOST"), util.GetEnvString("RABBITMQ_PORT", "5672")),
		Path:   "/",
	}
	return u.String()
}

// Init connects to the broker, retrying while it is not reachable yet.
func Init(ctx context.Context) (*amqp091.Connection, error) {
	opts := util.RetryOptions{
		MaxTries: int(util.GetEnvNumeric("RABBITMQ_RETRIES", 5)),
		Delay:    time.Second,
		MaxDelay: 10 * time.Second,
	}
	conn, err := util.RetryWithContext(ctx, opts, func(ctx context.Context) (*amqp091.Connection, error) {
		conn, err := amqp091.Dial(URL())
		if err != nil {
			logger.Warn("[Queue] Failed to connect to RabbitMQ", "host", util.GetEnv("RABBITMQ_HOST"), "err", err)
		}
		return conn, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	return conn, nil
}

func declareExchange(ch Channel) error {
	return ch.ExchangeDeclare(
		Exchange,
		"topic",
		false, // durable
		true,  // autoDelete
		false, // internal
		false, // noWait
		nil,
	)
}

// PublishTopic publishes data on the exchange under topic.
func PublishTopic(ctx context.Context, ch Channel, topic string, data []byte) error {
	if err := declareExchange(ch); err != nil {
		return err
	}

	publishing := amqp091.Publishing{
		ContentType:  "application/json",
		Body:         data,
		DeliveryMode: amqp091.Persistent,
		Timestamp:    time.Now(),
	}

	return ch.PublishWithContext(ctx, Exchange, topic, false, false, publishing)
}
