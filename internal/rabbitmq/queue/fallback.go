// Package queue declares the RabbitMQ topology for offline fallback
// delivery: reminders fired for owners with no open connection are parked
// here and drained by the fallback workers.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/wb-go/wbf/rabbitmq"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"
)

const (
	ExchangeName   = "reminder-fallback-exchange"
	MainQueueName  = "reminder-fallback"
	RetryQueueName = "reminder-fallback-retry"
	DLQName        = "reminder-fallback-dlq"
	RoutingKey     = "reminder-fallback"
)

// FallbackMessage is one fired reminder awaiting out-of-band delivery. The
// contact details are resolved at consume time so a profile edit between
// firing and delivery still takes effect.
type FallbackMessage struct {
	ReminderID string    `json:"reminder_id"`
	OwnerID    string    `json:"owner_id"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	FiredAt    time.Time `json:"fired_at"`
}

// FallbackQueue wraps the publisher and consumer bound to the fallback
// exchange and its retry/DLQ side queues.
type FallbackQueue struct {
	Publisher *rabbitmq.Publisher
	Consumer  *rabbitmq.Consumer
}

// NewFallbackQueue declares the exchange, the main queue, the retry queue
// and the DLQ on the given channel and binds them together.
func NewFallbackQueue(ch *rabbitmq.Channel) (*FallbackQueue, error) {
	exchange := rabbitmq.NewExchange(ExchangeName, "direct")
	if err := exchange.BindToChannel(ch); err != nil {
		return nil, fmt.Errorf("failed to bind to exchange: %w", err)
	}

	qm := rabbitmq.NewQueueManager(ch)

	_, err := qm.DeclareQueue(DLQName, rabbitmq.QueueConfig{Durable: true})
	if err != nil {
		return nil, fmt.Errorf("failed to declare DLQ queue: %w", err)
	}

	retryArgs := map[string]interface{}{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": MainQueueName,
		"x-message-ttl":             int32(5000),
	}

	_, err = qm.DeclareQueue(RetryQueueName, rabbitmq.QueueConfig{
		Durable: true,
		Args:    retryArgs,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to declare retry queue: %w", err)
	}

	mainArgs := map[string]interface{}{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": DLQName,
	}

	mainQ, err := qm.DeclareQueue(MainQueueName, rabbitmq.QueueConfig{
		Durable: true,
		Args:    mainArgs,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to declare main queue: %w", err)
	}

	if err := ch.QueueBind(mainQ.Name, RoutingKey, exchange.Name(), false, nil); err != nil {
		return nil, fmt.Errorf("failed to bind the exchange to the main queue: %w", err)
	}

	pub := rabbitmq.NewPublisher(ch, exchange.Name())
	cons := rabbitmq.NewConsumer(ch, rabbitmq.NewConsumerConfig(mainQ.Name))

	return &FallbackQueue{Publisher: pub, Consumer: cons}, nil
}

// Publish enqueues one fallback message with retries.
func (q *FallbackQueue) Publish(msg FallbackMessage, strategy retry.Strategy) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	return q.Publisher.PublishWithRetry(body, RoutingKey, "application/json", strategy)
}

// Consume decodes messages from the main queue into out until ctx ends.
// Messages that fail to decode are logged and dropped rather than requeued,
// since redelivery cannot fix a malformed body.
func (q *FallbackQueue) Consume(ctx context.Context, out chan<- FallbackMessage, strategy retry.Strategy) error {
	msgChan := make(chan []byte)

	go func() {
		for m := range msgChan {
			var msg FallbackMessage
			if err := json.Unmarshal(m, &msg); err != nil {
				zlog.Logger.Error().Err(err).Msg("failed to unmarshal fallback message")
				continue
			}

			select {
			case out <- msg:
			case <-ctx.Done():
				return
			}
		}
	}()

	return q.Consumer.ConsumeWithRetry(msgChan, strategy)
}
