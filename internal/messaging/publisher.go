package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/dhuman2317-tech/fitness-microservice/internal/domain"
)

// channelPublisher exposes the minimal amqp.Channel surface needed by the publisher.
type channelPublisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// DeclareTopology declares the durable exchange, queue, and binding used for
// activity messages. Both the API and the consumer call it so either side can
// start first.
func DeclareTopology(ch *amqp.Channel, exchange, queue, routingKey string) error {
	if err := ch.ExchangeDeclare(exchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("exchange declare failed: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare failed: %w", err)
	}
	if err := ch.QueueBind(queue, routingKey, exchange, false, nil); err != nil {
		return fmt.Errorf("queue bind failed: %w", err)
	}
	return nil
}

// Option configures optional behaviour for the ActivityPublisher.
type Option func(*ActivityPublisher)

// WithLogger overrides the logger used to report publish failures.
func WithLogger(logger *log.Logger) Option {
	return func(p *ActivityPublisher) {
		p.logger = logger
	}
}

// ActivityPublisher sends stored activities to the fixed exchange/routing-key
// pair. Publishing is best effort: any failure is logged and swallowed, since
// the activity has already been made durable by the write path.
type ActivityPublisher struct {
	ch         channelPublisher
	exchange   string
	routingKey string
	logger     *log.Logger
}

// NewActivityPublisher constructs an ActivityPublisher.
func NewActivityPublisher(ch channelPublisher, exchange, routingKey string, opts ...Option) *ActivityPublisher {
	p := &ActivityPublisher{
		ch:         ch,
		exchange:   exchange,
		routingKey: routingKey,
		logger:     log.New(log.Writer(), "[publisher] ", log.LstdFlags|log.Lshortfile),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish serializes the activity and sends it as a persistent delivery.
// It never returns an error to the caller.
func (p *ActivityPublisher) Publish(ctx context.Context, activity domain.Activity) {
	body, err := json.Marshal(FromActivity(activity))
	if err != nil {
		p.logger.Printf("activity %s: marshal failed: %v", activity.ID, err)
		recordPublishFailure()
		return
	}

	err = p.ch.PublishWithContext(ctx, p.exchange, p.routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    activity.ID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		p.logger.Printf("activity %s: publish failed: %v", activity.ID, err)
		recordPublishFailure()
		return
	}

	recordPublished()
}
