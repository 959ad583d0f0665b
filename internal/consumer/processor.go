// Package consumer drives the activity-to-recommendation pipeline off the
// durable queue.
package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/dhuman2317-tech/fitness-microservice/internal/messaging"
)

// ErrDeliveriesClosed reports that the broker closed the delivery channel
// while the processor was still running.
var ErrDeliveriesClosed = errors.New("deliveries channel closed")

// Handler receives decoded activity messages.
type Handler interface {
	Handle(ctx context.Context, msg messaging.ActivityMessage) error
}

// Option configures optional behaviour for the Processor.
type Option func(*Processor)

// WithLogger overrides the logger used to report errors.
func WithLogger(logger *log.Logger) Option {
	return func(p *Processor) {
		p.logger = logger
	}
}

// Processor pulls deliveries from the queue, decodes them, and dispatches to
// a Handler. Every delivery is acknowledged exactly once: success and handled
// failure both ack, so a broken pipeline cannot wedge the queue. When
// requeueOnFailure is set, a first-delivery handler failure is nacked back to
// the broker instead, which bounds redelivery to one extra attempt.
type Processor struct {
	handler          Handler
	requeueOnFailure bool
	logger           *log.Logger
}

// NewProcessor constructs a Processor with the provided handler.
func NewProcessor(handler Handler, requeueOnFailure bool, opts ...Option) *Processor {
	p := &Processor{
		handler:          handler,
		requeueOnFailure: requeueOnFailure,
		logger:           log.New(log.Writer(), "[consumer] ", log.LstdFlags|log.Lshortfile),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run processes deliveries until the context is cancelled or the channel
// closes. Distinct messages carry no shared state, so multiple Run loops over
// separate channels are safe side by side.
func (p *Processor) Run(ctx context.Context, deliveries <-chan amqp.Delivery) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-deliveries:
			if !ok {
				if err := ctx.Err(); err != nil {
					return err
				}
				return ErrDeliveriesClosed
			}
			p.process(ctx, delivery)
		}
	}
}

func (p *Processor) process(ctx context.Context, delivery amqp.Delivery) {
	start := time.Now()

	var msg messaging.ActivityMessage
	if err := json.Unmarshal(delivery.Body, &msg); err != nil {
		p.logger.Printf("decode error (tag=%d): %v", delivery.DeliveryTag, err)
		recordDecodeError()
		// Ack malformed messages to avoid poison-pill loops.
		if ackErr := delivery.Ack(false); ackErr != nil {
			p.logger.Printf("ack error after decode failure: %v", ackErr)
		}
		return
	}

	if err := p.handler.Handle(ctx, msg); err != nil {
		p.logger.Printf("handler error (activity=%s): %v", msg.ID, err)
		recordHandlerError()

		if p.requeueOnFailure && !delivery.Redelivered {
			if nackErr := delivery.Nack(false, true); nackErr != nil {
				p.logger.Printf("nack error: %v", nackErr)
			}
			return
		}
		if ackErr := delivery.Ack(false); ackErr != nil {
			p.logger.Printf("ack error after handler failure: %v", ackErr)
		}
		return
	}

	if ackErr := delivery.Ack(false); ackErr != nil {
		p.logger.Printf("ack error: %v", ackErr)
		return
	}
	recordProcessed(time.Since(start))
}
