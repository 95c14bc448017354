// Package broker contains AMQP implementation of consumer.Consumer.
package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/gymblog/gymblog/internal/consumer"
	"github.com/gymblog/gymblog/internal/publisher"
	"github.com/gymblog/gymblog/internal/realtime"
)

const (
	minBackoff = time.Second
	maxBackoff = 30 * time.Second
)

var errNotConnected = errors.New("not connected")

var log = logrus.WithField("layer", "consumer").WithField("package", "broker")

type broker struct {
	url      string
	exchange string
	hub      *realtime.Hub

	connected int32
}

// New returns consumer which binds an exclusive queue to exchange and delivers events to hub.
func New(url, exchange string, hub *realtime.Hub) consumer.Consumer {
	return &broker{
		url:      url,
		exchange: exchange,
		hub:      hub,
	}
}

// Name implements health.Pinger.
func (b *broker) Name() string {
	return "amqp"
}

// Ping implements health.Pinger.
func (b *broker) Ping(context.Context) (interface{}, error) {
	if atomic.LoadInt32(&b.connected) == 0 {
		return nil, errNotConnected
	}
	return nil, nil
}

// Run consumes events until ctx is done. Lost connection is re-established with exponential backoff.
func (b *broker) Run(ctx context.Context) error {
	backoff := minBackoff

	for {
		err := b.consume(ctx)
		atomic.StoreInt32(&b.connected, 0)

		if ctx.Err() != nil {
			return nil
		}

		if err == nil {
			backoff = minBackoff
		}

		log.WithError(err).WithField("backoff", backoff).Error("consume loop ended, reconnecting")

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}

		backoff = nextBackoff(backoff)
	}
}

func nextBackoff(d time.Duration) time.Duration {
	d *= 2
	if d > maxBackoff {
		return maxBackoff
	}
	return d
}

// consume returns nil when connection was established and lost later.
func (b *broker) consume(ctx context.Context) error {
	conn, err := amqp.Dial(b.url)
	if err != nil {
		return fmt.Errorf("failed to dial broker: %w", err)
	}
	defer conn.Close() // nolint:errcheck

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close() // nolint:errcheck

	if err := ch.Qos(50, 0, false); err != nil {
		log.WithError(err).Warn("failed to set qos")
	}

	if err := publisher.DeclareExchange(ch, b.exchange); err != nil {
		return err
	}

	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, "", b.exchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}

	msgs, err := ch.Consume(q.Name, "", false, true, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to consume: %w", err)
	}

	atomic.StoreInt32(&b.connected, 1)
	log.WithField("queue", q.Name).Info("consuming events")

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return nil
			}

			if err := b.handle(d.Body); err != nil {
				log.WithError(err).Error("failed to handle message")
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (b *broker) handle(body []byte) error {
	var e publisher.Event
	if err := json.Unmarshal(body, &e); err != nil {
		return fmt.Errorf("failed to unmarshal event: %w", err)
	}

	if e.PostID == "" {
		return errors.New("event without post id")
	}

	return publisher.Deliver(b.hub, e)
}
