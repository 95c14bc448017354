package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// Exchange is the default fanout exchange of events.
const Exchange = "gymblog.events"

var log = logrus.WithField("layer", "publisher").WithField("package", "publisher")

// AMQP publishes events to a fanout exchange.
type AMQP struct {
	url      string
	exchange string

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewAMQP connects to the broker and declares the exchange.
func NewAMQP(url, exchange string) (*AMQP, error) {
	p := &AMQP{
		url:      url,
		exchange: exchange,
	}

	if err := p.connect(); err != nil {
		return nil, err
	}

	return p, nil
}

// DeclareExchange declares durable fanout exchange.
func DeclareExchange(ch *amqp.Channel, exchange string) error {
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeFanout, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}
	return nil
}

func (p *AMQP) connect() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("failed to dial broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close() // nolint:errcheck
		return fmt.Errorf("failed to open channel: %w", err)
	}

	if err := DeclareExchange(ch, p.exchange); err != nil {
		conn.Close() // nolint:errcheck
		return err
	}

	p.conn, p.ch = conn, ch

	return nil
}

// Publish implements Publisher. Broken connection is re-established once.
func (p *AMQP) Publish(ctx context.Context, e Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch == nil || p.ch.IsClosed() {
		if p.conn != nil {
			p.conn.Close() // nolint:errcheck
		}
		log.Warn("channel is closed, reconnecting")
		if err := p.connect(); err != nil {
			return err
		}
	}

	if err := p.ch.PublishWithContext(ctx, p.exchange, string(e.Type), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    e.CreatedAt,
		Type:         string(e.Type),
		Body:         body,
	}); err != nil {
		return fmt.Errorf("failed to publish: %w", err)
	}

	return nil
}

// Close closes connection to the broker.
func (p *AMQP) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil {
		return nil
	}

	return p.conn.Close()
}
