package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	DefaultExchange = "ewm.events"

	// Wait window for Return / Confirm
	publishWait = 2 * time.Second
)

var ErrNotConnected = errors.New("publisher channel not ready")

// Publisher sends outbox rows to a durable topic exchange with publisher
// confirms and mandatory routing.
type Publisher struct {
	url      string
	exchange string
	appID    string

	mu sync.Mutex

	conn *amqp.Connection
	ch   *amqp.Channel

	confirmCh <-chan amqp.Confirmation
	returnCh  <-chan amqp.Return
}

func NewPublisher(url, exchange, appID string) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}

	p := &Publisher{
		url:      url,
		exchange: exchange,
		appID:    appID,
	}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Publisher) connect() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return err
	}

	if err := ch.ExchangeDeclare(p.exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("exchange declare %s: %w", p.exchange, err)
	}

	// enable publisher confirms
	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return err
	}

	p.conn = conn
	p.ch = ch

	p.confirmCh = ch.NotifyPublish(make(chan amqp.Confirmation, 1))
	p.returnCh = ch.NotifyReturn(make(chan amqp.Return, 1))

	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
	return nil
}

// PublishEvent publishes one JSON envelope and waits for the broker's confirm.
// messageID must be stable across retries (outbox.message_id).
func (p *Publisher) PublishEvent(ctx context.Context, routingKey, messageID, traceID string, body []byte) error {
	if routingKey == "" {
		return errors.New("missing routingKey")
	}
	if strings.TrimSpace(messageID) == "" {
		return errors.New("missing messageID")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch == nil || p.ch.IsClosed() {
		if p.url == "" {
			return ErrNotConnected
		}
		if err := p.connect(); err != nil {
			return fmt.Errorf("reconnect: %w", err)
		}
	}

	err := p.ch.PublishWithContext(
		ctx,
		p.exchange,
		routingKey,
		true,  // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:   "application/json",
			DeliveryMode:  amqp.Persistent,
			MessageId:     messageID,
			CorrelationId: traceID,
			AppId:         p.appID,
			Timestamp:     time.Now().UTC(),
			Body:          body,
		},
	)
	if err != nil {
		return err
	}

	// Return (NO_ROUTE) arrives before the confirm of the same message.
	var returned *amqp.Return
	deadline := time.After(publishWait)
	for {
		select {
		case ret := <-p.returnCh:
			returned = &ret
		case conf := <-p.confirmCh:
			if returned != nil {
				return fmt.Errorf("NO_ROUTE: code=%d text=%s rk=%s", returned.ReplyCode, returned.ReplyText, returned.RoutingKey)
			}
			if !conf.Ack {
				return fmt.Errorf("NACK: delivery_tag=%d", conf.DeliveryTag)
			}
			return nil
		case <-deadline:
			return errors.New("confirm/return timeout")
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
