package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/streadway/amqp"
)

// For publisher confirms
const (
	publishTimeout = 5 * time.Second
	confirmBuffer  = 64
)

// RabbitMQPublisher sends events to a durable topic exchange, one routing key per event type,
// and waits for the broker to confirm each message.
type RabbitMQPublisher struct {
	mu            sync.Mutex
	exchange      string
	connection    *amqp.Connection
	channel       *amqp.Channel
	notifyConfirm chan amqp.Confirmation
	// delivery tag of the last message sent; the broker numbers them from 1
	lastTag uint64
}

// DialRabbitMQ connects, opens a confirm-mode channel and declares the exchange.
func DialRabbitMQ(url, exchange string) (*RabbitMQPublisher, error) {
	log.Info().Str("exchange", exchange).Msg("Connecting to RabbitMQ")
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to dial RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	if err := ch.Confirm(false); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("channel could not be put into confirm mode: %w", err)
	}
	notify := ch.NotifyPublish(make(chan amqp.Confirmation, confirmBuffer))

	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	log.Info().Str("exchange", exchange).Msg("RabbitMQ publisher ready")
	return &RabbitMQPublisher{
		exchange:      exchange,
		connection:    conn,
		channel:       ch,
		notifyConfirm: notify,
	}, nil
}

func (p *RabbitMQPublisher) Publish(ctx context.Context, e Event) error {
	msg, err := publishing(e)
	if err != nil {
		return err
	}

	// one outstanding confirm at a time
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channel == nil {
		return errors.New("publisher closed")
	}

	if err := p.channel.Publish(p.exchange, string(e.Type), false, false, msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", e.Type, err)
	}
	p.lastTag++

	if err := awaitConfirm(ctx, p.notifyConfirm, p.lastTag, publishTimeout); err != nil {
		return fmt.Errorf("publish %s: %w", e.Type, err)
	}
	log.Debug().Str("type", string(e.Type)).Str("key", e.Key).Msg("Event published")
	return nil
}

// awaitConfirm waits for the confirmation of tag. Confirms of earlier messages whose wait was
// abandoned are drained and dropped.
func awaitConfirm(ctx context.Context, confirms <-chan amqp.Confirmation, tag uint64, timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		select {
		case confirm, ok := <-confirms:
			if !ok {
				return errors.New("channel closed before confirm")
			}
			switch {
			case confirm.DeliveryTag < tag:
				log.Debug().Uint64("tag", confirm.DeliveryTag).Msg("Dropping late confirm")
				continue
			case confirm.DeliveryTag > tag:
				return fmt.Errorf("confirm for tag %d arrived while waiting for %d", confirm.DeliveryTag, tag)
			case !confirm.Ack:
				return fmt.Errorf("broker nacked tag %d", tag)
			}
			return nil
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return errors.New("publish confirmation timeout")
		}
	}
}

// Close shuts the channel and the connection.
func (p *RabbitMQPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var errs []error
	if p.channel != nil {
		errs = append(errs, p.channel.Close())
		p.channel = nil
	}
	if p.connection != nil && !p.connection.IsClosed() {
		errs = append(errs, p.connection.Close())
	}
	log.Info().Msg("RabbitMQ publisher closed")
	return errors.Join(errs...)
}

func publishing(e Event) (amqp.Publishing, error) {
	body, err := json.Marshal(e)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to marshal event: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    e.ID,
		Type:         string(e.Type),
		Timestamp:    e.OccurredAt,
		Body:         body,
	}, nil
}
