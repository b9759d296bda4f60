// Package amqp publishes listing events to RabbitMQ.
package amqp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/dira-homes/dira/internal/domain/listing"
)

// RoutingListingPublished is the routing key of listing.published events.
const RoutingListingPublished = "listing.published"

const (
	eventType    = "ListingPublishedEvent"
	eventVersion = "1.0.0"
	publishWait  = 5 * time.Second
)

// listingPublished is the event body.
type listingPublished struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	Condition   string  `json:"condition"`
	Town        string  `json:"town"`
	Price       float64 `json:"price"`
	Owner       string  `json:"owner"`
	PublishedAt int64   `json:"publishedAt"`
}

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher sends events to a topic exchange. A single channel is shared,
// so publishes are serialized.
type Publisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       channel
	exchange string
}

// Dial connects, opens a channel and declares the durable topic exchange.
func Dial(url, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return &Publisher{conn: conn, ch: ch, exchange: exchange}, nil
}

// ListingPublished emits a listing.published event.
func (p *Publisher) ListingPublished(ctx context.Context, l *listing.Listing) error {
	body, err := json.Marshal(listingPublished{
		ID:          l.ID,
		Type:        string(l.Type),
		Condition:   string(l.Condition),
		Town:        l.Location.Town,
		Price:       l.Price,
		Owner:       l.Owner,
		PublishedAt: l.CreatedAt.UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now(),
		Body:         body,
		Headers: amqp.Table{
			"event-type":    eventType,
			"event-version": eventVersion,
		},
	}

	ctx, cancel := context.WithTimeout(ctx, publishWait)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.PublishWithContext(ctx, p.exchange, RoutingListingPublished, false, false, msg); err != nil {
		return fmt.Errorf("publish %s: %w", RoutingListingPublished, err)
	}
	return nil
}

// Close closes the channel and the connection.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	chErr := p.ch.Close()
	var connErr error
	if p.conn != nil {
		connErr = p.conn.Close()
	}
	if chErr != nil {
		return chErr
	}
	return connErr
}

// Noop discards events. Used when events are disabled.
type Noop struct{}

// ListingPublished does nothing.
func (Noop) ListingPublished(context.Context, *listing.Listing) error { return nil }

// Close does nothing.
func (Noop) Close() error { return nil }
