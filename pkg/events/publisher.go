// Package events publishes document lifecycle events to RabbitMQ for
// downstream consumers (resume parsing, notifications). Publishing is
// best-effort: a broker outage never fails the originating operation.
package events

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/streadway/amqp"
)

const (
	DocumentUploaded = "document.uploaded"
	DocumentDeleted  = "document.deleted"
)

// DocumentEvent is the payload for document lifecycle routing keys.
type DocumentEvent struct {
	DocumentID string    `json:"document_id"`
	OwnerID    string    `json:"owner_id"`
	UploadedBy string    `json:"uploaded_by,omitempty"`
	Category   string    `json:"category"`
	FileType   string    `json:"file_type,omitempty"`
	URL        string    `json:"url,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Publisher struct {
	conn     *amqp.Connection
	exchange string

	mu sync.Mutex
	ch *amqp.Channel
}

// NewPublisher connects to the broker and declares a durable topic exchange.
func NewPublisher(url, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("error connecting to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("error opening channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("error declaring exchange %s: %w", exchange, err)
	}

	return &Publisher{conn: conn, exchange: exchange, ch: ch}, nil
}

// Publish sends the event under the given routing key. Safe to call on a nil
// Publisher; it becomes a no-op so callers don't need to guard for a
// deployment without a broker.
func (p *Publisher) Publish(routingKey string, event DocumentEvent) error {
	if p == nil {
		return nil
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("error marshaling event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.ch.Publish(p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.OccurredAt,
		Body:         body,
	})
}

func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil {
		_ = p.ch.Close()
	}
	return p.conn.Close()
}
