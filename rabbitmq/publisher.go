package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"

	"farmcare/models"
)

// ScanEvent is published after every stored detection.
type ScanEvent struct {
	EventID      string    `json:"event_id"`
	ScanID       string    `json:"scan_id"`
	UserID       string    `json:"user_id,omitempty"`
	DiseaseClass string    `json:"disease_class"`
	PlantType    string    `json:"plant_type"`
	Confidence   float64   `json:"confidence"`
	IsConfident  bool      `json:"is_confident"`
	Source       string    `json:"source"`
	Status       string    `json:"status"`
	Language     string    `json:"language"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewScanEvent builds the event for a finished scan.
func NewScanEvent(s *models.Scan) ScanEvent {
	return ScanEvent{
		EventID:      uuid.NewString(),
		ScanID:       s.ID,
		UserID:       s.UserID,
		DiseaseClass: s.Report.DiseaseClass,
		PlantType:    s.Report.PlantType,
		Confidence:   s.Report.Confidence,
		IsConfident:  s.Report.IsConfident,
		Source:       string(s.Source),
		Status:       string(s.Status),
		Language:     s.Language,
		CreatedAt:    s.CreatedAt,
	}
}

// channel is the part of *amqp.Channel the publisher uses.
type channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher represents a RabbitMQ publisher instance
type Publisher struct {
	conn       *amqp.Connection
	channel    channel
	exchange   string
	routingKey string
}

// URL builds an amqp URL from its parts.
func URL(user, password, host, port string) string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/", user, password, host, port)
}

// NewPublisher connects and declares a durable direct exchange.
func NewPublisher(amqpURL, exchangeName, routingKey string) (*Publisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchangeName, // name
		"direct",     // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &Publisher{
		conn:       conn,
		channel:    ch,
		exchange:   exchangeName,
		routingKey: routingKey,
	}, nil
}

// PublishScan sends the scan event to the exchange with the configured routing key.
func (p *Publisher) PublishScan(ctx context.Context, s *models.Scan) error {
	return p.Publish(ctx, NewScanEvent(s))
}

// Publish sends a JSON message to the exchange with the configured routing key
func (p *Publisher) Publish(ctx context.Context, message interface{}) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context done before publishing: %w", err)
	}

	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message to JSON: %w", err)
	}

	publishing := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
	}

	err = p.channel.Publish(
		p.exchange,   // exchange
		p.routingKey, // routing key
		false,        // mandatory
		false,        // immediate
		publishing,   // message
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

// Close closes the channel and connection
func (p *Publisher) Close() error {
	var cerr error
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			cerr = fmt.Errorf("failed to close channel: %w", err)
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil && cerr == nil {
			cerr = fmt.Errorf("failed to close connection: %w", err)
		}
	}
	return cerr
}
