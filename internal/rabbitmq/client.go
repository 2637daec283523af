package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/ilivestrong/phonebook/internal/models"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	phonebook_exchange_name = "phonebook"
	exchange_type_topic     = "topic"
	content_type_json       = "application/json"
)

var routingKeys = map[string]string{
	models.EventRecordAdded:   "record.added",
	models.EventRecordUpdated: "record.updated",
	models.EventRecordDeleted: "record.deleted",
}

type (
	Publisher interface {
		Publish(ctx context.Context, event RecordEvent) error
	}

	RecordEvent struct {
		ID        int    `json:"id"`
		Name      string `json:"name"`
		Number    string `json:"number"`
		EventType string `json:"event_type"`
	}

	channel interface {
		PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	}

	recordPublisher struct {
		ch channel
	}

	noopPublisher struct{}
)

func NewRecordEvent(record *models.PhoneRecord, eventType string) RecordEvent {
	return RecordEvent{
		ID:        record.ID,
		Name:      record.Name,
		Number:    record.Number,
		EventType: eventType,
	}
}

func (rp *recordPublisher) Publish(ctx context.Context, event RecordEvent) error {
	key, ok := routingKeys[event.EventType]
	if !ok {
		return fmt.Errorf("no routing key for event type %q", event.EventType)
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", event.EventType, err)
	}

	err = rp.ch.PublishWithContext(ctx,
		phonebook_exchange_name,
		key,
		false,
		false,
		amqp.Publishing{
			ContentType:  content_type_json,
			DeliveryMode: amqp.Persistent,
			Body:         body,
		})
	if err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.EventType, err)
	}
	return nil
}

func (noopPublisher) Publish(context.Context, RecordEvent) error { return nil }

func declareExchange(ch *amqp.Channel, name string) {
	err := ch.ExchangeDeclare(name, exchange_type_topic, true, false, false, false, nil)
	failOnError(err, fmt.Sprintf("failed to declare exchange: %s\n", name))
}

func failOnError(err error, msg string) {
	if err != nil {
		log.Panicf("%s: %s", msg, err)
	}
}

// NewRecordPublisher opens a channel on amqpConn and declares the durable
// phonebook topic exchange.
func NewRecordPublisher(amqpConn *amqp.Connection) Publisher {
	ch, err := amqpConn.Channel()
	failOnError(err, "failed to create message channel")

	declareExchange(ch, phonebook_exchange_name)
	return &recordPublisher{ch}
}

// NewNoopPublisher is used when no broker address is configured.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}
