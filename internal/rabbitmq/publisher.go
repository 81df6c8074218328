package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/stadium-auth/internal/models"
)

// Channel — часть *amqp.Channel, нужная для публикации.
type Channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// PublishMessage публикует сообщение в RabbitMQ в формате JSON.
func PublishMessage(ch Channel, exchange, routingKey, messageID string, message any) error {
	const op = "rabbitmq.PublishMessage"
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = ch.Publish(
		exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    messageID,
			Timestamp:    time.Now().UTC(),
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// EventPublisher публикует события аудита входа в обменник с фиксированным ключом маршрутизации.
type EventPublisher struct {
	ch         Channel
	exchange   string
	routingKey string
}

// NewEventPublisher создает EventPublisher.
func NewEventPublisher(ch Channel, exchange, routingKey string) *EventPublisher {
	return &EventPublisher{ch: ch, exchange: exchange, routingKey: routingKey}
}

// PublishLogin публикует событие. Пустые EventID и OccurredAt заполняются.
func (p *EventPublisher) PublishLogin(ctx context.Context, ev models.LoginEvent) error {
	const op = "rabbitmq.PublishLogin"
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if ev.EventID == "" {
		ev.EventID = uuid.NewString()
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	if err := PublishMessage(p.ch, p.exchange, p.routingKey, ev.EventID, ev); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// NopPublisher отбрасывает события. Используется, когда брокер не настроен.
type NopPublisher struct{}

// PublishLogin ничего не делает.
func (NopPublisher) PublishLogin(context.Context, models.LoginEvent) error { return nil }
