package kafka

import (
	"context"
	"encoding/json"
	"time"

	"ms-checkout/internal/models"

	"github.com/segmentio/kafka-go"
)

const (
	EventPaymentConfirmed = "payment.confirmed"
	EventPaymentFailed    = "payment.failed"
)

// Producer streams payment lifecycle events. Coupon-usage and affiliate
// consumers hang off this topic so the payment path never waits on them.
type Producer struct {
	Writer *kafka.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers: brokers,
		Topic:   topic,
	})
	return &Producer{Writer: writer}
}

func (p *Producer) publish(eventType string, order models.Order) error {
	event := models.PaymentEvent{
		Type:        eventType,
		OrderID:     order.ID,
		OrderCode:   order.OrderCode,
		EventID:     order.EventID,
		UserID:      order.UserID,
		AmountCents: order.TotalAmountCents,
		Method:      order.PaymentMethod,
		Timestamp:   time.Now(),
	}

	msgBytes, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.Writer.WriteMessages(context.Background(),
		kafka.Message{
			Key:   []byte(order.ID),
			Value: msgBytes,
		},
	)
}

func (p *Producer) PublishPaymentConfirmed(order models.Order) error {
	return p.publish(EventPaymentConfirmed, order)
}

func (p *Producer) PublishPaymentFailed(order models.Order) error {
	return p.publish(EventPaymentFailed, order)
}

func (p *Producer) Close() error {
	if p.Writer == nil {
		return nil
	}
	return p.Writer.Close()
}
