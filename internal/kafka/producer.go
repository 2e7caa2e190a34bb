package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/rishabsaini31-maker/Orgo-Bloom-sub001/internal/models"
)

const (
	TopicOrderCancelled = "orgo.order.cancelled"
	TopicOrderUpdated   = "orgo.order.updated"
	TopicPaymentCreated = "orgo.payment.created"
)

type Producer struct {
	Writer *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.LeastBytes{},
		WriteTimeout: 10 * time.Second,
	}
	return &Producer{Writer: writer}
}

// Publish writes a single message to the given topic.
func (p *Producer) Publish(topic string, key string, value []byte) error {
	return p.Writer.WriteMessages(context.Background(),
		kafka.Message{
			Topic: topic,
			Key:   []byte(key),
			Value: value,
		},
	)
}

// PublishOrderCancelled streams an order cancellation event.
func (p *Producer) PublishOrderCancelled(order models.Order) error {
	msgBytes, err := json.Marshal(order)
	if err != nil {
		return err
	}
	return p.Publish(TopicOrderCancelled, order.ID, msgBytes)
}

// PublishOrderUpdated streams an admin order override event.
func (p *Producer) PublishOrderUpdated(order models.Order) error {
	msgBytes, err := json.Marshal(order)
	if err != nil {
		return err
	}
	return p.Publish(TopicOrderUpdated, order.ID, msgBytes)
}

// PublishPaymentCreated streams a payment intent creation event.
func (p *Producer) PublishPaymentCreated(payment models.Payment) error {
	msgBytes, err := json.Marshal(payment)
	if err != nil {
		return err
	}
	return p.Publish(TopicPaymentCreated, payment.OrderID, msgBytes)
}

func (p *Producer) Close() error {
	return p.Writer.Close()
}
