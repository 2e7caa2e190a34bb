package kafka

import (
	"log"
	"strings"

	"github.com/segmentio/kafka-go"
)

// RequiredTopics lists every topic this service publishes to.
func RequiredTopics() []string {
	return []string{
		TopicOrderCancelled,
		TopicOrderUpdated,
		TopicPaymentCreated,
	}
}

// EnsureTopicsExist creates the given topics if the broker does not
// have them yet. Creation failures are logged and skipped so one bad
// topic does not block the rest.
func EnsureTopicsExist(brokers []string, topics []string) error {
	conn, err := kafka.Dial("tcp", brokers[0])
	if err != nil {
		return err
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		return err
	}
	controllerConn, err := kafka.Dial("tcp", controller.Host)
	if err != nil {
		return err
	}
	defer controllerConn.Close()

	for _, topic := range topics {
		err = controllerConn.CreateTopics(kafka.TopicConfig{
			Topic:             topic,
			NumPartitions:     1,
			ReplicationFactor: 1,
		})
		if err != nil {
			if strings.Contains(err.Error(), "already exists") {
				continue
			}
			log.Printf("Error creating topic %s: %v", topic, err)
		}
	}
	return nil
}
