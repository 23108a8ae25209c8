package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"

	"github.com/IBM/sarama"
)

// KafkaPublisher sends audit events to a Kafka topic
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

// ProducerConfig holds Kafka producer configuration
type ProducerConfig struct {
	Brokers []string
	Topic   string
}

// NewKafkaPublisher connects a synchronous producer to the brokers
func NewKafkaPublisher(config ProducerConfig) (*KafkaPublisher, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Version = sarama.V3_6_0_0
	saramaConfig.Producer.RequiredAcks = sarama.WaitForLocal
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Retry.Max = 0

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	log.Printf("✅ Kafka audit producer connected (topic: %s)", config.Topic)
	return NewKafkaPublisherWithProducer(producer, config.Topic), nil
}

// NewKafkaPublisherWithProducer wraps an existing producer
func NewKafkaPublisherWithProducer(producer sarama.SyncProducer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

// Publish sends one event keyed by its first question id, so events for the
// same question land on the same partition.
func (p *KafkaPublisher) Publish(ctx context.Context, e Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal audit event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Value: sarama.ByteEncoder(payload),
	}
	if len(e.QuestionIDs) > 0 {
		msg.Key = sarama.StringEncoder(strconv.FormatInt(e.QuestionIDs[0], 10))
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to publish audit event: %w", err)
	}
	log.Printf("📤 Audit event %s published: partition=%d, offset=%d", e.Action, partition, offset)
	return nil
}

// Close flushes and closes the producer
func (p *KafkaPublisher) Close() error {
	log.Println("Closing Kafka audit producer...")
	return p.producer.Close()
}
