// Package notify publishes courier notifications. Delivering them to the
// courier (push, chat bot, e-mail) is done by downstream consumers of the topic.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/IBM/sarama"

	"service-bidding/internal/domain"
)

// Message is the wire form of a notification on the topic.
type Message struct {
	Kind        string    `json:"kind"`
	RecipientID string    `json:"recipient_id"`
	JobID       string    `json:"job_id"`
	BidID       string    `json:"bid_id,omitempty"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToMessage converts a domain notification to its wire form.
func ToMessage(n domain.Notification) Message {
	m := Message{
		Kind:        string(n.Kind),
		RecipientID: n.RecipientID,
		JobID:       n.JobID.String(),
		Message:     n.Message,
		CreatedAt:   n.CreatedAt,
	}
	if n.BidID != nil {
		m.BidID = n.BidID.String()
	}
	return m
}

// KafkaNotifier publishes notifications keyed by recipient, so one courier's
// notifications stay ordered within a partition.
type KafkaNotifier struct {
	producer sarama.SyncProducer
	topic    string
}

var newSyncProducer = sarama.NewSyncProducer

// NewKafkaNotifier connects a synchronous producer. It returns nil, nil when
// brokers or topic are not configured.
func NewKafkaNotifier(brokers []string, topic string) (*KafkaNotifier, error) {
	if len(brokers) == 0 || strings.TrimSpace(topic) == "" {
		return nil, nil
	}

	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	// retries are done by Retrying, with metrics and logs
	cfg.Producer.Retry.Max = 0

	p, err := newSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return NewKafkaNotifierWithProducer(p, topic), nil
}

// NewKafkaNotifierWithProducer wraps an existing producer.
func NewKafkaNotifierWithProducer(p sarama.SyncProducer, topic string) *KafkaNotifier {
	return &KafkaNotifier{producer: p, topic: topic}
}

// Notify publishes n and waits for the broker acknowledgement.
func (k *KafkaNotifier) Notify(ctx context.Context, n domain.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(ToMessage(n))
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	_, _, err = k.producer.SendMessage(&sarama.ProducerMessage{
		Topic: k.topic,
		Key:   sarama.StringEncoder(n.RecipientID),
		Value: sarama.ByteEncoder(payload),
	})
	if err != nil {
		var pe *sarama.ProducerError
		if errors.As(err, &pe) {
			return pe.Err
		}
		return err
	}
	return nil
}

// Close closes the producer.
func (k *KafkaNotifier) Close() error {
	if k == nil {
		return nil
	}
	return k.producer.Close()
}
