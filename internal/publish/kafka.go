// Package publish emits status tier transitions to Kafka so downstream
// consumers (dispatch boards, notification bots) see lights change
// state without polling the snapshot.
package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/crimson-sun/lampwatch/internal/status"
)

// Publisher writes one message per tier transition, keyed by light id
// so a consumer partition sees each light's transitions in order.
type Publisher struct {
	writer *kafka.Writer
	logger *slog.Logger
}

// New creates a Publisher for the given brokers and topic.
func New(brokers []string, topic string, logger *slog.Logger) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			Async:        false,
		},
		logger: logger,
	}
}

type transitionMessage struct {
	LightID string    `json:"light_id"`
	From    string    `json:"from"`
	To      string    `json:"to"`
	At      time.Time `json:"at"`
}

// PublishTransitions writes the batch in one produce call.
func (p *Publisher) PublishTransitions(ctx context.Context, transitions []status.Transition) error {
	if len(transitions) == 0 {
		return nil
	}
	messages := make([]kafka.Message, 0, len(transitions))
	for _, t := range transitions {
		value, err := json.Marshal(transitionMessage{
			LightID: t.LightID,
			From:    t.From.String(),
			To:      t.To.String(),
			At:      t.At,
		})
		if err != nil {
			return fmt.Errorf("publish: encode transition: %w", err)
		}
		messages = append(messages, kafka.Message{
			Key:   []byte(t.LightID),
			Value: value,
		})
	}
	if err := p.writer.WriteMessages(ctx, messages...); err != nil {
		return fmt.Errorf("publish: write: %w", err)
	}
	p.logger.Debug("transitions published", "count", len(messages))
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
