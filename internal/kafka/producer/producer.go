package producer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"imageIngestor/internal/config"
	"imageIngestor/internal/models"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes ingestion events, one message per stored image, keyed by
// image name.
type Producer struct {
	writer messageWriter
	topic  string
	log    *slog.Logger
}

func NewProducer(kafkaCfg *config.Kafka, log *slog.Logger) (*Producer, error) {
	const op = "kafka.producer.NewProducer"

	if !kafkaCfg.Enabled() {
		return nil, fmt.Errorf("%s: no brokers configured", op)
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(kafkaCfg.Brokers...),
		Topic:                  kafkaCfg.Topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}

	return &Producer{
		writer: writer,
		topic:  kafkaCfg.Topic,
		log:    log,
	}, nil
}

func (p *Producer) PublishIngested(ctx context.Context, events []models.IngestedEvent) error {
	const op = "kafka.producer.PublishIngested"

	msgs := make([]kafka.Message, 0, len(events))
	for _, e := range events {
		value, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		msgs = append(msgs, kafka.Message{
			Key:   []byte(e.Name),
			Value: value,
		})
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		p.log.Error("failed to send messages to kafka", slog.String("topic", p.topic), slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, err)
	}

	p.log.Info("messages sent to kafka", slog.String("topic", p.topic), slog.Int("count", len(msgs)))
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
