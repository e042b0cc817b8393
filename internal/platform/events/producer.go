package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
	portssvc "github.com/vidtube/vidtube_backend/internal/core/ports/services"
	"github.com/vidtube/vidtube_backend/internal/platform/config"
)

// Producer publishes domain events to Kafka. A nil or unconfigured producer
// silently skips publishing so the broker stays optional in development.
type Producer struct {
	writer *kafka.Writer
}

// NewProducer builds a Kafka producer from the configured brokers. Returns a
// no-op producer when no brokers are configured.
func NewProducer(cfg *config.Config) *Producer {
	if len(cfg.KafkaBrokers) == 0 {
		return &Producer{}
	}
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.KafkaBrokers...),
			Topic:        cfg.KafkaTopic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireAll,
			Async:        false,
			WriteTimeout: 10 * time.Second,
		},
	}
}

var _ portssvc.Publisher = (*Producer)(nil)

// PublishMessage writes one message to the configured topic. When the broker
// is not configured the message is skipped, not queued.
func (p *Producer) PublishMessage(ctx context.Context, key, value []byte) error {
	if p == nil || p.writer == nil {
		slog.Debug("kafka producer not configured, skipping publish")
		return nil
	}

	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return p.writer.WriteMessages(writeCtx, kafka.Message{
		Key:   key,
		Value: value,
		Time:  time.Now(),
	})
}

// Close flushes and closes the underlying writer.
func (p *Producer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
