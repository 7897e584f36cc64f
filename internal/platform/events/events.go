package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"cfb-poll/internal/retry"
)

type Publisher interface {
	Publish(ctx context.Context, key string, payload []byte) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes each event as one message keyed by key.
type KafkaPublisher struct {
	w        messageWriter
	log      *slog.Logger
	attempts int
	backoff  time.Duration
}

func NewKafkaPublisher(brokers []string, topic string, log *slog.Logger) *KafkaPublisher {
	if log == nil {
		log = slog.Default()
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Async:        false,
		WriteTimeout: 5 * time.Second,
	}
	return &KafkaPublisher{
		w:        w,
		log:      log.With(slog.String("component", "kafka-publisher"), slog.String("topic", topic)),
		attempts: 3,
		backoff:  200 * time.Millisecond,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, key string, payload []byte) error {
	msg := kafka.Message{Key: []byte(key), Value: payload, Time: time.Now().UTC()}
	err := retry.DoWithRetry(ctx, p.attempts, p.backoff, func() error {
		return p.w.WriteMessages(ctx, msg)
	})
	if err != nil {
		p.log.Error("publish failed", "key", key, "err", err)
		return err
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}

// LogPublisher is used when no brokers are configured.
type LogPublisher struct {
	Logger *slog.Logger
}

func (p LogPublisher) Publish(ctx context.Context, key string, payload []byte) error {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "event", "key", key, "payload", string(payload))
	return nil
}

func (LogPublisher) Close() error { return nil }
