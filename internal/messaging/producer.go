package messaging

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/AlgoRMind/algomind-be/internal/config"
	"github.com/AlgoRMind/algomind-be/internal/metrics"
)

const (
	DriverNone  = "none"
	DriverNATS  = "nats"
	DriverKafka = "kafka"
)

type Producer interface {
	SendMessage(ctx context.Context, key string, value interface{}) error
	Close() error
}

// NewProducer builds the producer selected by cfg.Driver. It returns nil for
// the none driver.
func NewProducer(cfg config.MessagingConfig, m *metrics.Metrics, logger *slog.Logger) (Producer, error) {
	switch cfg.Driver {
	case "", DriverNone:
		logger.Info("event publishing disabled")
		return nil, nil
	case DriverNATS:
		return NewNATSProducer(cfg.NATS.URL, cfg.NATS.Subject, m, logger)
	case DriverKafka:
		return NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, m, logger)
	default:
		return nil, fmt.Errorf("unknown messaging driver %q", cfg.Driver)
	}
}
