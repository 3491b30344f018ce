package messaging

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/AlgoRMind/algomind-be/internal/metrics"

	"github.com/nats-io/nats.go"
)

// KeyHeader carries the partition key of a NATS message.
const KeyHeader = "Event-Key"

type NATSProducer struct {
	conn    *nats.Conn
	subject string
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewNATSProducer(url string, subject string, m *metrics.Metrics, logger *slog.Logger) (*NATSProducer, error) {
	nc, err := nats.Connect(url, nats.Name("algomind-be"))
	if err != nil {
		return nil, err
	}

	logger.Info("NATS producer initialized", "url", url, "subject", subject)

	return &NATSProducer{
		conn:    nc,
		subject: subject,
		metrics: m,
		logger:  logger,
	}, nil
}

func (p *NATSProducer) SendMessage(ctx context.Context, key string, value interface{}) error {
	valueBytes, err := json.Marshal(value)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to marshal message", "error", err)
		return err
	}

	msg := nats.NewMsg(p.subject)
	msg.Data = valueBytes
	msg.Header.Set(KeyHeader, key)

	start := time.Now()
	err = p.conn.PublishMsg(msg)
	p.metrics.Messaging.RecordPublish(ctx, "nats", p.subject, time.Since(start), err)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to send message to NATS", "error", err)
		return err
	}

	p.logger.DebugContext(ctx, "message sent to NATS", "subject", p.subject, "key", key)
	return nil
}

// Close flushes pending messages before closing the connection.
func (p *NATSProducer) Close() error {
	return p.conn.Drain()
}

// Ping round-trips to the server.
func (p *NATSProducer) Ping(ctx context.Context) error {
	return p.conn.FlushWithContext(ctx)
}
