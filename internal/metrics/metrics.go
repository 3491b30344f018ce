package metrics

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	Database  *DatabaseMetrics
	Messaging *MessagingMetrics
	Health    *HealthMetrics
	Runtime   *RuntimeMetrics

	usersRegistered       metric.Int64Counter
	signInFailures        metric.Int64Counter
	projectsCreated       metric.Int64Counter
	contributionsAccepted metric.Int64Counter
	contributionsRejected metric.Int64Counter
	contributedAmount     metric.Int64Counter
}

// New builds every instrument on the global meter provider.
func New(serviceName string, logger *slog.Logger) (*Metrics, error) {
	meter := otel.Meter(serviceName)

	database, err := NewDatabaseMetrics(meter)
	if err != nil {
		return nil, err
	}

	messaging, err := NewMessagingMetrics(meter)
	if err != nil {
		return nil, err
	}

	health, err := NewHealthMetrics(meter)
	if err != nil {
		return nil, err
	}

	runtimeMetrics, err := NewRuntimeMetrics(meter)
	if err != nil {
		return nil, err
	}

	m := &Metrics{
		Database:  database,
		Messaging: messaging,
		Health:    health,
		Runtime:   runtimeMetrics,
	}

	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
		unit string
	}{
		{&m.usersRegistered, "algomind.users.registered", "Total number of users registered", "{user}"},
		{&m.signInFailures, "algomind.users.signin_failures", "Total number of rejected sign-in attempts", "{attempt}"},
		{&m.projectsCreated, "algomind.projects.created", "Total number of projects created", "{project}"},
		{&m.contributionsAccepted, "algomind.contributions.accepted", "Total number of contributions applied", "{contribution}"},
		{&m.contributionsRejected, "algomind.contributions.rejected", "Total number of contributions rejected", "{contribution}"},
		{&m.contributedAmount, "algomind.contributions.amount", "Sum of accepted contribution amounts in minor units", "{unit}"},
	}
	for _, c := range counters {
		*c.dst, err = meter.Int64Counter(c.name, metric.WithDescription(c.desc), metric.WithUnit(c.unit))
		if err != nil {
			return nil, err
		}
	}

	logger.Info("metrics collectors initialized successfully")

	return m, nil
}

// NewMock creates a no-op Metrics instance for testing
// The returned Metrics will safely ignore all Record* calls
func NewMock() *Metrics {
	return &Metrics{
		Database:  &DatabaseMetrics{},
		Messaging: &MessagingMetrics{},
		Health:    &HealthMetrics{},
		Runtime:   &RuntimeMetrics{},
	}
}

func (m *Metrics) RecordUserRegistered(ctx context.Context) {
	if m != nil && m.usersRegistered != nil {
		m.usersRegistered.Add(ctx, 1)
	}
}

func (m *Metrics) RecordSignInFailure(ctx context.Context) {
	if m != nil && m.signInFailures != nil {
		m.signInFailures.Add(ctx, 1)
	}
}

func (m *Metrics) RecordProjectCreated(ctx context.Context) {
	if m != nil && m.projectsCreated != nil {
		m.projectsCreated.Add(ctx, 1)
	}
}

func (m *Metrics) RecordContribution(ctx context.Context, amount int64) {
	if m != nil && m.contributionsAccepted != nil {
		m.contributionsAccepted.Add(ctx, 1)
		m.contributedAmount.Add(ctx, amount)
	}
}

// RecordContributionRejected counts a refused contribution; reason is a short label.
func (m *Metrics) RecordContributionRejected(ctx context.Context, reason string) {
	if m != nil && m.contributionsRejected != nil {
		m.contributionsRejected.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
	}
}
