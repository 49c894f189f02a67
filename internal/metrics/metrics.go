package metrics

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	Database *DatabaseMetrics
	Health   *HealthMetrics

	joinRequestsSubmitted metric.Int64Counter
	joinRequestsResponded metric.Int64Counter
	insightsSectionFailed metric.Int64Counter
	usersRegistered       metric.Int64Counter
	projectsCreated       metric.Int64Counter
	eventsPublished       metric.Int64Counter
}

func New(ctx context.Context, serviceName string, logger *slog.Logger) (*Metrics, error) {
	meter := otel.Meter(serviceName)

	database, err := NewDatabaseMetrics(meter)
	if err != nil {
		return nil, err
	}

	health, err := NewHealthMetrics(meter)
	if err != nil {
		return nil, err
	}

	m := &Metrics{
		Database: database,
		Health:   health,
	}

	if err := registerRuntimeMetrics(meter, time.Now()); err != nil {
		return nil, err
	}

	m.joinRequestsSubmitted, err = meter.Int64Counter(
		"colabsphere.join_requests.submitted",
		metric.WithDescription("Total number of join requests submitted"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	m.joinRequestsResponded, err = meter.Int64Counter(
		"colabsphere.join_requests.responded",
		metric.WithDescription("Total number of join request responses by outcome"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	m.insightsSectionFailed, err = meter.Int64Counter(
		"colabsphere.insights.section_failures",
		metric.WithDescription("Insights report sections that failed and were replaced by an empty result"),
		metric.WithUnit("{failure}"),
	)
	if err != nil {
		return nil, err
	}

	m.usersRegistered, err = meter.Int64Counter(
		"colabsphere.users.registered",
		metric.WithDescription("Total number of registered users"),
		metric.WithUnit("{user}"),
	)
	if err != nil {
		return nil, err
	}

	m.projectsCreated, err = meter.Int64Counter(
		"colabsphere.projects.created",
		metric.WithDescription("Total number of posted projects"),
		metric.WithUnit("{project}"),
	)
	if err != nil {
		return nil, err
	}

	m.eventsPublished, err = meter.Int64Counter(
		"colabsphere.events.published",
		metric.WithDescription("Join request events handed to the broker"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "metrics collectors initialized successfully")
	return m, nil
}

func (m *Metrics) RecordJoinRequestSubmitted(ctx context.Context) {
	if m != nil && m.joinRequestsSubmitted != nil {
		m.joinRequestsSubmitted.Add(ctx, 1)
	}
}

func (m *Metrics) RecordJoinRequestResponded(ctx context.Context, status string) {
	if m != nil && m.joinRequestsResponded != nil {
		m.joinRequestsResponded.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
	}
}

func (m *Metrics) RecordInsightsSectionFailure(ctx context.Context, section string) {
	if m != nil && m.insightsSectionFailed != nil {
		m.insightsSectionFailed.Add(ctx, 1, metric.WithAttributes(attribute.String("section", section)))
	}
}

func (m *Metrics) RecordUserRegistration(ctx context.Context) {
	if m != nil && m.usersRegistered != nil {
		m.usersRegistered.Add(ctx, 1)
	}
}

func (m *Metrics) RecordProjectCreated(ctx context.Context) {
	if m != nil && m.projectsCreated != nil {
		m.projectsCreated.Add(ctx, 1)
	}
}

func (m *Metrics) RecordEventPublished(ctx context.Context, eventType string, err error) {
	if m == nil || m.eventsPublished == nil {
		return
	}
	m.eventsPublished.Add(ctx, 1, metric.WithAttributes(
		attribute.String("type", eventType),
		attribute.Bool("error", err != nil),
	))
}

// NewMock creates a no-op Metrics instance for testing
// The returned Metrics will safely ignore all Record* calls
func NewMock() *Metrics {
	return &Metrics{
		Database: &DatabaseMetrics{},
		Health:   &HealthMetrics{dependencies: make(map[string]*DependencyStatus)},
	}
}
