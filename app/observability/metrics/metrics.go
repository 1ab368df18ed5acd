package metrics

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/FACorreiaa/go-user-admin/internal/types"
)

const meterName = "github.com/FACorreiaa/go-user-admin"

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	CrudOperationsTotal     metric.Int64Counter
	AuditWriteFailuresTotal metric.Int64Counter
	AuthRequestsTotal       metric.Int64Counter
	DbQueryDurationSeconds  metric.Float64Histogram
	DbQueryErrorsTotal      metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// New creates the instruments on the given meter.
func New(meter metric.Meter) (*AppMetrics, error) {
	var err error
	m := &AppMetrics{}

	m.CrudOperationsTotal, err = meter.Int64Counter(
		"crud_operations_total",
		metric.WithDescription("CRUD engine operations by model, operation and outcome"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("crud_operations_total: %w", err)
	}

	m.AuditWriteFailuresTotal, err = meter.Int64Counter(
		"audit_write_failures_total",
		metric.WithDescription("Audit entries that could not be written after a successful mutation"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, fmt.Errorf("audit_write_failures_total: %w", err)
	}

	m.AuthRequestsTotal, err = meter.Int64Counter(
		"auth_requests_total",
		metric.WithDescription("Register, login and token verification attempts by outcome"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("auth_requests_total: %w", err)
	}

	m.DbQueryDurationSeconds, err = meter.Float64Histogram(
		"db_query_duration_seconds",
		metric.WithDescription("Duration of store operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("db_query_duration_seconds: %w", err)
	}

	m.DbQueryErrorsTotal, err = meter.Int64Counter(
		"db_query_errors_total",
		metric.WithDescription("Total number of store operation errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, fmt.Errorf("db_query_errors_total: %w", err)
	}

	return m, nil
}

// InitAppMetrics initializes the global instruments once, using the global MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		m, err := New(otel.GetMeterProvider().Meter(meterName))
		if err != nil {
			log.Fatalf("Metrics: %v", err)
		}
		appMetrics = m
	})
}

// Get returns the global instruments. InitAppMetrics must have been called.
func Get() *AppMetrics {
	if appMetrics == nil {
		panic("metrics instruments not initialized. Call metrics.InitAppMetrics() first.")
	}
	return appMetrics
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return string(types.KindOf(err))
}

// RecordOperation counts one engine operation.
func (m *AppMetrics) RecordOperation(ctx context.Context, model, operation string, err error) {
	m.CrudOperationsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("model", model),
		attribute.String("operation", operation),
		attribute.String("outcome", outcome(err)),
	))
}

// RecordAuditFailure counts an audit entry lost after its mutation committed.
func (m *AppMetrics) RecordAuditFailure(ctx context.Context, model string, action types.AuditAction) {
	m.AuditWriteFailuresTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("model", model),
		attribute.String("action", string(action)),
	))
}

// RecordAuth counts an authentication attempt.
func (m *AppMetrics) RecordAuth(ctx context.Context, operation string, err error) {
	m.AuthRequestsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("outcome", outcome(err)),
	))
}

// RecordQuery observes a store call that started at start.
func (m *AppMetrics) RecordQuery(ctx context.Context, table, operation string, start time.Time, err error) {
	attrs := metric.WithAttributes(
		attribute.String("db.sql.table", table),
		attribute.String("db.operation", operation),
	)
	m.DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
	if err != nil {
		m.DbQueryErrorsTotal.Add(ctx, 1, attrs)
	}
}
