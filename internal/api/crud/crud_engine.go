package crud

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-user-admin/app/observability/metrics"
	"github.com/FACorreiaa/go-user-admin/internal/types"
)

// Record is a persisted record the engine can audit.
type Record interface {
	RecordID() uuid.UUID
}

// Store persists one record kind. R is the record, I its validated input.
// Reads and writes only ever target active records; a missing or soft-deleted
// id is reported as types.ErrNotFound and an active duplicate as
// types.ErrAlreadyExists.
type Store[R Record, I any] interface {
	ListActive(ctx context.Context) ([]R, error)
	GetActive(ctx context.Context, id uuid.UUID) (R, error)
	Insert(ctx context.Context, in I) (R, error)
	Replace(ctx context.Context, id uuid.UUID, in I) (R, error)
	SoftDelete(ctx context.Context, id, by uuid.UUID, at time.Time) (R, error)
}

// Model is a record kind: its registry name, its store and its input schema.
// Validate returns the normalized input or an InvalidInput error.
type Model[R Record, I any] struct {
	Name     string
	Store    Store[R, I]
	Validate func(I) (I, error)
}

// AuditWriter appends audit entries.
type AuditWriter interface {
	Append(ctx context.Context, entry types.AuditEntry) error
}

type options struct {
	queryTimeout time.Duration
	now          func() time.Time
	metrics      *metrics.AppMetrics
}

type Option func(*options)

// WithQueryTimeout bounds every store call. Zero disables the bound.
func WithQueryTimeout(d time.Duration) Option {
	return func(o *options) { o.queryTimeout = d }
}

// WithClock overrides the time source used for audit and delete timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func WithMetrics(m *metrics.AppMetrics) Option {
	return func(o *options) { o.metrics = m }
}

// Engine runs validated, audited CRUD over one record kind.
type Engine[R Record, I any] struct {
	model  Model[R, I]
	audit  AuditWriter
	logger *slog.Logger
	opts   options
}

func NewEngine[R Record, I any](model Model[R, I], audit AuditWriter, logger *slog.Logger, opts ...Option) *Engine[R, I] {
	o := options{now: func() time.Time { return time.Now().UTC() }}
	for _, opt := range opts {
		opt(&o)
	}
	return &Engine[R, I]{
		model:  model,
		audit:  audit,
		logger: logger.With(slog.String("model", model.Name)),
		opts:   o,
	}
}

func (e *Engine[R, I]) Name() string { return e.model.Name }

func (e *Engine[R, I]) startSpan(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("crud.model", e.model.Name))
	return otel.Tracer("CrudEngine").Start(ctx, op, trace.WithAttributes(attrs...))
}

// finish records the outcome of an operation on its span and counters.
func (e *Engine[R, I]) finish(ctx context.Context, span trace.Span, op string, err error) {
	if e.opts.metrics != nil {
		e.opts.metrics.RecordOperation(ctx, e.model.Name, op, err)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(types.KindOf(err)))
		return
	}
	span.SetStatus(codes.Ok, "")
}

// storeCall runs fn under the query timeout and normalizes its error.
func storeCall[T any](ctx context.Context, e interface {
	timeout() time.Duration
	observe(context.Context, string, time.Time, error)
}, what string, fn func(context.Context) (T, error)) (T, error) {
	if d := e.timeout(); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}
	start := time.Now()
	v, err := fn(ctx)
	e.observe(ctx, what, start, err)
	if err != nil {
		var zero T
		return zero, normalize(err, what)
	}
	return v, nil
}

func (e *Engine[R, I]) timeout() time.Duration { return e.opts.queryTimeout }

func (e *Engine[R, I]) observe(ctx context.Context, what string, start time.Time, err error) {
	if e.opts.metrics != nil {
		e.opts.metrics.RecordQuery(ctx, e.model.Name, what, start, err)
	}
}

// normalize guarantees every store error carries a kind. Deadlines become
// Unavailable so callers may retry.
func normalize(err error, what string) error {
	var typed *types.Error
	if errors.As(err, &typed) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return types.NewError(types.KindUnavailable, what+": storage unavailable", err)
	}
	return types.NewError(types.KindInternal, what+": storage error", err)
}

func requireActor(ctx context.Context) (types.Actor, error) {
	actor, ok := types.ActorFromContext(ctx)
	if !ok {
		return types.Actor{}, types.NewError(types.KindUnauthorized, "authentication required", nil)
	}
	return actor, nil
}

// List returns every active record. An empty store yields an empty slice.
func (e *Engine[R, I]) List(ctx context.Context) (records []R, err error) {
	ctx, span := e.startSpan(ctx, "List")
	defer span.End()
	defer func() { e.finish(ctx, span, "list", err) }()

	records, err = storeCall(ctx, e, "list", e.model.Store.ListActive)
	if err != nil {
		e.logger.ErrorContext(ctx, "Failed to list records", slog.Any("error", err))
		return nil, err
	}
	if records == nil {
		records = []R{}
	}
	span.SetAttributes(attribute.Int("crud.count", len(records)))
	return records, nil
}

// Get returns the active record with id.
func (e *Engine[R, I]) Get(ctx context.Context, id uuid.UUID) (record R, err error) {
	ctx, span := e.startSpan(ctx, "Get", attribute.String("crud.record_id", id.String()))
	defer span.End()
	defer func() { e.finish(ctx, span, "get", err) }()

	return storeCall(ctx, e, "get", func(ctx context.Context) (R, error) {
		return e.model.Store.GetActive(ctx, id)
	})
}

// Create validates in, persists it and records a CREATE entry.
func (e *Engine[R, I]) Create(ctx context.Context, in I) (record R, err error) {
	ctx, span := e.startSpan(ctx, "Create")
	defer span.End()
	defer func() { e.finish(ctx, span, "create", err) }()

	l := e.logger.With(slog.String("method", "Create"))

	actor, err := requireActor(ctx)
	if err != nil {
		return record, err
	}
	in, err = e.model.Validate(in)
	if err != nil {
		l.WarnContext(ctx, "Rejected invalid input", slog.Any("error", err))
		return record, err
	}

	record, err = storeCall(ctx, e, "insert", func(ctx context.Context) (R, error) {
		return e.model.Store.Insert(ctx, in)
	})
	if err != nil {
		l.WarnContext(ctx, "Failed to create record", slog.Any("error", err))
		return record, err
	}

	e.writeAudit(ctx, actor, types.ActionCreate, record.RecordID(), nil, &record)
	l.InfoContext(ctx, "Record created", slog.String("record_id", record.RecordID().String()))
	return record, nil
}

// Update fully replaces the editable fields of the active record with id and
// records an UPDATE entry with both snapshots.
func (e *Engine[R, I]) Update(ctx context.Context, id uuid.UUID, in I) (record R, err error) {
	ctx, span := e.startSpan(ctx, "Update", attribute.String("crud.record_id", id.String()))
	defer span.End()
	defer func() { e.finish(ctx, span, "update", err) }()

	l := e.logger.With(slog.String("method", "Update"), slog.String("record_id", id.String()))

	actor, err := requireActor(ctx)
	if err != nil {
		return record, err
	}
	in, err = e.model.Validate(in)
	if err != nil {
		l.WarnContext(ctx, "Rejected invalid input", slog.Any("error", err))
		return record, err
	}

	before, err := storeCall(ctx, e, "get", func(ctx context.Context) (R, error) {
		return e.model.Store.GetActive(ctx, id)
	})
	if err != nil {
		return record, err
	}

	record, err = storeCall(ctx, e, "replace", func(ctx context.Context) (R, error) {
		return e.model.Store.Replace(ctx, id, in)
	})
	if err != nil {
		l.WarnContext(ctx, "Failed to update record", slog.Any("error", err))
		return record, err
	}

	e.writeAudit(ctx, actor, types.ActionUpdate, id, &before, &record)
	l.InfoContext(ctx, "Record updated")
	return record, nil
}

// Remove soft-deletes the active record with id on behalf of the actor and
// records a DELETE entry. A second Remove of the same id is NotFound.
func (e *Engine[R, I]) Remove(ctx context.Context, id uuid.UUID) (_ uuid.UUID, err error) {
	ctx, span := e.startSpan(ctx, "Remove", attribute.String("crud.record_id", id.String()))
	defer span.End()
	defer func() { e.finish(ctx, span, "remove", err) }()

	l := e.logger.With(slog.String("method", "Remove"), slog.String("record_id", id.String()))

	actor, err := requireActor(ctx)
	if err != nil {
		return uuid.Nil, err
	}

	before, err := storeCall(ctx, e, "get", func(ctx context.Context) (R, error) {
		return e.model.Store.GetActive(ctx, id)
	})
	if err != nil {
		return uuid.Nil, err
	}

	after, err := storeCall(ctx, e, "soft_delete", func(ctx context.Context) (R, error) {
		return e.model.Store.SoftDelete(ctx, id, actor.ID, e.opts.now())
	})
	if err != nil {
		l.WarnContext(ctx, "Failed to delete record", slog.Any("error", err))
		return uuid.Nil, err
	}

	e.writeAudit(ctx, actor, types.ActionDelete, id, &before, &after)
	l.InfoContext(ctx, "Record soft-deleted")
	return id, nil
}

// writeAudit appends the audit entry for a committed mutation. Failures are
// logged and counted, never returned: the mutation has already happened.
func (e *Engine[R, I]) writeAudit(ctx context.Context, actor types.Actor, action types.AuditAction, recordID uuid.UUID, before, after *R) {
	l := e.logger.With(
		slog.String("action", string(action)),
		slog.String("record_id", recordID.String()),
	)

	entry, err := e.buildEntry(actor, action, recordID, before, after)
	if err == nil {
		_, err = storeCall(ctx, e, "audit_append", func(ctx context.Context) (struct{}, error) {
			return struct{}{}, e.audit.Append(ctx, entry)
		})
	}
	if err != nil {
		l.ErrorContext(ctx, "Failed to write audit entry", slog.Any("error", err))
		if e.opts.metrics != nil {
			e.opts.metrics.RecordAuditFailure(ctx, e.model.Name, action)
		}
	}
}

func (e *Engine[R, I]) buildEntry(actor types.Actor, action types.AuditAction, recordID uuid.UUID, before, after *R) (types.AuditEntry, error) {
	beforeJSON, err := snapshot(before)
	if err != nil {
		return types.AuditEntry{}, fmt.Errorf("snapshot before: %w", err)
	}
	afterJSON, err := snapshot(after)
	if err != nil {
		return types.AuditEntry{}, fmt.Errorf("snapshot after: %w", err)
	}
	id, err := uuid.NewV7()
	if err != nil {
		return types.AuditEntry{}, fmt.Errorf("audit id: %w", err)
	}
	actorID, actorEmail := actor.ID, actor.Email
	return types.AuditEntry{
		ID:         id,
		Model:      e.model.Name,
		RecordID:   recordID,
		Action:     action,
		ActorID:    &actorID,
		ActorEmail: &actorEmail,
		Before:     beforeJSON,
		After:      afterJSON,
		At:         e.opts.now(),
	}, nil
}

func snapshot[R any](r *R) (json.RawMessage, error) {
	if r == nil {
		return nil, nil
	}
	return json.Marshal(r)
}
