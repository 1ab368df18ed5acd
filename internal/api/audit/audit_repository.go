package audit

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	database "github.com/FACorreiaa/go-user-admin/app/db"
	"github.com/FACorreiaa/go-user-admin/internal/types"
)

var _ AuditRepo = (*PostgresAuditRepo)(nil)

// AuditRepo is the append-only audit log store.
type AuditRepo interface {
	// Append stores one entry. Entries are never updated.
	Append(ctx context.Context, entry types.AuditEntry) error
	// List returns entries matching q, newest first. q.Limit must be positive.
	List(ctx context.Context, q types.LogQuery) ([]types.AuditEntry, error)
	// Clear deletes every entry and reports how many were removed.
	Clear(ctx context.Context) (int64, error)
}

type PostgresAuditRepo struct {
	logger *slog.Logger
	pgpool database.Pool
}

func NewPostgresAuditRepo(pgpool database.Pool, logger *slog.Logger) *PostgresAuditRepo {
	return &PostgresAuditRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

func (r *PostgresAuditRepo) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, semconv.DBSystemPostgreSQL, attribute.String("db.sql.table", "audit_logs"))
	return otel.Tracer("AuditRepo").Start(ctx, name, trace.WithAttributes(attrs...))
}

func (r *PostgresAuditRepo) Append(ctx context.Context, entry types.AuditEntry) error {
	ctx, span := r.startSpan(ctx, "Append",
		attribute.String("audit.model", entry.Model),
		attribute.String("audit.action", string(entry.Action)),
	)
	defer span.End()

	_, err := r.pgpool.Exec(ctx, `
		INSERT INTO audit_logs (id, model, record_id, action, actor_id, actor_email, before, after, at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		entry.ID, entry.Model, entry.RecordID, string(entry.Action),
		entry.ActorID, entry.ActorEmail, nullableJSON(entry.Before), nullableJSON(entry.After), entry.At)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		return database.ClassifyError(err, "append audit entry")
	}
	span.SetStatus(codes.Ok, "")
	return nil
}

// nullableJSON keeps a missing snapshot as SQL NULL rather than the JSON literal.
func nullableJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}

func (r *PostgresAuditRepo) List(ctx context.Context, q types.LogQuery) ([]types.AuditEntry, error) {
	ctx, span := r.startSpan(ctx, "List",
		attribute.Int("audit.limit", q.Limit),
		attribute.Int("audit.offset", q.Offset),
	)
	defer span.End()

	var (
		where []string
		args  []any
	)
	if q.Model != "" {
		args = append(args, q.Model)
		where = append(where, fmt.Sprintf("model = $%d", len(args)))
	}
	if q.RecordID != nil {
		args = append(args, *q.RecordID)
		where = append(where, fmt.Sprintf("record_id = $%d", len(args)))
	}

	var sb strings.Builder
	sb.WriteString(`SELECT id, model, record_id, action, actor_id, actor_email, before, after, at FROM audit_logs`)
	if len(where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}
	args = append(args, q.Limit, q.Offset)
	fmt.Fprintf(&sb, " ORDER BY at DESC, id DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.pgpool.Query(ctx, sb.String(), args...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		r.logger.ErrorContext(ctx, "Failed to list audit entries", slog.Any("error", err))
		return nil, database.ClassifyError(err, "list audit entries")
	}
	defer rows.Close()

	entries := make([]types.AuditEntry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "scan failed")
			return nil, database.ClassifyError(err, "scan audit entry")
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "rows iteration failed")
		return nil, database.ClassifyError(err, "list audit entries")
	}

	span.SetAttributes(attribute.Int("audit.count", len(entries)))
	span.SetStatus(codes.Ok, "")
	return entries, nil
}

func scanEntry(row pgx.Row) (types.AuditEntry, error) {
	var (
		e             types.AuditEntry
		action        string
		before, after []byte
	)
	if err := row.Scan(&e.ID, &e.Model, &e.RecordID, &action, &e.ActorID, &e.ActorEmail, &before, &after, &e.At); err != nil {
		return types.AuditEntry{}, err
	}
	e.Action = types.AuditAction(action)
	if len(before) > 0 {
		e.Before = before
	}
	if len(after) > 0 {
		e.After = after
	}
	return e, nil
}

func (r *PostgresAuditRepo) Clear(ctx context.Context) (int64, error) {
	ctx, span := r.startSpan(ctx, "Clear", attribute.String("db.operation.name", "DELETE"))
	defer span.End()

	tag, err := r.pgpool.Exec(ctx, "DELETE FROM audit_logs")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delete failed")
		return 0, database.ClassifyError(err, "clear audit entries")
	}
	span.SetAttributes(attribute.Int64("audit.deleted", tag.RowsAffected()))
	span.SetStatus(codes.Ok, "")
	return tag.RowsAffected(), nil
}
