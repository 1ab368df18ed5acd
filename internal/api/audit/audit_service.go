package audit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-user-admin/internal/types"
)

// DefaultLogLimit is the most entries a single listing returns.
const DefaultLogLimit = 200

var _ AuditService = (*AuditServiceImpl)(nil)

// AuditService reads, appends to and clears the system log.
type AuditService interface {
	Append(ctx context.Context, entry types.AuditEntry) error
	// GetLogs returns the most recent entries, newest first.
	GetLogs(ctx context.Context) ([]types.AuditEntry, error)
	// ListLogs is GetLogs narrowed by model and record, with paging.
	ListLogs(ctx context.Context, q types.LogQuery) ([]types.AuditEntry, error)
	// ClearLogs deletes every entry. Clearing an empty log succeeds.
	ClearLogs(ctx context.Context) (int64, error)
}

type AuditServiceImpl struct {
	logger       *slog.Logger
	repo         AuditRepo
	logLimit     int
	queryTimeout time.Duration
}

func NewAuditService(repo AuditRepo, logger *slog.Logger, logLimit int, queryTimeout time.Duration) *AuditServiceImpl {
	if logLimit <= 0 {
		logLimit = DefaultLogLimit
	}
	return &AuditServiceImpl{
		logger:       logger,
		repo:         repo,
		logLimit:     logLimit,
		queryTimeout: queryTimeout,
	}
}

func (s *AuditServiceImpl) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.queryTimeout)
}

func unavailableOnTimeout(err error, what string) error {
	var typed *types.Error
	if errors.As(err, &typed) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return types.NewError(types.KindUnavailable, what, err)
	}
	return types.NewError(types.KindInternal, what, err)
}

func (s *AuditServiceImpl) Append(ctx context.Context, entry types.AuditEntry) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.repo.Append(ctx, entry); err != nil {
		return unavailableOnTimeout(err, "append audit entry")
	}
	s.logger.DebugContext(ctx, "Audit entry appended",
		slog.String("model", entry.Model),
		slog.String("record_id", entry.RecordID.String()),
		slog.String("action", string(entry.Action)),
	)
	return nil
}

func (s *AuditServiceImpl) GetLogs(ctx context.Context) ([]types.AuditEntry, error) {
	return s.ListLogs(ctx, types.LogQuery{})
}

func (s *AuditServiceImpl) ListLogs(ctx context.Context, q types.LogQuery) ([]types.AuditEntry, error) {
	if q.Limit <= 0 || q.Limit > s.logLimit {
		q.Limit = s.logLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	ctx, span := otel.Tracer("AuditService").Start(ctx, "ListLogs", trace.WithAttributes(
		attribute.String("audit.model", q.Model),
		attribute.Int("audit.limit", q.Limit),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "ListLogs"))
	l.DebugContext(ctx, "Fetching audit entries", slog.Int("limit", q.Limit), slog.Int("offset", q.Offset))

	qctx, cancel := s.withTimeout(ctx)
	defer cancel()

	entries, err := s.repo.List(qctx, q)
	if err != nil {
		l.ErrorContext(ctx, "Failed to fetch audit entries", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to fetch audit entries")
		return nil, fmt.Errorf("error fetching audit entries: %w", unavailableOnTimeout(err, "list audit entries"))
	}

	l.InfoContext(ctx, "Audit entries fetched", slog.Int("count", len(entries)))
	span.SetStatus(codes.Ok, "")
	return entries, nil
}

func (s *AuditServiceImpl) ClearLogs(ctx context.Context) (int64, error) {
	ctx, span := otel.Tracer("AuditService").Start(ctx, "ClearLogs")
	defer span.End()

	l := s.logger.With(slog.String("method", "ClearLogs"))

	qctx, cancel := s.withTimeout(ctx)
	defer cancel()

	n, err := s.repo.Clear(qctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to clear audit entries", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to clear audit entries")
		return 0, fmt.Errorf("error clearing audit entries: %w", unavailableOnTimeout(err, "clear audit entries"))
	}

	l.InfoContext(ctx, "Audit log cleared", slog.Int64("deleted", n))
	span.SetStatus(codes.Ok, "")
	return n, nil
}
