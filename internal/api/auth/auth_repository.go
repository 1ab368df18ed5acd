package auth

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	database "github.com/FACorreiaa/go-user-admin/app/db"
	"github.com/FACorreiaa/go-user-admin/internal/types"
)

var (
	_ AuthRepo = (*PostgresAuthRepo)(nil)
	_ AuthRepo = (*MemoryAuthRepo)(nil)
)

// AuthRepo persists admin principals. Emails arrive normalized.
type AuthRepo interface {
	CreateAdmin(ctx context.Context, name, email, passwordHash string) (types.Admin, error)
	GetAdminByEmail(ctx context.Context, email string) (types.Admin, error)
	GetAdminByID(ctx context.Context, id uuid.UUID) (types.Admin, error)
}

type PostgresAuthRepo struct {
	logger *slog.Logger
	pgpool database.Pool
}

func NewPostgresAuthRepo(pgpool database.Pool, logger *slog.Logger) *PostgresAuthRepo {
	return &PostgresAuthRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

func (r *PostgresAuthRepo) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, semconv.DBSystemPostgreSQL, attribute.String("db.sql.table", "admins"))
	return otel.Tracer("AuthRepo").Start(ctx, name, trace.WithAttributes(attrs...))
}

func scanAdmin(row pgx.Row) (types.Admin, error) {
	var a types.Admin
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func classifyAdmin(err error, what string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return types.NotFoundf("User not found.")
	}
	err = database.ClassifyError(err, what)
	if errors.Is(err, types.ErrAlreadyExists) {
		return types.NewError(types.KindAlreadyExists, "Email already exists.", err)
	}
	return err
}

func (r *PostgresAuthRepo) CreateAdmin(ctx context.Context, name, email, passwordHash string) (types.Admin, error) {
	ctx, span := r.startSpan(ctx, "CreateAdmin", attribute.String("db.operation.name", "INSERT"))
	defer span.End()

	a, err := scanAdmin(r.pgpool.QueryRow(ctx, `
		INSERT INTO admins (name, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, name, email, password_hash, created_at, updated_at`,
		name, email, passwordHash))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		r.logger.WarnContext(ctx, "Failed to create admin", slog.Any("error", err))
		return types.Admin{}, classifyAdmin(err, "create admin")
	}
	span.SetStatus(codes.Ok, "")
	return a, nil
}

func (r *PostgresAuthRepo) GetAdminByEmail(ctx context.Context, email string) (types.Admin, error) {
	ctx, span := r.startSpan(ctx, "GetAdminByEmail")
	defer span.End()

	a, err := scanAdmin(r.pgpool.QueryRow(ctx,
		"SELECT id, name, email, password_hash, created_at, updated_at FROM admins WHERE email = $1", email))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "get failed")
		return types.Admin{}, classifyAdmin(err, "get admin")
	}
	span.SetStatus(codes.Ok, "")
	return a, nil
}

func (r *PostgresAuthRepo) GetAdminByID(ctx context.Context, id uuid.UUID) (types.Admin, error) {
	ctx, span := r.startSpan(ctx, "GetAdminByID", attribute.String("admin.id", id.String()))
	defer span.End()

	a, err := scanAdmin(r.pgpool.QueryRow(ctx,
		"SELECT id, name, email, password_hash, created_at, updated_at FROM admins WHERE id = $1", id))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "get failed")
		return types.Admin{}, classifyAdmin(err, "get admin")
	}
	span.SetStatus(codes.Ok, "")
	return a, nil
}

// MemoryAuthRepo keeps admins in process.
type MemoryAuthRepo struct {
	mu     sync.RWMutex
	admins map[uuid.UUID]types.Admin
}

func NewMemoryAuthRepo() *MemoryAuthRepo {
	return &MemoryAuthRepo{admins: make(map[uuid.UUID]types.Admin)}
}

func (m *MemoryAuthRepo) CreateAdmin(_ context.Context, name, email, passwordHash string) (types.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.admins {
		if a.Email == email {
			return types.Admin{}, types.AlreadyExistsf("Email already exists.")
		}
	}
	now := time.Now().UTC()
	a := types.Admin{ID: uuid.New(), Name: name, Email: email, PasswordHash: passwordHash, CreatedAt: now, UpdatedAt: now}
	m.admins[a.ID] = a
	return a, nil
}

func (m *MemoryAuthRepo) GetAdminByEmail(_ context.Context, email string) (types.Admin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.admins {
		if a.Email == email {
			return a, nil
		}
	}
	return types.Admin{}, types.NotFoundf("User not found.")
}

func (m *MemoryAuthRepo) GetAdminByID(_ context.Context, id uuid.UUID) (types.Admin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.admins[id]
	if !ok {
		return types.Admin{}, types.NotFoundf("User not found.")
	}
	return a, nil
}
