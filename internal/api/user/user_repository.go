package user

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	database "github.com/FACorreiaa/go-user-admin/app/db"
	"github.com/FACorreiaa/go-user-admin/internal/api/crud"
	"github.com/FACorreiaa/go-user-admin/internal/types"
)

var _ UserRepo = (*PostgresUserRepo)(nil)

// UserRepo is the record store for users. Reads through the crud.Store methods
// only see active rows.
type UserRepo interface {
	crud.Store[types.User, types.UserInput]

	// GetByIDIncludingDeleted returns the row whatever its soft-delete state.
	GetByIDIncludingDeleted(ctx context.Context, id uuid.UUID) (types.User, error)
}

const userColumns = `id, name, email, address, birthday, contact_number,
	is_deleted, deleted_at, deleted_by, created_at, updated_at`

type PostgresUserRepo struct {
	logger *slog.Logger
	pgpool database.Pool
}

func NewPostgresUserRepo(pgpool database.Pool, logger *slog.Logger) *PostgresUserRepo {
	return &PostgresUserRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

func (r *PostgresUserRepo) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, semconv.DBSystemPostgreSQL, attribute.String("db.sql.table", "users"))
	return otel.Tracer("UserRepo").Start(ctx, name, trace.WithAttributes(attrs...))
}

func scanUser(row pgx.Row) (types.User, error) {
	var u types.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.Address, &u.Birthday, &u.ContactNumber,
		&u.IsDeleted, &u.DeletedAt, &u.DeletedBy, &u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

// classify maps pgx errors for the users table. A unique violation can only come
// from the active-email index.
func classify(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return types.NotFoundf("User not found")
	}
	err = database.ClassifyError(err, what)
	if errors.Is(err, types.ErrAlreadyExists) {
		return types.NewError(types.KindAlreadyExists, "Email already exists", err)
	}
	return err
}

func (r *PostgresUserRepo) ListActive(ctx context.Context) ([]types.User, error) {
	ctx, span := r.startSpan(ctx, "ListActive", attribute.String("db.operation.name", "SELECT"))
	defer span.End()

	rows, err := r.pgpool.Query(ctx,
		"SELECT "+userColumns+" FROM users WHERE is_deleted = FALSE ORDER BY created_at DESC")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		r.logger.ErrorContext(ctx, "Failed to list users", slog.Any("error", err))
		return nil, classify(err, "list users")
	}
	defer rows.Close()

	users := make([]types.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "scan failed")
			return nil, classify(err, "scan user")
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "rows iteration failed")
		return nil, classify(err, "list users")
	}

	span.SetAttributes(attribute.Int("users.count", len(users)))
	span.SetStatus(codes.Ok, "")
	return users, nil
}

func (r *PostgresUserRepo) GetActive(ctx context.Context, id uuid.UUID) (types.User, error) {
	ctx, span := r.startSpan(ctx, "GetActive", attribute.String("user.id", id.String()))
	defer span.End()

	u, err := scanUser(r.pgpool.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1 AND is_deleted = FALSE", id))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "get failed")
		return types.User{}, classify(err, "get user")
	}
	span.SetStatus(codes.Ok, "")
	return u, nil
}

func (r *PostgresUserRepo) GetByIDIncludingDeleted(ctx context.Context, id uuid.UUID) (types.User, error) {
	ctx, span := r.startSpan(ctx, "GetByIDIncludingDeleted", attribute.String("user.id", id.String()))
	defer span.End()

	u, err := scanUser(r.pgpool.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1", id))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "get failed")
		return types.User{}, classify(err, "get user")
	}
	return u, nil
}

func (r *PostgresUserRepo) Insert(ctx context.Context, in types.UserInput) (types.User, error) {
	ctx, span := r.startSpan(ctx, "Insert", attribute.String("db.operation.name", "INSERT"))
	defer span.End()

	birthday, err := types.ParseBirthday(in.Birthday)
	if err != nil {
		return types.User{}, types.InvalidInputf("birthday must be a valid date")
	}

	u, err := scanUser(r.pgpool.QueryRow(ctx, `
		INSERT INTO users (name, email, address, birthday, contact_number)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+userColumns,
		in.Name, in.Email, in.Address, birthday, in.ContactNumber))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		r.logger.WarnContext(ctx, "Failed to insert user", slog.Any("error", err))
		return types.User{}, classify(err, "insert user")
	}

	span.SetAttributes(attribute.String("user.id", u.ID.String()))
	span.SetStatus(codes.Ok, "")
	return u, nil
}

func (r *PostgresUserRepo) Replace(ctx context.Context, id uuid.UUID, in types.UserInput) (types.User, error) {
	ctx, span := r.startSpan(ctx, "Replace", attribute.String("user.id", id.String()), attribute.String("db.operation.name", "UPDATE"))
	defer span.End()

	birthday, err := types.ParseBirthday(in.Birthday)
	if err != nil {
		return types.User{}, types.InvalidInputf("birthday must be a valid date")
	}

	u, err := scanUser(r.pgpool.QueryRow(ctx, `
		UPDATE users
		SET name = $2, email = $3, address = $4, birthday = $5, contact_number = $6, updated_at = now()
		WHERE id = $1 AND is_deleted = FALSE
		RETURNING `+userColumns,
		id, in.Name, in.Email, in.Address, birthday, in.ContactNumber))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return types.User{}, classify(err, "update user")
	}
	span.SetStatus(codes.Ok, "")
	return u, nil
}

func (r *PostgresUserRepo) SoftDelete(ctx context.Context, id, by uuid.UUID, at time.Time) (types.User, error) {
	ctx, span := r.startSpan(ctx, "SoftDelete", attribute.String("user.id", id.String()), attribute.String("db.operation.name", "UPDATE"))
	defer span.End()

	u, err := scanUser(r.pgpool.QueryRow(ctx, `
		UPDATE users
		SET is_deleted = TRUE, deleted_at = $2, deleted_by = $3, updated_at = $2
		WHERE id = $1 AND is_deleted = FALSE
		RETURNING `+userColumns,
		id, at, by))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "soft delete failed")
		return types.User{}, classify(err, "delete user")
	}
	span.SetStatus(codes.Ok, "")
	return u, nil
}
