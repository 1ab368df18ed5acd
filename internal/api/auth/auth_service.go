package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/crypto/bcrypt"

	"github.com/FACorreiaa/go-user-admin/app/observability/metrics"
	"github.com/FACorreiaa/go-user-admin/config"
	"github.com/FACorreiaa/go-user-admin/internal/types"
)

const (
	actorCacheTTL     = 5 * time.Minute
	actorCacheCleanup = 10 * time.Minute
)

var _ AuthService = (*AuthServiceImpl)(nil)

// AuthService registers and logs in admins, and turns bearer tokens into actors.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (types.Admin, string, error)
	Login(ctx context.Context, email, password string) (types.Admin, string, error)
	// Authenticate validates a bearer token and confirms its admin still exists.
	Authenticate(ctx context.Context, token string) (types.Actor, error)
}

type AuthServiceImpl struct {
	logger  *slog.Logger
	repo    AuthRepo
	jwtCfg  config.JWTConfig
	cache   *cache.Cache
	metrics *metrics.AppMetrics
	now     func() time.Time
}

func NewAuthService(repo AuthRepo, jwtCfg config.JWTConfig, logger *slog.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{
		logger: logger,
		repo:   repo,
		jwtCfg: jwtCfg,
		cache:  cache.New(actorCacheTTL, actorCacheCleanup),
		now:    time.Now,
	}
}

// WithMetrics makes the service count auth attempts.
func (s *AuthServiceImpl) WithMetrics(m *metrics.AppMetrics) *AuthServiceImpl {
	s.metrics = m
	return s
}

func (s *AuthServiceImpl) record(ctx context.Context, op string, err error) {
	if s.metrics != nil {
		s.metrics.RecordAuth(ctx, op, err)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthServiceImpl) Register(ctx context.Context, name, email, password string) (_ types.Admin, _ string, err error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Register")
	defer span.End()
	defer func() { s.record(ctx, "register", err) }()

	l := s.logger.With(slog.String("method", "Register"))

	name, email = strings.TrimSpace(name), normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return types.Admin{}, "", types.InvalidInputf("All fields are required.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		span.RecordError(err)
		return types.Admin{}, "", types.NewError(types.KindInternal, "failed to hash password", err)
	}

	admin, err := s.repo.CreateAdmin(ctx, name, email, string(hash))
	if err != nil {
		l.WarnContext(ctx, "Admin registration failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "create admin failed")
		return types.Admin{}, "", fmt.Errorf("error registering admin: %w", err)
	}

	token, err := issueAccessToken(s.jwtCfg, admin, s.now())
	if err != nil {
		return types.Admin{}, "", types.NewError(types.KindInternal, "failed to issue token", err)
	}

	l.InfoContext(ctx, "Admin registered", slog.String("admin_id", admin.ID.String()))
	span.SetStatus(codes.Ok, "")
	return admin, token, nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (_ types.Admin, _ string, err error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Login")
	defer span.End()
	defer func() { s.record(ctx, "login", err) }()

	l := s.logger.With(slog.String("method", "Login"))

	email = normalizeEmail(email)
	if email == "" || password == "" {
		return types.Admin{}, "", types.InvalidInputf("All fields are required.")
	}

	admin, err := s.repo.GetAdminByEmail(ctx, email)
	if err != nil {
		l.WarnContext(ctx, "Login lookup failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "lookup failed")
		return types.Admin{}, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		l.WarnContext(ctx, "Invalid credentials", slog.String("admin_id", admin.ID.String()))
		span.SetStatus(codes.Error, "invalid credentials")
		return types.Admin{}, "", types.NewError(types.KindUnauthorized, "Invalid credentials.", nil)
	}

	token, err := issueAccessToken(s.jwtCfg, admin, s.now())
	if err != nil {
		return types.Admin{}, "", types.NewError(types.KindInternal, "failed to issue token", err)
	}

	l.InfoContext(ctx, "Admin logged in", slog.String("admin_id", admin.ID.String()))
	span.SetStatus(codes.Ok, "")
	return admin, token, nil
}

func (s *AuthServiceImpl) Authenticate(ctx context.Context, token string) (_ types.Actor, err error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Authenticate")
	defer span.End()
	defer func() { s.record(ctx, "authenticate", err) }()

	claims, err := parseAccessToken(s.jwtCfg, token)
	if err != nil {
		span.SetStatus(codes.Error, types.MessageOf(err))
		return types.Actor{}, err
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return types.Actor{}, types.NewError(types.KindUnauthorized, "Invalid token subject", err)
	}
	span.SetAttributes(attribute.String("admin.id", id.String()))

	if cached, found := s.cache.Get(id.String()); found {
		return cached.(types.Actor), nil
	}

	admin, err := s.repo.GetAdminByID(ctx, id)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return types.Actor{}, types.NewError(types.KindUnauthorized, "Account no longer exists", err)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "admin lookup failed")
		return types.Actor{}, err
	}

	actor := types.Actor{ID: admin.ID, Email: admin.Email}
	s.cache.Set(id.String(), actor, cache.DefaultExpiration)
	span.SetStatus(codes.Ok, "")
	return actor, nil
}

