package container

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	database "github.com/FACorreiaa/go-user-admin/app/db"
	"github.com/FACorreiaa/go-user-admin/app/observability/metrics"
	"github.com/FACorreiaa/go-user-admin/config"
	"github.com/FACorreiaa/go-user-admin/internal/api/audit"
	"github.com/FACorreiaa/go-user-admin/internal/api/auth"
	"github.com/FACorreiaa/go-user-admin/internal/api/crud"
	"github.com/FACorreiaa/go-user-admin/internal/api/user"
	"github.com/FACorreiaa/go-user-admin/internal/router"
)

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	Logger       *slog.Logger
	Pool         *pgxpool.Pool
	AuthService  *auth.AuthServiceImpl
	AuditService *audit.AuditServiceImpl
	Registry     *crud.Registry
	AuthHandler  *auth.AuthHandler
	CrudHandler  *crud.HandlerImpl
	AuditHandler *audit.AuditHandler
}

type repositories struct {
	users  user.UserRepo
	audit  audit.AuditRepo
	admins auth.AuthRepo
}

// NewContainer initializes and returns a new dependency container for the
// configured storage driver. The postgres driver runs migrations first.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	switch cfg.Repositories.Driver {
	case config.DriverMemory:
		logger.Warn("Using in-memory storage; data is lost on restart")
		return build(cfg, logger, nil, repositories{
			users:  user.NewMemoryUserRepo(),
			audit:  audit.NewMemoryAuditRepo(),
			admins: auth.NewMemoryAuthRepo(),
		})
	case config.DriverPostgres:
		pool, err := openPostgres(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		c, err := build(cfg, logger, pool, repositories{
			users:  user.NewPostgresUserRepo(pool, logger),
			audit:  audit.NewPostgresAuditRepo(pool, logger),
			admins: auth.NewPostgresAuthRepo(pool, logger),
		})
		if err != nil {
			pool.Close()
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown repositories.driver %q", cfg.Repositories.Driver)
	}
}

func openPostgres(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	dbConfig, err := database.NewDatabaseConfig(cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		return nil, err
	}

	if err := database.RunMigrations(dbConfig.ConnectionURL, logger); err != nil {
		logger.Error("Failed to run database migrations", slog.Any("error", err))
		return nil, err
	}

	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		return nil, err
	}

	if !database.WaitForDB(ctx, pool, logger) {
		pool.Close()
		return nil, fmt.Errorf("database not ready")
	}
	return pool, nil
}

func build(cfg *config.Config, logger *slog.Logger, pool *pgxpool.Pool, repos repositories) (*Container, error) {
	metrics.InitAppMetrics()
	appMetrics := metrics.Get()
	queryTimeout := cfg.Repositories.QueryTimeout

	auditService := audit.NewAuditService(repos.audit, logger, cfg.Audit.LogLimit, queryTimeout)
	authService := auth.NewAuthService(repos.admins, cfg.JWT, logger).WithMetrics(appMetrics)

	usersEngine := crud.NewEngine(user.NewModel(repos.users), auditService, logger,
		crud.WithQueryTimeout(queryTimeout),
		crud.WithMetrics(appMetrics),
	)
	registry := crud.NewRegistry()
	if err := registry.Register(crud.AsHandle(usersEngine)); err != nil {
		return nil, err
	}

	return &Container{
		Config:       cfg,
		Logger:       logger,
		Pool:         pool,
		AuthService:  authService,
		AuditService: auditService,
		Registry:     registry,
		AuthHandler:  auth.NewAuthHandler(authService, logger),
		CrudHandler:  crud.NewHandler(registry, logger),
		AuditHandler: audit.NewAuditHandler(auditService, logger),
	}, nil
}

// RouterConfig wires the container's handlers into the route table.
func (c *Container) RouterConfig() *router.Config {
	return &router.Config{
		AuthHandler:            c.AuthHandler,
		CrudHandler:            c.CrudHandler,
		AuditHandler:           c.AuditHandler,
		AuthenticateMiddleware: auth.Authenticate(c.AuthService, c.Logger),
		AllowedOrigins:         c.Config.CORS.AllowedOrigins,
	}
}

// Close releases all resources held by the container
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}
