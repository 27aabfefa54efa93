package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/project-management/api"
	"github.com/frahmantamala/project-management/internal"
	"github.com/frahmantamala/project-management/internal/approval"
	approvalPostgres "github.com/frahmantamala/project-management/internal/approval/postgres"
	"github.com/frahmantamala/project-management/internal/auth"
	"github.com/frahmantamala/project-management/internal/core/events"
	"github.com/frahmantamala/project-management/internal/notification"
	"github.com/frahmantamala/project-management/internal/pto"
	ptoPostgres "github.com/frahmantamala/project-management/internal/pto/postgres"
	"github.com/frahmantamala/project-management/internal/timesheet"
	timesheetPostgres "github.com/frahmantamala/project-management/internal/timesheet/postgres"
	"github.com/frahmantamala/project-management/internal/transport/openapi"
	"github.com/frahmantamala/project-management/internal/transport/rest"
	"github.com/frahmantamala/project-management/internal/user"
	userPostgres "github.com/frahmantamala/project-management/internal/user/postgres"
	"github.com/frahmantamala/project-management/pkg/logger"

	"github.com/go-chi/chi"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *sqlx.DB
	Gorm     *gorm.DB
	Pool     *pgxpool.Pool
	EventBus *events.EventBus
	Router   *chi.Mux
	Logger   *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	if err := setupRoutes(deps); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up routes: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		// let in-flight notifications finish before the pools go away
		deps.EventBus.Wait()
		deps.Pool.Close()
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) error {
	lg := deps.Logger
	cfg := deps.Config

	users := user.NewService(userPostgres.NewRepository(deps.Pool), lg)

	notification.NewEventHandler(users, nil, lg).RegisterEventHandlers(deps.EventBus)

	ptoService := pto.NewService(ptoPostgres.NewPTORepository(deps.Gorm), users, lg)
	timesheetService := timesheet.NewService(timesheetPostgres.NewTimesheetRepository(deps.Gorm), users, lg)
	guard := approval.NewGuard(approvalPostgres.NewApprovalRepository(deps.Gorm), users, deps.EventBus, lg)

	tokens := auth.NewTokenIssuer(cfg.Security.JWTSecret, cfg.Security.JWTIssuer, cfg.Security.AccessTokenDuration)

	var validator *openapi.Validator
	if cfg.Server.ValidateRequests {
		doc, err := openapi.Load(context.Background(), api.OpenAPI)
		if err != nil {
			return err
		}
		if validator, err = openapi.NewValidator(doc, lg); err != nil {
			return err
		}
	}

	rest.RegisterAllRoutes(deps.Router, rest.Routes{
		Authenticator: auth.NewAuthenticator(tokens, users, lg),
		RBAC:          auth.NewRBACAuthorization(lg),
		Validator:     validator,
		User:          user.NewHandler(users, lg),
		PTO:           pto.NewHandler(ptoService, lg),
		Timesheet:     timesheet.NewHandler(timesheetService, lg),
		Approval:      approval.NewHandler(guard, lg),
		HealthChecks: map[string]rest.Check{
			"postgres": deps.DB.PingContext,
			"pgxpool":  deps.Pool.Ping,
		},
		AllowedOrigins: allowedOrigins(cfg.Server.AllowedOrigins),
	}, lg)
	return nil
}

func initializeDependencies(ctx context.Context) (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gdb, err := initGorm(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	pool, err := initPool(ctx, config.Database)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize pgx pool: %w", err)
	}

	lg := logger.LoggerWrapper()
	return &Dependencies{
		Config:   config,
		Logger:   lg,
		DB:       db,
		Gorm:     gdb,
		Pool:     pool,
		EventBus: events.NewEventBus(lg),
		Router:   chi.NewRouter(),
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm shares the sqlx connection pool with gorm.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Warn),
		TranslateError: true,
	})
}

func initPool(ctx context.Context, cfg internal.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.GetDSN())
	if err != nil {
		return nil, err
	}
	if cfg.MaxOpenConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxOpenConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	}
	if cfg.ConnMaxIdleTime > 0 {
		poolCfg.MaxConnIdleTime = cfg.ConnMaxIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping pgx pool: %w", err)
	}
	return pool, nil
}
