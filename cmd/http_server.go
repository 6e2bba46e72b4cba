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

	"github.com/frahmantamala/customer-onboarding/internal"
	"github.com/frahmantamala/customer-onboarding/internal/account"
	accountPostgres "github.com/frahmantamala/customer-onboarding/internal/account/postgres"
	"github.com/frahmantamala/customer-onboarding/internal/auth"
	authPostgres "github.com/frahmantamala/customer-onboarding/internal/auth/postgres"
	"github.com/frahmantamala/customer-onboarding/internal/core/events"
	"github.com/frahmantamala/customer-onboarding/internal/customer"
	customerPostgres "github.com/frahmantamala/customer-onboarding/internal/customer/postgres"
	"github.com/frahmantamala/customer-onboarding/internal/docstore"
	"github.com/frahmantamala/customer-onboarding/internal/refdata"
	refdataPostgres "github.com/frahmantamala/customer-onboarding/internal/refdata/postgres"
	"github.com/frahmantamala/customer-onboarding/internal/transport"
	"github.com/frahmantamala/customer-onboarding/internal/transport/rest"
	"github.com/frahmantamala/customer-onboarding/internal/user"
	userPostgres "github.com/frahmantamala/customer-onboarding/internal/user/postgres"
	"github.com/frahmantamala/customer-onboarding/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
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
	GormDB   *gorm.DB
	Router   *chi.Mux
	Logger   *slog.Logger
	Docstore *docstore.Client

	AuthHandler     *auth.Handler
	UserHandler     *user.Handler
	CustomerHandler *customer.Handler
	AccountHandler  *account.Handler
	RefdataHandler  *refdata.Handler
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		deps.Docstore.Shutdown()
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) {
	rest.RegisterAllRoutes(
		deps.Router,
		deps.DB.DB,
		deps.AuthHandler,
		deps.UserHandler,
		deps.CustomerHandler,
		deps.AccountHandler,
		deps.RefdataHandler,
		deps.Logger,
	)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"), config.Observability.Logging.Level)
	log := logger.L()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	router := chi.NewRouter()
	baseHandler := transport.NewBaseHandler(log)
	eventBus := events.NewEventBus(log)

	// Auth: token generator, session store, permission resolver and guard
	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	evaluator := auth.Evaluator{SkewTolerance: config.Security.ClockSkewTolerance}
	sessions := auth.NewSessionStore(evaluator)

	authRepo := authPostgres.NewRepository(gormDB)
	resolver := auth.NewResolver(authRepo, log)
	guard := auth.NewGuard(evaluator, resolver, log)
	authService := auth.NewService(authRepo, tokenGen, sessions, log, config.Security.BCryptCost)
	authHandler := auth.NewHandler(authService, sessions, guard)

	// Users, roles and permissions
	userRepo := userPostgres.NewRepository(gormDB)
	userService := user.NewService(userRepo, log)
	userHandler := user.NewHandler(userService)

	// Document store client with background upload workers
	docstoreClient := docstore.NewClient(docstore.Config{
		BaseURL:       config.DocumentStore.BaseURL,
		APIKey:        config.DocumentStore.APIKey,
		UploadTimeout: config.DocumentStore.UploadTimeout,
		MaxWorkers:    config.DocumentStore.MaxWorkers,
		JobQueueSize:  config.DocumentStore.JobQueueSize,
	}, log)

	// Customers
	customerRepo := customerPostgres.NewCustomerRepository(gormDB)
	customerService := customer.NewService(customerRepo, eventBus, log)
	customerHandler := customer.NewHandler(customerService)

	uploadHandler := customer.NewUploadEventHandler(docstoreClient, customerRepo, log)
	uploadHandler.Register(eventBus)

	// Background retries report back through the result handler
	docstoreClient.SetResultHandler(func(job docstore.UploadJob, storageRef string, err error) {
		if err != nil {
			if updErr := customerRepo.UpdateDocumentUpload(job.DocumentID, customer.UploadStatusFailed, nil); updErr != nil {
				log.Error("failed to record upload failure", "document_id", job.DocumentID, "error", updErr)
			}
			return
		}
		if updErr := customerRepo.UpdateDocumentUpload(job.DocumentID, customer.UploadStatusUploaded, &storageRef); updErr != nil {
			log.Error("failed to record upload success", "document_id", job.DocumentID, "error", updErr)
		}
	})

	// Accounts
	accountRepo := accountPostgres.NewAccountRepository(gormDB)
	accountService := account.NewService(accountRepo, log)
	accountHandler := account.NewHandler(accountService)

	// Reference data
	countryRepo := refdataPostgres.NewCountryRepository(gormDB)
	refdataService := refdata.NewService(countryRepo, log)
	refdataHandler := refdata.NewHandler(baseHandler, refdataService)

	return &Dependencies{
		Config:   config,
		Logger:   log,
		DB:       db,
		GormDB:   gormDB,
		Router:   router,
		Docstore: docstoreClient,

		AuthHandler:     authHandler,
		UserHandler:     userHandler,
		CustomerHandler: customerHandler,
		AccountHandler:  accountHandler,
		RefdataHandler:  refdataHandler,
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm layers the ORM over the already-open pgx connection so both
// share one pool.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(gormPostgres.New(gormPostgres.Config{
		Conn: db.DB,
	}), &gorm.Config{})
}
