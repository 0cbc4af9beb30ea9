package app

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/haguru/signup/config"
	"github.com/haguru/signup/internal/auth"
	"github.com/haguru/signup/internal/interfaces"
	"github.com/haguru/signup/internal/middleware"
	"github.com/haguru/signup/internal/routes"
	"github.com/haguru/signup/internal/server"
	mongoUserRepo "github.com/haguru/signup/internal/userrepo/mongo"
	postgresUserRepo "github.com/haguru/signup/internal/userrepo/postgres"
	"github.com/haguru/signup/internal/userservice"
	"github.com/haguru/signup/pkg/databases/mongo"
	"github.com/haguru/signup/pkg/databases/postgres"
	"github.com/haguru/signup/pkg/metrics"
	"github.com/haguru/signup/pkg/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	structValidator "github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ShutdownTimeout bounds how long Run waits for in-flight requests on exit.
var ShutdownTimeout = 10 * time.Second

// App represents the main application, containing server and configuration.
// It initializes with a config file, validates settings, and manages routes.
type App struct {
	Server     interfaces.Server
	Config     *config.ServiceConfig
	Logger     interfaces.Logger
	Metrics    interfaces.Metrics
	UserRepo   interfaces.UserRepository
	privateKey *ecdsa.PrivateKey
}

// NewApp creates and configures a new App instance.
func NewApp(configPath string) (*App, error) {
	cfg, err := config.ReadLocalConfig(configPath)
	if err != nil {
		return nil, err
	}

	logger := zerolog.NewZerologLogger(cfg.ServiceName)
	logger.SetLevel(cfg.LogLevel)

	app := &App{
		Config: cfg,
		Logger: logger,
	}

	validator := structValidator.New()
	if err := cfg.Validate(validator); err != nil {
		return nil, err
	}

	app.Server = server.NewServer(cfg.Host, cfg.Port, logger)
	app.Metrics = app.initializeMetrics()

	if err := app.initializePrivateKey(); err != nil {
		return nil, fmt.Errorf("failed to initialize private key: %w", err)
	}

	dbClient, err := app.initializeDBClient(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database client: %w", err)
	}

	userRepo, err := app.initializeUserRepo(context.Background(), dbClient)
	if err != nil {
		_ = dbClient.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to initialize user repository: %w", err)
	}
	app.UserRepo = userRepo

	userService := userservice.NewUserService(userRepo, logger)

	route := routes.NewRoute(app.Metrics, userService, app.privateKey, validator, logger, cfg.Session, dbClient)

	if err := app.addRoutes(route); err != nil {
		_ = userRepo.Close(context.Background())
		return nil, err
	}

	return app, nil
}

// Run serves until ctx is cancelled or the process receives SIGINT/SIGTERM,
// then drains in-flight requests and closes the database.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- app.Server.ListenAndServe()
	}()

	var runErr error
	select {
	case err := <-serveErr:
		runErr = err
	case <-ctx.Done():
		app.Logger.Info("Shutdown requested", "service", app.Config.ServiceName)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := app.Server.Shutdown(shutdownCtx); err != nil {
			runErr = fmt.Errorf("failed to shut down server: %w", err)
		}
	}

	if app.UserRepo != nil {
		closeCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := app.UserRepo.Close(closeCtx); err != nil {
			runErr = errors.Join(runErr, fmt.Errorf("failed to close user repository: %w", err))
		}
	}

	return runErr
}

func (app *App) addRoutes(route *routes.Route) error {
	metricsHandler := promhttp.HandlerFor(
		app.Metrics.GetRegistry(),
		promhttp.HandlerOpts{})
	tracedMetricsHandler := otelhttp.NewHandler(metricsHandler, routes.MetricsRouteAPI)

	limited := func(path string, handler http.HandlerFunc) http.HandlerFunc {
		limiter := middleware.NewLimiter(app.Config.RateLimit.RequestsPerSecond, app.Config.RateLimit.Burst)
		return middleware.RateLimitMiddleware(limiter, path, app.Metrics, app.Logger)(handler).ServeHTTP
	}

	table := []struct {
		path    string
		handler http.HandlerFunc
	}{
		{routes.MetricsRouteAPI, tracedMetricsHandler.ServeHTTP},
		{routes.HealthRouteAPI, route.Health},
		{routes.CheckIDRouteAPI, limited(routes.CheckIDRouteAPI, route.CheckID)},
		{routes.SignupRouteAPI, route.Signup},
		{routes.LoginRouteAPI, limited(routes.LoginRouteAPI, route.Login)},
		{routes.WithdrawRouteAPI, route.Withdraw},
		{routes.LogoutRouteAPI, route.Logout},
	}
	for _, entry := range table {
		if err := app.Server.AddRoute(entry.path, entry.handler); err != nil {
			return fmt.Errorf("failed to add route %s: %w", entry.path, err)
		}
	}

	return nil
}

func (app *App) initializeMetrics() interfaces.Metrics {
	appMetrics := metrics.NewMetrics(app.Config.ServiceName)
	routes.RegisterMetrics(appMetrics)
	middleware.RegisterMetrics(appMetrics)
	return appMetrics
}

func (app *App) initializeDBClient(ctx context.Context) (interfaces.DBClient, error) {
	var dbClient interfaces.DBClient
	var dsn string
	var err error

	switch app.Config.Database.Type {
	case config.DatabaseMongo:
		dbClient, err = mongo.NewMongoDB(&app.Config.Database.MongoDB, app.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize MongoDB client: %w", err)
		}
		dsn = app.Config.Database.MongoDB.DSN

	case config.DatabasePostgres:
		dbClient = postgres.NewPostgresDatabaseClient(&app.Config.Database.Postgres)
		dsn = app.Config.Database.Postgres.DSN

	default:
		return nil, fmt.Errorf("unsupported database type: %s", app.Config.Database.Type)
	}

	if err = dbClient.Connect(ctx, dsn); err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", app.Config.Database.Type, err)
	}
	app.Logger.Info("Database connected", "type", app.Config.Database.Type)

	return dbClient, nil
}

func (app *App) initializeUserRepo(ctx context.Context, dbClient interfaces.DBClient) (interfaces.UserRepository, error) {
	var userRepo interfaces.UserRepository
	var err error

	switch app.Config.Database.Type {
	case config.DatabaseMongo:
		userRepo, err = mongoUserRepo.NewMongoUserRepository(dbClient)
	case config.DatabasePostgres:
		userRepo, err = postgresUserRepo.NewPostgresUserRepository(dbClient)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", app.Config.Database.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s repository: %w", app.Config.Database.Type, err)
	}

	if err = userRepo.EnsureIndices(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure indices: %w", err)
	}

	return userRepo, nil
}

func (app *App) initializePrivateKey() error {
	if app.Config.PrivateKeyPath == "" {
		return fmt.Errorf("private key path is not provided in the configuration")
	}

	privateKey, created, err := auth.LoadOrCreateECDSAPrivateKey(app.Config.PrivateKeyPath)
	if err != nil {
		return fmt.Errorf("failed to load private key: %w", err)
	}
	if created {
		app.Logger.Warn("Generated a new signing key", "path", app.Config.PrivateKeyPath)
	}

	app.privateKey = privateKey
	return nil
}
