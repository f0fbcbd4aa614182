// Package server wires the auth service together: it opens the database,
// applies migrations, builds the session service and HTTP transport, runs
// the expired-session sweeper and handles graceful shutdown on signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/sessionkeeper/internal/logging"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/config"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/httpserver"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/services"
)

const startupTimeout = 15 * time.Second

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	sweeper    *services.Sweeper
	httpServer *httpserver.HTTPServer
}

// NewApp validates c, connects to the database, runs migrations and
// constructs every component. The returned App owns the connection pool.
func NewApp(c *config.Config) (*App, error) {
	level := slog.LevelInfo
	if c.GinMode == gin.DebugMode {
		level = slog.LevelDebug
	}
	return newApp(c, logging.NewJSONLogger(os.Stdout, level))
}

func newApp(c *config.Config, logger logging.Logger) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	dialect, err := c.Dialect()
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	db, err := repomanager.OpenDB(ctx, dialect, c.DatabaseDSN, repomanager.PoolOptions{
		MaxOpenConns:    c.DBMaxOpenConns,
		MaxIdleConns:    c.DBMaxIdleConns,
		ConnMaxLifetime: c.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm, err := repomanager.NewSQLRepositoryManager(dialect, logger)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	us := services.NewUserService(db, rm, c, logger)
	sw := services.NewSweeper(db, rm, c.SweepInterval, logger)

	hs, err := httpserver.NewHTTPServer(httpserver.Options{
		Address:       c.EndpointAddrHTTP,
		AllowedOrigin: c.CORSAllowedOrigin,
		CookieSecure:  c.CookieSecure,
		SessionTTL:    c.RefreshTokenValidityDuration,
		GinMode:       c.GinMode,
	}, logger, us)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("http server init error: %w", err)
	}

	return &App{
		config:     c,
		logger:     logger,
		db:         db,
		sweeper:    sw,
		httpServer: hs,
	}, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case sig := <-sigs:
			app.logger.Info(ctx, "Signal received", "signal", sig.String())
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.httpServer.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled, a termination signal arrives or the
// HTTP server fails, then releases the database pool.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.sweeper.Run(ctx)
	}()

	wg.Wait()

	if err := app.Close(); err != nil {
		app.logger.Error(context.Background(), "db close error", "error", err)
	}

	app.logger.Info(context.Background(), "App stopped")
}

// Close releases the database pool.
func (app *App) Close() error {
	return app.db.Close()
}
