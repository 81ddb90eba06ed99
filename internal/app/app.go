// Package app initializes and runs the main application service.
// It configures logging, storage, authentication, schema and routing,
// and handles graceful shutdown.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/akraevsky/bkmrks/internal/auth"
	"github.com/akraevsky/bkmrks/internal/bookmarks"
	"github.com/akraevsky/bkmrks/internal/config"
	"github.com/akraevsky/bkmrks/internal/db/jsondb"
	"github.com/akraevsky/bkmrks/internal/db/memorystorage"
	"github.com/akraevsky/bkmrks/internal/db/postgresdb"
	"github.com/akraevsky/bkmrks/internal/db/storage"
	"github.com/akraevsky/bkmrks/internal/gql"
	"github.com/akraevsky/bkmrks/internal/logger"
	"github.com/akraevsky/bkmrks/internal/models"
	"github.com/akraevsky/bkmrks/internal/router"
	"github.com/akraevsky/bkmrks/internal/tags"
	"github.com/akraevsky/bkmrks/internal/users"
)

// App encapsulates the configuration, HTTP handler and storage backend
// needed to run the bookmark service.
type App struct {
	cfg         *config.Config
	db          storage.Storage
	httpHandler http.Handler
}

// New initializes a new instance of App by:
// - loading configuration
// - initializing logger
// - selecting and setting up storage
// - building the GraphQL schema and the router
func New() (*App, error) {
	var err error
	app := &App{}

	app.cfg, err = config.New()
	if err != nil {
		return nil, err
	}

	err = logger.Init(app.cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	app.db, err = getStorageByType(app.cfg)
	if err != nil {
		return nil, err
	}

	tokens := auth.NewManager([]byte(app.cfg.JWTSecret), app.cfg.TokenTTL)

	resolver := gql.NewResolver(
		users.New(app.db),
		tags.New(app.db),
		bookmarks.New(app.db),
		tokens,
		app.cfg.AuthCookieName,
	)

	schema, err := gql.NewSchema(resolver)
	if err != nil {
		return nil, err
	}

	app.httpHandler = router.New(
		app.db,
		schema,
		auth.New(tokens, app.cfg.AuthCookieName),
	)

	return app, nil
}

// Run starts the HTTP server with graceful shutdown support.
// It listens for system signals and cleans up resources upon termination.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Log.Infoln("server running", "RunAddr", a.cfg.RunAddr())

	server := &http.Server{
		Addr:    a.cfg.RunAddr(),
		Handler: a.httpHandler,
	}

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Log.Infoln("Received shutdown signal. Saving database and exiting...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}

		return a.db.Close()

	case err := <-serverErrCh:
		return fmt.Errorf("server error: %w", err)
	}
}

// Close finalizes resources used by App such as logging.
func (a *App) Close() {
	if err := logger.Sync(); err != nil {
		fmt.Println("Logger sync error:", err)
	}
}

func getAvailableStorageType(cfg *config.Config) int {
	if cfg.DatabaseDSN != "" {
		return models.StorageTypePostgresql
	}

	if cfg.DBFileName != "" {
		return models.StorageTypeFile
	}

	return models.StorageTypeMemory
}

func getStorageByType(cfg *config.Config) (storage.Storage, error) {
	switch getAvailableStorageType(cfg) {
	case models.StorageTypeUnknown:
		return nil, errors.New("unknown storage type")

	case models.StorageTypePostgresql:
		return postgresdb.New(
			context.Background(),
			cfg.DatabaseDSN,
			cfg.DBConnectionTimeout,
			cfg.MigrationsDir,
		)

	case models.StorageTypeFile:
		return jsondb.New(cfg.DBFileName)
	}

	return memorystorage.New()
}
