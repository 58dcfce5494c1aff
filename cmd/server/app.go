package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/almazbisenbaev/tbilingo-app/internal/config"
	"github.com/almazbisenbaev/tbilingo-app/internal/events"
	"github.com/almazbisenbaev/tbilingo-app/internal/platform/postgres"
	"github.com/almazbisenbaev/tbilingo-app/internal/service/auth"
	"github.com/almazbisenbaev/tbilingo-app/internal/service/levels"
	"github.com/almazbisenbaev/tbilingo-app/internal/service/progress"
	"github.com/almazbisenbaev/tbilingo-app/internal/service/session"
	"github.com/almazbisenbaev/tbilingo-app/internal/store"
)

// application holds the assembled dependency graph for the server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore        store.UserStore
	courseStore      store.CourseStore
	itemStore        store.ItemStore
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier

	emitter         *events.InMemoryEmitter
	dispatcher      *dispatcherHandle
	progressService *progress.Service
	sessionManager  *session.Manager
	levelService    *levels.Service
}

// dispatcherHandle wraps the write dispatcher's lifecycle so cleanup can
// stop it exactly once.
type dispatcherHandle struct {
	handler events.Handler
	stop    func()
}

// newApplication connects to the database, runs migrations, and wires
// every service. The returned application owns the DB pool and the
// background write dispatcher; call cleanup on shutdown.
func newApplication(ctx context.Context, cfg *config.Config, log *slog.Logger) (*application, error) {
	db, err := openDatabase(ctx, cfg.Database, log)
	if err != nil {
		return nil, err
	}

	if err := postgres.MigrateUp(ctx, db, log); err != nil {
		closeQuietly(db, log)
		return nil, err
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		closeQuietly(db, log)
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	userStore := postgres.NewPostgresUserStore(db, log)
	courseStore := postgres.NewPostgresCourseStore(db, log)
	itemStore := postgres.NewPostgresItemStore(db, log)
	progressStore := postgres.NewPostgresProgressStore(db, log)
	txRunner := postgres.NewProgressTxRunner(db, progressStore, log)

	progressService := progress.NewService(progressStore, txRunner, itemStore, log)

	emitter := events.NewInMemoryEmitter(log)
	dispatcher := newWriteDispatcher(progressService, cfg.Session.WriteQueueSize, log)
	emitter.RegisterHandler(dispatcher.handler)

	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	sessionManager := session.NewManager(courseStore, itemStore, progressService, emitter, rnd, log)

	levelService := levels.NewService(levels.DefaultRegistry(), courseStore, itemStore, progressService, log)

	return &application{
		config:           cfg,
		logger:           log,
		db:               db,
		userStore:        userStore,
		courseStore:      courseStore,
		itemStore:        itemStore,
		jwtService:       jwtService,
		passwordVerifier: auth.NewBcryptVerifier(),
		emitter:          emitter,
		dispatcher:       dispatcher,
		progressService:  progressService,
		sessionManager:   sessionManager,
		levelService:     levelService,
	}, nil
}

// cleanup stops the background dispatcher (draining queued writes) and
// closes the database pool.
func (app *application) cleanup() {
	app.dispatcher.stop()
	closeQuietly(app.db, app.logger)
}

func openDatabase(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		closeQuietly(db, log)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info("database connection established")
	return db, nil
}

func closeQuietly(db *sql.DB, log *slog.Logger) {
	if err := db.Close(); err != nil {
		log.Error("failed to close database", "error", err)
	}
}
