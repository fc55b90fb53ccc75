package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/golang-cz/devslog"
	_ "github.com/lib/pq"

	"github.com/bokjinews/blog/internal/auth"
	"github.com/bokjinews/blog/internal/config"
	"github.com/bokjinews/blog/internal/content"
	"github.com/bokjinews/blog/internal/core"
	"github.com/bokjinews/blog/internal/filestore"
	"github.com/bokjinews/blog/internal/storage"
	"github.com/bokjinews/blog/internal/utils/databaseutils"
	"github.com/bokjinews/blog/models"
)

// postResolver is what the post handlers need from the resolution layer.
type postResolver interface {
	ListPosts(ctx context.Context) ([]models.Post, error)
	GetPost(ctx context.Context, slug string) (*content.PostContent, error)
	SavePost(ctx context.Context, slug string, frontmatter models.Frontmatter, body string, author *auth.User) (string, error)
	DeletePost(ctx context.Context, slug string) error
	HasHostedStore() bool
}

// userStore is what the account and admin handlers need. It is nil when
// no database is configured.
type userStore interface {
	CreateProfile(ctx context.Context, user *auth.User) error
	GetProfileByEmail(ctx context.Context, email string) (*auth.User, error)
	GetProfileByID(ctx context.Context, id int64) (*auth.User, error)
	ListProfiles(ctx context.Context, status string) ([]*models.Profile, error)
	ProcessApproval(ctx context.Context, userID int64, status string, adminID int64) (*models.Profile, error)
	UpdateRole(ctx context.Context, userID int64, role string) (*models.Profile, error)
}

type application struct {
	config   *config.Config
	logger   *slog.Logger
	auth     *auth.Auth
	users    userStore
	resolver postResolver
	uploads  *storage.Store
	wg       sync.WaitGroup
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("Errors loading configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger := configLogger(cfg.LogLevel)
	logger.Info("Starting application...")

	var users userStore
	var hosted content.HostedStore

	if cfg.HasDatabase() {
		db, err := openDBConnection(cfg.DatabaseURL)
		if err != nil {
			logger.Error("Errors opening database connection", "error", err)
			os.Exit(1)
		}

		defer func() {
			if err := db.Close(); err != nil {
				logger.Error("Errors closing database connection", "error", err)
			}
		}()

		logger.Info("Database connection established successfully")

		c := core.NewCore(db, logger, databaseutils.NewSQLTemplate(db, 3*time.Second))
		users = c
		hosted = c
	} else {
		logger.Info("No database configured, using the content file store", "content_dir", cfg.ContentDir)
	}

	files := filestore.New(cfg.ContentDir, logger)

	app := application{
		config:   cfg,
		logger:   logger,
		auth:     auth.New(cfg.JWTSecret, cfg.TokenTTL),
		users:    users,
		resolver: content.NewResolver(logger, files, hosted),
		uploads:  storage.New(cfg.UploadDir, cfg.UploadBaseURL, logger),
		wg:       sync.WaitGroup{},
	}

	if err := app.serve(); err != nil {
		logger.Error("Errors starting server", "error", err)
		os.Exit(1)
	}
}

func configLogger(level string) *slog.Logger {
	logLevel := slog.LevelDebug
	if err := logLevel.UnmarshalText([]byte(level)); err != nil {
		logLevel = slog.LevelDebug
	}

	handler := devslog.NewHandler(
		os.Stdout, &devslog.Options{
			HandlerOptions: &slog.HandlerOptions{
				AddSource: true,
				Level:     logLevel,
			},
			NewLineAfterLog: false,
		})

	logger := slog.New(handler)
	return logger
}

func openDBConnection(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(10)
	db.SetConnMaxIdleTime(10 * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	return db, nil
}
