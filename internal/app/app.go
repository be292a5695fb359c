package app

import (
	"context"
	"fmt"

	"github.com/segyhp/auction-billing/internal/clients"
	"github.com/segyhp/auction-billing/internal/config"
	"github.com/segyhp/auction-billing/internal/repository"
	"github.com/segyhp/auction-billing/internal/service"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// App holds the connections and the service shared by the server and the scheduler
type App struct {
	Config  *config.Config
	Logger  *zap.Logger
	DB      *sqlx.DB
	Redis   *redis.Client
	Service *service.ObligationService
	// Files is set when reports are written to local disk instead of S3
	Files *clients.LocalStorage
}

// New connects to postgres and redis, applies the schema and builds the obligation service
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	db, err := initDB(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := repository.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	redisClient := initRedis(cfg)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		// the status cache is optional; reads fall back to postgres
		logger.Warn("redis unavailable at startup",
			zap.String("op", "app.New"),
			zap.String("addr", cfg.Redis.Addr()),
			zap.Error(err),
		)
	}

	a := &App{
		Config: cfg,
		Logger: logger,
		DB:     db,
		Redis:  redisClient,
	}

	store, err := a.reportStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Service, err = service.NewObligationService(
		repository.NewObligationRepository(db),
		repository.NewPaymentRepository(db),
		repository.NewStatusCache(redisClient, cfg.GetStatusTTL()),
		cfg,
		logger,
		service.WithReportStore(store),
	)
	if err != nil {
		a.Close()
		return nil, err
	}

	return a, nil
}

// Close releases the database and redis connections
func (a *App) Close() {
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.DB != nil {
		_ = a.DB.Close()
	}
}

func (a *App) reportStore(ctx context.Context) (service.ReportStore, error) {
	if !a.Config.S3Enabled() {
		files, err := clients.NewLocalStorage(a.Config.S3.LocalDir, "/files")
		if err != nil {
			return nil, err
		}
		a.Files = files
		a.Logger.Info("reports stored on local disk",
			zap.String("op", "app.reportStore"),
			zap.String("dir", files.BaseDir),
		)
		return files, nil
	}

	s3, err := clients.NewS3Client(a.Config.S3, a.Config.GetPresignTTL())
	if err != nil {
		return nil, err
	}
	if err := s3.EnsureBucket(ctx, a.Config.S3.Region); err != nil {
		return nil, err
	}
	a.Logger.Info("reports stored in s3",
		zap.String("op", "app.reportStore"),
		zap.String("endpoint", a.Config.S3.Endpoint),
		zap.String("bucket", a.Config.S3.Bucket),
	)
	return s3, nil
}

func initDB(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.Database.DSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}
