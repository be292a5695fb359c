package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/segyhp/auction-billing/internal/app"
	"github.com/segyhp/auction-billing/internal/config"
	"github.com/segyhp/auction-billing/internal/domain"
	"github.com/segyhp/auction-billing/internal/logger"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const jobTimeout = 10 * time.Minute

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.New(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()
	zap.ReplaceGlobals(zapLogger)

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	application, err := app.New(startCtx, cfg, zapLogger)
	cancelStart()
	if err != nil {
		zapLogger.Fatal("failed to start", zap.String("op", "main"), zap.Error(err))
	}
	defer application.Close()

	cronLog := cronLogger{logger: zapLogger.Sugar()}
	c := cron.New(
		cron.WithLocation(cfg.GetLocation()),
		cron.WithLogger(cronLog),
		cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
	)

	if err := setupCronJobs(c, cfg, application, zapLogger); err != nil {
		zapLogger.Fatal("failed to schedule jobs", zap.Error(err))
	}

	c.Start()
	zapLogger.Info("scheduler started",
		zap.String("sweep_spec", cfg.Scheduler.SweepSpec),
		zap.String("report_spec", cfg.Scheduler.ReportSpec),
		zap.String("timezone", cfg.Scheduler.Timezone),
	)

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("shutting down scheduler")
	<-c.Stop().Done()
	zapLogger.Info("scheduler stopped")
}

func setupCronJobs(c *cron.Cron, cfg *config.Config, application *app.App, zapLogger *zap.Logger) error {
	// Daily sweep refreshing cached statuses and reporting overdue obligations
	if _, err := c.AddFunc(cfg.Scheduler.SweepSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		result, err := application.Service.SweepOverdue(ctx)
		if err != nil {
			zapLogger.Error("overdue sweep failed", zap.String("op", "scheduler.sweep"), zap.Error(err))
			return
		}
		zapLogger.Info("overdue sweep done",
			zap.String("op", "scheduler.sweep"),
			zap.Int("evaluated", result.Evaluated),
			zap.Strings("overdue", result.Overdues),
		)
	}); err != nil {
		return err
	}

	// Weekly workbook of the obligations that are still open
	if _, err := c.AddFunc(cfg.Scheduler.ReportSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		export, err := application.Service.ExportReport(ctx, domain.ObligationFilter{OpenOnly: true})
		if err != nil {
			zapLogger.Error("report export failed", zap.String("op", "scheduler.report"), zap.Error(err))
			return
		}
		zapLogger.Info("report exported",
			zap.String("op", "scheduler.report"),
			zap.String("key", export.Key),
			zap.Int("rows", export.Rows),
		)
	}); err != nil {
		return err
	}

	return nil
}

// cronLogger routes robfig/cron's logging through zap
type cronLogger struct {
	logger *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Errorw(msg, append(keysAndValues, "error", err)...)
}
