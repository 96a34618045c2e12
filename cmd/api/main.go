package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/aulaflow/scheduler/internal/api"
	"github.com/aulaflow/scheduler/internal/app"
	"github.com/aulaflow/scheduler/internal/config"
	"github.com/aulaflow/scheduler/internal/directory"
	"github.com/aulaflow/scheduler/internal/repository"
	"github.com/aulaflow/scheduler/internal/scheduling"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := app.NewPool(ctx, cfg.DBDSN, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath, logger)
	if err != nil {
		logger.Fatal("failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("failed to apply migrations", zap.Error(err))
	}
	migrator.Close()

	sessionRepo := repository.NewSessionRepository(pool)
	teacherRepo := repository.NewTeacherRepository(pool)
	studentRepo := repository.NewStudentRepository(pool)

	teachers := directory.NewTeacherService(teacherRepo, logger)
	students := directory.NewStudentService(studentRepo, logger)
	bookings := scheduling.NewService(sessionRepo, teacherRepo, studentRepo, cfg, logger)

	server := api.NewServer(api.Options{
		Addr:     cfg.HTTPAddr,
		Sessions: bookings,
		Teachers: teachers,
		Students: students,
		Logger:   logger,
	})

	go func() {
		logger.Info("http server listening",
			zap.String("addr", cfg.HTTPAddr),
			zap.String("environment", cfg.Environment),
			zap.Int("max_daily_sessions", cfg.MaxDailySessions),
			zap.Duration("min_lead_time", cfg.MinLeadTime),
		)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
}
