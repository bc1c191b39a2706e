package cron

import (
	"context"
	"fmt"
	"time"

	"lashstudio/config"
	"lashstudio/models"
	"lashstudio/services/notification"
	"lashstudio/services/tasks"
	"lashstudio/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Dispatcher runs one notification dispatch pass.
type Dispatcher interface {
	DispatchDue(ctx context.Context) (notification.DispatchStats, error)
}

// ReportGenerator stores the analytics summary of one day.
type ReportGenerator interface {
	GenerateDaily(ctx context.Context, day time.Time) (*models.AnalyticsReport, error)
}

// Worker owns the asynq server and the periodic scheduler.
type Worker struct {
	srv       *asynq.Server
	scheduler *asynq.Scheduler
	mux       *asynq.ServeMux
	logger    *zap.Logger
}

func redisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// NewWorker wires the task handlers and registers the periodic jobs.
func NewWorker(dispatcher Dispatcher, reports ReportGenerator, logger *zap.Logger) (*Worker, error) {
	srv := asynq.NewServer(redisOpt(), asynq.Config{
		Concurrency: 2,
		Queues:      map[string]int{"default": 1},
		Logger:      logger.Sugar(),
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeDispatchNotifications, handleDispatch(dispatcher, logger))
	mux.HandleFunc(tasks.TypeDailyAnalytics, handleDailyAnalytics(reports, logger))

	scheduler := asynq.NewScheduler(redisOpt(), &asynq.SchedulerOpts{
		Location: time.UTC,
		Logger:   logger.Sugar(),
	})
	if _, err := scheduler.Register(config.AppConfig.NotificationDispatchSpec, tasks.NewDispatchTask()); err != nil {
		return nil, fmt.Errorf("register dispatch job: %w", err)
	}
	daily, err := tasks.NewDailyAnalyticsTask(nil)
	if err != nil {
		return nil, err
	}
	if _, err := scheduler.Register(config.AppConfig.DailyAnalyticsSpec, daily); err != nil {
		return nil, fmt.Errorf("register analytics job: %w", err)
	}

	return &Worker{srv: srv, scheduler: scheduler, mux: mux, logger: logger}, nil
}

// Start runs the worker and the scheduler in the background, retrying startup
// with a growing delay.
func (w *Worker) Start() {
	go func() {
		const maxAttempts = 5
		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := w.srv.Start(w.mux)
			if err == nil {
				w.logger.Info("task worker started")
				break
			}
			w.logger.Warn("task worker failed to start",
				zap.Int("attempt", attempts),
				zap.Int("maxAttempts", maxAttempts),
				zap.Error(err))
			if attempts == maxAttempts {
				w.logger.Error("task worker gave up; periodic jobs will not run")
				return
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()

	go func() {
		if err := w.scheduler.Run(); err != nil {
			w.logger.Error("task scheduler stopped", zap.Error(err))
		}
	}()
}

// Shutdown stops the scheduler and drains in-flight tasks.
func (w *Worker) Shutdown() {
	w.scheduler.Shutdown()
	w.srv.Shutdown()
}

func handleDispatch(d Dispatcher, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		stats, err := d.DispatchDue(ctx)
		if err != nil {
			logger.Error("notification dispatch failed", zap.Error(err))
			return err
		}
		logger.Info("notification dispatch finished", zap.Int("sent", stats.Sent), zap.Int("failed", stats.Failed))
		return nil
	}
}

func handleDailyAnalytics(r ReportGenerator, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		day, err := tasks.ReportDay(task.Payload(), time.Now())
		if err != nil {
			logger.Error("daily analytics skipped", zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		if _, err := r.GenerateDaily(ctx, day); err != nil {
			logger.Error("daily analytics failed", zap.String("day", day.Format("2006-01-02")), zap.String("code", utils.CodeOf(err)), zap.Error(err))
			return err
		}
		return nil
	}
}
