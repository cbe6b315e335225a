// Package scheduler drives the daily jobs with cron. Every run writes a
// START row and a terminal SUCCESS or FAILED row to scheduler_logs, and a
// redis lock keeps overlapping instances from double-running a job.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"propman-be-svc/internal/config"
	"propman-be-svc/internal/jobs"
	"propman-be-svc/internal/models"
	"propman-be-svc/internal/repository"
	"propman-be-svc/pkg/logger"
)

const lockTTL = time.Hour

// Job is a schedulable unit of work
type Job interface {
	Run(ctx context.Context) error
}

// Scheduler owns the cron instance and the registered jobs
type Scheduler struct {
	cron    *cron.Cron
	cfg     config.SchedulerConfig
	logRepo repository.SchedulerLogRepository
	redis   *redis.Client
	logger  *logger.Logger
}

// New creates a scheduler. The redis client may be nil; the overlap guard
// is then skipped.
func New(cfg config.SchedulerConfig, logRepo repository.SchedulerLogRepository, redisClient *redis.Client, log *logger.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		cfg:     cfg,
		logRepo: logRepo,
		redis:   redisClient,
		logger:  log,
	}
}

// Register binds the three daily jobs to their cron expressions
func (s *Scheduler) Register(overdue, reminder, maintenance Job) error {
	entries := []struct {
		code string
		expr string
		job  Job
	}{
		{jobs.JobCodeOverdue, s.cfg.OverdueCronExpression, overdue},
		{jobs.JobCodeReminder, s.cfg.ReminderCronExpression, reminder},
		{jobs.JobCodeMaintenance, s.cfg.FollowUpCronExpression, maintenance},
	}

	for _, e := range entries {
		code, job := e.code, e.job
		if _, err := s.cron.AddFunc(e.expr, func() {
			s.runJob(code, job)
		}); err != nil {
			return fmt.Errorf("failed to schedule %s: %w", code, err)
		}
	}
	return nil
}

// Start launches the cron loop in its own goroutine
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler started")
}

// Stop halts the cron loop and waits for running jobs to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Scheduler stopped")
}

// runJob wraps one execution with locking and run logging
func (s *Scheduler) runJob(code string, job Job) {
	ctx := context.Background()

	if !s.acquireLock(ctx, code) {
		s.logger.WithField("job", code).Info("Job already running elsewhere, skipping")
		return
	}

	runID := uuid.NewString()
	log := s.logger.WithFields(map[string]interface{}{"job": code, "run_id": runID})

	s.record(runID, code, models.SchedulerRunStart, "")
	log.Info("Job started")

	start := time.Now()
	if err := job.Run(ctx); err != nil {
		s.record(runID, code, models.SchedulerRunFailed, err.Error())
		log.WithError(err).Error("Job failed")
		// A failed run releases the lock so a retry can go through
		s.releaseLock(ctx, code)
		return
	}

	s.record(runID, code, models.SchedulerRunSuccess, fmt.Sprintf("completed in %s", time.Since(start).Round(time.Millisecond)))
	log.WithField("duration", time.Since(start).String()).Info("Job finished")
}

func (s *Scheduler) record(runID, code, status, message string) {
	entry := &models.SchedulerLog{
		RunID:   runID,
		JobCode: code,
		Status:  status,
		Message: message,
	}
	if err := s.logRepo.Create(entry); err != nil {
		s.logger.WithError(err).WithField("job", code).Error("Failed to write scheduler log")
	}
}

func (s *Scheduler) acquireLock(ctx context.Context, code string) bool {
	if s.redis == nil {
		return true
	}
	key := s.lockKey(code)
	ok, err := s.redis.SetNX(ctx, key, 1, lockTTL).Result()
	if err != nil {
		s.logger.WithError(err).Warn("Job lock unavailable, running without it")
		return true
	}
	return ok
}

func (s *Scheduler) releaseLock(ctx context.Context, code string) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, s.lockKey(code)).Err(); err != nil {
		s.logger.WithError(err).Warn("Failed to release job lock")
	}
}

func (s *Scheduler) lockKey(code string) string {
	return fmt.Sprintf("scheduler:lock:%s:%s", code, time.Now().Format("2006-01-02"))
}
