// Package scheduler recomputes and persists allocation plans on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/value-staker/internal/models"
	"github.com/yourusername/value-staker/internal/service"
	"github.com/yourusername/value-staker/internal/staking"
)

// Planner builds plans for the scheduled jobs
type Planner interface {
	Plan(ctx context.Context, req service.PlanRequest) (*models.AllocationPlan, error)
	Defaults() staking.Params
}

// Scheduler manages scheduled plan jobs
type Scheduler struct {
	cron       *cron.Cron
	planner    Planner
	logger     *logrus.Logger
	mu         sync.RWMutex
	isRunning  bool
	jobIDs     []cron.EntryID
	jobTimeout time.Duration
}

// NewScheduler creates a new scheduler
func NewScheduler(planner Planner, logger *logrus.Logger) *Scheduler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Scheduler{
		cron:       cron.New(cron.WithLocation(time.UTC), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		planner:    planner,
		logger:     logger,
		jobIDs:     make([]cron.EntryID, 0),
		jobTimeout: 5 * time.Minute,
	}
}

// SchedulePlans adds one job that plans and persists every country in turn
func (s *Scheduler) SchedulePlans(cronExpression string, countries []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}
	if len(countries) == 0 {
		countries = []string{"all"}
	}

	entryID, err := s.cron.AddFunc(cronExpression, func() { s.runPlans(countries) })
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithFields(logrus.Fields{
		"schedule":  cronExpression,
		"countries": countries,
	}).Info("Scheduled plan job")

	return nil
}

// RunOnce plans every country immediately, outside the cron loop
func (s *Scheduler) RunOnce(countries []string) {
	s.runPlans(countries)
}

func (s *Scheduler) runPlans(countries []string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
	defer cancel()

	params := s.planner.Defaults()
	for _, country := range countries {
		start := time.Now()
		plan, err := s.planner.Plan(ctx, service.PlanRequest{
			Country: country,
			Params:  params,
			Persist: true,
		})
		if err != nil {
			s.logger.WithError(err).WithField("country", country).Error("Scheduled plan failed")
			continue
		}

		s.logger.WithFields(logrus.Fields{
			"country":        country,
			"plan_id":        plan.ID,
			"bets":           len(plan.Bets),
			"final_bankroll": plan.FinalBankroll,
			"duration_ms":    time.Since(start).Milliseconds(),
		}).Info("Scheduled plan completed")
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop stops the scheduler and waits for running jobs to finish
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	<-s.cron.Stop().Done()
	s.isRunning = false
	s.logger.Info("Scheduler stopped")
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns the time of the next scheduled job run
func (s *Scheduler) NextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			if nextRun.IsZero() || entry.Next.Before(nextRun) {
				nextRun = entry.Next
			}
		}
	}

	return nextRun
}

// Entries returns the scheduled entries
func (s *Scheduler) Entries() []cron.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]cron.Entry, 0, len(s.jobIDs))
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			entries = append(entries, entry)
		}
	}

	return entries
}
