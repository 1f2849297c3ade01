// Package service composes feeds, the staking engine and storage into allocation plans.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/value-staker/internal/datasource"
	"github.com/yourusername/value-staker/internal/logger"
	"github.com/yourusername/value-staker/internal/metrics"
	"github.com/yourusername/value-staker/internal/models"
	"github.com/yourusername/value-staker/internal/repository"
	"github.com/yourusername/value-staker/internal/staking"
)

// PlanRequest asks for a plan over the feed's matches
type PlanRequest struct {
	Country string
	Params  staking.Params
	// Persist stores the plan and bypasses cached results
	Persist bool
}

// MatchesResponse is the merged match list together with its plan
type MatchesResponse struct {
	Matches     []models.MatchOdds     `json:"matches"`
	Predictions []models.SizedBet      `json:"predictions"`
	Plan        *models.AllocationPlan `json:"plan"`
}

// PlanService builds allocation plans
type PlanService struct {
	feed     datasource.Feed
	plans    repository.AllocationRepository
	cache    *PlanCache
	defaults staking.Params
	logger   *logrus.Logger
	stakeLog *logger.StakingLogger
	audit    *logger.AuditLogger
	now      func() time.Time
}

// NewPlanService creates a plan service. feed, plans and cache may be nil.
func NewPlanService(
	feed datasource.Feed,
	plans repository.AllocationRepository,
	cache *PlanCache,
	defaults staking.Params,
	log *logrus.Logger,
) *PlanService {
	if log == nil {
		log = logrus.New()
	}
	return &PlanService{
		feed:     feed,
		plans:    plans,
		cache:    cache,
		defaults: defaults,
		logger:   log,
		stakeLog: logger.NewStakingLogger(log),
		audit:    logger.NewAuditLogger(log),
		now:      time.Now,
	}
}

// Defaults returns the configured staking parameters
func (s *PlanService) Defaults() staking.Params {
	return s.defaults
}

// HasRepository reports whether plans can be persisted
func (s *PlanService) HasRepository() bool {
	return s.plans != nil
}

// Plan loads matches from the feed and allocates stakes across them
func (s *PlanService) Plan(ctx context.Context, req PlanRequest) (*models.AllocationPlan, error) {
	if s.feed == nil {
		return nil, models.ErrNoFeed
	}
	if err := req.Params.Validate(); err != nil {
		return nil, err
	}

	key := PlanKey(req.Country, req.Params)
	if s.cache != nil && !req.Persist {
		if plan, ok := s.cache.Get(key); ok {
			return plan, nil
		}
	}

	matches, err := s.feed.Matches(ctx, req.Country)
	if err != nil {
		return nil, fmt.Errorf("failed to load matches from %s feed: %w", s.feed.Name(), err)
	}

	plan, err := s.planFromMatches(req.Country, matches, req.Params)
	if err != nil {
		return nil, err
	}

	if req.Persist {
		if err := s.save(ctx, plan); err != nil {
			return nil, err
		}
	}

	// a plan whose save failed is never cached
	if s.cache != nil {
		s.cache.Set(key, plan)
	}

	return plan, nil
}

// AllocateCandidates sizes caller-supplied candidates without touching the feed
func (s *PlanService) AllocateCandidates(ctx context.Context, candidates []models.Candidate, params staking.Params) (*models.AllocationPlan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.allocate("", candidates, params)
}

// Matches returns the merged match rows of a country and the plan built from them
func (s *PlanService) Matches(ctx context.Context, country string) (*MatchesResponse, error) {
	if s.feed == nil {
		return nil, models.ErrNoFeed
	}

	matches, err := s.feed.Matches(ctx, country)
	if err != nil {
		return nil, fmt.Errorf("failed to load matches from %s feed: %w", s.feed.Name(), err)
	}
	if matches == nil {
		matches = []models.MatchOdds{}
	}

	plan, err := s.planFromMatches(country, matches, s.defaults)
	if err != nil {
		return nil, err
	}

	return &MatchesResponse{
		Matches:     matches,
		Predictions: plan.Bets,
		Plan:        plan,
	}, nil
}

// LatestPlans returns the most recently persisted plans
func (s *PlanService) LatestPlans(ctx context.Context, limit int) ([]*models.AllocationPlan, error) {
	if s.plans == nil {
		return nil, models.ErrNoRepository
	}
	return s.plans.GetLatest(ctx, limit)
}

// GetPlan returns a persisted plan by ID
func (s *PlanService) GetPlan(ctx context.Context, id uuid.UUID) (*models.AllocationPlan, error) {
	if s.plans == nil {
		return nil, models.ErrNoRepository
	}
	return s.plans.GetByID(ctx, id)
}

func (s *PlanService) planFromMatches(country string, matches []models.MatchOdds, params staking.Params) (*models.AllocationPlan, error) {
	candidates, errs := staking.CandidatesFromMatches(matches)
	for _, err := range errs {
		s.stakeLog.LogCandidateRejected(country, err.Error())
	}
	if len(errs) > 0 {
		metrics.RecordCandidatesRejected(len(errs))
	}

	return s.allocate(country, candidates, params)
}

func (s *PlanService) allocate(country string, candidates []models.Candidate, params staking.Params) (*models.AllocationPlan, error) {
	start := time.Now()
	result, err := staking.Allocate(candidates, params)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	plan := newPlan(country, params, result, s.now())

	metrics.RecordAllocation(metrics.AllocationStats{
		Candidates:    result.CandidatesTotal,
		ValueBets:     result.ValueBetsTotal,
		Recorded:      len(result.Recorded),
		Retained:      len(result.Bets),
		BelowFloor:    result.BelowFloorTotal,
		Stopped:       result.Stopped,
		FinalBankroll: result.FinalBankroll,
		TotalStaked:   plan.TotalStaked(),
	}, elapsed.Seconds())

	for _, bet := range result.Recorded {
		s.stakeLog.LogBetSized(bet.Fixture(), string(bet.Outcome), bet.Odds, bet.Confidence,
			bet.ValueBet, bet.BetAmount, bet.BankrollAfterBet, bet.BetAmount >= params.MinStake)
	}
	if result.Stopped {
		s.stakeLog.LogStopCondition(result.FinalBankroll, params.MinBankroll, result.ValueBetsTotal-result.Processed)
	}
	s.stakeLog.LogAllocation(plan.ID.String(), country, result.CandidatesTotal, result.ValueBetsTotal,
		len(result.Bets), params.InitialBankroll, result.FinalBankroll, float64(elapsed.Microseconds())/1000)

	return plan, nil
}

func (s *PlanService) save(ctx context.Context, plan *models.AllocationPlan) error {
	if s.plans == nil {
		return models.ErrNoRepository
	}
	if err := s.plans.Save(ctx, plan); err != nil {
		return fmt.Errorf("failed to persist plan: %w", err)
	}
	s.audit.LogPlanPersisted(plan.ID.String(), plan.Country, len(plan.Bets), plan.TotalStaked(), plan.CreatedAt)
	return nil
}

func newPlan(country string, params staking.Params, result staking.Result, now time.Time) *models.AllocationPlan {
	policy := params.SubFloorPolicy
	if policy == "" {
		policy = staking.SubFloorDeduct
	}
	return &models.AllocationPlan{
		ID:              uuid.New(),
		Country:         country,
		InitialBankroll: params.InitialBankroll,
		Fraction:        params.Fraction,
		MinBankroll:     params.MinBankroll,
		MinStake:        params.MinStake,
		SubFloorPolicy:  string(policy),
		FinalBankroll:   result.FinalBankroll,
		CandidatesTotal: result.CandidatesTotal,
		ValueBetsTotal:  result.ValueBetsTotal,
		BelowFloorTotal: result.BelowFloorTotal,
		Stopped:         result.Stopped,
		Bets:            result.Bets,
		CreatedAt:       now.UTC(),
	}
}
