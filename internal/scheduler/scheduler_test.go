package scheduler

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/value-staker/internal/models"
	"github.com/yourusername/value-staker/internal/service"
	"github.com/yourusername/value-staker/internal/staking"
)

type MockPlanner struct {
	mock.Mock
}

func (m *MockPlanner) Plan(ctx context.Context, req service.PlanRequest) (*models.AllocationPlan, error) {
	args := m.Called(ctx, req)
	if plan := args.Get(0); plan != nil {
		return plan.(*models.AllocationPlan), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPlanner) Defaults() staking.Params {
	return staking.DefaultParams()
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestScheduler_StartRequiresJobs(t *testing.T) {
	s := NewScheduler(new(MockPlanner), quietLogger())

	err := s.Start()

	assert.Error(t, err)
	assert.False(t, s.IsRunning())
	assert.True(t, s.NextRun().IsZero())
}

func TestScheduler_InvalidExpression(t *testing.T) {
	s := NewScheduler(new(MockPlanner), quietLogger())

	err := s.SchedulePlans("not a cron", []string{"all"})

	assert.Error(t, err)
	assert.Empty(t, s.Entries())
}

func TestScheduler_Lifecycle(t *testing.T) {
	s := NewScheduler(new(MockPlanner), quietLogger())

	require.NoError(t, s.SchedulePlans("@every 1h", []string{"england"}))
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.True(t, s.IsRunning())
	assert.Len(t, s.Entries(), 1)
	assert.False(t, s.NextRun().IsZero())

	assert.Error(t, s.Start(), "second start must fail")
	assert.Error(t, s.SchedulePlans("@every 1h", nil), "cannot add jobs while running")

	s.Stop()
	assert.False(t, s.IsRunning())
	assert.True(t, s.NextRun().IsZero())
}

func TestScheduler_RunOnce_PersistsEveryCountry(t *testing.T) {
	planner := new(MockPlanner)
	params := staking.DefaultParams()

	planner.On("Plan", mock.Anything, service.PlanRequest{Country: "england", Params: params, Persist: true}).
		Return(&models.AllocationPlan{ID: uuid.New(), Country: "england"}, nil).Once()
	planner.On("Plan", mock.Anything, service.PlanRequest{Country: "spain", Params: params, Persist: true}).
		Return(nil, errors.New("feed down")).Once()
	planner.On("Plan", mock.Anything, service.PlanRequest{Country: "italy", Params: params, Persist: true}).
		Return(&models.AllocationPlan{ID: uuid.New(), Country: "italy"}, nil).Once()

	s := NewScheduler(planner, quietLogger())
	s.RunOnce([]string{"england", "spain", "italy"})

	planner.AssertExpectations(t)
}
