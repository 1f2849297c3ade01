package staking

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/value-staker/internal/models"
)

func TestCandidatesFromMatches(t *testing.T) {
	matches := []models.MatchOdds{
		{
			Home: "Arsenal", Away: "Chelsea",
			HomePercent: 55, DrawPercent: 25, AwayPercent: 20,
			HomeOdds: "2.10", DrawOdds: "3,40", AwayOdds: "3.90",
		},
		{
			Home: "Everton", Away: "Fulham",
			HomePercent: 40, DrawPercent: 30, AwayPercent: 30,
		},
	}

	candidates, errs := CandidatesFromMatches(matches)
	assert.Empty(t, errs)
	require.Len(t, candidates, 3)

	assert.Equal(t, models.OutcomeHome, candidates[0].Outcome)
	assert.Equal(t, models.OutcomeDraw, candidates[1].Outcome)
	assert.Equal(t, models.OutcomeAway, candidates[2].Outcome)
	assert.InDelta(t, 2.10, candidates[0].Odds, 1e-9)
	assert.InDelta(t, 3.40, candidates[1].Odds, 1e-9)
	assert.InDelta(t, 0.55, candidates[0].Confidence, 1e-9)
	assert.InDelta(t, 0.20, candidates[2].Confidence, 1e-9)
	for _, c := range candidates {
		assert.Equal(t, "Arsenal", c.HomeTeam)
		assert.Equal(t, "Chelsea", c.AwayTeam)
	}
}

func TestCandidatesFromMatchesReportsBadOdds(t *testing.T) {
	matches := []models.MatchOdds{
		{Home: "Leeds", Away: "Burnley", HomeOdds: "2.0", DrawOdds: "n/a", AwayOdds: "4.0"},
		{Home: "Wolves", Away: "Brentford", HomePercent: 50, HomeOdds: "2.5", DrawOdds: "3.1", AwayOdds: "2.9"},
	}

	candidates, errs := CandidatesFromMatches(matches)

	require.Len(t, errs, 1)
	assert.True(t, errors.Is(errs[0], models.ErrInvalidOdds))
	assert.Contains(t, errs[0].Error(), "Leeds - Burnley (draw)")
	require.Len(t, candidates, 3)
	assert.Equal(t, "Wolves", candidates[0].HomeTeam)
}

func TestParseOdds(t *testing.T) {
	tests := []struct {
		raw      models.OddsValue
		expected float64
		wantErr  bool
	}{
		{raw: "1.85", expected: 1.85},
		{raw: " 2,5 ", expected: 2.5},
		{raw: "3", expected: 3},
		{raw: "", wantErr: true},
		{raw: "evens", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(string(tt.raw), func(t *testing.T) {
			odds, err := ParseOdds(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, models.ErrInvalidOdds)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, odds, 1e-9)
		})
	}
}
