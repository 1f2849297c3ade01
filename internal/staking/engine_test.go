package staking

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/value-staker/internal/models"
)

const delta = 1e-6

func candidate(home string, outcome models.Outcome, odds, confidence float64) models.Candidate {
	return models.Candidate{
		HomeTeam:   home,
		AwayTeam:   home + " Away",
		Outcome:    outcome,
		Odds:       odds,
		Confidence: confidence,
	}
}

func params(initial, fraction, minBankroll float64) Params {
	p := DefaultParams()
	p.InitialBankroll = initial
	p.Fraction = fraction
	p.MinBankroll = minBankroll
	return p
}

func TestAllocateEmptyCandidates(t *testing.T) {
	result, err := Allocate(nil, params(10000, 3, 100))
	require.NoError(t, err)

	assert.Empty(t, result.Bets)
	assert.Empty(t, result.Recorded)
	assert.Equal(t, 10000.0, result.FinalBankroll)
	assert.False(t, result.Stopped)
}

func TestAllocateSingleProfitableBet(t *testing.T) {
	result, err := Allocate([]models.Candidate{
		candidate("Arsenal", models.OutcomeHome, 3.0, 0.5),
	}, params(10000, 3, 100))
	require.NoError(t, err)
	require.Len(t, result.Bets, 1)

	bet := result.Bets[0]
	assert.InDelta(t, 1.5, bet.ValueBet, delta)
	assert.InDelta(t, 833.333333, bet.BetAmount, delta)
	assert.InDelta(t, 9166.666667, bet.BankrollAfterBet, delta)
	assert.InDelta(t, 1666.666667, bet.PossibleProfit, delta)
	assert.InDelta(t, 9166.666667, result.FinalBankroll, delta)
	assert.Equal(t, "Arsenal", bet.HomeTeam)
	assert.Equal(t, models.OutcomeHome, bet.Outcome)
}

func TestAllocateUnprofitableBetFiltered(t *testing.T) {
	result, err := Allocate([]models.Candidate{
		candidate("Chelsea", models.OutcomeAway, 1.5, 0.5),
	}, params(10000, 3, 100))
	require.NoError(t, err)

	assert.Empty(t, result.Bets)
	assert.Equal(t, 0, result.ValueBetsTotal)
	assert.Equal(t, 10000.0, result.FinalBankroll)
}

func TestAllocateStopsWhenBankrollExhausted(t *testing.T) {
	// Full Kelly on near-certain evens drives the bankroll under the
	// threshold after the second bet.
	candidates := []models.Candidate{
		candidate("C", models.OutcomeHome, 2.0, 0.9),
		candidate("A", models.OutcomeHome, 2.0, 0.99),
		candidate("E", models.OutcomeHome, 2.0, 0.7),
		candidate("B", models.OutcomeHome, 2.0, 0.95),
		candidate("D", models.OutcomeHome, 2.0, 0.8),
	}

	result, err := Allocate(candidates, params(10000, 1, 100))
	require.NoError(t, err)

	require.Len(t, result.Recorded, 2)
	require.Len(t, result.Bets, 2)
	assert.Equal(t, "A", result.Bets[0].HomeTeam)
	assert.Equal(t, "B", result.Bets[1].HomeTeam)
	assert.InDelta(t, 9800, result.Bets[0].BetAmount, delta)
	assert.InDelta(t, 180, result.Bets[1].BetAmount, delta)
	assert.InDelta(t, 20, result.FinalBankroll, delta)
	assert.True(t, result.Stopped)
	assert.Equal(t, 5, result.ValueBetsTotal)

	for _, bet := range result.Recorded {
		assert.NotContains(t, []string{"C", "D", "E"}, bet.HomeTeam)
	}
}

func TestAllocateDeductsSubFloorStakeFromBankroll(t *testing.T) {
	// f* = 0.006, a third of it on 10000 is a stake of 20.
	result, err := Allocate([]models.Candidate{
		candidate("Fulham", models.OutcomeHome, 2.0, 0.503),
	}, params(10000, 3, 100))
	require.NoError(t, err)

	assert.Empty(t, result.Bets)
	require.Len(t, result.Recorded, 1)
	assert.InDelta(t, 20, result.Recorded[0].BetAmount, delta)
	assert.InDelta(t, 9980, result.FinalBankroll, delta)
	assert.Equal(t, 1, result.BelowFloorTotal)
}

func TestAllocateSkipsSubFloorStakeWithoutDeduction(t *testing.T) {
	p := params(10000, 3, 100)
	p.SubFloorPolicy = SubFloorSkip

	result, err := Allocate([]models.Candidate{
		candidate("Fulham", models.OutcomeHome, 2.0, 0.503),
	}, p)
	require.NoError(t, err)

	assert.Empty(t, result.Bets)
	assert.Empty(t, result.Recorded)
	assert.Equal(t, 10000.0, result.FinalBankroll)
	assert.Equal(t, 1, result.BelowFloorTotal)
}

func TestAllocateDeductsSubFloorLeavesGapInDisplayedBankroll(t *testing.T) {
	candidates := []models.Candidate{
		candidate("Spurs", models.OutcomeHome, 1.2, 0.85),  // value 1.02, f* 0.1
		candidate("Luton", models.OutcomeAway, 21.0, 0.05), // value 1.05, f* 0.0025
	}

	deduct, err := Allocate(candidates, params(10000, 3, 100))
	require.NoError(t, err)
	require.Len(t, deduct.Bets, 1)
	require.Len(t, deduct.Recorded, 2)

	shown := deduct.Bets[0]
	assert.Equal(t, "Spurs", shown.HomeTeam)
	hidden := deduct.Recorded[0].BetAmount
	assert.InDelta(t, 10000.0/1200, hidden, delta)
	assert.InDelta(t, 10000-hidden-shown.BetAmount, shown.BankrollAfterBet, delta)

	p := params(10000, 3, 100)
	p.SubFloorPolicy = SubFloorSkip
	skip, err := Allocate(candidates, p)
	require.NoError(t, err)
	require.Len(t, skip.Bets, 1)
	assert.InDelta(t, 10000.0/30, skip.Bets[0].BetAmount, delta)
	assert.InDelta(t, 10000-skip.Bets[0].BetAmount, skip.Bets[0].BankrollAfterBet, delta)
}

func TestAllocateExcludesDegenerateOdds(t *testing.T) {
	candidates := []models.Candidate{
		candidate("One", models.OutcomeHome, 1.0, 1.0),
		candidate("Below", models.OutcomeDraw, 0.5, 1.0),
		candidate("Negative", models.OutcomeAway, -3.0, -1.0),
		candidate("NaN", models.OutcomeHome, math.NaN(), 0.9),
		candidate("Inf", models.OutcomeHome, math.Inf(1), 0.9),
		candidate("Good", models.OutcomeHome, 3.0, 0.5),
	}

	result, err := Allocate(candidates, params(10000, 3, 100))
	require.NoError(t, err)

	require.Len(t, result.Bets, 1)
	assert.Equal(t, "Good", result.Bets[0].HomeTeam)
	assert.Equal(t, 1, result.ValueBetsTotal)
	assert.Equal(t, 6, result.CandidatesTotal)
}

func TestAllocateSkipsBetsThatOverflow(t *testing.T) {
	candidates := []models.Candidate{
		// finite value bet, but odds × stake overflows to +Inf
		candidate("HugeOdds", models.OutcomeHome, 1e308, 0.5),
		// odds × confidence itself overflows
		candidate("HugeValue", models.OutcomeAway, 1e308, 2),
		candidate("Good", models.OutcomeHome, 3.0, 0.5),
	}

	result, err := Allocate(candidates, params(10000, 3, 100))
	require.NoError(t, err)

	require.Len(t, result.Bets, 1)
	assert.Equal(t, "Good", result.Bets[0].HomeTeam)
	assert.Len(t, result.Recorded, 1)
	assert.Equal(t, 2, result.ValueBetsTotal)
	assert.InDelta(t, 9166.666667, result.FinalBankroll, delta)
	for _, bet := range result.Recorded {
		assert.False(t, math.IsInf(bet.PossibleProfit, 0))
		assert.False(t, math.IsInf(bet.ValueBet, 0))
	}
}

func TestAllocateRanksByValueBetDescending(t *testing.T) {
	candidates := []models.Candidate{
		candidate("Low", models.OutcomeHome, 2.2, 0.5),  // 1.10
		candidate("High", models.OutcomeAway, 4.0, 0.4), // 1.60
		candidate("Mid", models.OutcomeDraw, 3.0, 0.45), // 1.35
	}

	result, err := Allocate(candidates, params(10000, 3, 100))
	require.NoError(t, err)

	require.Len(t, result.Bets, 3)
	assert.Equal(t, "High", result.Bets[0].HomeTeam)
	assert.Equal(t, "Mid", result.Bets[1].HomeTeam)
	assert.Equal(t, "Low", result.Bets[2].HomeTeam)
}

func TestRankKeepsInputOrderOnTies(t *testing.T) {
	candidates := []models.Candidate{
		candidate("First", models.OutcomeHome, 2.0, 0.75),
		candidate("Second", models.OutcomeHome, 3.0, 0.5),
		candidate("Third", models.OutcomeHome, 4.0, 0.375),
	}

	ranked := Rank(candidates)

	require.Len(t, ranked, 3)
	assert.Equal(t, "First", ranked[0].HomeTeam)
	assert.Equal(t, "Second", ranked[1].HomeTeam)
	assert.Equal(t, "Third", ranked[2].HomeTeam)
	assert.Equal(t, "First", candidates[0].HomeTeam, "input must not be reordered")
}

func TestAllocateZeroStakeDoesNotStop(t *testing.T) {
	// An empty bankroll sizes every stake at zero but never falls below a
	// zero threshold, so every candidate is visited.
	result, err := Allocate([]models.Candidate{
		candidate("A", models.OutcomeHome, 3.0, 0.5),
		candidate("B", models.OutcomeHome, 2.0, 0.6),
	}, params(0, 3, 0))
	require.NoError(t, err)

	assert.False(t, result.Stopped)
	assert.Empty(t, result.Recorded)
	assert.Equal(t, 2, result.ValueBetsTotal)
	assert.Equal(t, 0.0, result.FinalBankroll)
}

func TestAllocateClampsToBankroll(t *testing.T) {
	result, err := Allocate([]models.Candidate{
		candidate("A", models.OutcomeHome, 2.0, 0.99),
		candidate("B", models.OutcomeHome, 2.0, 0.98),
	}, params(1000, 0.1, 0))
	require.NoError(t, err)

	require.Len(t, result.Recorded, 1)
	assert.InDelta(t, 1000, result.Recorded[0].BetAmount, delta)
	assert.InDelta(t, 0, result.FinalBankroll, delta)
	assert.False(t, result.Stopped, "min bankroll of zero never stops the run")
}

func TestAllocateInvalidArguments(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *Params)
	}{
		{name: "zero fraction", mutate: func(p *Params) { p.Fraction = 0 }},
		{name: "negative fraction", mutate: func(p *Params) { p.Fraction = -2 }},
		{name: "NaN fraction", mutate: func(p *Params) { p.Fraction = math.NaN() }},
		{name: "negative bankroll", mutate: func(p *Params) { p.InitialBankroll = -1 }},
		{name: "infinite bankroll", mutate: func(p *Params) { p.InitialBankroll = math.Inf(1) }},
		{name: "negative min bankroll", mutate: func(p *Params) { p.MinBankroll = -100 }},
		{name: "negative min stake", mutate: func(p *Params) { p.MinStake = -50 }},
		{name: "unknown policy", mutate: func(p *Params) { p.SubFloorPolicy = "hide" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)

			_, err := Allocate([]models.Candidate{candidate("A", models.OutcomeHome, 3.0, 0.5)}, p)
			require.Error(t, err)
			assert.True(t, errors.Is(err, models.ErrInvalidArgument))
		})
	}
}

func TestAllocateProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 200; run++ {
		candidates := randomCandidates(rng, rng.Intn(30))
		p := params(1000+rng.Float64()*20000, 1+rng.Float64()*4, rng.Float64()*500)

		result, err := Allocate(candidates, p)
		require.NoError(t, err)

		again, err := Allocate(candidates, p)
		require.NoError(t, err)
		assert.Equal(t, result, again, "allocation must be deterministic")

		assert.LessOrEqual(t, result.FinalBankroll, p.InitialBankroll)

		before := p.InitialBankroll
		for _, bet := range result.Recorded {
			assert.GreaterOrEqual(t, before, p.MinBankroll, "bet sized after the stop condition")
			assert.Greater(t, bet.BetAmount, 0.0)
			assert.LessOrEqual(t, bet.BetAmount, before)
			assert.InDelta(t, before-bet.BetAmount, bet.BankrollAfterBet, 1e-9)
			assert.LessOrEqual(t, bet.BankrollAfterBet, before)
			before = bet.BankrollAfterBet
		}
		if len(result.Recorded) > 0 {
			assert.Equal(t, before, result.FinalBankroll)
		}

		for i, bet := range result.Bets {
			assert.GreaterOrEqual(t, bet.BetAmount, p.MinStake)
			assert.Greater(t, bet.Odds, 1.0)
			assert.Greater(t, bet.Odds*bet.Confidence, 1.0)
			assert.InDelta(t, bet.Odds*bet.BetAmount-bet.BetAmount, bet.PossibleProfit, 1e-9)
			if i > 0 {
				assert.LessOrEqual(t, bet.ValueBet, result.Bets[i-1].ValueBet)
			}
		}
	}
}

func randomCandidates(rng *rand.Rand, n int) []models.Candidate {
	candidates := make([]models.Candidate, 0, n)
	for i := 0; i < n; i++ {
		candidates = append(candidates, models.Candidate{
			HomeTeam:   "Home",
			AwayTeam:   "Away",
			Outcome:    models.Outcomes[i%len(models.Outcomes)],
			Odds:       0.5 + rng.Float64()*6,
			Confidence: rng.Float64(),
		})
	}
	return candidates
}
