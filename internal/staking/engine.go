package staking

import (
	"fmt"
	"sort"

	"github.com/yourusername/value-staker/internal/models"
)

// Default staking parameters
const (
	DefaultInitialBankroll = 10000.0
	DefaultFraction        = 3.0
	DefaultMinBankroll     = 100.0
	DefaultMinStake        = 50.0
)

// SubFloorPolicy decides what happens to a positive stake below MinStake
type SubFloorPolicy string

const (
	// SubFloorDeduct deducts the stake from the bankroll and hides the bet
	// from the final list. The bet stays visible in Result.Recorded.
	SubFloorDeduct SubFloorPolicy = "deduct"
	// SubFloorSkip leaves the bankroll untouched and does not record the bet.
	SubFloorSkip SubFloorPolicy = "skip"
)

// IsValid checks the policy is known. The empty policy means SubFloorDeduct.
func (p SubFloorPolicy) IsValid() bool {
	switch p {
	case "", SubFloorDeduct, SubFloorSkip:
		return true
	default:
		return false
	}
}

func (p SubFloorPolicy) orDefault() SubFloorPolicy {
	if p == "" {
		return SubFloorDeduct
	}
	return p
}

// Params configures one allocation run
type Params struct {
	InitialBankroll float64        `json:"initial_bankroll"`
	Fraction        float64        `json:"fraction"`
	MinBankroll     float64        `json:"min_bankroll"`
	MinStake        float64        `json:"min_stake"`
	SubFloorPolicy  SubFloorPolicy `json:"sub_floor_policy"`
}

// DefaultParams returns the default staking parameters
func DefaultParams() Params {
	return Params{
		InitialBankroll: DefaultInitialBankroll,
		Fraction:        DefaultFraction,
		MinBankroll:     DefaultMinBankroll,
		MinStake:        DefaultMinStake,
		SubFloorPolicy:  SubFloorDeduct,
	}
}

// Validate rejects parameters the Kelly formula cannot work with
func (p Params) Validate() error {
	if !finite(p.Fraction) || p.Fraction <= 0 {
		return fmt.Errorf("%w: fraction must be positive, got %v", models.ErrInvalidArgument, p.Fraction)
	}
	if !finite(p.InitialBankroll) || p.InitialBankroll < 0 {
		return fmt.Errorf("%w: initial bankroll cannot be negative, got %v", models.ErrInvalidArgument, p.InitialBankroll)
	}
	if !finite(p.MinBankroll) || p.MinBankroll < 0 {
		return fmt.Errorf("%w: min bankroll cannot be negative, got %v", models.ErrInvalidArgument, p.MinBankroll)
	}
	if !finite(p.MinStake) || p.MinStake < 0 {
		return fmt.Errorf("%w: min stake cannot be negative, got %v", models.ErrInvalidArgument, p.MinStake)
	}
	if !p.SubFloorPolicy.IsValid() {
		return fmt.Errorf("%w: unknown sub-floor policy %q", models.ErrInvalidArgument, p.SubFloorPolicy)
	}
	return nil
}

// Result is the outcome of one allocation run
type Result struct {
	// Bets holds the sized bets at or above MinStake, in ranking order.
	Bets []models.SizedBet
	// Recorded holds every bet that moved the bankroll, before the floor filter.
	Recorded []models.SizedBet
	// FinalBankroll is the bankroll after the last processed bet.
	FinalBankroll float64
	// CandidatesTotal counts the candidates passed in.
	CandidatesTotal int
	// ValueBetsTotal counts the candidates that survived the value filter.
	ValueBetsTotal int
	// BelowFloorTotal counts positive stakes under MinStake.
	BelowFloorTotal int
	// Processed counts ranked candidates examined before the run ended.
	Processed int
	// Stopped is set when the bankroll fell below MinBankroll with
	// candidates still unprocessed.
	Stopped bool
}

// Allocate filters value bets, ranks them by value descending and sizes
// them one after another with fractional Kelly against a shared bankroll.
// It is a pure function: each call runs its own independent simulation.
func Allocate(candidates []models.Candidate, params Params) (Result, error) {
	if err := params.Validate(); err != nil {
		return Result{}, err
	}
	policy := params.SubFloorPolicy.orDefault()

	ranked := Rank(FilterValueBets(candidates))
	result := Result{
		Bets:            []models.SizedBet{},
		Recorded:        []models.SizedBet{},
		FinalBankroll:   params.InitialBankroll,
		CandidatesTotal: len(candidates),
		ValueBetsTotal:  len(ranked),
	}

	bankroll := params.InitialBankroll
	for _, candidate := range ranked {
		if bankroll < params.MinBankroll {
			result.Stopped = true
			break
		}
		result.Processed++

		stake := KellyStake(bankroll, candidate.Odds, candidate.Confidence, params.Fraction)
		if stake <= 0 {
			continue
		}

		bet := models.NewSizedBet(candidate, stake, bankroll-stake)
		if !finite(bet.PossibleProfit) {
			// odds × stake overflowed
			continue
		}

		belowFloor := stake < params.MinStake
		if belowFloor {
			result.BelowFloorTotal++
			if policy == SubFloorSkip {
				continue
			}
		}

		bankroll -= stake
		result.Recorded = append(result.Recorded, bet)
		if !belowFloor {
			result.Bets = append(result.Bets, bet)
		}
	}

	result.FinalBankroll = bankroll
	return result, nil
}

// FilterValueBets keeps candidates with finite inputs, odds above 1 and
// odds × confidence above 1. Input order is preserved.
func FilterValueBets(candidates []models.Candidate) []models.Candidate {
	filtered := make([]models.Candidate, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.IsValueBet() {
			filtered = append(filtered, candidate)
		}
	}
	return filtered
}

// Rank returns a copy of candidates sorted by value bet descending. Ties
// keep their input order.
func Rank(candidates []models.Candidate) []models.Candidate {
	ranked := make([]models.Candidate, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ValueBet() > ranked[j].ValueBet()
	})
	return ranked
}
