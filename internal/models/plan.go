package models

import (
	"time"

	"github.com/google/uuid"
)

// AllocationPlan is the persisted result of one staking run
type AllocationPlan struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	Country         string     `db:"country" json:"country,omitempty"`
	InitialBankroll float64    `db:"initial_bankroll" json:"initial_bankroll"`
	Fraction        float64    `db:"fraction" json:"fraction"`
	MinBankroll     float64    `db:"min_bankroll" json:"min_bankroll"`
	MinStake        float64    `db:"min_stake" json:"min_stake"`
	SubFloorPolicy  string     `db:"sub_floor_policy" json:"sub_floor_policy"`
	FinalBankroll   float64    `db:"final_bankroll" json:"final_bankroll"`
	CandidatesTotal int        `db:"candidates_total" json:"candidates_total"`
	ValueBetsTotal  int        `db:"value_bets_total" json:"value_bets_total"`
	BelowFloorTotal int        `db:"below_floor_total" json:"below_floor_total"`
	Stopped         bool       `db:"stopped" json:"stopped"`
	Bets            []SizedBet `json:"bets"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
}

// TotalStaked sums the stakes of the displayed bets
func (p *AllocationPlan) TotalStaked() float64 {
	total := 0.0
	for _, bet := range p.Bets {
		total += bet.BetAmount
	}
	return total
}

// TotalPossibleProfit sums the possible profit of the displayed bets
func (p *AllocationPlan) TotalPossibleProfit() float64 {
	total := 0.0
	for _, bet := range p.Bets {
		total += bet.PossibleProfit
	}
	return total
}
