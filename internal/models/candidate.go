package models

import "math"

// Outcome identifies which result of a fixture a bet is placed on
type Outcome string

const (
	OutcomeHome Outcome = "home"
	OutcomeDraw Outcome = "draw"
	OutcomeAway Outcome = "away"
)

// Outcomes lists the three results of a fixture in presentation order
var Outcomes = []Outcome{OutcomeHome, OutcomeDraw, OutcomeAway}

// IsValid checks the outcome is one of home, draw or away
func (o Outcome) IsValid() bool {
	switch o {
	case OutcomeHome, OutcomeDraw, OutcomeAway:
		return true
	default:
		return false
	}
}

// Candidate is a single priced outcome offered for staking.
// Candidates are independent rows: nothing ties the three outcomes of a
// fixture together.
type Candidate struct {
	HomeTeam   string  `json:"home"`
	AwayTeam   string  `json:"away"`
	Outcome    Outcome `json:"outcome"`
	Odds       float64 `json:"odds"`
	Confidence float64 `json:"confidence"`
}

// ValueBet returns odds multiplied by the estimated win probability
func (c Candidate) ValueBet() float64 {
	return c.Odds * c.Confidence
}

// HasNumericInputs reports whether odds and confidence are finite numbers
func (c Candidate) HasNumericInputs() bool {
	return isFinite(c.Odds) && isFinite(c.Confidence)
}

// IsValueBet reports whether the candidate has positive expected value
// under its own probability estimate and non-degenerate odds.
// A value bet that overflows float64 is not viable.
func (c Candidate) IsValueBet() bool {
	if !c.HasNumericInputs() {
		return false
	}
	value := c.ValueBet()
	return c.Odds > 1 && value > 1 && isFinite(value)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
