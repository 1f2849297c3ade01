package models

// SizedBet is a value bet with a stake assigned by the staking engine
type SizedBet struct {
	HomeTeam         string  `db:"home_team" json:"home"`
	AwayTeam         string  `db:"away_team" json:"away"`
	Outcome          Outcome `db:"outcome" json:"outcome"`
	Odds             float64 `db:"odds" json:"odds"`
	Confidence       float64 `db:"confidence" json:"confidence"`
	ValueBet         float64 `db:"value_bet" json:"value_bet"`
	BetAmount        float64 `db:"bet_amount" json:"bet_amount"`
	BankrollAfterBet float64 `db:"bankroll_after_bet" json:"bankroll_after_bet"`
	PossibleProfit   float64 `db:"possible_profit" json:"possible_profit"`
}

// NewSizedBet builds a sized bet from a candidate and its stake
func NewSizedBet(c Candidate, stake, bankrollAfter float64) SizedBet {
	return SizedBet{
		HomeTeam:         c.HomeTeam,
		AwayTeam:         c.AwayTeam,
		Outcome:          c.Outcome,
		Odds:             c.Odds,
		Confidence:       c.Confidence,
		ValueBet:         c.ValueBet(),
		BetAmount:        stake,
		BankrollAfterBet: bankrollAfter,
		PossibleProfit:   c.Odds*stake - stake,
	}
}

// Fixture returns a "home - away" label for display and logging
func (b SizedBet) Fixture() string {
	return b.HomeTeam + " - " + b.AwayTeam
}
