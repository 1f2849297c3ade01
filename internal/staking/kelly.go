// Package staking sizes value bets with fractional Kelly against a shared,
// depleting bankroll.
package staking

import "math"

// KellyFraction returns the full Kelly fraction f* = (b·p - 1) / (b - 1)
// for decimal odds b and win probability p. Degenerate or non-value inputs
// yield 0.
func KellyFraction(odds, confidence float64) float64 {
	if !finite(odds) || !finite(confidence) {
		return 0
	}
	// odds == 1 would divide by zero; odds < 1 is not a real price
	if odds <= 1 || odds*confidence <= 1 {
		return 0
	}
	return (odds*confidence - 1) / (odds - 1)
}

// KellyStake returns the fractional Kelly stake for a single bet, clamped to
// [0, bankroll]. fraction is the divisor applied to full Kelly: 1 is full
// Kelly, 3 stakes a third of it.
func KellyStake(bankroll, odds, confidence, fraction float64) float64 {
	if fraction <= 0 || !finite(fraction) || bankroll <= 0 || !finite(bankroll) {
		return 0
	}
	fStar := KellyFraction(odds, confidence)
	if fStar <= 0 {
		return 0
	}
	stake := fStar * (1 / fraction) * bankroll
	return math.Max(0, math.Min(stake, bankroll))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
