// Package logger provides staking-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// StakingLogger provides dedicated logging for allocation runs.
type StakingLogger struct {
	*logrus.Entry
}

// NewStakingLogger creates a new staking logger.
func NewStakingLogger(baseLogger *logrus.Logger) *StakingLogger {
	return &StakingLogger{
		Entry: baseLogger.WithField("component", "staking"),
	}
}

// LogAllocation logs the outcome of an allocation run.
func (sl *StakingLogger) LogAllocation(planID, country string, candidates, valueBets, retained int, initialBankroll, finalBankroll, durationMs float64) {
	sl.WithFields(logrus.Fields{
		"plan_id":          planID,
		"country":          country,
		"candidates":       candidates,
		"value_bets":       valueBets,
		"bets_retained":    retained,
		"initial_bankroll": initialBankroll,
		"final_bankroll":   finalBankroll,
		"duration_ms":      durationMs,
	}).Info("Allocation completed")
}

// LogBetSized logs a single sized bet.
func (sl *StakingLogger) LogBetSized(fixture, outcome string, odds, confidence, valueBet, stake, bankrollAfter float64, retained bool) {
	sl.WithFields(logrus.Fields{
		"fixture":            fixture,
		"outcome":            outcome,
		"odds":               odds,
		"confidence":         confidence,
		"value_bet":          valueBet,
		"bet_amount":         stake,
		"bankroll_after_bet": bankrollAfter,
		"retained":           retained,
	}).Debug("Bet sized")
}

// LogStopCondition logs that sizing halted on the bankroll floor.
func (sl *StakingLogger) LogStopCondition(bankroll, minBankroll float64, remaining int) {
	sl.WithFields(logrus.Fields{
		"bankroll":     bankroll,
		"min_bankroll": minBankroll,
		"remaining":    remaining,
	}).Warn("Bankroll below minimum, sizing stopped")
}

// LogCandidateRejected logs a feed row that could not be turned into candidates.
func (sl *StakingLogger) LogCandidateRejected(country, reason string) {
	sl.WithFields(logrus.Fields{
		"country": country,
		"reason":  reason,
	}).Warn("Candidate rejected")
}
