package staking

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/yourusername/value-staker/internal/models"
)

// CandidatesFromMatches expands every fixture with a full set of odds into
// three candidates (home, draw, away). Prediction percentages become
// probabilities. Fixtures without odds are skipped silently; fixtures with
// unparsable odds are skipped and reported in the returned error slice.
func CandidatesFromMatches(matches []models.MatchOdds) ([]models.Candidate, []error) {
	candidates := make([]models.Candidate, 0, len(matches)*len(models.Outcomes))
	var errs []error

	for i := range matches {
		match := &matches[i]
		if !match.HasOdds() {
			continue
		}
		expanded, err := candidatesFromMatch(match)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		candidates = append(candidates, expanded...)
	}

	return candidates, errs
}

func candidatesFromMatch(match *models.MatchOdds) ([]models.Candidate, error) {
	homeOdds, err := ParseOdds(match.HomeOdds)
	if err != nil {
		return nil, matchOddsError(match, models.OutcomeHome, err)
	}
	drawOdds, err := ParseOdds(match.DrawOdds)
	if err != nil {
		return nil, matchOddsError(match, models.OutcomeDraw, err)
	}
	awayOdds, err := ParseOdds(match.AwayOdds)
	if err != nil {
		return nil, matchOddsError(match, models.OutcomeAway, err)
	}

	return []models.Candidate{
		newCandidate(match, models.OutcomeHome, homeOdds, match.HomePercent),
		newCandidate(match, models.OutcomeDraw, drawOdds, match.DrawPercent),
		newCandidate(match, models.OutcomeAway, awayOdds, match.AwayPercent),
	}, nil
}

func newCandidate(match *models.MatchOdds, outcome models.Outcome, odds, percent float64) models.Candidate {
	return models.Candidate{
		HomeTeam:   match.Home,
		AwayTeam:   match.Away,
		Outcome:    outcome,
		Odds:       odds,
		Confidence: percent / 100,
	}
}

func matchOddsError(match *models.MatchOdds, outcome models.Outcome, err error) error {
	return fmt.Errorf("%s - %s (%s): %w", match.Home, match.Away, outcome, err)
}

// ParseOdds converts published decimal odds to a float. A comma is accepted
// as the decimal separator.
func ParseOdds(raw models.OddsValue) (float64, error) {
	text := strings.ReplaceAll(strings.TrimSpace(string(raw)), ",", ".")
	if text == "" {
		return 0, fmt.Errorf("%w: empty value", models.ErrInvalidOdds)
	}
	value, err := decimal.NewFromString(text)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", models.ErrInvalidOdds, string(raw))
	}
	odds, _ := value.Float64()
	return odds, nil
}
