package datasource

import (
	"strings"

	"github.com/yourusername/value-staker/internal/models"
)

// FilterCountry keeps matches of one country. "all" or an empty country keeps everything.
func FilterCountry(matches []models.MatchOdds, country string) []models.MatchOdds {
	country = strings.TrimSpace(country)
	if country == "" || strings.EqualFold(country, "all") {
		return matches
	}

	filtered := make([]models.MatchOdds, 0, len(matches))
	for _, m := range matches {
		if strings.EqualFold(m.Country, country) {
			filtered = append(filtered, m)
		}
	}
	return filtered
}

// MergeOdds copies bookmaker odds onto predictions whose home and away teams
// match exactly, ignoring case. The first bookmaker line for a fixture wins.
// Team aliases are not resolved.
func MergeOdds(predictions []models.MatchOdds, odds []models.BookmakerOdds) []models.MatchOdds {
	index := make(map[string]models.BookmakerOdds, len(odds))
	for _, o := range odds {
		key := fixtureKey(o.HomeTeam, o.AwayTeam)
		if _, ok := index[key]; !ok {
			index[key] = o
		}
	}

	merged := make([]models.MatchOdds, len(predictions))
	for i, m := range predictions {
		if o, ok := index[fixtureKey(m.Home, m.Away)]; ok {
			m.HomeOdds = o.HomeOdds
			m.DrawOdds = o.DrawOdds
			m.AwayOdds = o.AwayOdds
		}
		merged[i] = m
	}
	return merged
}

func fixtureKey(home, away string) string {
	return strings.ToLower(home) + "\x00" + strings.ToLower(away)
}
