package models

import (
	"bytes"
	"encoding/json"
	"strings"
)

// OddsValue holds bookmaker odds as published by the source. Feeds send
// odds as strings, numbers or null, so the raw text is kept and parsing is
// left to the staking layer.
type OddsValue string

// UnmarshalJSON accepts a JSON string, number or null
func (o *OddsValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*o = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*o = OddsValue(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*o = OddsValue(n.String())
	return nil
}

// IsEmpty reports whether no odds were published
func (o OddsValue) IsEmpty() bool {
	return strings.TrimSpace(string(o)) == ""
}

// MatchOdds is one fixture with the prediction percentages of a tipster
// source and, once merged, the bookmaker odds for each outcome.
type MatchOdds struct {
	Date             string    `db:"date" json:"date,omitempty"`
	Time             string    `db:"time" json:"time,omitempty"`
	Country          string    `db:"country" json:"country,omitempty"`
	Home             string    `db:"home" json:"home"`
	Away             string    `db:"away" json:"away"`
	HomePercent      float64   `db:"home_percent" json:"home_percent"`
	DrawPercent      float64   `db:"draw_percent" json:"draw_percent"`
	AwayPercent      float64   `db:"away_percent" json:"away_percent"`
	RecommendedScore string    `db:"recommended_score" json:"recommended_score,omitempty"`
	Source           string    `db:"source" json:"source,omitempty"`
	HomeOdds         OddsValue `db:"home_odds" json:"home_odds"`
	DrawOdds         OddsValue `db:"draw_odds" json:"draw_odds"`
	AwayOdds         OddsValue `db:"away_odds" json:"away_odds"`
}

// HasOdds reports whether odds are present for all three outcomes
func (m *MatchOdds) HasOdds() bool {
	return !m.HomeOdds.IsEmpty() && !m.DrawOdds.IsEmpty() && !m.AwayOdds.IsEmpty()
}

// BookmakerOdds is one bookmaker line for a fixture
type BookmakerOdds struct {
	HomeTeam string    `json:"home_team"`
	AwayTeam string    `json:"away_team"`
	HomeOdds OddsValue `json:"home_odds"`
	DrawOdds OddsValue `json:"draw_odds"`
	AwayOdds OddsValue `json:"away_odds"`
}
