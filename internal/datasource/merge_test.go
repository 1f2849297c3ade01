package datasource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/value-staker/internal/models"
)

func TestFilterCountry(t *testing.T) {
	matches := []models.MatchOdds{
		{Home: "Arsenal", Away: "Chelsea", Country: "england"},
		{Home: "Sevilla", Away: "Betis", Country: "spain"},
		{Home: "Leeds", Away: "Burnley", Country: "England"},
	}

	assert.Len(t, FilterCountry(matches, "all"), 3)
	assert.Len(t, FilterCountry(matches, ""), 3)
	assert.Len(t, FilterCountry(matches, "ALL"), 3)

	england := FilterCountry(matches, "england")
	require.Len(t, england, 2)
	assert.Equal(t, "Arsenal", england[0].Home)
	assert.Equal(t, "Leeds", england[1].Home)

	assert.Empty(t, FilterCountry(matches, "italy"))
}

func TestMergeOdds(t *testing.T) {
	predictions := []models.MatchOdds{
		{Home: "Arsenal", Away: "Chelsea", HomePercent: 50},
		{Home: "Sevilla", Away: "Betis"},
		{Home: "Man Utd", Away: "Spurs"},
	}
	odds := []models.BookmakerOdds{
		{HomeTeam: "ARSENAL", AwayTeam: "chelsea", HomeOdds: "2.5", DrawOdds: "3.4", AwayOdds: "2.9"},
		{HomeTeam: "Arsenal", AwayTeam: "Chelsea", HomeOdds: "9.9", DrawOdds: "9.9", AwayOdds: "9.9"},
		{HomeTeam: "Manchester United", AwayTeam: "Spurs", HomeOdds: "1.9", DrawOdds: "3.5", AwayOdds: "4.0"},
		{HomeTeam: "Betis", AwayTeam: "Sevilla", HomeOdds: "2.0", DrawOdds: "3.0", AwayOdds: "4.0"},
	}

	merged := MergeOdds(predictions, odds)
	require.Len(t, merged, 3)

	assert.Equal(t, models.OddsValue("2.5"), merged[0].HomeOdds, "first bookmaker line wins")
	assert.Equal(t, 50.0, merged[0].HomePercent)
	assert.False(t, merged[1].HasOdds(), "reversed fixture must not match")
	assert.False(t, merged[2].HasOdds(), "aliases are not resolved")

	assert.True(t, predictions[0].HomeOdds.IsEmpty(), "input is not modified")
}

func TestDecodePredictionsInheritsCountry(t *testing.T) {
	data := []byte(`{"country":"england","last_updated":"2025-08-01T10:00:00","matches":[
		{"home":"Arsenal","away":"Chelsea","home_percent":50,"draw_percent":30,"away_percent":20,"home_odds":null},
		{"home":"Celtic","away":"Rangers","country":"scotland"}
	]}`)

	matches, err := decodePredictions(data)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "england", matches[0].Country)
	assert.Equal(t, "scotland", matches[1].Country)
	assert.True(t, matches[0].HomeOdds.IsEmpty())
}

func TestDecodePredictionsRejectsUnknownFormat(t *testing.T) {
	_, err := decodePredictions([]byte(`[{"home":"Arsenal"}]`))
	assert.ErrorIs(t, err, ErrInvalidData)

	_, err = decodePredictions([]byte(`{"country":"england"}`))
	assert.ErrorIs(t, err, ErrInvalidData)
}

func TestDecodeOdds(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    int
		wantErr bool
	}{
		{"object", `{"matches":[{"home_team":"A","away_team":"B","home_odds":"2.1","draw_odds":3.2,"away_odds":"4"}]}`, 1, false},
		{"bare array", `[{"home_team":"A","away_team":"B"},{"home_team":"C","away_team":"D"}]`, 2, false},
		{"empty array", `[]`, 0, false},
		{"object without matches", `{"odds":[]}`, 0, true},
		{"scalar", `42`, 0, true},
		{"empty", ``, 0, true},
		{"broken", `{"matches":[`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			odds, err := decodeOdds([]byte(tt.data))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidData)
				return
			}
			require.NoError(t, err)
			assert.Len(t, odds, tt.want)
		})
	}
}

func TestFeedErrorUnwrap(t *testing.T) {
	err := NewFeedError("http", ErrCodeNotFound, "missing", ErrNotFound)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "http: not_found: missing (data not found)", err.Error())

	bare := NewFeedError("file", ErrCodeInvalidData, "bad", nil)
	assert.Equal(t, "file: invalid_data: bad", bare.Error())
}
