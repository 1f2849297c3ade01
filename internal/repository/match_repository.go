package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/value-staker/internal/database"
	"github.com/yourusername/value-staker/internal/models"
)

var matchDateLayouts = []string{"2006-01-02", "02.01.2006", time.RFC3339, "2006-01-02T15:04:05"}

// PostgresMatchRepository implements MatchRepository for PostgreSQL
type PostgresMatchRepository struct {
	db *database.DB
}

// NewPostgresMatchRepository creates a new match repository
func NewPostgresMatchRepository(db *database.DB) MatchRepository {
	return &PostgresMatchRepository{db: db}
}

// SaveMatches inserts fixtures and one odds row per fixture in a single transaction
func (r *PostgresMatchRepository) SaveMatches(ctx context.Context, matches []models.MatchOdds) error {
	if len(matches) == 0 {
		return nil
	}

	matchQuery := `
		INSERT INTO matches (match_date, match_time, country, home_team, away_team,
		                     home_percent, draw_percent, away_percent, recommended_score, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	oddsQuery := `
		INSERT INTO match_odds (match_id, bookmaker, home_odds, draw_odds, away_odds)
		VALUES ($1, $2, $3, $4, $5)
	`

	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		for _, m := range matches {
			var id int64
			err := tx.QueryRow(ctx, matchQuery,
				ParseMatchDate(m.Date), m.Time, m.Country, m.Home, m.Away,
				m.HomePercent, m.DrawPercent, m.AwayPercent, m.RecommendedScore, m.Source,
			).Scan(&id)
			if err != nil {
				return fmt.Errorf("failed to insert match %s - %s: %w", m.Home, m.Away, err)
			}

			if !m.HasOdds() {
				continue
			}
			_, err = tx.Exec(ctx, oddsQuery, id, m.Source,
				string(m.HomeOdds), string(m.DrawOdds), string(m.AwayOdds))
			if err != nil {
				return fmt.Errorf("failed to insert odds for %s - %s: %w", m.Home, m.Away, err)
			}
		}
		return nil
	})
}

// GetUpcoming retrieves today's and future fixtures with their most recent odds
func (r *PostgresMatchRepository) GetUpcoming(ctx context.Context, country string, limit int) ([]models.MatchOdds, error) {
	query := `
		SELECT COALESCE(to_char(m.match_date, 'YYYY-MM-DD'), ''), m.match_time, m.country,
		       m.home_team, m.away_team, m.home_percent, m.draw_percent, m.away_percent,
		       m.recommended_score, m.source,
		       COALESCE(o.home_odds, ''), COALESCE(o.draw_odds, ''), COALESCE(o.away_odds, '')
		FROM matches m
		LEFT JOIN LATERAL (
			SELECT home_odds, draw_odds, away_odds
			FROM match_odds
			WHERE match_id = m.id
			ORDER BY captured_at DESC
			LIMIT 1
		) o ON TRUE
		WHERE ($1::text = '' OR LOWER(m.country) = LOWER($1::text))
		  AND (m.match_date IS NULL OR m.match_date >= CURRENT_DATE)
		ORDER BY m.match_date NULLS LAST, m.match_time, m.id
		LIMIT $2
	`

	if strings.EqualFold(country, "all") {
		country = ""
	}
	var lim interface{}
	if limit > 0 {
		lim = limit
	}

	rows, err := r.db.Query(ctx, query, country, lim)
	if err != nil {
		return nil, fmt.Errorf("failed to query upcoming matches: %w", err)
	}
	defer rows.Close()

	var matches []models.MatchOdds
	for rows.Next() {
		var m models.MatchOdds
		var homeOdds, drawOdds, awayOdds string
		err := rows.Scan(
			&m.Date, &m.Time, &m.Country, &m.Home, &m.Away,
			&m.HomePercent, &m.DrawPercent, &m.AwayPercent, &m.RecommendedScore, &m.Source,
			&homeOdds, &drawOdds, &awayOdds,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		m.HomeOdds = models.OddsValue(homeOdds)
		m.DrawOdds = models.OddsValue(drawOdds)
		m.AwayOdds = models.OddsValue(awayOdds)
		matches = append(matches, m)
	}

	return matches, rows.Err()
}

// ParseMatchDate converts the feed date formats to a date, or nil when unknown
func ParseMatchDate(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	for _, layout := range matchDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &d
		}
	}
	return nil
}
