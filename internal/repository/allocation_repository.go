package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/value-staker/internal/database"
	"github.com/yourusername/value-staker/internal/models"
)

const planColumns = `id, country, initial_bankroll, fraction, min_bankroll, min_stake, sub_floor_policy,
		       final_bankroll, candidates_total, value_bets_total, below_floor_total, stopped, created_at`

// PostgresAllocationRepository implements AllocationRepository for PostgreSQL
type PostgresAllocationRepository struct {
	db *database.DB
}

// NewPostgresAllocationRepository creates a new allocation repository
func NewPostgresAllocationRepository(db *database.DB) AllocationRepository {
	return &PostgresAllocationRepository{db: db}
}

// Save inserts a plan and its bets in one transaction
func (r *PostgresAllocationRepository) Save(ctx context.Context, plan *models.AllocationPlan) error {
	planQuery := `
		INSERT INTO allocation_plans (` + planColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	betQuery := `
		INSERT INTO allocation_bets (plan_id, position, home_team, away_team, outcome, odds, confidence,
		                             value_bet, bet_amount, bankroll_after_bet, possible_profit)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, planQuery,
			plan.ID, plan.Country, plan.InitialBankroll, plan.Fraction, plan.MinBankroll, plan.MinStake,
			plan.SubFloorPolicy, plan.FinalBankroll, plan.CandidatesTotal, plan.ValueBetsTotal,
			plan.BelowFloorTotal, plan.Stopped, plan.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create allocation plan: %w", err)
		}

		batch := &pgx.Batch{}
		for i, bet := range plan.Bets {
			batch.Queue(betQuery,
				plan.ID, i, bet.HomeTeam, bet.AwayTeam, string(bet.Outcome), bet.Odds, bet.Confidence,
				bet.ValueBet, bet.BetAmount, bet.BankrollAfterBet, bet.PossibleProfit,
			)
		}
		if batch.Len() == 0 {
			return nil
		}

		results := tx.SendBatch(ctx, batch)
		for range plan.Bets {
			if _, err := results.Exec(); err != nil {
				_ = results.Close()
				return fmt.Errorf("failed to insert allocation bet: %w", err)
			}
		}
		return results.Close()
	})
}

// GetByID retrieves a plan and its bets
func (r *PostgresAllocationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.AllocationPlan, error) {
	query := `SELECT ` + planColumns + ` FROM allocation_plans WHERE id = $1`

	plan, err := scanPlan(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get allocation plan: %w", err)
	}

	if err := r.loadBets(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// GetLatest retrieves the most recent plans, newest first
func (r *PostgresAllocationRepository) GetLatest(ctx context.Context, limit int) ([]*models.AllocationPlan, error) {
	if limit <= 0 {
		limit = 10
	}
	query := `SELECT ` + planColumns + ` FROM allocation_plans ORDER BY created_at DESC LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query allocation plans: %w", err)
	}

	var plans []*models.AllocationPlan
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan allocation plan: %w", err)
		}
		plans = append(plans, plan)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, plan := range plans {
		if err := r.loadBets(ctx, plan); err != nil {
			return nil, err
		}
	}
	return plans, nil
}

func (r *PostgresAllocationRepository) loadBets(ctx context.Context, plan *models.AllocationPlan) error {
	query := `
		SELECT home_team, away_team, outcome, odds, confidence, value_bet,
		       bet_amount, bankroll_after_bet, possible_profit
		FROM allocation_bets
		WHERE plan_id = $1
		ORDER BY position
	`

	rows, err := r.db.Query(ctx, query, plan.ID)
	if err != nil {
		return fmt.Errorf("failed to query allocation bets: %w", err)
	}
	defer rows.Close()

	plan.Bets = []models.SizedBet{}
	for rows.Next() {
		var bet models.SizedBet
		var outcome string
		err := rows.Scan(
			&bet.HomeTeam, &bet.AwayTeam, &outcome, &bet.Odds, &bet.Confidence, &bet.ValueBet,
			&bet.BetAmount, &bet.BankrollAfterBet, &bet.PossibleProfit,
		)
		if err != nil {
			return fmt.Errorf("failed to scan allocation bet: %w", err)
		}
		bet.Outcome = models.Outcome(outcome)
		plan.Bets = append(plan.Bets, bet)
	}

	return rows.Err()
}

func scanPlan(row pgx.Row) (*models.AllocationPlan, error) {
	plan := &models.AllocationPlan{}
	err := row.Scan(
		&plan.ID, &plan.Country, &plan.InitialBankroll, &plan.Fraction, &plan.MinBankroll, &plan.MinStake,
		&plan.SubFloorPolicy, &plan.FinalBankroll, &plan.CandidatesTotal, &plan.ValueBetsTotal,
		&plan.BelowFloorTotal, &plan.Stopped, &plan.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return plan, nil
}
