// Package report renders allocation plans for people and scripts.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/yourusername/value-staker/internal/models"
)

// Round rounds an amount to two decimal places, halves away from zero.
// NaN and infinities are returned unchanged.
func Round(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	rounded, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return rounded
}

// RoundPlan returns a copy of the plan with money fields rounded for display
func RoundPlan(plan *models.AllocationPlan) *models.AllocationPlan {
	rounded := *plan
	rounded.InitialBankroll = Round(plan.InitialBankroll)
	rounded.FinalBankroll = Round(plan.FinalBankroll)

	rounded.Bets = make([]models.SizedBet, len(plan.Bets))
	for i, bet := range plan.Bets {
		bet.BetAmount = Round(bet.BetAmount)
		bet.BankrollAfterBet = Round(bet.BankrollAfterBet)
		bet.PossibleProfit = Round(bet.PossibleProfit)
		rounded.Bets[i] = bet
	}
	return &rounded
}

// WriteJSON writes v as indented JSON. Plans are rounded first.
func WriteJSON(w io.Writer, v interface{}) error {
	if plan, ok := v.(*models.AllocationPlan); ok {
		v = RoundPlan(plan)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteTable writes the plan's bets as an aligned table followed by a summary
func WriteTable(w io.Writer, plan *models.AllocationPlan) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "#\tFIXTURE\tOUTCOME\tODDS\tCONFIDENCE\tVALUE\tSTAKE\tBANKROLL AFTER\tPOSSIBLE PROFIT")
	for i, bet := range plan.Bets {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.2f\t%.2f\t%.4f\t%s\t%s\t%s\n",
			i+1,
			bet.Fixture(),
			bet.Outcome,
			bet.Odds,
			bet.Confidence,
			bet.ValueBet,
			money(bet.BetAmount),
			money(bet.BankrollAfterBet),
			money(bet.PossibleProfit),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\nbets: %d  staked: %s  possible profit: %s  bankroll: %s -> %s\n",
		len(plan.Bets),
		money(plan.TotalStaked()),
		money(plan.TotalPossibleProfit()),
		money(plan.InitialBankroll),
		money(plan.FinalBankroll),
	)
	if err != nil {
		return err
	}

	if plan.BelowFloorTotal > 0 {
		fmt.Fprintf(w, "stakes below %s: %d (policy: %s)\n", money(plan.MinStake), plan.BelowFloorTotal, plan.SubFloorPolicy)
	}
	if plan.Stopped {
		fmt.Fprintf(w, "sizing stopped: bankroll fell below %s\n", money(plan.MinBankroll))
	}
	return nil
}

func money(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Sprintf("%v", v)
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}
