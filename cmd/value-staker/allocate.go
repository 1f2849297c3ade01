package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yourusername/value-staker/internal/models"
	"github.com/yourusername/value-staker/internal/report"
	"github.com/yourusername/value-staker/internal/service"
	"github.com/yourusername/value-staker/internal/staking"
)

var allocateOpts struct {
	input        string
	fromFeed     bool
	country      string
	bankroll     float64
	fraction     float64
	minBankroll  float64
	minStake     float64
	skipSubFloor bool
	persist      bool
	format       string
}

var allocateCmd = &cobra.Command{
	Use:   "allocate",
	Short: "Size stakes for a set of candidates",
	Long: `Sizes stakes either for candidates read from a JSON file (--input, an array of
{home, away, outcome, odds, confidence}) or for the matches of the configured feed
(--from-feed). Staking parameters default to the configuration.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if allocateOpts.input == "" && !allocateOpts.fromFeed {
			return fmt.Errorf("either --input or --from-feed is required")
		}
		if allocateOpts.input != "" && allocateOpts.fromFeed {
			return fmt.Errorf("--input and --from-feed are mutually exclusive")
		}
		if allocateOpts.format != "table" && allocateOpts.format != "json" {
			return fmt.Errorf("unknown format %q: use table or json", allocateOpts.format)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.FeedTimeout()*2)
		defer cancel()

		deps, err := setupDependencies(ctx)
		if err != nil {
			return err
		}
		defer deps.Close()

		params := deps.service.ResolveParams(overridesFromFlags(cmd), "cli")

		var plan *models.AllocationPlan
		if allocateOpts.input != "" {
			candidates, err := readCandidates(allocateOpts.input)
			if err != nil {
				return err
			}
			plan, err = deps.service.AllocateCandidates(ctx, candidates, params)
			if err != nil {
				return err
			}
		} else {
			plan, err = deps.service.Plan(ctx, service.PlanRequest{
				Country: allocateOpts.country,
				Params:  params,
				Persist: allocateOpts.persist,
			})
			if err != nil {
				return err
			}
		}

		return writePlan(cmd.OutOrStdout(), plan, allocateOpts.format)
	},
}

func init() {
	flags := allocateCmd.Flags()
	flags.StringVarP(&allocateOpts.input, "input", "i", "", "Candidates JSON file")
	flags.BoolVar(&allocateOpts.fromFeed, "from-feed", false, "Build candidates from the configured feed")
	flags.StringVar(&allocateOpts.country, "country", "all", "Country filter for --from-feed")
	flags.Float64Var(&allocateOpts.bankroll, "bankroll", 0, "Initial bankroll")
	flags.Float64Var(&allocateOpts.fraction, "fraction", 0, "Kelly divisor (3 stakes a third of full Kelly)")
	flags.Float64Var(&allocateOpts.minBankroll, "min-bankroll", 0, "Stop sizing below this bankroll")
	flags.Float64Var(&allocateOpts.minStake, "min-stake", 0, "Hide stakes below this amount")
	flags.BoolVar(&allocateOpts.skipSubFloor, "skip-sub-floor", false, "Do not deduct stakes below --min-stake from the bankroll")
	flags.BoolVar(&allocateOpts.persist, "persist", false, "Store the plan (requires the database)")
	flags.StringVarP(&allocateOpts.format, "format", "f", "table", "Output format: table or json")
}

// overridesFromFlags only overrides the parameters set on the command line
func overridesFromFlags(cmd *cobra.Command) service.ParamOverrides {
	var o service.ParamOverrides
	flags := cmd.Flags()

	if flags.Changed("bankroll") {
		o.InitialBankroll = &allocateOpts.bankroll
	}
	if flags.Changed("fraction") {
		o.Fraction = &allocateOpts.fraction
	}
	if flags.Changed("min-bankroll") {
		o.MinBankroll = &allocateOpts.minBankroll
	}
	if flags.Changed("min-stake") {
		o.MinStake = &allocateOpts.minStake
	}
	if flags.Changed("skip-sub-floor") {
		policy := string(staking.SubFloorDeduct)
		if allocateOpts.skipSubFloor {
			policy = string(staking.SubFloorSkip)
		}
		o.SubFloorPolicy = &policy
	}

	return o
}

func readCandidates(path string) ([]models.Candidate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read candidates: %w", err)
	}

	var candidates []models.Candidate
	if err := json.Unmarshal(data, &candidates); err != nil {
		return nil, fmt.Errorf("failed to parse candidates %s: %w", path, err)
	}

	for i, c := range candidates {
		if !c.Outcome.IsValid() {
			return nil, fmt.Errorf("candidate %d: unknown outcome %q: %w", i, c.Outcome, models.ErrInvalidArgument)
		}
	}

	return candidates, nil
}

func writePlan(w io.Writer, plan *models.AllocationPlan, format string) error {
	if format == "json" {
		return report.WriteJSON(w, plan)
	}
	return report.WriteTable(w, plan)
}
