package service

import (
	"github.com/yourusername/value-staker/internal/config"
	"github.com/yourusername/value-staker/internal/staking"
)

// ParamsFromConfig converts configured staking defaults to engine parameters
func ParamsFromConfig(cfg config.StakingConfig) staking.Params {
	return staking.Params{
		InitialBankroll: cfg.InitialBankroll,
		Fraction:        cfg.Fraction,
		MinBankroll:     cfg.MinBankroll,
		MinStake:        cfg.MinStake,
		SubFloorPolicy:  staking.SubFloorPolicy(cfg.SubFloorPolicy),
	}
}

// ParamOverrides carries per-request changes to the configured parameters.
// Nil fields keep the configured value.
type ParamOverrides struct {
	InitialBankroll *float64 `json:"initial_bankroll,omitempty"`
	Fraction        *float64 `json:"fraction,omitempty"`
	MinBankroll     *float64 `json:"min_bankroll,omitempty"`
	MinStake        *float64 `json:"min_stake,omitempty"`
	SubFloorPolicy  *string  `json:"sub_floor_policy,omitempty"`
}

// ResolveParams applies overrides on top of the service defaults and audits each change
func (s *PlanService) ResolveParams(o ParamOverrides, source string) staking.Params {
	params := s.defaults

	if o.InitialBankroll != nil && *o.InitialBankroll != params.InitialBankroll {
		s.audit.LogParameterOverride("initial_bankroll", params.InitialBankroll, *o.InitialBankroll, source)
		params.InitialBankroll = *o.InitialBankroll
	}
	if o.Fraction != nil && *o.Fraction != params.Fraction {
		s.audit.LogParameterOverride("fraction", params.Fraction, *o.Fraction, source)
		params.Fraction = *o.Fraction
	}
	if o.MinBankroll != nil && *o.MinBankroll != params.MinBankroll {
		s.audit.LogParameterOverride("min_bankroll", params.MinBankroll, *o.MinBankroll, source)
		params.MinBankroll = *o.MinBankroll
	}
	if o.MinStake != nil && *o.MinStake != params.MinStake {
		s.audit.LogParameterOverride("min_stake", params.MinStake, *o.MinStake, source)
		params.MinStake = *o.MinStake
	}
	if o.SubFloorPolicy != nil && staking.SubFloorPolicy(*o.SubFloorPolicy) != params.SubFloorPolicy {
		s.audit.LogParameterOverride("sub_floor_policy", string(params.SubFloorPolicy), *o.SubFloorPolicy, source)
		params.SubFloorPolicy = staking.SubFloorPolicy(*o.SubFloorPolicy)
	}

	return params
}
