package karma

import (
	"github.com/yashikart/karmaledger/internal/sheet"
)

// #region role-ladder

// RoleLadder maps a merit score to a role name.
type RoleLadder interface {
	RoleFor(merit float64) string
}

// configLadder walks the config role tiers, highest threshold first.
type configLadder struct {
	tiers []RoleTier
}

func (l configLadder) RoleFor(merit float64) string {
	for _, t := range l.tiers {
		if merit >= t.MinMerit {
			return t.Role
		}
	}
	if len(l.tiers) == 0 {
		return ""
	}
	return l.tiers[len(l.tiers)-1].Role
}

// #endregion role-ladder

// #region adapter

// RewardAdapter converts an evaluation into an adjusted reinforcement
// reward and a next-tier role. Total, like the Evaluator it builds on.
type RewardAdapter struct {
	cfg       ScoringConfig
	evaluator *Evaluator
	ladder    RoleLadder
}

// NewRewardAdapter creates an adapter. ladder may be nil (config tiers).
func NewRewardAdapter(cfg ScoringConfig, ladder RoleLadder) *RewardAdapter {
	if ladder == nil {
		ladder = configLadder{tiers: cfg.Roles}
	}
	return &RewardAdapter{
		cfg:       cfg,
		evaluator: NewEvaluator(cfg),
		ladder:    ladder,
	}
}

// #endregion adapter

// #region adapt

// Adapt scales a base reward by the action's karmic factor and steps the
// merit total through the role ladder.
func (ra *RewardAdapter) Adapt(s sheet.BalanceSheet, action string, baseReward float64) (float64, string) {
	ev := ra.evaluator.Evaluate(s, action, 1.0)

	var factor float64
	if ev.NetKarma != 0 {
		factor = ev.NetKarma / 100
	}
	adjusted := baseReward * (1 + factor)

	w := ra.cfg.MeritWeights
	merit := w.Dharma*s.DharmaPoints + w.Seva*s.SevaPoints + w.Punya*s.PunyaTokens

	return adjusted, ra.ladder.RoleFor(merit)
}

// #endregion adapt
