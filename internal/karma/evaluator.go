package karma

import (
	"github.com/yashikart/karmaledger/internal/sheet"
)

// #region evaluator

// Evaluator scores a single action against a balance sheet. Evaluate is
// total: any action string, any intensity, any sheet yields a well-formed
// Evaluation and never an error.
type Evaluator struct {
	cfg ScoringConfig
	rec *Recommender
}

// NewEvaluator creates an Evaluator over the given tables.
func NewEvaluator(cfg ScoringConfig) *Evaluator {
	return &Evaluator{cfg: cfg, rec: NewRecommender(cfg)}
}

// #endregion evaluator

// #region evaluate

// Evaluate classifies the action, computes bucket deltas and the
// purushartha vector, and attaches ranked corrective recommendations.
// The sheet is read-only; callers apply the returned deltas themselves.
func (e *Evaluator) Evaluate(s sheet.BalanceSheet, action string, intensity float64) Evaluation {
	ev := Evaluation{
		Action:    action,
		Intensity: intensity,
	}

	if d, ok := e.cfg.Demerits[action]; ok {
		ev.Kind = ActionDemerit
		ev.Severity = d.Severity
		ev.NegativeImpact = d.Base * intensity
		ev.RnanubandhanDelta = ev.NegativeImpact * e.cfg.MultiplierFor(d.Severity)
		ev.AdridhaDelta = -ev.NegativeImpact * e.cfg.NegativeSplit.Adridha
	} else if r, ok := e.cfg.Rewards[action]; ok {
		ev.Kind = ActionMerit
		ev.PositiveImpact = r.Base * intensity
		ev.SanchitaDelta = ev.PositiveImpact * e.cfg.PositiveSplit.Sanchita
		ev.PrarabdhaDelta = ev.PositiveImpact * e.cfg.PositiveSplit.Prarabdha
		remainder := ev.PositiveImpact * (1 - e.cfg.PositiveSplit.Sanchita - e.cfg.PositiveSplit.Prarabdha)
		if r.Stability == StabilityDridha {
			ev.DridhaDelta = remainder
		} else {
			ev.AdridhaDelta = remainder
		}
	} else {
		// Unknown actions earn a small flat reward; no bucket split.
		ev.Kind = ActionUnknown
		ev.PositiveImpact = e.cfg.UnknownActionReward * intensity
	}

	ev.Purushartha = e.purusharthaVector(action)

	// Intensity is reapplied here on top of the already-scaled impacts,
	// so it acts superlinearly. Matches the accounting rules as given.
	ev.NetKarma = (ev.PositiveImpact - ev.NegativeImpact) * intensity

	ev.Recommendations = e.rec.ForSheet(ev, s)
	return ev
}

// #endregion evaluate

// #region purushartha

// purusharthaVector builds the four-component alignment vector for an
// action from the category tables.
func (e *Evaluator) purusharthaVector(action string) PurusharthaVector {
	var v PurusharthaVector
	for _, cat := range e.cfg.Purushartha {
		var value float64
		if containsAction(cat.Positive, action) {
			value = cat.Modifier
		} else if containsAction(cat.Negative, action) {
			value = -cat.Modifier
		} else {
			continue
		}
		switch cat.Name {
		case CategoryDharma:
			v.Dharma = value
		case CategoryArtha:
			v.Artha = value
		case CategoryKama:
			v.Kama = value
		case CategoryMoksha:
			v.Moksha = value
		}
	}
	return v
}

func containsAction(list []string, action string) bool {
	for _, a := range list {
		if a == action {
			return true
		}
	}
	return false
}

// #endregion purushartha
