package karma

import (
	"fmt"
	"sort"

	"github.com/yashikart/karmaledger/internal/sheet"
)

// #region recommender

// Recommender matches the corrective-practice table against evaluations
// and balance sheets. Rules run in table order; every match is collected.
type Recommender struct {
	cfg ScoringConfig
}

// NewRecommender creates a Recommender over the given tables.
func NewRecommender(cfg ScoringConfig) *Recommender {
	return &Recommender{cfg: cfg}
}

// #endregion recommender

// #region match

// ForEvaluation collects practices triggered by a single evaluation,
// ignoring sheet-level rules.
func (r *Recommender) ForEvaluation(ev Evaluation) []Recommendation {
	var recs []Recommendation
	for _, rule := range r.cfg.Practices {
		if rec, ok := r.matchEvaluation(rule, ev); ok {
			recs = append(recs, rec)
		}
	}
	sortRecommendations(recs)
	return recs
}

// ForSheet collects practices triggered by the evaluation plus the two
// sheet-level signals (dridha ratio, weighted debt).
func (r *Recommender) ForSheet(ev Evaluation, s sheet.BalanceSheet) []Recommendation {
	var recs []Recommendation
	for _, rule := range r.cfg.Practices {
		if rec, ok := r.matchEvaluation(rule, ev); ok {
			recs = append(recs, rec)
			continue
		}
		if rec, ok := r.matchSheet(rule, s); ok {
			recs = append(recs, rec)
		}
	}
	sortRecommendations(recs)
	return recs
}

// SheetOnly collects practices from the sheet-level signals alone, for
// queries with no action in hand.
func (r *Recommender) SheetOnly(s sheet.BalanceSheet) []Recommendation {
	var recs []Recommendation
	for _, rule := range r.cfg.Practices {
		if rec, ok := r.matchSheet(rule, s); ok {
			recs = append(recs, rec)
		}
	}
	sortRecommendations(recs)
	return recs
}

func (r *Recommender) matchEvaluation(rule PracticeRule, ev Evaluation) (Recommendation, bool) {
	switch rule.Trigger {
	case TriggerHighNegative:
		if ev.NegativeImpact > rule.Threshold {
			return r.build(rule, fmt.Sprintf("negative impact %.1f exceeds %.1f", ev.NegativeImpact, rule.Threshold)), true
		}
	case TriggerLowPositive:
		if ev.PositiveImpact < rule.Threshold {
			return r.build(rule, fmt.Sprintf("positive impact %.1f below %.1f", ev.PositiveImpact, rule.Threshold)), true
		}
	case TriggerCategoryNegative:
		if ev.Purushartha.component(rule.Category) < 0 {
			return r.build(rule, fmt.Sprintf("%s alignment is negative", rule.Category)), true
		}
	case TriggerHighPositive:
		if ev.PositiveImpact > rule.Threshold {
			return r.build(rule, fmt.Sprintf("positive impact %.1f exceeds %.1f", ev.PositiveImpact, rule.Threshold)), true
		}
	}
	return Recommendation{}, false
}

func (r *Recommender) matchSheet(rule PracticeRule, s sheet.BalanceSheet) (Recommendation, bool) {
	switch rule.Trigger {
	case TriggerLowStability:
		total := s.DridhaKarma + s.AdridhaKarma
		if total <= 0 {
			return Recommendation{}, false
		}
		ratio := s.DridhaKarma / total
		if ratio < rule.Threshold {
			return r.build(rule, fmt.Sprintf("dridha ratio %.2f below %.2f", ratio, rule.Threshold)), true
		}
	case TriggerHighDebt:
		var debt float64
		for _, rec := range s.Rnanubandhan {
			debt += rec.Amount * r.cfg.MultiplierFor(rec.Severity)
		}
		if debt > rule.Threshold {
			return r.build(rule, fmt.Sprintf("karmic debt %.1f exceeds %.1f", debt, rule.Threshold)), true
		}
	}
	return Recommendation{}, false
}

func (r *Recommender) build(rule PracticeRule, reason string) Recommendation {
	return Recommendation{
		Practice: rule.Practice,
		Reason:   reason,
		Urgency:  rule.Urgency,
		Weight:   rule.Weight,
	}
}

// #endregion match

// #region sort

// sortRecommendations orders by weight descending, then urgency ordinal
// descending, stable beyond that.
func sortRecommendations(recs []Recommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Weight != recs[j].Weight {
			return recs[i].Weight > recs[j].Weight
		}
		return recs[i].Urgency.ordinal() > recs[j].Urgency.ordinal()
	})
}

// #endregion sort
