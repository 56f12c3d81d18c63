package karma

import (
	"sort"

	"github.com/yashikart/karmaledger/internal/sheet"
)

// #region weigher

// Weigher produces the external weighted score from a breakdown.
type Weigher interface {
	Weigh(b Breakdown) float64
}

// #endregion weigher

// #region aggregator

// Aggregator rolls a full balance sheet up into one scalar. Aggregate is
// total: missing buckets are zero and debt was normalized at the boundary.
type Aggregator struct {
	cfg     ScoringConfig
	weigher Weigher
}

// NewAggregator creates an Aggregator. weigher may be nil (weighted score
// falls back to net karma).
func NewAggregator(cfg ScoringConfig, weigher Weigher) *Aggregator {
	return &Aggregator{cfg: cfg, weigher: weigher}
}

// #endregion aggregator

// #region aggregate

// Aggregate computes net karma and its per-bucket breakdown.
func (a *Aggregator) Aggregate(s sheet.BalanceSheet) Summary {
	b := Breakdown{
		PositiveKarma: s.DharmaPoints + s.SevaPoints + s.PunyaTokens,
		Dridha:        s.DridhaKarma * a.cfg.DridhaWeight,
		Adridha:       s.AdridhaKarma * a.cfg.AdridhaWeight,
		Sanchita:      s.SanchitaKarma,
		Prarabdha:     s.PrarabdhaKarma,
	}

	// Paap tiers sum in sorted order so repeated calls are bit-identical.
	tiers := make([]string, 0, len(s.PaapTokens))
	for tier := range s.PaapTokens {
		tiers = append(tiers, tier)
	}
	sort.Strings(tiers)
	for _, tier := range tiers {
		b.NegativeKarma += s.PaapTokens[tier] * a.cfg.MultiplierFor(tier)
	}

	for _, rec := range s.Rnanubandhan {
		b.Rnanubandhan += rec.Amount * a.cfg.MultiplierFor(rec.Severity)
	}

	net := b.PositiveKarma - b.NegativeKarma +
		b.Dridha + b.Adridha + b.Sanchita + b.Prarabdha -
		b.Rnanubandhan

	weighted := net
	if a.weigher != nil {
		weighted = a.weigher.Weigh(b)
	}

	return Summary{NetKarma: net, WeightedScore: weighted, Breakdown: b}
}

// #endregion aggregate
