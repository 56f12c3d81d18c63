package replay

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/yashikart/karmaledger/internal/karma"
	"github.com/yashikart/karmaledger/internal/ledger"
	"github.com/yashikart/karmaledger/internal/metrics"
	"github.com/yashikart/karmaledger/internal/sheet"
)

// #region types

// Event represents a single karma action to replay.
type Event struct {
	UserID    string
	Action    string
	Intensity float64
}

// Config bundles the harness knobs.
type Config struct {
	Workers int // parallel evaluation width, min 1
	Scoring karma.ScoringConfig
}

// DefaultConfig returns a four-worker harness over the default scoring
// tables.
func DefaultConfig() Config {
	return Config{
		Workers: 4,
		Scoring: karma.DefaultScoringConfig(),
	}
}

// Result captures the outcome of replaying one event.
type Result struct {
	Seq        int
	Event      Event
	Evaluation karma.Evaluation
	Recorded   bool
	Entry      ledger.Entry // zero when not recorded
}

// Summary provides aggregate stats from a replay run.
type Summary struct {
	TotalEvents int                           `json:"total_events"`
	Merits      int                           `json:"merits"`
	Demerits    int                           `json:"demerits"`
	Unknowns    int                           `json:"unknowns"`
	Dropped     int                           `json:"dropped"`
	FinalSheets map[string]sheet.BalanceSheet `json:"final_sheets"`
	FinalNet    map[string]float64            `json:"final_net"`
}

// #endregion types

// #region harness

// Harness replays scenario events through the evaluator, folds the deltas
// into per-user balance sheets, and records each event on the ledger.
type Harness struct {
	cfg  Config
	eval *karma.Evaluator
	agg  *karma.Aggregator
	led  *ledger.Ledger
}

// New builds a harness. led may be nil for evaluation-only replays.
func New(cfg Config, led *ledger.Ledger) *Harness {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Harness{
		cfg:  cfg,
		eval: karma.NewEvaluator(cfg.Scoring),
		agg:  karma.NewAggregator(cfg.Scoring, nil),
		led:  led,
	}
}

// Run replays events in two stages. Stage one evaluates every event in
// parallel against its user's starting sheet; evaluation arithmetic does
// not read the sheet, so only the advisory recommendations see the
// starting balances. Stage two runs on one goroutine in event order:
// fold each evaluation into the user's sheet, then record it, keeping
// ledger order equal to scenario order regardless of worker count.
func (h *Harness) Run(ctx context.Context, start map[string]sheet.BalanceSheet, events []Event) ([]Result, Summary, error) {
	results := make([]Result, len(events))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(h.cfg.Workers)
	for i, ev := range events {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s := start[ev.UserID]
			evaluation := h.eval.Evaluate(s, ev.Action, ev.Intensity)
			results[i] = Result{Seq: i, Event: ev, Evaluation: evaluation}
			metrics.RecordEvaluation(string(evaluation.Kind))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, Summary{}, err
	}

	sum := Summary{
		TotalEvents: len(events),
		FinalSheets: make(map[string]sheet.BalanceSheet, len(start)),
		FinalNet:    make(map[string]float64, len(start)),
	}
	sheets := make(map[string]sheet.BalanceSheet, len(start))
	for user, s := range start {
		sheets[user] = s.Clone()
	}

	for i := range results {
		r := &results[i]
		switch r.Evaluation.Kind {
		case karma.ActionMerit:
			sum.Merits++
		case karma.ActionDemerit:
			sum.Demerits++
		default:
			sum.Unknowns++
		}

		sheets[r.Event.UserID] = karma.ApplyEvaluation(sheets[r.Event.UserID], r.Evaluation)

		if h.led == nil {
			metrics.RecordScenarioEvent("applied")
			continue
		}
		entry, err := h.record(r)
		if err != nil {
			// Dropped entries are already diagnosed by the ledger; the
			// replay keeps folding.
			sum.Dropped++
			metrics.RecordScenarioEvent("dropped")
			continue
		}
		r.Recorded = true
		r.Entry = entry
		metrics.RecordScenarioEvent("recorded")
	}

	for user, s := range sheets {
		sum.FinalSheets[user] = s
		sum.FinalNet[user] = h.agg.Aggregate(s).NetKarma
	}
	return results, sum, nil
}

func (h *Harness) record(r *Result) (ledger.Entry, error) {
	payload := map[string]any{
		"action":             r.Event.Action,
		"intensity":          r.Event.Intensity,
		"kind":               string(r.Evaluation.Kind),
		"net_karma":          r.Evaluation.NetKarma,
		"positive_impact":    r.Evaluation.PositiveImpact,
		"negative_impact":    r.Evaluation.NegativeImpact,
		"rnanubandhan_delta": r.Evaluation.RnanubandhanDelta,
	}
	if r.Event.Action == "atonement" {
		return h.led.RecordAtonement(r.Event.UserID, "", r.Event.Action, payload)
	}
	return h.led.RecordKarmaAction(r.Event.UserID, "", r.Event.Action, payload)
}

// #endregion harness
