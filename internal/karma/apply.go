package karma

import (
	"github.com/yashikart/karmaledger/internal/sheet"
)

// #region apply

// ApplyEvaluation folds an evaluation's deltas into a copy of the sheet,
// the way the owning persistence layer is expected to. Merit impact
// credits PunyaTokens; demerit impact debits the action's Paap tier and
// appends a debt record. Merit buckets clamp at zero, never negative.
func ApplyEvaluation(s sheet.BalanceSheet, ev Evaluation) sheet.BalanceSheet {
	out := s.Clone()

	switch ev.Kind {
	case ActionDemerit:
		if out.PaapTokens == nil {
			out.PaapTokens = make(map[string]float64)
		}
		out.PaapTokens[ev.Severity] += ev.NegativeImpact
		if ev.RnanubandhanDelta != 0 {
			out.Rnanubandhan = append(out.Rnanubandhan, sheet.DebtRecord{
				Severity: ev.Severity,
				Amount:   ev.RnanubandhanDelta,
			})
		}
	default:
		out.PunyaTokens = floorZero(out.PunyaTokens + ev.PositiveImpact)
	}

	out.DridhaKarma = floorZero(out.DridhaKarma + ev.DridhaDelta)
	out.AdridhaKarma = floorZero(out.AdridhaKarma + ev.AdridhaDelta)
	out.SanchitaKarma = floorZero(out.SanchitaKarma + ev.SanchitaDelta)
	out.PrarabdhaKarma = floorZero(out.PrarabdhaKarma + ev.PrarabdhaDelta)

	return out
}

func floorZero(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// #endregion apply
