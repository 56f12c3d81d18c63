package sheet

// #region token-kinds

// Token kind keys as they appear in caller-supplied balance sheets.
const (
	KindDharmaPoints   = "DharmaPoints"
	KindSevaPoints     = "SevaPoints"
	KindPunyaTokens    = "PunyaTokens"
	KindPaapTokens     = "PaapTokens"
	KindDridhaKarma    = "DridhaKarma"
	KindAdridhaKarma   = "AdridhaKarma"
	KindSanchitaKarma  = "SanchitaKarma"
	KindPrarabdhaKarma = "PrarabdhaKarma"
	KindRnanubandhan   = "Rnanubandhan"
)

// #endregion token-kinds

// #region debt

// DebtRecord is one canonical Rnanubandhan entry. Severity may be empty,
// in which case downstream multiplier lookup uses the fallback tier.
type DebtRecord struct {
	Severity string  `json:"severity"`
	Amount   float64 `json:"amount"`
}

// Debt is the canonical Rnanubandhan representation. Callers may supply a
// severity→amount map, a list of {severity, amount} records, or a legacy
// bare scalar; all three normalize to this form at the boundary.
type Debt []DebtRecord

// RawTotal sums debt amounts without severity weighting.
func (d Debt) RawTotal() float64 {
	var total float64
	for _, r := range d {
		total += r.Amount
	}
	return total
}

// #endregion debt

// #region balance-sheet

// BalanceSheet is one user's token balances. All amounts are non-negative;
// demerit debits PaapTokens and Rnanubandhan rather than driving a merit
// bucket negative. The sheet is owned and mutated by the external
// persistence layer; scoring treats it as read-only per call.
type BalanceSheet struct {
	DharmaPoints   float64            `json:"DharmaPoints"`
	SevaPoints     float64            `json:"SevaPoints"`
	PunyaTokens    float64            `json:"PunyaTokens"`
	PaapTokens     map[string]float64 `json:"PaapTokens,omitempty"`
	DridhaKarma    float64            `json:"DridhaKarma"`
	AdridhaKarma   float64            `json:"AdridhaKarma"`
	SanchitaKarma  float64            `json:"SanchitaKarma"`
	PrarabdhaKarma float64            `json:"PrarabdhaKarma"`
	Rnanubandhan   Debt               `json:"Rnanubandhan,omitempty"`
}

// Clone returns a deep copy so callers can fold deltas without aliasing
// the original sheet's maps.
func (s BalanceSheet) Clone() BalanceSheet {
	out := s
	if s.PaapTokens != nil {
		out.PaapTokens = make(map[string]float64, len(s.PaapTokens))
		for k, v := range s.PaapTokens {
			out.PaapTokens[k] = v
		}
	}
	if s.Rnanubandhan != nil {
		out.Rnanubandhan = make(Debt, len(s.Rnanubandhan))
		copy(out.Rnanubandhan, s.Rnanubandhan)
	}
	return out
}

// #endregion balance-sheet
