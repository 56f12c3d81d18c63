package sheet

import "sort"

// #region normalize

// NormalizeDebt converts any accepted Rnanubandhan shape into canonical
// records:
//
//	map:    {"minor": 10, "major": 5}           one record per tier
//	list:   [{"severity": "minor", "amount": 10}, ...]
//	scalar: 12.5                                one record, empty severity
//
// Map tiers are emitted in sorted order so the result is deterministic.
// Non-numeric poison entries are skipped, never fatal. Unknown shapes
// normalize to nil.
func NormalizeDebt(raw any) Debt {
	switch v := raw.(type) {
	case nil:
		return nil
	case Debt:
		return v
	case []DebtRecord:
		return Debt(v)
	case map[string]any:
		return debtFromMap(v)
	case map[string]float64:
		generic := make(map[string]any, len(v))
		for tier, amount := range v {
			generic[tier] = amount
		}
		return debtFromMap(generic)
	case []any:
		return debtFromList(v)
	default:
		if n, ok := asFloat(raw); ok {
			return Debt{{Severity: "", Amount: n}}
		}
		return nil
	}
}

func debtFromMap(raw map[string]any) Debt {
	tiers := make([]string, 0, len(raw))
	for tier := range raw {
		tiers = append(tiers, tier)
	}
	sort.Strings(tiers)

	var out Debt
	for _, tier := range tiers {
		if n, ok := asFloat(raw[tier]); ok {
			out = append(out, DebtRecord{Severity: tier, Amount: n})
		}
	}
	return out
}

func debtFromList(raw []any) Debt {
	var out Debt
	for _, item := range raw {
		rec, ok := item.(map[string]any)
		if !ok {
			continue
		}
		amount, ok := asFloat(rec["amount"])
		if !ok {
			continue
		}
		severity, _ := rec["severity"].(string)
		out = append(out, DebtRecord{Severity: severity, Amount: amount})
	}
	return out
}

// #endregion normalize
