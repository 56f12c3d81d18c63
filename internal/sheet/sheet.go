package sheet

import (
	"encoding/json"
	"fmt"
)

// #region construct

// FromMap builds a BalanceSheet from a caller-shaped map. Missing keys
// default to zero, non-numeric stray values are skipped, and Rnanubandhan
// is normalized from any of its three accepted shapes. Never fails.
func FromMap(raw map[string]any) BalanceSheet {
	var s BalanceSheet
	if raw == nil {
		return s
	}
	s.DharmaPoints = numberOrZero(raw[KindDharmaPoints])
	s.SevaPoints = numberOrZero(raw[KindSevaPoints])
	s.PunyaTokens = numberOrZero(raw[KindPunyaTokens])
	s.DridhaKarma = numberOrZero(raw[KindDridhaKarma])
	s.AdridhaKarma = numberOrZero(raw[KindAdridhaKarma])
	s.SanchitaKarma = numberOrZero(raw[KindSanchitaKarma])
	s.PrarabdhaKarma = numberOrZero(raw[KindPrarabdhaKarma])
	s.PaapTokens = paapFromRaw(raw[KindPaapTokens])
	s.Rnanubandhan = NormalizeDebt(raw[KindRnanubandhan])
	return s
}

// FromJSON parses a JSON object into a BalanceSheet via FromMap, so the
// same tolerance rules apply. Only malformed JSON itself is an error.
func FromJSON(data []byte) (BalanceSheet, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return BalanceSheet{}, fmt.Errorf("parse balance sheet: %w", err)
	}
	return FromMap(raw), nil
}

// paapFromRaw converts the PaapTokens value into a tier→amount map.
// A bare scalar counts as the fallback tier (empty key); non-numeric
// tier values are skipped.
func paapFromRaw(raw any) map[string]float64 {
	switch v := raw.(type) {
	case nil:
		return nil
	case map[string]any:
		if len(v) == 0 {
			return nil
		}
		out := make(map[string]float64, len(v))
		for tier, amount := range v {
			if n, ok := asFloat(amount); ok {
				out[tier] = n
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	case map[string]float64:
		if len(v) == 0 {
			return nil
		}
		out := make(map[string]float64, len(v))
		for tier, amount := range v {
			out[tier] = amount
		}
		return out
	default:
		if n, ok := asFloat(raw); ok {
			return map[string]float64{"": n}
		}
		return nil
	}
}

// #endregion construct

// #region coerce

// asFloat reports raw as a float64 if it carries any numeric type.
func asFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// numberOrZero is asFloat with a zero default for missing/poison values.
func numberOrZero(raw any) float64 {
	n, ok := asFloat(raw)
	if !ok {
		return 0
	}
	return n
}

// #endregion coerce
