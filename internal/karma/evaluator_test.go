package karma

import (
	"math"
	"reflect"
	"testing"

	"github.com/yashikart/karmaledger/internal/sheet"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestEvaluateCompletingLessons(t *testing.T) {
	e := NewEvaluator(DefaultScoringConfig())

	ev := e.Evaluate(sheet.BalanceSheet{}, "completing_lessons", 1.0)

	if ev.Kind != ActionMerit {
		t.Fatalf("kind = %s, want merit", ev.Kind)
	}
	if ev.PositiveImpact <= 0 {
		t.Errorf("positive impact = %v, want > 0", ev.PositiveImpact)
	}
	if ev.NegativeImpact != 0 {
		t.Errorf("negative impact = %v, want 0", ev.NegativeImpact)
	}
	if ev.DridhaDelta <= 0 {
		t.Errorf("dridha delta = %v, want > 0 for a stable action", ev.DridhaDelta)
	}
	// base 10 * intensity 1, split 0.4 / 0.3 / 0.3 remainder
	if !almostEqual(ev.PositiveImpact, 10) {
		t.Errorf("positive impact = %v, want 10", ev.PositiveImpact)
	}
	if !almostEqual(ev.SanchitaDelta, 4) || !almostEqual(ev.PrarabdhaDelta, 3) || !almostEqual(ev.DridhaDelta, 3) {
		t.Errorf("splits = %v/%v/%v, want 4/3/3", ev.SanchitaDelta, ev.PrarabdhaDelta, ev.DridhaDelta)
	}
}

func TestEvaluateCheat(t *testing.T) {
	e := NewEvaluator(DefaultScoringConfig())

	ev := e.Evaluate(sheet.BalanceSheet{}, "cheat", 1.0)

	if ev.Kind != ActionDemerit {
		t.Fatalf("kind = %s, want demerit", ev.Kind)
	}
	if ev.Severity != SeverityMajor {
		t.Errorf("severity = %q, want major", ev.Severity)
	}
	if ev.NegativeImpact <= 0 {
		t.Errorf("negative impact = %v, want > 0", ev.NegativeImpact)
	}
	if ev.RnanubandhanDelta <= 0 {
		t.Errorf("rnanubandhan delta = %v, want > 0", ev.RnanubandhanDelta)
	}
	if ev.AdridhaDelta >= 0 {
		t.Errorf("adridha delta = %v, want < 0", ev.AdridhaDelta)
	}
	// base 10 * major multiplier 2, adridha debit at 0.5
	if !almostEqual(ev.RnanubandhanDelta, 20) {
		t.Errorf("rnanubandhan delta = %v, want 20", ev.RnanubandhanDelta)
	}
	if !almostEqual(ev.AdridhaDelta, -5) {
		t.Errorf("adridha delta = %v, want -5", ev.AdridhaDelta)
	}
	if !almostEqual(ev.NetKarma, -10) {
		t.Errorf("net karma = %v, want -10", ev.NetKarma)
	}
}

func TestEvaluateUnknownAction(t *testing.T) {
	e := NewEvaluator(DefaultScoringConfig())

	ev := e.Evaluate(sheet.BalanceSheet{}, "xyzzy_unknown", 1.0)

	if ev.Kind != ActionUnknown {
		t.Fatalf("kind = %s, want unknown", ev.Kind)
	}
	if ev.PositiveImpact != 5.0 {
		t.Errorf("positive impact = %v, want exactly 5.0", ev.PositiveImpact)
	}
	if ev.DridhaDelta != 0 || ev.AdridhaDelta != 0 || ev.SanchitaDelta != 0 || ev.PrarabdhaDelta != 0 {
		t.Errorf("unknown action should carry no bucket deltas: %+v", ev)
	}
}

func TestEvaluateSuperlinearIntensity(t *testing.T) {
	e := NewEvaluator(DefaultScoringConfig())

	ev := e.Evaluate(sheet.BalanceSheet{}, "completing_lessons", 2.0)

	// impact scales once (10*2=20), net reapplies intensity ((20-0)*2=40)
	if !almostEqual(ev.PositiveImpact, 20) {
		t.Errorf("positive impact = %v, want 20", ev.PositiveImpact)
	}
	if !almostEqual(ev.NetKarma, 40) {
		t.Errorf("net karma = %v, want 40 (superlinear)", ev.NetKarma)
	}
}

func TestEvaluateFractionalIntensityUnclamped(t *testing.T) {
	e := NewEvaluator(DefaultScoringConfig())

	ev := e.Evaluate(sheet.BalanceSheet{}, "xyzzy_unknown", 0.5)

	if !almostEqual(ev.PositiveImpact, 2.5) {
		t.Errorf("positive impact = %v, want 2.5", ev.PositiveImpact)
	}
}

func TestEvaluatePurusharthaVector(t *testing.T) {
	e := NewEvaluator(DefaultScoringConfig())

	ev := e.Evaluate(sheet.BalanceSheet{}, "selfless_service", 1.0)
	if ev.Purushartha.Dharma != 1.0 {
		t.Errorf("dharma = %v, want 1.0", ev.Purushartha.Dharma)
	}
	if ev.Purushartha.Moksha != 1.5 {
		t.Errorf("moksha = %v, want 1.5", ev.Purushartha.Moksha)
	}
	if ev.Purushartha.Artha != 0 || ev.Purushartha.Kama != 0 {
		t.Errorf("artha/kama = %v/%v, want 0/0", ev.Purushartha.Artha, ev.Purushartha.Kama)
	}

	ev = e.Evaluate(sheet.BalanceSheet{}, "cheat", 1.0)
	if ev.Purushartha.Dharma != -1.0 {
		t.Errorf("dharma = %v, want -1.0", ev.Purushartha.Dharma)
	}
	if ev.Purushartha.Kama != -0.5 {
		t.Errorf("kama = %v, want -0.5", ev.Purushartha.Kama)
	}
}

func TestEvaluateRecommendationsAttached(t *testing.T) {
	e := NewEvaluator(DefaultScoringConfig())

	// cheat at intensity 2: negative 20 > 10 fires Tapas ahead of the rest
	ev := e.Evaluate(sheet.BalanceSheet{}, "cheat", 2.0)
	if len(ev.Recommendations) == 0 {
		t.Fatal("expected recommendations for a demerit")
	}
	if ev.Recommendations[0].Practice != "Tapas" {
		t.Errorf("top practice = %s, want Tapas", ev.Recommendations[0].Practice)
	}
}

func TestEvaluateDeterminism(t *testing.T) {
	e := NewEvaluator(DefaultScoringConfig())
	s := sheet.FromMap(map[string]any{
		"DharmaPoints": 12.0,
		"PaapTokens":   map[string]any{"minor": 2.0, "major": 1.0},
		"Rnanubandhan": map[string]any{"minor": 3.0, "maha": 1.0},
	})

	first := e.Evaluate(s, "cheat", 1.5)
	for i := 0; i < 50; i++ {
		again := e.Evaluate(s, "cheat", 1.5)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs:\n%+v\n%+v", i, first, again)
		}
	}
}

func TestEvaluateHostileActionStrings(t *testing.T) {
	e := NewEvaluator(DefaultScoringConfig())
	actions := []string{
		"",
		" ",
		"\x00",
		"\n\t\r",
		"ॐ नमः शिवाय",
		"röntgen",
		"日本語のアクション",
		"a-very-long-" + string(make([]byte, 4096)),
		`{"injection": true}`,
	}

	for _, action := range actions {
		ev := e.Evaluate(sheet.BalanceSheet{}, action, 1.0)
		if ev.Action != action {
			t.Errorf("action %q not preserved", action)
		}
		if ev.Kind != ActionUnknown {
			t.Errorf("action %q classified as %s, want unknown", action, ev.Kind)
		}
		if ev.PositiveImpact != 5.0 {
			t.Errorf("action %q positive impact = %v, want 5.0", action, ev.PositiveImpact)
		}
	}
}

func FuzzEvaluateTotality(f *testing.F) {
	f.Add("completing_lessons", 1.0)
	f.Add("cheat", 2.0)
	f.Add("", 0.0)
	f.Add("ॐ", -3.5)
	f.Add("xyzzy_unknown", 1e9)

	e := NewEvaluator(DefaultScoringConfig())
	f.Fuzz(func(t *testing.T, action string, intensity float64) {
		ev := e.Evaluate(sheet.BalanceSheet{}, action, intensity)
		if ev.Action != action {
			t.Fatalf("action %q not preserved", action)
		}
		switch ev.Kind {
		case ActionMerit, ActionDemerit, ActionUnknown:
		default:
			t.Fatalf("unexpected kind %q", ev.Kind)
		}
	})
}
