package karma

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultScoringConfigShape(t *testing.T) {
	cfg := DefaultScoringConfig()

	if len(cfg.SeverityMultipliers) != 3 {
		t.Errorf("expected 3 severity tiers, got %v", cfg.SeverityMultipliers)
	}
	if cfg.FallbackSeverity != SeverityMajor {
		t.Errorf("fallback = %q, want major", cfg.FallbackSeverity)
	}
	if len(cfg.Purushartha) != 4 {
		t.Errorf("expected 4 purushartha categories, got %d", len(cfg.Purushartha))
	}
	if cfg.PositiveSplit.Sanchita+cfg.PositiveSplit.Prarabdha >= 1 {
		t.Errorf("positive split leaves no stability remainder: %+v", cfg.PositiveSplit)
	}
	if len(cfg.Practices) == 0 || len(cfg.Roles) == 0 {
		t.Error("practice table and role ladder must not be empty")
	}
	for i := 1; i < len(cfg.Roles); i++ {
		if cfg.Roles[i].MinMerit >= cfg.Roles[i-1].MinMerit {
			t.Errorf("role ladder not descending at %d: %+v", i, cfg.Roles)
		}
	}
}

func TestMultiplierForFallback(t *testing.T) {
	cfg := DefaultScoringConfig()

	if got := cfg.MultiplierFor(SeverityMaha); got != 5.0 {
		t.Errorf("maha = %v, want 5.0", got)
	}
	if got := cfg.MultiplierFor("unheard_of"); got != 2.0 {
		t.Errorf("unknown tier = %v, want major fallback 2.0", got)
	}
	if got := cfg.MultiplierFor(""); got != 2.0 {
		t.Errorf("empty tier = %v, want major fallback 2.0", got)
	}

	var zero ScoringConfig
	if got := zero.MultiplierFor("anything"); got != fallbackMultiplier {
		t.Errorf("zero config = %v, want %v", got, fallbackMultiplier)
	}
}

func TestLoadScoringConfigOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scoring.yaml")
	override := `
unknown_action_reward: 7.5
demerits:
  gossip:
    base: 3
    severity: minor
`
	if err := os.WriteFile(path, []byte(override), 0o644); err != nil {
		t.Fatalf("write override: %v", err)
	}

	cfg, err := LoadScoringConfig(path)
	if err != nil {
		t.Fatalf("LoadScoringConfig: %v", err)
	}

	if cfg.UnknownActionReward != 7.5 {
		t.Errorf("unknown reward = %v, want override 7.5", cfg.UnknownActionReward)
	}
	if _, ok := cfg.Demerits["gossip"]; !ok {
		t.Error("override demerit missing")
	}
	if _, ok := cfg.Demerits["cheat"]; !ok {
		t.Error("default demerits should survive a merge")
	}
	if len(cfg.Rewards) == 0 {
		t.Error("untouched reward table should survive")
	}
}

func TestLoadScoringConfigMissingFile(t *testing.T) {
	if _, err := LoadScoringConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
