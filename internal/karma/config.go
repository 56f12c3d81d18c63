package karma

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// #region config-types

// DemeritSpec describes one demeritorious action.
type DemeritSpec struct {
	Base     float64 `yaml:"base"`
	Severity string  `yaml:"severity"`
}

// RewardSpec describes one meritorious action.
type RewardSpec struct {
	Base      float64   `yaml:"base"`
	Stability Stability `yaml:"stability"`
}

// PositiveSplit fixes how a merit impact distributes across buckets.
// The remainder after Sanchita and Prarabdha goes to the action's
// stability bucket.
type PositiveSplit struct {
	Sanchita  float64 `yaml:"sanchita"`
	Prarabdha float64 `yaml:"prarabdha"`
}

// NegativeSplit fixes how a demerit impact debits the volatile bucket.
type NegativeSplit struct {
	Adridha float64 `yaml:"adridha"`
}

// Purushartha category names.
const (
	CategoryDharma = "dharma"
	CategoryArtha  = "artha"
	CategoryKama   = "kama"
	CategoryMoksha = "moksha"
)

// PurusharthaCategory maps one life-goal category to its modifier and
// positive/negative action lists.
type PurusharthaCategory struct {
	Name     string   `yaml:"name"`
	Modifier float64  `yaml:"modifier"`
	Positive []string `yaml:"positive"`
	Negative []string `yaml:"negative"`
}

// TriggerKind enumerates corrective-practice trigger conditions.
type TriggerKind string

const (
	TriggerHighNegative     TriggerKind = "high_negative"     // evaluation: negative impact above threshold
	TriggerLowPositive      TriggerKind = "low_positive"      // evaluation: positive impact below threshold
	TriggerCategoryNegative TriggerKind = "category_negative" // evaluation: named purushartha component negative
	TriggerHighPositive     TriggerKind = "high_positive"     // evaluation: positive impact above threshold
	TriggerLowStability     TriggerKind = "low_stability"     // sheet: dridha ratio below threshold
	TriggerHighDebt         TriggerKind = "high_debt"         // sheet: weighted debt above threshold
)

// PracticeRule is one entry of the corrective-practice table. Rules are
// evaluated in table order; encounter order breaks ties after weight and
// urgency.
type PracticeRule struct {
	Practice  string      `yaml:"practice"`
	Weight    float64     `yaml:"weight"`
	Urgency   Urgency     `yaml:"urgency"`
	Trigger   TriggerKind `yaml:"trigger"`
	Threshold float64     `yaml:"threshold"`
	Category  string      `yaml:"category,omitempty"`
}

// MeritWeights are the reward adapter's static merit weights.
type MeritWeights struct {
	Dharma float64 `yaml:"dharma"`
	Seva   float64 `yaml:"seva"`
	Punya  float64 `yaml:"punya"`
}

// RoleTier is one step of the role ladder, highest threshold first.
type RoleTier struct {
	MinMerit float64 `yaml:"min_merit"`
	Role     string  `yaml:"role"`
}

// #endregion config-types

// #region scoring-config

// ScoringConfig bundles every static table the scoring components use.
// Loaded once at process start and treated as immutable afterwards.
type ScoringConfig struct {
	SeverityMultipliers map[string]float64     `yaml:"severity_multipliers"`
	FallbackSeverity    string                 `yaml:"fallback_severity"`
	Demerits            map[string]DemeritSpec `yaml:"demerits"`
	Rewards             map[string]RewardSpec  `yaml:"rewards"`
	UnknownActionReward float64                `yaml:"unknown_action_reward"`
	PositiveSplit       PositiveSplit          `yaml:"positive_split"`
	NegativeSplit       NegativeSplit          `yaml:"negative_split"`
	Purushartha         []PurusharthaCategory  `yaml:"purushartha"`
	Practices           []PracticeRule         `yaml:"practices"`
	DridhaWeight        float64                `yaml:"dridha_weight"`
	AdridhaWeight       float64                `yaml:"adridha_weight"`
	MeritWeights        MeritWeights           `yaml:"merit_weights"`
	Roles               []RoleTier             `yaml:"roles"`
}

// fallbackMultiplier covers a config with no usable multiplier table at
// all, so severity resolution stays total.
const fallbackMultiplier = 2.0

// MultiplierFor resolves a severity label, falling back to the configured
// fallback tier for unknown or empty labels.
func (c ScoringConfig) MultiplierFor(severity string) float64 {
	if m, ok := c.SeverityMultipliers[severity]; ok {
		return m
	}
	if m, ok := c.SeverityMultipliers[c.FallbackSeverity]; ok {
		return m
	}
	return fallbackMultiplier
}

// #endregion scoring-config

// #region defaults

// DefaultScoringConfig returns the built-in tables.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		SeverityMultipliers: map[string]float64{
			SeverityMinor: 1.0,
			SeverityMajor: 2.0,
			SeverityMaha:  5.0,
		},
		FallbackSeverity: SeverityMajor,
		Demerits: map[string]DemeritSpec{
			"cheat":                    {Base: 10.0, Severity: SeverityMajor},
			"plagiarism":               {Base: 12.0, Severity: SeverityMajor},
			"skipping_lessons":         {Base: 4.0, Severity: SeverityMinor},
			"disrespecting_teacher":    {Base: 6.0, Severity: SeverityMinor},
			"spreading_misinformation": {Base: 8.0, Severity: SeverityMajor},
			"theft":                    {Base: 12.0, Severity: SeverityMajor},
			"harming_others":           {Base: 20.0, Severity: SeverityMaha},
			"breaking_vows":            {Base: 15.0, Severity: SeverityMaha},
		},
		Rewards: map[string]RewardSpec{
			"completing_lessons": {Base: 10.0, Stability: StabilityDridha},
			"selfless_service":   {Base: 15.0, Stability: StabilityDridha},
			"daily_practice":     {Base: 5.0, Stability: StabilityDridha},
			"atonement":          {Base: 6.0, Stability: StabilityDridha},
			"helping_peers":      {Base: 8.0, Stability: StabilityAdridha},
			"sharing_knowledge":  {Base: 7.0, Stability: StabilityAdridha},
			"mentoring_juniors":  {Base: 12.0, Stability: StabilityAdridha},
			"charity_donation":   {Base: 9.0, Stability: StabilityAdridha},
		},
		UnknownActionReward: 5.0,
		PositiveSplit:       PositiveSplit{Sanchita: 0.4, Prarabdha: 0.3},
		NegativeSplit:       NegativeSplit{Adridha: 0.5},
		Purushartha: []PurusharthaCategory{
			{
				Name:     CategoryDharma,
				Modifier: 1.0,
				Positive: []string{"completing_lessons", "selfless_service", "daily_practice", "mentoring_juniors"},
				Negative: []string{"cheat", "harming_others", "breaking_vows"},
			},
			{
				Name:     CategoryArtha,
				Modifier: 0.5,
				Positive: []string{"sharing_knowledge", "charity_donation", "mentoring_juniors"},
				Negative: []string{"theft", "plagiarism"},
			},
			{
				Name:     CategoryKama,
				Modifier: 0.5,
				Positive: []string{"helping_peers"},
				Negative: []string{"cheat", "skipping_lessons"},
			},
			{
				Name:     CategoryMoksha,
				Modifier: 1.5,
				Positive: []string{"selfless_service", "daily_practice", "atonement"},
				Negative: []string{"harming_others", "spreading_misinformation"},
			},
		},
		Practices: []PracticeRule{
			{Practice: "Tapas", Weight: 1.7, Urgency: UrgencyHigh, Trigger: TriggerHighNegative, Threshold: 10.0},
			{Practice: "Seva", Weight: 1.3, Urgency: UrgencyMedium, Trigger: TriggerLowPositive, Threshold: 5.0},
			{Practice: "Dhyana", Weight: 1.5, Urgency: UrgencyMedium, Trigger: TriggerCategoryNegative, Category: CategoryKama},
			{Practice: "Bhakti", Weight: 1.0, Urgency: UrgencyLow, Trigger: TriggerHighPositive, Threshold: 15.0},
			{Practice: "Svadhyaya", Weight: 1.6, Urgency: UrgencyHigh, Trigger: TriggerLowStability, Threshold: 0.3},
			{Practice: "Dana", Weight: 1.8, Urgency: UrgencyHigh, Trigger: TriggerHighDebt, Threshold: 30.0},
		},
		DridhaWeight:  1.2,
		AdridhaWeight: 0.8,
		MeritWeights:  MeritWeights{Dharma: 1.0, Seva: 1.2, Punya: 0.8},
		Roles: []RoleTier{
			{MinMerit: 500, Role: "acharya"},
			{MinMerit: 250, Role: "mentor"},
			{MinMerit: 100, Role: "sadhaka"},
			{MinMerit: 0, Role: "shishya"},
		},
	}
}

// #endregion defaults

// #region loader

// LoadScoringConfig reads a YAML override file on top of the defaults.
// Only keys present in the file change; map entries merge, list tables
// replace wholesale.
func LoadScoringConfig(path string) (ScoringConfig, error) {
	cfg := DefaultScoringConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read scoring config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse scoring config %s: %w", path, err)
	}
	return cfg, nil
}

// #endregion loader
