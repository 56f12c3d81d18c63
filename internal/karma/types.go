package karma

// #region action-kind

// ActionKind classifies how an action was resolved against the config tables.
type ActionKind string

const (
	ActionMerit   ActionKind = "merit"
	ActionDemerit ActionKind = "demerit"
	ActionUnknown ActionKind = "unknown"
)

// #endregion action-kind

// #region severity

// Severity tier labels. Unresolved labels fall back to the configured
// fallback tier's multiplier.
const (
	SeverityMinor = "minor"
	SeverityMajor = "major"
	SeverityMaha  = "maha"
)

// #endregion severity

// #region stability

// Stability classes for merit actions: dridha accrues to the stable
// bucket, adridha to the volatile one.
type Stability string

const (
	StabilityDridha  Stability = "dridha"
	StabilityAdridha Stability = "adridha"
)

// #endregion stability

// #region urgency

// Urgency ranks a corrective recommendation.
type Urgency string

const (
	UrgencyHigh   Urgency = "high"
	UrgencyMedium Urgency = "medium"
	UrgencyLow    Urgency = "low"
)

// ordinal maps urgency to its sort rank (high=3, medium=2, low=1).
func (u Urgency) ordinal() int {
	switch u {
	case UrgencyHigh:
		return 3
	case UrgencyMedium:
		return 2
	case UrgencyLow:
		return 1
	default:
		return 0
	}
}

// #endregion urgency

// #region purushartha

// PurusharthaVector holds the four signed alignment components. Each is
// ±category modifier when the action appears in that category's
// positive/negative list, 0 otherwise.
type PurusharthaVector struct {
	Dharma float64 `json:"dharma"`
	Artha  float64 `json:"artha"`
	Kama   float64 `json:"kama"`
	Moksha float64 `json:"moksha"`
}

// component returns the named category's value, 0 for unknown names.
func (v PurusharthaVector) component(name string) float64 {
	switch name {
	case CategoryDharma:
		return v.Dharma
	case CategoryArtha:
		return v.Artha
	case CategoryKama:
		return v.Kama
	case CategoryMoksha:
		return v.Moksha
	default:
		return 0
	}
}

// #endregion purushartha

// #region evaluation

// Evaluation is the full scoring of one action against one balance sheet.
// Ephemeral: callers persist the deltas and separately record the event.
type Evaluation struct {
	Action            string            `json:"action"`
	Intensity         float64           `json:"intensity"`
	Kind              ActionKind        `json:"kind"`
	Severity          string            `json:"severity,omitempty"`
	PositiveImpact    float64           `json:"positive_impact"`
	NegativeImpact    float64           `json:"negative_impact"`
	DridhaDelta       float64           `json:"dridha_delta"`
	AdridhaDelta      float64           `json:"adridha_delta"`
	SanchitaDelta     float64           `json:"sanchita_delta"`
	PrarabdhaDelta    float64           `json:"prarabdha_delta"`
	RnanubandhanDelta float64           `json:"rnanubandhan_delta"`
	Purushartha       PurusharthaVector `json:"purushartha"`
	NetKarma          float64           `json:"net_karma"`
	Recommendations   []Recommendation  `json:"corrective_recommendations"`
}

// #endregion evaluation

// #region recommendation

// Recommendation is one suggested remedial practice.
type Recommendation struct {
	Practice string  `json:"practice"`
	Reason   string  `json:"reason"`
	Urgency  Urgency `json:"urgency"`
	Weight   float64 `json:"weight"`
}

// #endregion recommendation

// #region summary

// Breakdown lists each bucket's additive contribution to net karma.
// NegativeKarma and Rnanubandhan are recorded positive and subtracted in
// the roll-up; Dridha/Adridha are post-weight contributions.
type Breakdown struct {
	PositiveKarma float64 `json:"positive_karma"`
	NegativeKarma float64 `json:"negative_karma"`
	Dridha        float64 `json:"dridha"`
	Adridha       float64 `json:"adridha"`
	Sanchita      float64 `json:"sanchita"`
	Prarabdha     float64 `json:"prarabdha"`
	Rnanubandhan  float64 `json:"rnanubandhan"`
}

// Summary is the whole-sheet roll-up.
type Summary struct {
	NetKarma      float64   `json:"net_karma"`
	WeightedScore float64   `json:"weighted_score"`
	Breakdown     Breakdown `json:"breakdown"`
}

// #endregion summary
