package replay

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/yashikart/karmaledger/internal/sheet"
)

// #region scenario-types

// Scenario is the top-level JSON structure for a replay scenario.
type Scenario struct {
	Description string                    `json:"description"`
	StartSheets map[string]map[string]any `json:"start_sheets"`
	Events      []ScenarioEvent           `json:"events"`
	Expected    []ExpectedNet             `json:"expected,omitempty"`
}

// ScenarioEvent is one recorded karma action. A zero or omitted intensity
// replays at 1.0.
type ScenarioEvent struct {
	UserID    string  `json:"user_id"`
	Action    string  `json:"action"`
	Intensity float64 `json:"intensity,omitempty"`
}

// ExpectedNet captures the expected final net karma for one user.
type ExpectedNet struct {
	UserID   string  `json:"user_id"`
	NetKarma float64 `json:"net_karma"`
}

// #endregion scenario-types

// #region scenario-loader

// LoadScenario reads and parses a JSON scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}
	var s Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	return &s, nil
}

// StartBalances folds every start sheet into its domain form. Users that
// appear only in events start from an empty sheet.
func (s *Scenario) StartBalances() map[string]sheet.BalanceSheet {
	out := make(map[string]sheet.BalanceSheet, len(s.StartSheets))
	for user, raw := range s.StartSheets {
		out[user] = sheet.FromMap(raw)
	}
	return out
}

// ToEvent converts a ScenarioEvent to a domain Event.
func (e *ScenarioEvent) ToEvent() Event {
	intensity := e.Intensity
	if intensity == 0 {
		intensity = 1.0
	}
	return Event{
		UserID:    e.UserID,
		Action:    e.Action,
		Intensity: intensity,
	}
}

// DomainEvents converts every scenario event.
func (s *Scenario) DomainEvents() []Event {
	out := make([]Event, 0, len(s.Events))
	for i := range s.Events {
		out = append(out, s.Events[i].ToEvent())
	}
	return out
}

// CheckExpected compares a run summary against the scenario expectations
// and returns one message per mismatch.
func (s *Scenario) CheckExpected(sum Summary) []string {
	var mismatches []string
	for _, want := range s.Expected {
		got, ok := sum.FinalNet[want.UserID]
		if !ok {
			mismatches = append(mismatches, fmt.Sprintf("%s: no final net karma computed", want.UserID))
			continue
		}
		if math.Abs(got-want.NetKarma) > 1e-6 {
			mismatches = append(mismatches, fmt.Sprintf("%s: net karma %.6f, expected %.6f", want.UserID, got, want.NetKarma))
		}
	}
	return mismatches
}

// #endregion scenario-loader
