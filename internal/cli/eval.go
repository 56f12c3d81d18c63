package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/yashikart/karmaledger/internal/karma"
	"github.com/yashikart/karmaledger/internal/ledger"
	"github.com/yashikart/karmaledger/internal/metrics"
)

var (
	evalSheetPath string
	evalUser      string
	evalRecord    bool
)

var evalCmd = &cobra.Command{
	Use:   "eval <action> [intensity]",
	Short: "Score one action against a balance sheet",
	Long: `eval scores a single action against the configured merit and demerit
tables. The optional intensity scales the base values (default 1.0).
With --record the evaluation is also appended to the ledger.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runEval,
}

func runEval(cmd *cobra.Command, args []string) error {
	intensity := 1.0
	if len(args) == 2 {
		v, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("parse intensity %q: %w", args[1], err)
		}
		intensity = v
	}

	s, err := loadSheet(evalSheetPath)
	if err != nil {
		return err
	}
	scoring, err := loadScoring()
	if err != nil {
		return err
	}

	ev := karma.NewEvaluator(scoring).Evaluate(s, args[0], intensity)
	metrics.RecordEvaluation(string(ev.Kind))

	if evalRecord {
		led, cleanup, err := openLedger()
		if err != nil {
			return err
		}
		defer cleanup()
		if err := recordEvaluation(led, evalUser, ev); err != nil {
			return fmt.Errorf("record evaluation: %w", err)
		}
	}

	if jsonOut() {
		return printJSON(ev)
	}
	printEvaluation(ev)
	return nil
}

// #region output

func printEvaluation(ev karma.Evaluation) {
	fmt.Printf("Action:       %s\n", ev.Action)
	fmt.Printf("Intensity:    %.2f\n", ev.Intensity)
	fmt.Printf("Kind:         %s\n", ev.Kind)
	if ev.Severity != "" {
		fmt.Printf("Severity:     %s\n", ev.Severity)
	}
	fmt.Printf("Positive:     %.2f\n", ev.PositiveImpact)
	fmt.Printf("Negative:     %.2f\n", ev.NegativeImpact)
	fmt.Printf("Dridha:       %+.2f\n", ev.DridhaDelta)
	fmt.Printf("Adridha:      %+.2f\n", ev.AdridhaDelta)
	fmt.Printf("Sanchita:     %+.2f\n", ev.SanchitaDelta)
	fmt.Printf("Prarabdha:    %+.2f\n", ev.PrarabdhaDelta)
	fmt.Printf("Rnanubandhan: %+.2f\n", ev.RnanubandhanDelta)
	fmt.Printf("Net Karma:    %+.2f\n", ev.NetKarma)

	if len(ev.Recommendations) > 0 {
		fmt.Printf("\nRecommended practices:\n")
		printRecommendations(ev.Recommendations)
	}
}

// #endregion output

// #region recording

// evaluationPayload is the data map recorded alongside a scored action.
func evaluationPayload(ev karma.Evaluation) map[string]any {
	return map[string]any{
		"action":             ev.Action,
		"intensity":          ev.Intensity,
		"kind":               ev.Kind,
		"net_karma":          ev.NetKarma,
		"positive_impact":    ev.PositiveImpact,
		"negative_impact":    ev.NegativeImpact,
		"rnanubandhan_delta": ev.RnanubandhanDelta,
	}
}

// recordEvaluation appends the evaluation to the ledger, routing
// atonement to its own event type.
func recordEvaluation(led *ledger.Ledger, userID string, ev karma.Evaluation) error {
	if ev.Action == "atonement" {
		_, err := led.RecordAtonement(userID, "", ev.Action, evaluationPayload(ev))
		return err
	}
	_, err := led.RecordKarmaAction(userID, "", ev.Action, evaluationPayload(ev))
	return err
}

// #endregion recording
