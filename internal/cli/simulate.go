package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/yashikart/karmaledger/internal/ledger"
	"github.com/yashikart/karmaledger/internal/replay"
)

var simWorkers int

var simulateCmd = &cobra.Command{
	Use:   "simulate <scenario.json>",
	Short: "Replay a scenario file through the scoring engine",
	Long: `simulate loads a scenario (start sheets, events, expected outcomes),
evaluates the events in parallel, folds them in order, and records each
event when a sink is configured. Expectation mismatches exit non-zero.`,
	Args: cobra.ExactArgs(1),
	RunE: runSimulate,
}

func runSimulate(cmd *cobra.Command, args []string) error {
	scen, err := replay.LoadScenario(args[0])
	if err != nil {
		return err
	}
	scoring, err := loadScoring()
	if err != nil {
		return err
	}

	var led *ledger.Ledger
	if dbPath != "" || jsonlPath != "" {
		l, cleanup, err := openLedger()
		if err != nil {
			return err
		}
		defer cleanup()
		led = l
	}

	h := replay.New(replay.Config{Workers: simWorkers, Scoring: scoring}, led)
	_, sum, err := h.Run(context.Background(), scen.StartBalances(), scen.DomainEvents())
	if err != nil {
		return err
	}

	mismatches := scen.CheckExpected(sum)

	if jsonOut() {
		out := map[string]any{
			"description": scen.Description,
			"summary":     sum,
			"mismatches":  mismatches,
		}
		if err := printJSON(out); err != nil {
			return err
		}
	} else {
		fmt.Printf("Scenario: %s\n", scen.Description)
		fmt.Printf("Events:   %d (%d merit, %d demerit, %d unknown)\n",
			sum.TotalEvents, sum.Merits, sum.Demerits, sum.Unknowns)
		if sum.Dropped > 0 {
			fmt.Printf("Dropped:  %d\n", sum.Dropped)
		}
		fmt.Printf("\n%-12s  %10s\n", "User", "Net Karma")
		fmt.Printf("%-12s+-%10s\n", "------------", "----------")
		for _, u := range orderedUsers(sum.FinalNet) {
			fmt.Printf("%-12s  %10.2f\n", u, sum.FinalNet[u])
		}
		for _, m := range mismatches {
			fmt.Printf("mismatch: %s\n", m)
		}
	}

	if len(mismatches) > 0 {
		return fmt.Errorf("scenario expectations failed (%d mismatches)", len(mismatches))
	}
	return nil
}

// orderedUsers sorts map keys for stable table output.
func orderedUsers(m map[string]float64) []string {
	users := make([]string, 0, len(m))
	for u := range m {
		users = append(users, u)
	}
	sort.Strings(users)
	return users
}
