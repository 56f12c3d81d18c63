package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yashikart/karmaledger/internal/karma"
)

var recSheetPath string

var recommendCmd = &cobra.Command{
	Use:   "recommend [action]",
	Short: "Rank corrective practices for a balance sheet",
	Long: `recommend matches the corrective-practice table against the sheet's
current state. With an action argument the action is evaluated first and
evaluation-triggered rules are included.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRecommend,
}

func runRecommend(cmd *cobra.Command, args []string) error {
	s, err := loadSheet(recSheetPath)
	if err != nil {
		return err
	}
	scoring, err := loadScoring()
	if err != nil {
		return err
	}

	rec := karma.NewRecommender(scoring)
	var recs []karma.Recommendation
	if len(args) == 1 {
		ev := karma.NewEvaluator(scoring).Evaluate(s, args[0], 1.0)
		recs = rec.ForSheet(ev, s)
	} else {
		recs = rec.SheetOnly(s)
	}

	if jsonOut() {
		return printJSON(recs)
	}
	if len(recs) == 0 {
		fmt.Println("no corrective practices triggered")
		return nil
	}
	printRecommendations(recs)
	return nil
}

func printRecommendations(recs []karma.Recommendation) {
	fmt.Printf("%-10s  %-7s  %8s  %s\n", "Practice", "Urgency", "Weight", "Reason")
	fmt.Printf("%-10s+-%-7s+-%8s+-%s\n", "----------", "-------", "--------", "--------------------")
	for _, r := range recs {
		fmt.Printf("%-10s  %-7s  %8.2f  %s\n", r.Practice, r.Urgency, r.Weight, r.Reason)
	}
}
