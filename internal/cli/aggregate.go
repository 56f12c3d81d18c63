package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yashikart/karmaledger/internal/karma"
)

var aggSheetPath string

var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Roll a balance sheet up into net karma",
	Args:  cobra.NoArgs,
	RunE:  runAggregate,
}

func runAggregate(cmd *cobra.Command, args []string) error {
	s, err := loadSheet(aggSheetPath)
	if err != nil {
		return err
	}
	scoring, err := loadScoring()
	if err != nil {
		return err
	}

	sum := karma.NewAggregator(scoring, nil).Aggregate(s)

	if jsonOut() {
		return printJSON(sum)
	}

	b := sum.Breakdown
	fmt.Printf("Net Karma:      %.2f\n", sum.NetKarma)
	fmt.Printf("Weighted Score: %.2f\n", sum.WeightedScore)
	fmt.Printf("\n%-14s  %12s\n", "Bucket", "Contribution")
	fmt.Printf("%-14s+-%12s\n", "--------------", "------------")
	fmt.Printf("%-14s  %12.2f\n", "positive", b.PositiveKarma)
	fmt.Printf("%-14s  %12.2f\n", "negative", -b.NegativeKarma)
	fmt.Printf("%-14s  %12.2f\n", "dridha", b.Dridha)
	fmt.Printf("%-14s  %12.2f\n", "adridha", b.Adridha)
	fmt.Printf("%-14s  %12.2f\n", "sanchita", b.Sanchita)
	fmt.Printf("%-14s  %12.2f\n", "prarabdha", b.Prarabdha)
	fmt.Printf("%-14s  %12.2f\n", "rnanubandhan", -b.Rnanubandhan)
	return nil
}
