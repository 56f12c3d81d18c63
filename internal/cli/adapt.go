package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/yashikart/karmaledger/internal/karma"
)

var adaptSheetPath string

var adaptCmd = &cobra.Command{
	Use:   "adapt <action> <base_reward>",
	Short: "Scale a base reward by karmic standing",
	Args:  cobra.ExactArgs(2),
	RunE:  runAdapt,
}

func runAdapt(cmd *cobra.Command, args []string) error {
	base, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("parse base reward %q: %w", args[1], err)
	}

	s, err := loadSheet(adaptSheetPath)
	if err != nil {
		return err
	}
	scoring, err := loadScoring()
	if err != nil {
		return err
	}

	adjusted, role := karma.NewRewardAdapter(scoring, nil).Adapt(s, args[0], base)

	if jsonOut() {
		return printJSON(map[string]any{
			"action":          args[0],
			"base_reward":     base,
			"adjusted_reward": adjusted,
			"role":            role,
		})
	}
	fmt.Printf("Action:          %s\n", args[0])
	fmt.Printf("Base Reward:     %.2f\n", base)
	fmt.Printf("Adjusted Reward: %.2f\n", adjusted)
	fmt.Printf("Role:            %s\n", role)
	return nil
}
