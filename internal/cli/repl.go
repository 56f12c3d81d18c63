package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yashikart/karmaledger/internal/karma"
	"github.com/yashikart/karmaledger/internal/ledger"
	"github.com/yashikart/karmaledger/internal/metrics"
)

var (
	replSheetPath string
	replUser      string
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactive evaluate-and-record session",
	Long: `repl reads "<action> [intensity]" lines, scores each against the
session sheet, folds the deltas in, and appends a ledger entry when a
sink is configured. "sheet" prints the current sheet, "exit" quits.`,
	Args: cobra.NoArgs,
	RunE: runRepl,
}

func runRepl(cmd *cobra.Command, args []string) error {
	cur, err := loadSheet(replSheetPath)
	if err != nil {
		return err
	}
	scoring, err := loadScoring()
	if err != nil {
		return err
	}
	eval := karma.NewEvaluator(scoring)

	var led *ledger.Ledger
	if dbPath != "" || jsonlPath != "" {
		l, cleanup, err := openLedger()
		if err != nil {
			return err
		}
		defer cleanup()
		led = l
	}

	in := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("karma> ")
		if !in.Scan() {
			break
		}
		line := strings.TrimSpace(in.Text())
		switch line {
		case "":
			continue
		case "exit", "quit":
			return nil
		case "sheet":
			if err := printJSON(cur); err != nil {
				return err
			}
			continue
		}

		fields := strings.Fields(line)
		if len(fields) > 2 {
			fmt.Println("usage: <action> [intensity] | sheet | exit")
			continue
		}
		intensity := 1.0
		if len(fields) == 2 {
			v, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				fmt.Printf("bad intensity %q\n", fields[1])
				continue
			}
			intensity = v
		}

		ev := eval.Evaluate(cur, fields[0], intensity)
		metrics.RecordEvaluation(string(ev.Kind))
		cur = karma.ApplyEvaluation(cur, ev)

		if led != nil {
			if err := recordEvaluation(led, replUser, ev); err != nil {
				fmt.Printf("record failed: %v\n", err)
			}
		}

		if ev.Kind == karma.ActionDemerit {
			fmt.Printf("%s (%s, %s): net %+.2f\n", ev.Action, ev.Kind, ev.Severity, ev.NetKarma)
		} else {
			fmt.Printf("%s (%s): net %+.2f\n", ev.Action, ev.Kind, ev.NetKarma)
		}
		for _, r := range ev.Recommendations {
			fmt.Printf("  practice %s (%s): %s\n", r.Practice, r.Urgency, r.Reason)
		}
	}
	return in.Err()
}
