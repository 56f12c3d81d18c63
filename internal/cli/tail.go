package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yashikart/karmaledger/internal/ledger"
)

var (
	tailUser  string
	tailType  string
	tailLimit int
)

var tailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Show recent ledger entries, newest first",
	Args:  cobra.NoArgs,
	RunE:  runTail,
}

func runTail(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.Recent(ledger.TrailFilter{
		UserID:    tailUser,
		EventType: ledger.EventType(tailType),
		Limit:     tailLimit,
	})
	if err != nil {
		return err
	}

	if jsonOut() {
		return printJSON(entries)
	}
	if len(entries) == 0 {
		fmt.Println("no entries")
		return nil
	}

	fmt.Printf("%7s  %-18s  %-5s  %-10s  %-20s  %s\n",
		"Index", "Type", "Level", "User", "Time", "Message")
	fmt.Printf("%7s+-%-18s+-%-5s+-%-10s+-%-20s+-%s\n",
		"-------", "------------------", "-----", "----------", "--------------------", "--------------------")
	for _, e := range entries {
		user := e.UserID
		if user == "" {
			user = "-"
		}
		fmt.Printf("%7d  %-18s  %-5s  %-10s  %-20s  %s\n",
			e.LedgerIndex, e.EventType, e.Level, user,
			e.Timestamp.Format("2006-01-02T15:04:05Z"), e.Message)
	}
	return nil
}
