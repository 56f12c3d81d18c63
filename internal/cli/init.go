package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yashikart/karmaledger/internal/ledger"
)

// initCmd creates the database schema and prints the chain head. Safe to
// run against an existing database.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create or open the ledger database and print its head",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	next, head, err := store.Head()
	if err != nil {
		return err
	}
	if head == "" {
		head = ledger.GenesisHash
	}

	if jsonOut() {
		return printJSON(map[string]any{
			"db":         dbPath,
			"next_index": next,
			"head_hash":  head,
		})
	}
	fmt.Printf("Database:   %s\n", dbPath)
	fmt.Printf("Next Index: %d\n", next)
	fmt.Printf("Head Hash:  %s\n", head)
	return nil
}
