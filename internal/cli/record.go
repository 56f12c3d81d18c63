package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yashikart/karmaledger/internal/ledger"
)

var (
	recordType      string
	recordComponent string
	recordMessage   string
	recordUser      string
	recordSession   string
	recordRequest   string
	recordData      []string
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Append one entry to the ledger",
	Long: `record appends an arbitrary entry to the hash chain. Omitted fields
take the ledger defaults (level from the event type, component system,
generated request id). Payload pairs are given as repeated --data k=v.`,
	Args: cobra.NoArgs,
	RunE: runRecord,
}

func runRecord(cmd *cobra.Command, args []string) error {
	data, err := parseDataPairs(recordData)
	if err != nil {
		return err
	}

	led, cleanup, err := openLedger()
	if err != nil {
		return err
	}
	defer cleanup()

	e := ledger.Entry{
		EventType: ledger.EventType(recordType),
		Component: recordComponent,
		UserID:    recordUser,
		SessionID: recordSession,
		RequestID: recordRequest,
		Message:   recordMessage,
	}
	if data != nil {
		e.Data = ledger.MarshalData(data)
	}

	out, err := led.Record(e)
	if err != nil {
		return err
	}

	if jsonOut() {
		return printJSON(out)
	}
	fmt.Printf("Index:    %d\n", out.LedgerIndex)
	fmt.Printf("Entry ID: %s\n", out.EntryID)
	fmt.Printf("Type:     %s\n", out.EventType)
	fmt.Printf("Hash:     %s\n", out.EntryHash)
	return nil
}

// parseDataPairs converts key=value flags into a payload map. Values that
// parse as numbers are stored as numbers.
func parseDataPairs(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	m := make(map[string]any, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("bad --data pair %q (want key=value)", p)
		}
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			m[k] = f
		} else {
			m[k] = v
		}
	}
	return m, nil
}
