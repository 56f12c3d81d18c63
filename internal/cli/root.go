package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/yashikart/karmaledger/internal/karma"
	"github.com/yashikart/karmaledger/internal/ledger"
	"github.com/yashikart/karmaledger/internal/sheet"
)

// #region globals

const (
	formatTable = "table"
	formatJSON  = "json"
)

var (
	// Global flags
	dbPath     string
	jsonlPath  string
	configPath string
	outFormat  string
	verbose    bool

	// Logger
	logger *zap.Logger
)

// #endregion globals

// #region root

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "karmactl",
	Short: "karmactl - karma ledger and scoring toolkit",
	Long: `karmactl drives the karma scoring engine and its append-only,
hash-chained audit ledger from the command line.

Scoring subcommands (eval, aggregate, recommend, adapt) are pure: they
read a balance sheet, apply the configured tables, and print the result.
Ledger subcommands (init, record, tail, metrics, verify, export) work
against the durable SQLite store and the optional JSONL sink. simulate
replays a scenario file end to end; repl runs an interactive session.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if dbPath == "" {
			dbPath = os.Getenv("KARMALEDGER_DB")
		}
		if outFormat != formatTable && outFormat != formatJSON {
			return fmt.Errorf("unknown output format %q (want table or json)", outFormat)
		}

		// Initialize logger. Quiet by default so diagnostics never mix
		// into command output.
		config := zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite ledger database (or set KARMALEDGER_DB env)")
	rootCmd.PersistentFlags().StringVar(&jsonlPath, "jsonl", "", "append-only JSONL sink path")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config overrides (scoring tables and ledger settings)")
	rootCmd.PersistentFlags().StringVar(&outFormat, "format", formatTable, "output format: table or json")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	// Eval flags
	evalCmd.Flags().StringVar(&evalSheetPath, "sheet", "", "balance sheet JSON file (default empty sheet)")
	evalCmd.Flags().StringVar(&evalUser, "user", "", "user id attributed to recorded entries")
	evalCmd.Flags().BoolVar(&evalRecord, "record", false, "append the evaluation to the ledger")

	// Sheet-reading flags
	aggregateCmd.Flags().StringVar(&aggSheetPath, "sheet", "", "balance sheet JSON file (default empty sheet)")
	recommendCmd.Flags().StringVar(&recSheetPath, "sheet", "", "balance sheet JSON file (default empty sheet)")
	adaptCmd.Flags().StringVar(&adaptSheetPath, "sheet", "", "balance sheet JSON file (default empty sheet)")

	// Record flags
	recordCmd.Flags().StringVar(&recordType, "type", string(ledger.EventKarmaAction), "event type")
	recordCmd.Flags().StringVar(&recordComponent, "component", "", "originating component (default system)")
	recordCmd.Flags().StringVar(&recordMessage, "message", "", "human-readable message")
	recordCmd.Flags().StringVar(&recordUser, "user", "", "user id")
	recordCmd.Flags().StringVar(&recordSession, "session", "", "session id")
	recordCmd.Flags().StringVar(&recordRequest, "request", "", "request id (default generated)")
	recordCmd.Flags().StringArrayVar(&recordData, "data", nil, "payload key=value pair (repeatable)")

	// Tail flags
	tailCmd.Flags().StringVar(&tailUser, "user", "", "filter by user id")
	tailCmd.Flags().StringVar(&tailType, "type", "", "filter by event type")
	tailCmd.Flags().IntVarP(&tailLimit, "limit", "n", 20, "number of entries to show")

	// Verify / export flags
	verifyCmd.Flags().StringVar(&verifyFile, "file", "", "verify a JSONL export instead of the database")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default stdout)")

	// Simulate / repl flags
	simulateCmd.Flags().IntVar(&simWorkers, "workers", 4, "parallel evaluation workers")
	replCmd.Flags().StringVar(&replSheetPath, "sheet", "", "starting balance sheet JSON file")
	replCmd.Flags().StringVar(&replUser, "user", "", "user id attributed to recorded entries")

	// Add commands to root
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(aggregateCmd)
	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(adaptCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(tailCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(replCmd)
}

// #endregion root

// #region helpers

func jsonOut() bool {
	return outFormat == formatJSON
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// requireDB resolves the database path from --db or KARMALEDGER_DB.
func requireDB() (string, error) {
	if dbPath == "" {
		return "", fmt.Errorf("no database configured (set --db or KARMALEDGER_DB)")
	}
	return dbPath, nil
}

// openStore opens the durable SQLite store for read-side subcommands.
func openStore() (*ledger.SQLiteSink, error) {
	path, err := requireDB()
	if err != nil {
		return nil, err
	}
	return ledger.NewSQLiteSink(path)
}

// loadLedgerConfig returns the ledger settings, applying --config
// overrides when given. Scoring keys in the same file are ignored here.
func loadLedgerConfig() (ledger.Config, error) {
	if configPath == "" {
		return ledger.DefaultConfig(), nil
	}
	return ledger.LoadConfig(configPath)
}

// loadScoring returns the scoring tables, applying --config overrides
// when given. Ledger keys in the same file are ignored here.
func loadScoring() (karma.ScoringConfig, error) {
	if configPath == "" {
		return karma.DefaultScoringConfig(), nil
	}
	return karma.LoadScoringConfig(configPath)
}

// openLedger builds a ledger over the configured sinks. The returned
// cleanup closes them.
func openLedger() (*ledger.Ledger, func(), error) {
	cfg, err := loadLedgerConfig()
	if err != nil {
		return nil, nil, err
	}

	var sinks []ledger.Sink
	if dbPath != "" {
		s, err := ledger.NewSQLiteSink(dbPath)
		if err != nil {
			return nil, nil, err
		}
		sinks = append(sinks, s)
	}
	if jsonlPath != "" {
		s, err := ledger.NewJSONLSink(jsonlPath)
		if err != nil {
			closeSinks(sinks)
			return nil, nil, err
		}
		sinks = append(sinks, s)
	}
	if len(sinks) == 0 {
		return nil, nil, fmt.Errorf("no sink configured (set --db, KARMALEDGER_DB, or --jsonl)")
	}

	led, err := ledger.New(cfg, logger, sinks...)
	if err != nil {
		closeSinks(sinks)
		return nil, nil, err
	}
	return led, func() { _ = led.Close() }, nil
}

func closeSinks(sinks []ledger.Sink) {
	for _, s := range sinks {
		_ = s.Close()
	}
}

// loadSheet reads a balance-sheet JSON file, returning an empty sheet
// for an empty path.
func loadSheet(path string) (sheet.BalanceSheet, error) {
	if path == "" {
		return sheet.BalanceSheet{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return sheet.BalanceSheet{}, fmt.Errorf("read sheet %s: %w", path, err)
	}
	s, err := sheet.FromJSON(data)
	if err != nil {
		return sheet.BalanceSheet{}, fmt.Errorf("parse sheet %s: %w", path, err)
	}
	return s, nil
}

// #endregion helpers
