package ledger

// #region sink-interface

// Sink is a durable destination for ledger entries. Write must be atomic:
// either the entry is fully persisted or an error comes back and nothing
// is kept. Sinks are registered under their Name for component routing.
type Sink interface {
	Name() string
	Write(e Entry) error
	Close() error
}

// HeadSource is implemented by sinks that persist the chain head. The
// ledger resumes from the first head-bearing sink it is given, so a
// restarted process extends the existing chain instead of forking one.
type HeadSource interface {
	Head() (next uint64, headHash string, err error)
}

// #endregion sink-interface

// Sink names used by the built-in implementations and Config.Routes.
const (
	SinkSQLite = "sqlite"
	SinkJSONL  = "jsonl"
)
