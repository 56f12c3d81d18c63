package ledger

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS ledger_entries (
	ledger_index  INTEGER PRIMARY KEY,
	entry_id      TEXT NOT NULL,
	timestamp     TEXT NOT NULL,
	level         TEXT NOT NULL,
	event_type    TEXT NOT NULL,
	component     TEXT NOT NULL,
	user_id       TEXT,
	session_id    TEXT,
	request_id    TEXT NOT NULL,
	message       TEXT NOT NULL,
	data_json     TEXT,
	error_json    TEXT,
	perf_json     TEXT,
	previous_hash TEXT NOT NULL,
	entry_hash    TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_ledger_user ON ledger_entries(user_id);
CREATE INDEX IF NOT EXISTS idx_ledger_type ON ledger_entries(event_type);

CREATE TABLE IF NOT EXISTS ledger_head (
	id            INTEGER PRIMARY KEY CHECK (id = 1),
	next_index    INTEGER NOT NULL,
	head_hash     TEXT NOT NULL,
	updated_at    TEXT NOT NULL
);
`
// #endregion schema

// #region sink-struct
// SQLiteSink persists ledger entries and the chain head in SQLite. The
// ledger_index primary key enforces append-only writes: re-writing an
// existing index fails instead of silently overwriting history.
type SQLiteSink struct {
	db *sql.DB
}
// #endregion sink-struct

// #region constructor
// NewSQLiteSink opens a SQLite database and runs migrations.
func NewSQLiteSink(dbPath string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &SQLiteSink{db: db}, nil
}
// #endregion constructor

// #region sink-impl
// Name returns the routing name for Config.Routes.
func (s *SQLiteSink) Name() string {
	return SinkSQLite
}

// Write inserts the entry and advances the persisted chain head in one
// transaction, so a confirmed write always leaves head and history
// consistent.
func (s *SQLiteSink) Write(e Entry) error {
	var errJSON, perfJSON interface{}
	if e.ErrorDetails != nil {
		b, err := json.Marshal(e.ErrorDetails)
		if err != nil {
			return fmt.Errorf("marshal error details: %w", err)
		}
		errJSON = string(b)
	}
	if e.Performance != nil {
		b, err := json.Marshal(e.Performance)
		if err != nil {
			return fmt.Errorf("marshal performance metrics: %w", err)
		}
		perfJSON = string(b)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO ledger_entries (ledger_index, entry_id, timestamp, level, event_type, component,
		   user_id, session_id, request_id, message, data_json, error_json, perf_json, previous_hash, entry_hash)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.LedgerIndex, e.EntryID, e.Timestamp.UTC().Format(time.RFC3339Nano),
		string(e.Level), string(e.EventType), e.Component,
		nullIfEmpty(e.UserID), nullIfEmpty(e.SessionID), e.RequestID, e.Message,
		nullIfEmpty(string(e.Data)), errJSON, perfJSON,
		e.PrevHash, e.EntryHash,
	)
	if err != nil {
		return fmt.Errorf("insert ledger entry: %w", err)
	}

	_, err = tx.Exec(
		`INSERT INTO ledger_head (id, next_index, head_hash, updated_at) VALUES (1, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET next_index = excluded.next_index,
		   head_hash = excluded.head_hash, updated_at = excluded.updated_at`,
		e.LedgerIndex+1, e.EntryHash, e.Timestamp.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("advance head: %w", err)
	}

	return tx.Commit()
}

// Close closes the underlying database connection.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}
// #endregion sink-impl

// #region head
// Head reads the persisted chain head. A store with no head yet returns
// (0, "", nil); the ledger treats that as a fresh chain.
func (s *SQLiteSink) Head() (uint64, string, error) {
	var next uint64
	var hash string
	err := s.db.QueryRow(`SELECT next_index, head_hash FROM ledger_head WHERE id = 1`).Scan(&next, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, "", nil
	}
	if err != nil {
		return 0, "", fmt.Errorf("read chain head: %w", err)
	}
	return next, hash, nil
}
// #endregion head

// #region queries
// Entries returns entries with ledger_index >= from in index order.
// limit <= 0 returns everything.
func (s *SQLiteSink) Entries(from uint64, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(
		`SELECT ledger_index, entry_id, timestamp, level, event_type, component,
		   user_id, session_id, request_id, message, data_json, error_json, perf_json, previous_hash, entry_hash
		 FROM ledger_entries WHERE ledger_index >= ? ORDER BY ledger_index ASC LIMIT ?`,
		from, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()
	return collectEntries(rows)
}

// Recent returns the most recent entries matching the filter, newest
// first. A non-positive limit defaults to 20.
func (s *SQLiteSink) Recent(f TrailFilter) ([]Entry, error) {
	q := `SELECT ledger_index, entry_id, timestamp, level, event_type, component,
	   user_id, session_id, request_id, message, data_json, error_json, perf_json, previous_hash, entry_hash
	 FROM ledger_entries`
	var conds []string
	var args []interface{}
	if f.UserID != "" {
		conds = append(conds, "user_id = ?")
		args = append(args, f.UserID)
	}
	if f.EventType != "" {
		conds = append(conds, "event_type = ?")
		args = append(args, string(f.EventType))
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	q += " ORDER BY ledger_index DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("query recent: %w", err)
	}
	defer rows.Close()
	return collectEntries(rows)
}

// CountByType returns the number of stored entries per event type.
func (s *SQLiteSink) CountByType() (map[EventType]uint64, error) {
	rows, err := s.db.Query(`SELECT event_type, COUNT(*) FROM ledger_entries GROUP BY event_type`)
	if err != nil {
		return nil, fmt.Errorf("count by type: %w", err)
	}
	defer rows.Close()

	out := make(map[EventType]uint64)
	for rows.Next() {
		var t string
		var n uint64
		if err := rows.Scan(&t, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		out[EventType(t)] = n
	}
	return out, rows.Err()
}

// Export streams the full stored history, oldest first, as JSON Lines.
func (s *SQLiteSink) Export(w io.Writer) error {
	entries, err := s.Entries(0, 0)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	for _, e := range entries {
		if err := enc.Encode(e); err != nil {
			return fmt.Errorf("export entry %d: %w", e.LedgerIndex, err)
		}
	}
	return nil
}
// #endregion queries

// #region row-mapping
func collectEntries(rows *sql.Rows) ([]Entry, error) {
	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanEntry(rows *sql.Rows) (Entry, error) {
	var e Entry
	var ts, level, eventType string
	var userID, sessionID, dataJSON, errJSON, perfJSON sql.NullString

	err := rows.Scan(&e.LedgerIndex, &e.EntryID, &ts, &level, &eventType, &e.Component,
		&userID, &sessionID, &e.RequestID, &e.Message, &dataJSON, &errJSON, &perfJSON,
		&e.PrevHash, &e.EntryHash)
	if err != nil {
		return Entry{}, fmt.Errorf("scan ledger entry: %w", err)
	}

	e.Timestamp, _ = time.Parse(time.RFC3339Nano, ts)
	e.Level = Level(level)
	e.EventType = EventType(eventType)
	if userID.Valid {
		e.UserID = userID.String
	}
	if sessionID.Valid {
		e.SessionID = sessionID.String
	}
	if dataJSON.Valid && dataJSON.String != "" {
		e.Data = json.RawMessage(dataJSON.String)
	}
	if errJSON.Valid {
		var d ErrorDetails
		if err := json.Unmarshal([]byte(errJSON.String), &d); err != nil {
			return Entry{}, fmt.Errorf("unmarshal error details: %w", err)
		}
		e.ErrorDetails = &d
	}
	if perfJSON.Valid {
		var p PerformanceMetrics
		if err := json.Unmarshal([]byte(perfJSON.String), &p); err != nil {
			return Entry{}, fmt.Errorf("unmarshal performance metrics: %w", err)
		}
		e.Performance = &p
	}

	return e, nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
// #endregion row-mapping
