package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// #region event-types

// EventType classifies a ledger entry.
type EventType string

const (
	EventAPIRequest        EventType = "api_request"
	EventAPIResponse       EventType = "api_response"
	EventValidationError   EventType = "validation_error"
	EventKarmaAction       EventType = "karma_action"
	EventAtonement         EventType = "atonement"
	EventSystemError       EventType = "system_error"
	EventSecurityEvent     EventType = "security_event"
	EventPerformanceMetric EventType = "performance_metric"
)

// Level is the severity of a ledger entry.
type Level string

const (
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// levelFor derives the default level for an event type. Callers can still
// set an explicit level on the entry before recording.
func levelFor(t EventType) Level {
	switch t {
	case EventValidationError, EventSystemError:
		return LevelError
	case EventSecurityEvent:
		return LevelWarn
	default:
		return LevelInfo
	}
}

// #endregion event-types

// #region components

// Component names used for sink routing. Free-form strings are accepted;
// these are the ones the convenience recorders use.
const (
	ComponentAPI    = "api"
	ComponentKarma  = "karma"
	ComponentAuth   = "auth"
	ComponentSystem = "system"
)

// #endregion components

// #region entry

// ErrorDetails carries structured error context on an entry.
type ErrorDetails struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// PerformanceMetrics carries timing data on an entry. ResponseTimeMs is
// set on api_response entries and feeds the rolling average; Operation
// and DurationMs describe standalone performance_metric entries.
type PerformanceMetrics struct {
	ResponseTimeMs float64 `json:"response_time_ms,omitempty"`
	Operation      string  `json:"operation,omitempty"`
	DurationMs     float64 `json:"duration_ms,omitempty"`
}

// Entry is one persisted, append-only ledger record. Descriptive fields
// come from the caller; EntryID, Timestamp, LedgerIndex, PrevHash and
// EntryHash are filled at write time. Entries are immutable once written;
// corrections are new compensating entries.
//
// The JSON encoding of an Entry is canonical: struct field order is fixed
// and the Data payload is normalized at record time, so re-encoding a
// decoded entry reproduces the exact bytes that were hashed.
type Entry struct {
	EntryID      string              `json:"entry_id"`
	LedgerIndex  uint64              `json:"ledger_index"`
	Timestamp    time.Time           `json:"timestamp"`
	Level        Level               `json:"level"`
	EventType    EventType           `json:"event_type"`
	Component    string              `json:"component"`
	UserID       string              `json:"user_id,omitempty"`
	SessionID    string              `json:"session_id,omitempty"`
	RequestID    string              `json:"request_id"`
	Message      string              `json:"message"`
	Data         json.RawMessage     `json:"data,omitempty"`
	ErrorDetails *ErrorDetails       `json:"error_details,omitempty"`
	Performance  *PerformanceMetrics `json:"performance_metrics,omitempty"`
	PrevHash     string              `json:"previous_hash"`
	EntryHash    string              `json:"entry_hash"`
}

// #endregion entry

// #region filter

// TrailFilter selects entries from the in-memory trail or the durable
// store. Zero-valued fields match everything; Limit <= 0 means no limit
// for the trail and a small default for store queries.
type TrailFilter struct {
	UserID    string
	EventType EventType
	Limit     int
}

// #endregion filter

// #region metrics

// Metrics is a point-in-time snapshot of the ledger counters.
type Metrics struct {
	RequestCount      uint64  `json:"request_count"`
	ErrorCount        uint64  `json:"error_count"`
	SecurityCount     uint64  `json:"security_count"`
	KarmaActionCount  uint64  `json:"karma_action_count"`
	AtonementCount    uint64  `json:"atonement_count"`
	AvgResponseTimeMs float64 `json:"avg_response_time_ms"`
	TrailSize         int     `json:"trail_size"`
	NextIndex         uint64  `json:"next_index"`
	HeadHash          string  `json:"head_hash"`
	UptimeSeconds     float64 `json:"uptime_seconds"`
}

// #endregion metrics

// #region config

const defaultTrailSize = 1000

// Config holds the ledger tuning knobs. Routes maps a component name to
// a sink name; components without a route use DefaultSink.
type Config struct {
	TrailSize   int               `yaml:"trail_size"`
	SinkRetries int               `yaml:"sink_retries"`
	DefaultSink string            `yaml:"default_sink"`
	Routes      map[string]string `yaml:"routes"`
}

// DefaultConfig returns the documented defaults: a 1000-entry trail and
// one retry per failed durable write.
func DefaultConfig() Config {
	return Config{
		TrailSize:   defaultTrailSize,
		SinkRetries: 1,
	}
}

// LoadConfig reads a YAML override file on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read ledger config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse ledger config: %w", err)
	}
	return cfg, nil
}

// #endregion config
