package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// #region jsonl-sink

// JSONLSink appends entries to a JSON Lines file, one entry per line.
// Writes are OS-buffered; Close syncs the file. The encoded lines are the
// same canonical form ExportTrail produces, so a sink file feeds directly
// into ReadEntries + VerifyEntries.
type JSONLSink struct {
	mu   sync.Mutex
	path string
	f    *os.File
}

// NewJSONLSink opens (or creates) the file in append mode.
func NewJSONLSink(path string) (*JSONLSink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open jsonl sink: %w", err)
	}
	return &JSONLSink{path: path, f: f}, nil
}

// Name returns the routing name for Config.Routes.
func (s *JSONLSink) Name() string {
	return SinkJSONL
}

// Path returns the file the sink appends to.
func (s *JSONLSink) Path() string {
	return s.path
}

// Write appends one encoded entry.
func (s *JSONLSink) Write(e Entry) error {
	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode entry: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.f.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("append entry: %w", err)
	}
	return nil
}

// Close syncs and closes the file.
func (s *JSONLSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.f.Sync(); err != nil {
		s.f.Close()
		return fmt.Errorf("sync jsonl sink: %w", err)
	}
	return s.f.Close()
}

// #endregion jsonl-sink
