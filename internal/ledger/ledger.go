// Package ledger implements the single-writer, append-only, hash-chained
// event log: a bounded in-memory audit trail, per-process metrics
// counters, and durable sinks routed by component. The chain pointer
// (next index + head hash) is process-wide state; horizontally scaled
// instances each own an independent chain unless unified externally.
package ledger

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/yashikart/karmaledger/internal/metrics"
)

// #region ledger-struct

// Ledger is the single writer of the hash chain. All mutable state is
// guarded by mu; the index-assign, hash-compute, pointer-advance sequence
// runs as one critical section so concurrent callers never interleave
// partial updates.
type Ledger struct {
	mu        sync.Mutex
	cfg       Config
	diag      *zap.Logger
	clock     func() time.Time
	entropy   *rand.Rand
	sinks     map[string]Sink
	nextIndex uint64
	prevHash  string
	trail     []Entry // ring buffer, capacity cfg.TrailSize
	oldest    int     // index of the oldest retained entry once full
	counters  counters
	responses respRing
	startedAt time.Time
}

type counters struct {
	requests     uint64
	errors       uint64
	security     uint64
	karmaActions uint64
	atonements   uint64
}

// #endregion ledger-struct

// #region constructor

// New builds a ledger over the given sinks. diag may be nil; sinks may be
// omitted entirely, in which case only the in-memory trail is kept. When
// cfg.DefaultSink is empty the first sink becomes the default route. If a
// sink persists a chain head, the ledger resumes from it.
func New(cfg Config, diag *zap.Logger, sinks ...Sink) (*Ledger, error) {
	if diag == nil {
		diag = zap.NewNop()
	}
	if cfg.TrailSize <= 0 {
		cfg.TrailSize = defaultTrailSize
	}
	if cfg.SinkRetries < 0 {
		cfg.SinkRetries = 0
	}

	byName := make(map[string]Sink, len(sinks))
	for _, s := range sinks {
		if s == nil {
			continue
		}
		byName[s.Name()] = s
		if cfg.DefaultSink == "" {
			cfg.DefaultSink = s.Name()
		}
	}

	l := &Ledger{
		cfg:       cfg,
		diag:      diag,
		clock:     time.Now,
		entropy:   rand.New(rand.NewSource(time.Now().UnixNano())),
		sinks:     byName,
		prevHash:  GenesisHash,
		trail:     make([]Entry, 0, cfg.TrailSize),
		startedAt: time.Now().UTC(),
	}

	for _, s := range sinks {
		hs, ok := s.(HeadSource)
		if !ok {
			continue
		}
		next, head, err := hs.Head()
		if err != nil {
			return nil, fmt.Errorf("resume chain head: %w", err)
		}
		if head != "" {
			l.nextIndex = next
			l.prevHash = head
			diag.Info("ledger chain resumed",
				zap.Uint64("next_index", next),
				zap.String("sink", s.Name()))
		}
		break
	}

	return l, nil
}

// WithClock replaces the time source, for tests. Uptime restarts from the
// injected clock's current reading.
func (l *Ledger) WithClock(fn func() time.Time) *Ledger {
	l.clock = fn
	l.startedAt = fn().UTC()
	return l
}

// Close closes every registered sink and returns the first error.
func (l *Ledger) Close() error {
	var firstErr error
	for name, s := range l.sinks {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close sink %s: %w", name, err)
		}
	}
	return firstErr
}

// #endregion constructor

// #region record

// Record appends one entry to the chain. The caller fills the descriptive
// fields; Record fills defaults (timestamp, entry ID, request ID, level)
// and the integrity fields, writes to the routed sink, and only then
// bumps counters, pushes the trail, and advances the chain pointer. On a
// failed durable write (after bounded retry) the entry is dropped and no
// state advances; the returned error is for observability and must not
// fail the caller's accounting path.
func (l *Ledger) Record(e Entry) (Entry, error) {
	if e.Data != nil {
		canon, err := canonicalData(e.Data)
		if err != nil {
			l.diag.Warn("ledger data payload not encodable, omitted", zap.Error(err))
			e.Data = nil
		} else {
			e.Data = canon
		}
	}
	if e.Level == "" {
		e.Level = levelFor(e.EventType)
	}
	if e.Component == "" {
		e.Component = ComponentSystem
	}
	if e.RequestID == "" {
		e.RequestID = uuid.New().String()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock().UTC()
	e.Timestamp = now
	if e.EntryID == "" {
		e.EntryID = ulid.MustNew(ulid.Timestamp(now), l.entropy).String()
	}
	e.LedgerIndex = l.nextIndex
	e.PrevHash = l.prevHash
	e.EntryHash = entryHash(e)

	if sink := l.sinkFor(e.Component); sink != nil {
		if err := l.writeWithRetry(sink, e); err != nil {
			metrics.RecordDrop(sink.Name())
			l.diag.Warn("ledger write failed, entry dropped",
				zap.String("sink", sink.Name()),
				zap.Uint64("index", e.LedgerIndex),
				zap.Error(err))
			return Entry{}, fmt.Errorf("ledger write: %w", err)
		}
	}

	l.nextIndex++
	l.prevHash = e.EntryHash
	l.pushTrail(e)
	l.count(e)
	metrics.RecordEntry(string(e.EventType))
	return e, nil
}

func (l *Ledger) sinkFor(component string) Sink {
	if name, ok := l.cfg.Routes[component]; ok {
		if s, ok := l.sinks[name]; ok {
			return s
		}
	}
	return l.sinks[l.cfg.DefaultSink]
}

func (l *Ledger) writeWithRetry(s Sink, e Entry) error {
	err := s.Write(e)
	for attempt := 0; err != nil && attempt < l.cfg.SinkRetries; attempt++ {
		metrics.RecordSinkRetry(s.Name())
		l.diag.Debug("retrying ledger write",
			zap.String("sink", s.Name()),
			zap.Int("attempt", attempt+1),
			zap.Error(err))
		err = s.Write(e)
	}
	return err
}

func (l *Ledger) pushTrail(e Entry) {
	if len(l.trail) < cap(l.trail) {
		l.trail = append(l.trail, e)
		return
	}
	l.trail[l.oldest] = e
	l.oldest = (l.oldest + 1) % len(l.trail)
}

func (l *Ledger) count(e Entry) {
	switch e.EventType {
	case EventAPIRequest:
		l.counters.requests++
	case EventAPIResponse:
		if e.Performance != nil {
			l.responses.push(e.Performance.ResponseTimeMs)
		}
	case EventValidationError, EventSystemError:
		l.counters.errors++
	case EventSecurityEvent:
		l.counters.security++
	case EventKarmaAction:
		l.counters.karmaActions++
	case EventAtonement:
		l.counters.atonements++
	}
}

// #endregion record

// #region convenience

// MarshalData encodes an arbitrary payload for Entry.Data. It returns nil
// when v is nil or not encodable; Record treats nil as no payload.
func MarshalData(v any) json.RawMessage {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return b
}

// RecordAPIRequest records an incoming request against the api component.
func (l *Ledger) RecordAPIRequest(requestID, userID, message string, data any) (Entry, error) {
	return l.Record(Entry{
		EventType: EventAPIRequest,
		Component: ComponentAPI,
		RequestID: requestID,
		UserID:    userID,
		Message:   message,
		Data:      MarshalData(data),
	})
}

// RecordAPIResponse records a completed request; responseMs feeds the
// rolling average response time.
func (l *Ledger) RecordAPIResponse(requestID, userID string, responseMs float64) (Entry, error) {
	return l.Record(Entry{
		EventType:   EventAPIResponse,
		Component:   ComponentAPI,
		RequestID:   requestID,
		UserID:      userID,
		Message:     "request completed",
		Performance: &PerformanceMetrics{ResponseTimeMs: responseMs},
	})
}

// RecordValidationError records a rejected input.
func (l *Ledger) RecordValidationError(requestID, userID, message string) (Entry, error) {
	return l.Record(Entry{
		EventType:    EventValidationError,
		Component:    ComponentAPI,
		RequestID:    requestID,
		UserID:       userID,
		Message:      message,
		ErrorDetails: &ErrorDetails{Type: "validation", Message: message},
	})
}

// RecordKarmaAction records one evaluated karma action with its deltas as
// the data payload.
func (l *Ledger) RecordKarmaAction(userID, requestID, action string, data any) (Entry, error) {
	return l.Record(Entry{
		EventType: EventKarmaAction,
		Component: ComponentKarma,
		UserID:    userID,
		RequestID: requestID,
		Message:   "karma action: " + action,
		Data:      MarshalData(data),
	})
}

// RecordAtonement records a completed corrective practice.
func (l *Ledger) RecordAtonement(userID, requestID, practice string, data any) (Entry, error) {
	return l.Record(Entry{
		EventType: EventAtonement,
		Component: ComponentKarma,
		UserID:    userID,
		RequestID: requestID,
		Message:   "atonement: " + practice,
		Data:      MarshalData(data),
	})
}

// RecordSecurityEvent records a security-relevant event against the auth
// component.
func (l *Ledger) RecordSecurityEvent(userID, requestID, message string, data any) (Entry, error) {
	return l.Record(Entry{
		EventType: EventSecurityEvent,
		Component: ComponentAuth,
		UserID:    userID,
		RequestID: requestID,
		Message:   message,
		Data:      MarshalData(data),
	})
}

// RecordSystemError records an internal failure with structured error
// details when err is non-nil.
func (l *Ledger) RecordSystemError(component, requestID, message string, err error) (Entry, error) {
	e := Entry{
		EventType: EventSystemError,
		Component: component,
		RequestID: requestID,
		Message:   message,
	}
	if err != nil {
		e.ErrorDetails = &ErrorDetails{Type: fmt.Sprintf("%T", err), Message: err.Error()}
	}
	return l.Record(e)
}

// RecordPerformance records a standalone timing measurement.
func (l *Ledger) RecordPerformance(component, operation string, durationMs float64) (Entry, error) {
	return l.Record(Entry{
		EventType:   EventPerformanceMetric,
		Component:   component,
		Message:     "performance: " + operation,
		Performance: &PerformanceMetrics{Operation: operation, DurationMs: durationMs},
	})
}

// #endregion convenience

// #region queries

// Metrics returns a snapshot of the counters, the rolling average
// response time, and the chain head.
func (l *Ledger) Metrics() Metrics {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Metrics{
		RequestCount:      l.counters.requests,
		ErrorCount:        l.counters.errors,
		SecurityCount:     l.counters.security,
		KarmaActionCount:  l.counters.karmaActions,
		AtonementCount:    l.counters.atonements,
		AvgResponseTimeMs: l.responses.avg(),
		TrailSize:         len(l.trail),
		NextIndex:         l.nextIndex,
		HeadHash:          l.prevHash,
		UptimeSeconds:     l.clock().UTC().Sub(l.startedAt).Seconds(),
	}
}

// AuditTrail returns the most recent matching entries from the in-memory
// trail, newest first. It is best-effort: entries evicted from the ring
// are only available from a durable sink.
func (l *Ledger) AuditTrail(f TrailFilter) []Entry {
	l.mu.Lock()
	snap := l.snapshotTrail()
	l.mu.Unlock()

	limit := f.Limit
	if limit <= 0 || limit > len(snap) {
		limit = len(snap)
	}
	out := make([]Entry, 0, limit)
	for i := len(snap) - 1; i >= 0 && len(out) < limit; i-- {
		e := snap[i]
		if f.UserID != "" && e.UserID != f.UserID {
			continue
		}
		if f.EventType != "" && e.EventType != f.EventType {
			continue
		}
		out = append(out, e)
	}
	return out
}

// ExportTrail writes every retained entry, oldest first, as JSON Lines
// with its index and hash for offline verification.
func (l *Ledger) ExportTrail(w io.Writer) error {
	l.mu.Lock()
	snap := l.snapshotTrail()
	l.mu.Unlock()

	enc := json.NewEncoder(w)
	for _, e := range snap {
		if err := enc.Encode(e); err != nil {
			return fmt.Errorf("export entry %d: %w", e.LedgerIndex, err)
		}
	}
	return nil
}

// snapshotTrail copies the ring oldest-first. Callers must hold mu.
func (l *Ledger) snapshotTrail() []Entry {
	out := make([]Entry, 0, len(l.trail))
	out = append(out, l.trail[l.oldest:]...)
	out = append(out, l.trail[:l.oldest]...)
	return out
}

// #endregion queries

// #region response-window

const responseWindow = 100

// respRing keeps the last responseWindow api_response timings.
type respRing struct {
	samples [responseWindow]float64
	n       int
	next    int
}

func (r *respRing) push(v float64) {
	r.samples[r.next] = v
	r.next = (r.next + 1) % responseWindow
	if r.n < responseWindow {
		r.n++
	}
}

func (r *respRing) avg() float64 {
	if r.n == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < r.n; i++ {
		sum += r.samples[i]
	}
	return sum / float64(r.n)
}

// #endregion response-window
