package lifecycle

import (
	"iter"
	"sort"
	"sync"

	"github.com/arthur-debert/rulekit/pkg/errors"
	"github.com/arthur-debert/rulekit/pkg/logging"
	"github.com/rs/zerolog"
)

// Retention classifies how long an output is kept
type Retention string

const (
	// Persistent outputs are never auto-deleted
	Persistent Retention = "persistent"
	// Ephemeral outputs are eligible for deletion once no longer needed
	Ephemeral Retention = "ephemeral"
)

// State is one step in an output's lifecycle
type State string

const (
	StatePending   State = "pending"
	StateProduced  State = "produced"
	StateConsumed  State = "consumed"
	StateReclaimed State = "reclaimed"
)

var stateRank = map[State]int{
	StatePending:   0,
	StateProduced:  1,
	StateConsumed:  2,
	StateReclaimed: 3,
}

// record is the tracker's bookkeeping for one output path
type record struct {
	retention Retention
	state     State
	consumers map[string]bool // consumer id -> has consumed
}

func (r *record) allConsumed() bool {
	for _, done := range r.consumers {
		if !done {
			return false
		}
	}
	return true
}

// reclaimable means ephemeral, produced, every declared consumer done,
// and not yet handed to the collector
func (r *record) reclaimable() bool {
	return r.retention == Ephemeral &&
		stateRank[r.state] >= stateRank[StateProduced] &&
		r.state != StateReclaimed &&
		r.allConsumed()
}

// Tracker records output retention classes and lifecycle states.
// Mutating operations are serialized; many concurrent rule
// completions may update the same tracker.
type Tracker struct {
	mu      sync.Mutex
	records map[string]*record
	logger  zerolog.Logger
}

// NewTracker creates an empty tracker
func NewTracker() *Tracker {
	return &Tracker{
		records: make(map[string]*record),
		logger:  logging.GetLogger("lifecycle.tracker"),
	}
}

// Register records a new output with its retention class. Registering
// the same path again with the same class is idempotent; a differing
// class fails with an OUTPUT_DUPLICATE error, because a path's
// lifetime policy must be unambiguous.
func (t *Tracker) Register(path string, retention Retention) error {
	if path == "" {
		return errors.New(errors.ErrInvalidInput, "output path cannot be empty")
	}
	if retention != Persistent && retention != Ephemeral {
		return errors.Newf(errors.ErrInvalidInput, "unknown retention class %q", retention)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if existing, ok := t.records[path]; ok {
		if existing.retention != retention {
			return errors.Newf(errors.ErrDuplicateOutput,
				"output %q already registered as %s", path, existing.retention).
				WithDetail("path", path).
				WithDetail("registered", string(existing.retention)).
				WithDetail("requested", string(retention))
		}
		return nil
	}

	t.records[path] = &record{
		retention: retention,
		state:     StatePending,
		consumers: make(map[string]bool),
	}

	t.logger.Debug().
		Str("path", path).
		Str("retention", string(retention)).
		Msg("Registered output")

	return nil
}

// AddConsumer declares that a consumer depends on an output. Allowed
// while the output is pending or produced; once all consumers have
// finished the set is closed and growing it again would move the
// record backward, which fails with a LIFECYCLE_ORDER error.
func (t *Tracker) AddConsumer(path, consumerID string) error {
	if consumerID == "" {
		return errors.New(errors.ErrInvalidInput, "consumer id cannot be empty")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	rec, err := t.lookup(path)
	if err != nil {
		return err
	}
	if stateRank[rec.state] >= stateRank[StateConsumed] {
		return errors.Newf(errors.ErrLifecycleOrder,
			"output %q is already %s, consumer set is closed", path, rec.state).
			WithDetail("path", path).
			WithDetail("state", string(rec.state))
	}

	if _, ok := rec.consumers[consumerID]; !ok {
		rec.consumers[consumerID] = false
	}
	return nil
}

// MarkProduced records that the executor finished producing an
// output. Idempotent once produced.
func (t *Tracker) MarkProduced(path string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, err := t.lookup(path)
	if err != nil {
		return err
	}
	if rec.state == StatePending {
		rec.state = StateProduced
		t.logger.Debug().Str("path", path).Msg("Output produced")
	}
	return nil
}

// MarkConsumed records that one declared consumer has finished
// reading the output. Fails with a LIFECYCLE_ORDER error before the
// output is produced, and with NOT_FOUND for an undeclared consumer.
// Once every consumer has finished the record moves to consumed.
func (t *Tracker) MarkConsumed(path, consumerID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, err := t.lookup(path)
	if err != nil {
		return err
	}
	if rec.state == StatePending {
		return errors.Newf(errors.ErrLifecycleOrder,
			"output %q consumed before being produced", path).
			WithDetail("path", path).
			WithDetail("consumer", consumerID)
	}
	done, declared := rec.consumers[consumerID]
	if !declared {
		return errors.Newf(errors.ErrNotFound,
			"consumer %q not declared for output %q", consumerID, path).
			WithDetail("path", path).
			WithDetail("consumer", consumerID)
	}
	if done {
		return nil
	}

	rec.consumers[consumerID] = true
	if rec.state == StateProduced && rec.allConsumed() {
		rec.state = StateConsumed
		t.logger.Debug().Str("path", path).Msg("Output fully consumed")
	}
	return nil
}

// MarkReclaimed records that the external collector acted on a
// reclaimable output. Fails with a LIFECYCLE_ORDER error unless the
// output is currently reclaimable.
func (t *Tracker) MarkReclaimed(path string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, err := t.lookup(path)
	if err != nil {
		return err
	}
	if !rec.reclaimable() {
		return errors.Newf(errors.ErrLifecycleOrder,
			"output %q is not reclaimable (retention %s, state %s)",
			path, rec.retention, rec.state).
			WithDetail("path", path).
			WithDetail("state", string(rec.state))
	}

	rec.state = StateReclaimed
	t.logger.Debug().Str("path", path).Msg("Output reclaimed")
	return nil
}

// State returns the current lifecycle state of an output
func (t *Tracker) State(path string) (State, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, err := t.lookup(path)
	if err != nil {
		return "", err
	}
	return rec.state, nil
}

// Retention returns the retention class of an output
func (t *Tracker) Retention(path string) (Retention, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, err := t.lookup(path)
	if err != nil {
		return "", err
	}
	return rec.retention, nil
}

// Reclaimable returns a lazy, restartable sequence of ephemeral
// output paths whose full consumer set has finished. The snapshot is
// taken under the lock when iteration starts, so a record is never
// reported mid-transition; paths come out sorted for determinism.
// Callers decide when to actually delete.
func (t *Tracker) Reclaimable() iter.Seq[string] {
	return func(yield func(string) bool) {
		t.mu.Lock()
		var paths []string
		for path, rec := range t.records {
			if rec.reclaimable() {
				paths = append(paths, path)
			}
		}
		t.mu.Unlock()

		sort.Strings(paths)
		for _, path := range paths {
			if !yield(path) {
				return
			}
		}
	}
}

// lookup must be called with the mutex held
func (t *Tracker) lookup(path string) (*record, error) {
	rec, ok := t.records[path]
	if !ok {
		return nil, errors.Newf(errors.ErrNotFound, "output %q not registered", path).
			WithDetail("path", path)
	}
	return rec, nil
}
