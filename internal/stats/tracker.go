package stats

import (
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/tomz197/snake/internal/loop"
	"github.com/tomz197/snake/internal/store"
)

// Tracker updates the lifetime record from controller updates. Each change is merged
// into the stored record, so trackers sharing a store add to one record.
type Tracker struct {
	mu       sync.Mutex
	store    store.Store
	record   Record
	onUnlock []func(Achievement)
	logger   *log.Logger
}

// Compile-time check that Tracker implements loop.Observer.
var _ loop.Observer = (*Tracker)(nil)

// NewTracker loads the record from s. A missing or unreadable record starts empty.
func NewTracker(s store.Store, logger *log.Logger) *Tracker {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	t := &Tracker{store: s, record: Empty(), logger: logger}
	t.load()
	return t
}

// OnUnlock registers fn to run after an achievement is unlocked for the first time.
func (t *Tracker) OnUnlock(fn func(Achievement)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onUnlock = append(t.onUnlock, fn)
}

// Record returns a copy of the current record.
func (t *Tracker) Record() Record {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.record.Clone()
}

// Observe implements loop.Observer.
func (t *Tracker) Observe(u loop.Update) {
	ch := changeFor(u)
	if ch == nil {
		return
	}

	t.mu.Lock()
	unlocked := t.apply(ch)
	callbacks := t.onUnlock
	t.mu.Unlock()

	for _, a := range unlocked {
		t.logger.Info("achievement unlocked", "id", a.ID)
		for _, fn := range callbacks {
			fn(a)
		}
	}
}

// change folds one update into a record. It reports the achievements it unlocked
// and whether the record needs writing.
type change func(r Record) (next Record, unlocked []Achievement, changed bool)

// changeFor returns the change an update makes, or nil when it makes none.
func changeFor(u loop.Update) change {
	ate := u.Tick.Ate
	over := u.Event == loop.EventGameOver && u.State.Started
	reset := u.Event == loop.EventStatsReset
	if !ate && !over && !reset {
		return nil
	}
	return func(r Record) (Record, []Achievement, bool) {
		var unlocked []Achievement
		unlock := func(a Achievement) {
			var added bool
			if r, added = r.Unlock(a.ID); added {
				unlocked = append(unlocked, a)
			}
		}
		if ate {
			for _, a := range Crossed(u.Tick.PrevScore, u.Tick.Score) {
				unlock(a)
			}
		}
		if over {
			r = r.WithGame(u.State.Score, len(u.State.Snake))
			if !u.PauseUsed {
				a, _ := Lookup(NoPause)
				unlock(a)
			}
		}
		if reset {
			r = Empty()
		}
		return r, unlocked, over || reset || len(unlocked) > 0
	}
}

// apply runs ch against the stored record inside a store update, so sessions
// sharing a record add to it instead of overwriting each other. When the store
// fails the change is kept in memory only. Must be called with t.mu held.
func (t *Tracker) apply(ch change) []Achievement {
	if t.store == nil {
		next, unlocked, _ := ch(t.record)
		t.record = next
		return unlocked
	}

	var (
		next     Record
		unlocked []Achievement
	)
	err := t.store.Update(store.StatsKey, func(old string, ok bool) (string, bool) {
		base := Empty()
		if ok {
			rec, err := Decode(old)
			if err != nil {
				t.logger.Warn("discarding stored stats", "err", err)
			} else {
				base = rec
			}
		}
		var changed bool
		next, unlocked, changed = ch(base)
		if !changed {
			return old, false
		}
		raw, err := next.Encode()
		if err != nil {
			t.logger.Warn("failed to encode stats", "err", err)
			return old, false
		}
		return raw, true
	})
	if err != nil {
		t.logger.Warn("failed to persist stats", "err", err)
		next, unlocked, _ = ch(t.record)
	}
	t.record = next
	return unlocked
}

func (t *Tracker) load() {
	if t.store == nil {
		return
	}
	raw, ok, err := t.store.Get(store.StatsKey)
	if err != nil {
		t.logger.Warn("failed to load stats", "err", err)
		return
	}
	if !ok {
		return
	}
	rec, err := Decode(raw)
	if err != nil {
		t.logger.Warn("discarding stored stats", "err", err)
		return
	}
	t.record = rec
}
