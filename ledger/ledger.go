/*
ledger.go - The lesson capacity budget state machine

PURPOSE:
  The Ledger exclusively owns the capacity budget (total/completed/
  remaining hours) and the lesson history. All transitions are atomic:
  validate, mutate, persist, then notify. Validation failures are
  returned before any mutation; persistence and dispatch failures never
  unwind a committed mutation.

CRITICAL INVARIANTS:
  1. HoursRemaining >= 0, enforced by rejecting bookings that would
     violate it (and clamped at zero to absorb arithmetic drift)
  2. HoursCompleted + HoursRemaining = TotalHours after every
     successful booking
  3. HoursCompleted only increases, and only via successful bookings
  4. IntroAcknowledged transitions false -> true exactly once

CONCURRENCY:
  There is exactly one logical writer. A mutex serializes operations so
  the validate-mutate-persist sequence cannot interleave; dispatch runs
  after the lock is released and only affects the returned Outcome.

DEDUPLICATION:
  Two bookings with identical arguments create two distinct lessons.
  The budget invariant, not uniqueness, is the contract.

SEE ALSO:
  - snapshot.go: Persistence schema and tolerant restore
  - errors.go: Error taxonomy
  - notify: Post-commit notification dispatch
*/
package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/strum/lesson-engine/notify"
)

// Ledger owns the capacity budget and lesson history.
type Ledger struct {
	mu         sync.Mutex
	state      State
	store      Store
	dispatcher notify.Dispatcher
	log        *zap.Logger
	now        func() time.Time
}

// Option configures a Ledger at Open time.
type Option func(*Ledger)

// WithDispatcher sets the notification sink. Defaults to the local
// (no network effect) dispatcher.
func WithDispatcher(d notify.Dispatcher) Option {
	return func(l *Ledger) { l.dispatcher = d }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(l *Ledger) { l.log = log }
}

// WithDefaultHours overrides the initial allotment used on first run.
func WithDefaultHours(total decimal.Decimal) Option {
	return func(l *Ledger) { l.state.TotalHours = total }
}

// WithNow overrides the clock, for tests.
func WithNow(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// Open restores persisted state from the store, falling back to defaults
// per field when storage is missing or malformed. A storage read failure
// degrades to in-memory defaults with a warning; it is never fatal.
func Open(ctx context.Context, st Store, opts ...Option) (*Ledger, error) {
	if st == nil {
		return nil, fmt.Errorf("ledger: nil store")
	}

	l := &Ledger{
		store: st,
		state: defaultState(DefaultTotalHours),
		log:   zap.NewNop(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.dispatcher == nil {
		l.dispatcher = notify.NewLocal(l.log)
	}
	defaultTotal := l.state.TotalHours
	l.state = defaultState(defaultTotal)

	kv, err := st.Load(ctx)
	if err != nil {
		l.log.Warn("storage unavailable, using in-memory defaults",
			zap.Error(fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)))
		return l, nil
	}

	state, firstRun := decodeState(kv, defaultTotal)
	l.state = state
	if firstRun {
		// Seed the versioned schema so a later restart is not mistaken
		// for another first run.
		l.persistLocked(ctx)
	}
	return l, nil
}

// State returns a copy of the current state.
func (l *Ledger) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.Clone()
}

// Lessons returns the booking history, newest first.
func (l *Ledger) Lessons() []Lesson {
	return l.State().Lessons
}

// =============================================================================
// OPERATIONS
// =============================================================================

// RequestLesson books a lesson against the remaining balance.
//
// Validation order: past date, invalid interval, insufficient hours.
// On success the lesson is prepended to the history, the budget is moved
// from remaining to completed, state is persisted, and a LessonRequested
// event is dispatched. Dispatch happens after the booking is committed;
// its outcome is carried on the returned Booking and never rolls the
// booking back.
func (l *Ledger) RequestLesson(ctx context.Context, req LessonRequest) (*Booking, error) {
	l.mu.Lock()

	duration := Duration(req.Start, req.End)

	if req.Date.Before(DateOf(l.now())) {
		l.mu.Unlock()
		return nil, ErrPastDate
	}
	if duration.Sign() <= 0 {
		l.mu.Unlock()
		return nil, ErrInvalidInterval
	}
	if duration.GreaterThan(l.state.HoursRemaining) {
		err := &InsufficientHoursError{
			Available: l.state.HoursRemaining,
			Requested: duration,
			Shortfall: duration.Sub(l.state.HoursRemaining),
		}
		l.mu.Unlock()
		return nil, err
	}

	lesson := Lesson{
		ID:            NewLessonID(),
		Date:          req.Date,
		StartTime:     req.Start,
		EndTime:       req.End,
		DurationHours: duration,
		Topic:         req.Topic,
		Notes:         "",
		CreatedAt:     l.now().UTC(),
	}

	l.state.Lessons = append([]Lesson{lesson}, l.state.Lessons...)
	l.state.HoursCompleted = l.state.HoursCompleted.Add(duration)
	l.state.HoursRemaining = clampZero(l.state.HoursRemaining.Sub(duration))
	l.persistLocked(ctx)
	l.mu.Unlock()

	outcome := l.dispatcher.Notify(ctx, notify.LessonRequested{
		LessonID:      string(lesson.ID),
		Date:          lesson.Date.String(),
		StartTime:     lesson.StartTime.String(),
		EndTime:       lesson.EndTime.String(),
		DurationHours: lesson.DurationHours.String(),
		Topic:         lesson.Topic,
	})
	if !outcome.Delivered {
		l.log.Warn("lesson booked but notification not delivered",
			zap.String("lesson_id", string(lesson.ID)),
			zap.String("outcome", outcome.Message),
			zap.Error(outcome.Err))
	}

	return &Booking{Lesson: lesson, Dispatch: outcome}, nil
}

// UpdateNotes overwrites the practice notes of a lesson. An unknown id is
// a no-op, not an error: notes editing is independent of booking validity.
func (l *Ledger) UpdateNotes(ctx context.Context, id LessonID, text string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.state.Lessons {
		if l.state.Lessons[i].ID == id {
			l.state.Lessons[i].Notes = text
			l.persistLocked(ctx)
			return nil
		}
	}
	return nil
}

// RequestHours grants a top-up: both the total and the remaining balance
// grow by amount. HoursCompleted is untouched. The HoursRequested event is
// dispatched after the grant is committed.
func (l *Ledger) RequestHours(ctx context.Context, amount decimal.Decimal, reason string) (State, notify.Outcome, error) {
	l.mu.Lock()

	if amount.Sign() <= 0 {
		l.mu.Unlock()
		return State{}, notify.Outcome{}, ErrInvalidAmount
	}

	l.state.TotalHours = l.state.TotalHours.Add(amount)
	l.state.HoursRemaining = l.state.HoursRemaining.Add(amount)
	l.persistLocked(ctx)
	state := l.state.Clone()
	l.mu.Unlock()

	outcome := l.dispatcher.Notify(ctx, notify.HoursRequested{
		Amount: amount.String(),
		Reason: reason,
	})
	if !outcome.Delivered {
		l.log.Warn("hours granted but notification not delivered",
			zap.String("amount", amount.String()),
			zap.String("outcome", outcome.Message),
			zap.Error(outcome.Err))
	}

	return state, outcome, nil
}

// AcknowledgeIntro flips the one-way intro gate. Subsequent calls are no-ops.
func (l *Ledger) AcknowledgeIntro(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state.IntroAcknowledged {
		return
	}
	l.state.IntroAcknowledged = true
	l.persistLocked(ctx)
}

// IntroAcknowledged reports the intro gate.
func (l *Ledger) IntroAcknowledged() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.IntroAcknowledged
}

// persistLocked writes the full state through to the store. A write
// failure is logged and swallowed: the in-memory mutation stands, and the
// worst case is a stale snapshot, never loss of a committed booking
// within the session.
func (l *Ledger) persistLocked(ctx context.Context) {
	if err := l.store.Save(ctx, encodeState(l.state)); err != nil {
		l.log.Warn("state not persisted",
			zap.Error(fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)))
	}
}
