// Package ledger implements the lesson capacity budget: hours granted vs.
// hours consumed by booked lessons, with durable key/value persistence.
package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/strum/lesson-engine/notify"
)

// =============================================================================
// LESSON - A booked session
// =============================================================================

type LessonID string

func NewLessonID() LessonID { return LessonID(uuid.NewString()) }

// Lesson is a booked session. Only Notes is ever mutated after creation;
// lessons are never deleted.
type Lesson struct {
	ID            LessonID        `json:"id"`
	Date          Date            `json:"date"`
	StartTime     Clock           `json:"start_time"`
	EndTime       Clock           `json:"end_time"`
	DurationHours decimal.Decimal `json:"duration_hours"`
	Topic         string          `json:"topic,omitempty"`
	Notes         string          `json:"notes"`
	CreatedAt     time.Time       `json:"created_at"`
}

// LessonRequest is the input to a booking.
type LessonRequest struct {
	Date  Date
	Start Clock
	End   Clock
	Topic string
}

// Booking is the result of a successful RequestLesson call. Dispatch carries
// the notification outcome; the booking itself is already committed.
type Booking struct {
	Lesson   Lesson
	Dispatch notify.Outcome
}

// =============================================================================
// STATE - The capacity budget
// =============================================================================

// DefaultTotalHours is the initial allotment when no persisted state exists.
var DefaultTotalHours = decimal.NewFromInt(30)

// State is the capacity budget plus booking history.
//
// INVARIANTS:
//   - HoursRemaining >= 0 at all times
//   - HoursCompleted is monotonically non-decreasing
//   - IntroAcknowledged is one-way: false -> true, never reset
//   - Lessons is ordered newest first
type State struct {
	TotalHours        decimal.Decimal
	HoursCompleted    decimal.Decimal
	HoursRemaining    decimal.Decimal
	Lessons           []Lesson
	IntroAcknowledged bool
}

func defaultState(total decimal.Decimal) State {
	return State{
		TotalHours:     total,
		HoursCompleted: decimal.Zero,
		HoursRemaining: total,
		Lessons:        nil,
	}
}

// Clone returns a deep copy. Callers never hold the authoritative state.
func (s State) Clone() State {
	out := s
	out.Lessons = make([]Lesson, len(s.Lessons))
	copy(out.Lessons, s.Lessons)
	return out
}
