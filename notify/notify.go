/*
Package notify is the abstract notification sink for ledger events.

PURPOSE:
  Booking success and request delivery are decoupled: the ledger commits
  its state transition first, then hands an event to a Dispatcher. The
  dispatch outcome only affects what the user sees, never the booking.

DELIVERY CONTRACT:
  At most one attempt. No retry, no backoff, no cancellation of an
  in-flight attempt - callers may only ignore the outcome. Transport
  failures are reported as Outcome values, never as errors that could be
  mistaken for a failed booking.

BINDINGS:
  local.go   No network effect; always delivered.
  form.go    URL-encoded POST to a fixed endpoint.
  issues.go  Authenticated issue creation on a remote tracker.

SEE ALSO:
  - factory.go: Config-driven binding selection
*/
package notify

import (
	"context"
	"errors"
)

// ErrDispatchFailed wraps transport-level delivery failures.
var ErrDispatchFailed = errors.New("notification dispatch failed")

// =============================================================================
// EVENTS
// =============================================================================

type EventKind string

const (
	KindLessonRequested EventKind = "lesson_requested"
	KindHoursRequested  EventKind = "hours_requested"
	KindLessonReminder  EventKind = "lesson_reminder"
)

// Event is a ledger occurrence worth telling a human reviewer about.
// Fields carry only plain strings so every binding can serialize them.
type Event interface {
	Kind() EventKind
	// Title is a one-line human-readable summary.
	Title() string
	// Fields returns the event payload for form-style transports.
	Fields() map[string]string
}

// LessonRequested is emitted after a lesson booking commits.
type LessonRequested struct {
	LessonID      string
	Date          string
	StartTime     string
	EndTime       string
	DurationHours string
	Topic         string
}

func (e LessonRequested) Kind() EventKind { return KindLessonRequested }

func (e LessonRequested) Title() string {
	return "Lesson request: " + e.Date + " " + e.StartTime + "-" + e.EndTime
}

func (e LessonRequested) Fields() map[string]string {
	return map[string]string{
		"lesson_id":      e.LessonID,
		"date":           e.Date,
		"start_time":     e.StartTime,
		"end_time":       e.EndTime,
		"duration_hours": e.DurationHours,
		"topic":          e.Topic,
	}
}

// HoursRequested is emitted after an hours top-up commits.
type HoursRequested struct {
	Amount string
	Reason string
}

func (e HoursRequested) Kind() EventKind { return KindHoursRequested }

func (e HoursRequested) Title() string {
	return "Additional hours request: " + e.Amount + "h"
}

func (e HoursRequested) Fields() map[string]string {
	return map[string]string{
		"amount": e.Amount,
		"reason": e.Reason,
	}
}

// LessonReminder is emitted by the reminder scheduler for upcoming lessons.
type LessonReminder struct {
	LessonID  string
	Date      string
	StartTime string
	Topic     string
}

func (e LessonReminder) Kind() EventKind { return KindLessonReminder }

func (e LessonReminder) Title() string {
	return "Upcoming lesson: " + e.Date + " " + e.StartTime
}

func (e LessonReminder) Fields() map[string]string {
	return map[string]string{
		"lesson_id":  e.LessonID,
		"date":       e.Date,
		"start_time": e.StartTime,
		"topic":      e.Topic,
	}
}

// =============================================================================
// DISPATCHER
// =============================================================================

// Outcome reports what happened to a single delivery attempt. It lets
// callers distinguish "booking succeeded, notification unknown" from a
// true booking failure.
type Outcome struct {
	// Delivered is true when the transport accepted the event.
	Delivered bool
	// Message is a free-form user-facing acknowledgment.
	Message string
	// Err is the transport error, if any. Wraps ErrDispatchFailed.
	Err error
}

// Dispatcher is the capability-set interface bound by configuration.
type Dispatcher interface {
	Notify(ctx context.Context, ev Event) Outcome
}
