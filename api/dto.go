/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for API communication, decoupling the internal domain
  model from the external contract. Decimal hour values are serialized as
  float64 for display; the authoritative decimals never leave the ledger.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/strum/lesson-engine/ledger"
	"github.com/strum/lesson-engine/notify"
)

// LedgerDTO summarizes the capacity budget.
type LedgerDTO struct {
	TotalHours        float64 `json:"total_hours"`
	HoursCompleted    float64 `json:"hours_completed"`
	HoursRemaining    float64 `json:"hours_remaining"`
	LessonCount       int     `json:"lesson_count"`
	ProgressPercent   float64 `json:"progress_percent"`
	IntroAcknowledged bool    `json:"intro_acknowledged"`
}

// LessonDTO represents a booked lesson.
type LessonDTO struct {
	ID            string  `json:"id"`
	Date          string  `json:"date"`
	StartTime     string  `json:"start_time"`
	EndTime       string  `json:"end_time"`
	DurationHours float64 `json:"duration_hours"`
	Topic         string  `json:"topic,omitempty"`
	Notes         string  `json:"notes"`
	CreatedAt     string  `json:"created_at"`
}

// DispatchDTO reports the notification outcome of a committed request.
type DispatchDTO struct {
	Delivered bool   `json:"delivered"`
	Message   string `json:"message"`
}

// BookingDTO is the response to a successful booking.
type BookingDTO struct {
	Lesson   LessonDTO   `json:"lesson"`
	Dispatch DispatchDTO `json:"dispatch"`
	Ledger   LedgerDTO   `json:"ledger"`
}

// BookLessonRequest is the request to book a lesson.
type BookLessonRequest struct {
	Date      string `json:"date"`       // YYYY-MM-DD
	StartTime string `json:"start_time"` // HH:MM
	EndTime   string `json:"end_time"`   // HH:MM
	Topic     string `json:"topic"`
}

// UpdateNotesRequest is the request to overwrite practice notes.
type UpdateNotesRequest struct {
	Notes string `json:"notes"`
}

// RequestHoursRequest is the request for an hours top-up.
type RequestHoursRequest struct {
	Hours  float64 `json:"hours"`
	Reason string  `json:"reason"`
}

// HoursGrantDTO is the response to a top-up.
type HoursGrantDTO struct {
	Ledger   LedgerDTO   `json:"ledger"`
	Dispatch DispatchDTO `json:"dispatch"`
}

// GreetingDTO carries the dashboard greeting.
type GreetingDTO struct {
	Greeting string `json:"greeting"`
	Quote    string `json:"quote"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toLedgerDTO(s ledger.State) LedgerDTO {
	total, _ := s.TotalHours.Float64()
	completed, _ := s.HoursCompleted.Float64()
	remaining, _ := s.HoursRemaining.Float64()

	progress := 0.0
	if total > 0 {
		progress = completed / total * 100
	}
	return LedgerDTO{
		TotalHours:        total,
		HoursCompleted:    completed,
		HoursRemaining:    remaining,
		LessonCount:       len(s.Lessons),
		ProgressPercent:   progress,
		IntroAcknowledged: s.IntroAcknowledged,
	}
}

func toLessonDTO(l ledger.Lesson) LessonDTO {
	duration, _ := l.DurationHours.Float64()
	return LessonDTO{
		ID:            string(l.ID),
		Date:          l.Date.String(),
		StartTime:     l.StartTime.String(),
		EndTime:       l.EndTime.String(),
		DurationHours: duration,
		Topic:         l.Topic,
		Notes:         l.Notes,
		CreatedAt:     l.CreatedAt.Format(time.RFC3339),
	}
}

func toDispatchDTO(o notify.Outcome) DispatchDTO {
	return DispatchDTO{Delivered: o.Delivered, Message: o.Message}
}
