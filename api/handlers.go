/*
handlers.go - HTTP handlers for the lesson ledger

PURPOSE:
  Exposes the ledger over REST. Handlers parse and validate input, call
  the ledger, and map its error taxonomy onto HTTP status codes.

ERROR HANDLING:
  - 400: Malformed input, invalid interval, past date, invalid amount
  - 409: Insufficient hours (the budget conflict)
  - 500: Internal errors
  Notes updates on an unknown lesson id return 200: the ledger defines
  that as a no-op, not an error.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/strum/lesson-engine/intro"
	"github.com/strum/lesson-engine/ledger"
)

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Ledger *ledger.Ledger
	Intro  *intro.Typewriter
	Log    *zap.Logger
}

// NewHandler creates a handler around an opened ledger.
func NewHandler(led *ledger.Ledger, tw *intro.Typewriter, log *zap.Logger) *Handler {
	if tw == nil {
		tw = intro.New("")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{Ledger: led, Intro: tw, Log: log}
}

// =============================================================================
// LEDGER HANDLERS
// =============================================================================

// GetLedger returns the capacity budget summary.
func (h *Handler) GetLedger(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toLedgerDTO(h.Ledger.State()))
}

// ListLessons returns the booking history, newest first.
func (h *Handler) ListLessons(w http.ResponseWriter, r *http.Request) {
	lessons := h.Ledger.Lessons()
	dtos := make([]LessonDTO, len(lessons))
	for i, l := range lessons {
		dtos[i] = toLessonDTO(l)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// BookLesson books a lesson against the remaining balance.
func (h *Handler) BookLesson(w http.ResponseWriter, r *http.Request) {
	var req BookLessonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	date, err := ledger.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
		return
	}
	start, err := ledger.ParseClock(req.StartTime)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_time (use HH:MM)", err)
		return
	}
	end, err := ledger.ParseClock(req.EndTime)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end_time (use HH:MM)", err)
		return
	}

	booking, err := h.Ledger.RequestLesson(r.Context(), ledger.LessonRequest{
		Date:  date,
		Start: start,
		End:   end,
		Topic: req.Topic,
	})
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, BookingDTO{
		Lesson:   toLessonDTO(booking.Lesson),
		Dispatch: toDispatchDTO(booking.Dispatch),
		Ledger:   toLedgerDTO(h.Ledger.State()),
	})
}

// UpdateNotes overwrites a lesson's practice notes.
func (h *Handler) UpdateNotes(w http.ResponseWriter, r *http.Request) {
	id := ledger.LessonID(chi.URLParam(r, "id"))

	var req UpdateNotesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	// Unknown id is a no-op by contract.
	if err := h.Ledger.UpdateNotes(r.Context(), id, req.Notes); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update notes", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// RequestHours grants an hours top-up.
func (h *Handler) RequestHours(w http.ResponseWriter, r *http.Request) {
	var req RequestHoursRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	state, outcome, err := h.Ledger.RequestHours(r.Context(),
		decimal.NewFromFloat(req.Hours), req.Reason)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, HoursGrantDTO{
		Ledger:   toLedgerDTO(state),
		Dispatch: toDispatchDTO(outcome),
	})
}

// AckIntro flips the one-way intro gate.
func (h *Handler) AckIntro(w http.ResponseWriter, r *http.Request) {
	h.Ledger.AcknowledgeIntro(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	body := map[string]string{"error": message}
	if err != nil {
		body["detail"] = err.Error()
	}
	writeJSON(w, status, body)
}

// writeLedgerError maps the ledger error taxonomy onto HTTP statuses.
func writeLedgerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrInsufficientHours):
		writeError(w, http.StatusConflict, "Not enough hours remaining", err)
	case ledger.IsClientError(err):
		writeError(w, http.StatusBadRequest, "Invalid request", err)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}
