package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strum/lesson-engine/api"
	"github.com/strum/lesson-engine/intro"
	"github.com/strum/lesson-engine/ledger"
	"github.com/strum/lesson-engine/notify"
	"github.com/strum/lesson-engine/store/memory"
)

// =============================================================================
// TEST SETUP
// =============================================================================

var testNow = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

func newTestRouter(t *testing.T, opts ...ledger.Option) (http.Handler, *ledger.Ledger) {
	t.Helper()
	opts = append([]ledger.Option{ledger.WithNow(func() time.Time { return testNow })}, opts...)
	led, err := ledger.Open(context.Background(), memory.New(), opts...)
	require.NoError(t, err)

	tw := intro.New("hi")
	tw.Speed, tw.Jitter, tw.Pause = 0, 0, 0

	return api.NewRouter(api.NewHandler(led, tw, nil)), led
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func bookBody(date, start, end string) api.BookLessonRequest {
	return api.BookLessonRequest{Date: date, StartTime: start, EndTime: end, Topic: "scales"}
}

// =============================================================================
// LEDGER + BOOKING
// =============================================================================

func TestGetLedger(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/ledger", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	dto := decodeBody[api.LedgerDTO](t, rec)
	assert.Equal(t, 30.0, dto.TotalHours)
	assert.Equal(t, 30.0, dto.HoursRemaining)
	assert.Equal(t, 0, dto.LessonCount)
	assert.False(t, dto.IntroAcknowledged)
}

func TestBookLesson(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/lessons", bookBody("2026-03-10", "10:00", "11:00"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	dto := decodeBody[api.BookingDTO](t, rec)
	assert.Equal(t, 1.0, dto.Lesson.DurationHours)
	assert.Equal(t, "scales", dto.Lesson.Topic)
	assert.True(t, dto.Dispatch.Delivered)
	assert.Equal(t, 29.0, dto.Ledger.HoursRemaining)
	assert.Equal(t, 1, dto.Ledger.LessonCount)
}

func TestBookLesson_InvalidInterval(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/lessons", bookBody("2026-03-10", "11:00", "10:00"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBookLesson_InsufficientHours_Conflicts(t *testing.T) {
	router, led := newTestRouter(t)

	// Drain the budget with two 14h bookings until under 5h remain.
	ctx := context.Background()
	for day := 2; day <= 3; day++ {
		date, err := ledger.ParseDate(fmt.Sprintf("2026-03-%02d", day))
		require.NoError(t, err)
		start, _ := ledger.ParseClock("08:00")
		end, _ := ledger.ParseClock("22:00")
		_, err = led.RequestLesson(ctx, ledger.LessonRequest{Date: date, Start: start, End: end})
		require.NoError(t, err)
	}
	// 30 - 2*14 = 2h left; ask for 5.
	rec := doJSON(t, router, http.MethodPost, "/api/lessons", bookBody("2026-03-10", "10:00", "15:00"))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestBookLesson_MalformedInput(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, body := range []api.BookLessonRequest{
		bookBody("10 March", "10:00", "11:00"),
		bookBody("2026-03-10", "25:00", "26:00"),
		bookBody("2026-03-10", "10:00", "x"),
	} {
		rec := doJSON(t, router, http.MethodPost, "/api/lessons", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}
}

func TestListLessons_NewestFirst(t *testing.T) {
	router, _ := newTestRouter(t)

	doJSON(t, router, http.MethodPost, "/api/lessons", bookBody("2026-03-10", "10:00", "11:00"))
	doJSON(t, router, http.MethodPost, "/api/lessons", bookBody("2026-03-12", "14:00", "15:00"))

	rec := doJSON(t, router, http.MethodGet, "/api/lessons", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	lessons := decodeBody[[]api.LessonDTO](t, rec)
	require.Len(t, lessons, 2)
	assert.Equal(t, "2026-03-12", lessons[0].Date)
	assert.Equal(t, "2026-03-10", lessons[1].Date)
}

// =============================================================================
// NOTES
// =============================================================================

func TestUpdateNotes(t *testing.T) {
	router, led := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/lessons", bookBody("2026-03-10", "10:00", "11:00"))
	booking := decodeBody[api.BookingDTO](t, rec)

	rec = doJSON(t, router, http.MethodPut, "/api/lessons/"+booking.Lesson.ID+"/notes",
		api.UpdateNotesRequest{Notes: "work on barre chords"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "work on barre chords", led.Lessons()[0].Notes)
}

func TestUpdateNotes_UnknownID_StillOK(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPut, "/api/lessons/nope/notes",
		api.UpdateNotesRequest{Notes: "ignored"})
	assert.Equal(t, http.StatusOK, rec.Code, "unknown id is a no-op, not an error")
}

// =============================================================================
// HOURS
// =============================================================================

func TestRequestHours(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/hours",
		api.RequestHoursRequest{Hours: 10, Reason: "more practice"})
	require.Equal(t, http.StatusOK, rec.Code)

	dto := decodeBody[api.HoursGrantDTO](t, rec)
	assert.Equal(t, 40.0, dto.Ledger.TotalHours)
	assert.Equal(t, 40.0, dto.Ledger.HoursRemaining)
	assert.Equal(t, 0.0, dto.Ledger.HoursCompleted)
	assert.True(t, dto.Dispatch.Delivered)
}

func TestRequestHours_NonPositive(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/hours", api.RequestHoursRequest{Hours: 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// GREETING + INTRO
// =============================================================================

func TestGetGreeting(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/greeting", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	dto := decodeBody[api.GreetingDTO](t, rec)
	assert.NotEmpty(t, dto.Greeting)
	assert.NotEmpty(t, dto.Quote)
}

func TestIntro_StreamThenAck(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/intro", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "event: reveal")
	assert.Contains(t, rec.Body.String(), "event: done")

	rec = doJSON(t, router, http.MethodPost, "/api/intro/ack", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// Once acknowledged the stream is gone for good.
	rec = doJSON(t, router, http.MethodGet, "/api/intro", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

// =============================================================================
// REMINDER SCHEDULER
// =============================================================================

type captureDispatcher struct {
	events []notify.Event
}

func (c *captureDispatcher) Notify(_ context.Context, ev notify.Event) notify.Outcome {
	c.events = append(c.events, ev)
	return notify.Outcome{Delivered: true}
}

func TestReminderScheduler_RemindsOncePerLesson(t *testing.T) {
	// Uses the real clock: book a lesson for tomorrow so it falls inside
	// the 24h reminder window.
	led, err := ledger.Open(context.Background(), memory.New())
	require.NoError(t, err)

	tomorrow := ledger.DateOf(time.Now().Add(24 * time.Hour))
	start, _ := ledger.ParseClock("10:00")
	end, _ := ledger.ParseClock("11:00")
	_, err = led.RequestLesson(context.Background(), ledger.LessonRequest{
		Date: tomorrow, Start: start, End: end,
	})
	require.NoError(t, err)

	dispatcher := &captureDispatcher{}
	sched := api.NewReminderScheduler(led, dispatcher, nil)

	sched.CheckOnce(context.Background())
	require.Len(t, dispatcher.events, 1)
	assert.Equal(t, notify.KindLessonReminder, dispatcher.events[0].Kind())

	sched.CheckOnce(context.Background())
	assert.Len(t, dispatcher.events, 1, "a lesson is reminded at most once")
}

func TestReminderScheduler_StartStop(t *testing.T) {
	led, err := ledger.Open(context.Background(), memory.New())
	require.NoError(t, err)

	sched := api.NewReminderScheduler(led, &captureDispatcher{}, nil)
	sched.CheckInterval = 10 * time.Millisecond
	sched.Start()
	sched.Start() // idempotent
	time.Sleep(30 * time.Millisecond)
	sched.Stop()
	sched.Stop() // idempotent
}
