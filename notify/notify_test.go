package notify_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strum/lesson-engine/notify"
)

func lessonEvent() notify.LessonRequested {
	return notify.LessonRequested{
		LessonID:      "lesson-1",
		Date:          "2026-03-10",
		StartTime:     "10:00",
		EndTime:       "11:00",
		DurationHours: "1",
		Topic:         "chord transitions",
	}
}

// =============================================================================
// LOCAL
// =============================================================================

func TestLocal_AlwaysDelivers(t *testing.T) {
	out := notify.NewLocal(nil).Notify(context.Background(), lessonEvent())
	assert.True(t, out.Delivered)
	assert.NoError(t, out.Err)
	assert.NotEmpty(t, out.Message)
}

// =============================================================================
// FORM RELAY
// =============================================================================

func TestFormRelay_SubmitsURLEncodedForm(t *testing.T) {
	var received map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		received = r.PostForm
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	relay := notify.NewFormRelay(server.URL, "lesson-request", nil)
	out := relay.Notify(context.Background(), lessonEvent())

	assert.True(t, out.Delivered)
	assert.Equal(t, "lesson-request", received["form-name"][0])
	assert.Equal(t, "2026-03-10", received["date"][0])
	assert.Equal(t, "chord transitions", received["topic"][0])
}

func TestFormRelay_RejectedSubmission_NotDelivered(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	out := notify.NewFormRelay(server.URL, "", nil).Notify(context.Background(), lessonEvent())

	assert.False(t, out.Delivered)
	assert.ErrorIs(t, out.Err, notify.ErrDispatchFailed)
	assert.NotEmpty(t, out.Message, "user still gets an acknowledgment message")
}

func TestFormRelay_TransportError_NotDelivered(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close() // connection refused from here on

	out := notify.NewFormRelay(server.URL, "", nil).Notify(context.Background(), lessonEvent())
	assert.False(t, out.Delivered)
	assert.ErrorIs(t, out.Err, notify.ErrDispatchFailed)
}

// =============================================================================
// ISSUE RELAY
// =============================================================================

func TestIssueRelay_CreatesIssue(t *testing.T) {
	var gotPath, gotAuth string
	var payload struct {
		Title string `json:"title"`
		Body  string `json:"body"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	relay := notify.NewIssueRelay(server.URL, "strum/lesson-requests", "tok-123", nil)
	out := relay.Notify(context.Background(), lessonEvent())

	assert.True(t, out.Delivered)
	assert.Equal(t, "/repos/strum/lesson-requests/issues", gotPath)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Contains(t, payload.Title, "2026-03-10")
	assert.Contains(t, payload.Body, "chord transitions")
}

func TestIssueRelay_MissingCredentials_DegradesToNoOp(t *testing.T) {
	// No repo/token: a logged no-op, never a crash, never an error.
	relay := notify.NewIssueRelay("", "", "", nil)
	out := relay.Notify(context.Background(), lessonEvent())

	assert.False(t, out.Delivered)
	assert.NoError(t, out.Err)
	assert.Contains(t, out.Message, "not configured")
}

func TestIssueRelay_RejectedByTracker(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	relay := notify.NewIssueRelay(server.URL, "strum/lesson-requests", "bad-token", nil)
	out := relay.Notify(context.Background(), lessonEvent())

	assert.False(t, out.Delivered)
	assert.ErrorIs(t, out.Err, notify.ErrDispatchFailed)
}

// =============================================================================
// FACTORY
// =============================================================================

func TestFromConfig(t *testing.T) {
	d, err := notify.FromConfig(notify.Config{}, nil)
	require.NoError(t, err)
	assert.IsType(t, &notify.Local{}, d, "empty mode defaults to local")

	d, err = notify.FromConfig(notify.Config{
		Mode: "form",
		Form: notify.FormConfig{Endpoint: "https://example.test/"},
	}, nil)
	require.NoError(t, err)
	assert.IsType(t, &notify.FormRelay{}, d)

	_, err = notify.FromConfig(notify.Config{Mode: "form"}, nil)
	assert.Error(t, err, "form mode requires an endpoint")

	d, err = notify.FromConfig(notify.Config{Mode: "issues"}, nil)
	require.NoError(t, err, "missing credentials degrade at dispatch time, not startup")
	assert.IsType(t, &notify.IssueRelay{}, d)

	_, err = notify.FromConfig(notify.Config{Mode: "carrier-pigeon"}, nil)
	assert.Error(t, err)
}
