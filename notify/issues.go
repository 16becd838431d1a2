/*
issues.go - Issue-tracker notification binding

PURPOSE:
  Creates a tracked issue per event via an authenticated POST to
  {api_base}/repos/{repo}/issues with a {title, body} payload. The
  reviewer triages bookings from their issue queue.

DEGRADED MODE:
  A missing repo or token degrades every call to a logged no-op outcome.
  Misconfiguration must never crash the process or fail a booking.
*/
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"go.uber.org/zap"
)

const defaultIssueAPIBase = "https://api.github.com"

// IssueRelay files events as issues on a remote tracker.
type IssueRelay struct {
	APIBase string
	Repo    string // "owner/name"
	Token   string

	client *http.Client
	log    *zap.Logger
}

func NewIssueRelay(apiBase, repo, token string, log *zap.Logger) *IssueRelay {
	if apiBase == "" {
		apiBase = defaultIssueAPIBase
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &IssueRelay{
		APIBase: apiBase,
		Repo:    repo,
		Token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
		log:     log,
	}
}

type issuePayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (i *IssueRelay) Notify(ctx context.Context, ev Event) Outcome {
	if i.Repo == "" || i.Token == "" {
		i.log.Warn("issue relay not configured, notification skipped",
			zap.String("kind", string(ev.Kind())))
		return Outcome{Message: "Request saved; issue relay not configured"}
	}

	payload, err := json.Marshal(issuePayload{
		Title: ev.Title(),
		Body:  eventBody(ev),
	})
	if err != nil {
		return Outcome{
			Message: "Request saved, but the issue could not be created",
			Err:     fmt.Errorf("%w: %v", ErrDispatchFailed, err),
		}
	}

	endpoint := fmt.Sprintf("%s/repos/%s/issues", i.APIBase, i.Repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return Outcome{
			Message: "Request saved, but the issue could not be created",
			Err:     fmt.Errorf("%w: %v", ErrDispatchFailed, err),
		}
	}
	req.Header.Set("Authorization", "Bearer "+i.Token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := i.client.Do(req)
	if err != nil {
		i.log.Warn("issue creation failed", zap.Error(err))
		return Outcome{
			Message: "Request saved, but the issue could not be created",
			Err:     fmt.Errorf("%w: %v", ErrDispatchFailed, err),
		}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusCreated {
		i.log.Warn("issue creation rejected",
			zap.Int("status", resp.StatusCode),
			zap.String("repo", i.Repo))
		return Outcome{
			Message: "Request saved, but the issue tracker rejected it",
			Err:     fmt.Errorf("%w: unexpected status %d", ErrDispatchFailed, resp.StatusCode),
		}
	}

	return Outcome{Delivered: true, Message: "Request filed for review"}
}

// eventBody renders the event fields as a markdown bullet list with a
// stable field order.
func eventBody(ev Event) string {
	fields := ev.Fields()
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	for _, k := range keys {
		if fields[k] == "" {
			continue
		}
		fmt.Fprintf(&buf, "- **%s**: %s\n", k, fields[k])
	}
	return buf.String()
}
