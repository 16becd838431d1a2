package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// FormRelay posts events as URL-encoded forms to a fixed endpoint, the way
// static-site form services ingest submissions. The body is
// {form-name, ...event fields}; the response body is ignored.
type FormRelay struct {
	Endpoint string
	FormName string

	client *http.Client
	log    *zap.Logger
}

func NewFormRelay(endpoint, formName string, log *zap.Logger) *FormRelay {
	if formName == "" {
		formName = "lesson-request"
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &FormRelay{
		Endpoint: endpoint,
		FormName: formName,
		client:   &http.Client{Timeout: 10 * time.Second},
		log:      log,
	}
}

func (f *FormRelay) Notify(ctx context.Context, ev Event) Outcome {
	values := url.Values{}
	values.Set("form-name", f.FormName)
	values.Set("kind", string(ev.Kind()))
	for k, v := range ev.Fields() {
		values.Set(k, v)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.Endpoint,
		strings.NewReader(values.Encode()))
	if err != nil {
		return Outcome{
			Message: "Request saved, but could not be submitted",
			Err:     fmt.Errorf("%w: %v", ErrDispatchFailed, err),
		}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := f.client.Do(req)
	if err != nil {
		f.log.Warn("form submission failed", zap.Error(err))
		return Outcome{
			Message: "Request saved, but could not be submitted",
			Err:     fmt.Errorf("%w: %v", ErrDispatchFailed, err),
		}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		f.log.Warn("form submission rejected", zap.Int("status", resp.StatusCode))
		return Outcome{
			Message: "Request saved, but the submission was rejected",
			Err:     fmt.Errorf("%w: unexpected status %d", ErrDispatchFailed, resp.StatusCode),
		}
	}

	return Outcome{Delivered: true, Message: "Request submitted"}
}
