/*
intro.go - Server-sent welcome animation

PURPOSE:
  Streams the typewriter animation as server-sent events so the frontend
  only renders characters as they arrive. Once the intro has been
  acknowledged the stream responds 204 and the client skips straight to
  the app.

EVENT FORMAT:
  event: reveal      data: {"char":"G"}
  event: line_break  data: {}
  event: done        data: {}
*/
package api

import (
	"encoding/json"
	"net/http"

	"github.com/strum/lesson-engine/intro"
)

// StreamIntro streams the welcome animation. 204 when already acknowledged.
func (h *Handler) StreamIntro(w http.ResponseWriter, r *http.Request) {
	if h.Ledger.IntroAcknowledged() {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "Streaming unsupported", nil)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	// Client disconnect cancels the request context, which stops the run.
	for ev := range h.Intro.Run(r.Context()) {
		payload := struct {
			Char string `json:"char,omitempty"`
		}{}
		if ev.Kind == intro.Reveal {
			payload.Char = string(ev.Char)
		}
		data, _ := json.Marshal(payload)

		if _, err := w.Write([]byte("event: " + string(ev.Kind) + "\ndata: " + string(data) + "\n\n")); err != nil {
			return
		}
		flusher.Flush()
	}
}
