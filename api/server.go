/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router, middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the frontend

ROUTES:
  GET  /api/ledger             Capacity budget summary
  GET  /api/lessons            Booking history, newest first
  POST /api/lessons            Book a lesson
  PUT  /api/lessons/{id}/notes Update practice notes
  POST /api/hours              Request an hours top-up
  GET  /api/greeting           Time-of-day greeting + quote
  GET  /api/intro              SSE stream of the welcome animation
  POST /api/intro/ack          Acknowledge the intro (one-way)

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/ledger", h.GetLedger)

		r.Route("/lessons", func(r chi.Router) {
			r.Get("/", h.ListLessons)
			r.Post("/", h.BookLesson)
			r.Put("/{id}/notes", h.UpdateNotes)
		})

		r.Post("/hours", h.RequestHours)
		r.Get("/greeting", h.GetGreeting)

		r.Route("/intro", func(r chi.Router) {
			r.Get("/", h.StreamIntro)
			r.Post("/ack", h.AckIntro)
		})
	})

	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Lesson Engine</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Lesson Engine API</h1>
<ul>
<li><a href="/api/ledger">/api/ledger</a> - Capacity budget</li>
<li><a href="/api/lessons">/api/lessons</a> - Booking history</li>
<li><a href="/api/greeting">/api/greeting</a> - Greeting</li>
</ul>
</body>
</html>`))
	})

	return r
}
