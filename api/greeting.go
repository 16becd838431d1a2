package api

import (
	"math/rand"
	"net/http"
	"time"
)

var motivationalQuotes = []string{
	"Every chord brings you closer to your song",
	"Music is the shorthand of emotion",
	"The guitar is a small orchestra",
	"Practice makes progress, not perfection",
	"Your fingers are learning to dance",
	"One note at a time, one day at a time",
	"The journey of a thousand songs begins with a single chord",
	"Let the music flow through you",
	"Strum your heart out",
	"Today's practice is tomorrow's music",
}

func timeOfDayGreeting(now time.Time) string {
	switch hour := now.Hour(); {
	case hour < 12:
		return "Good morning"
	case hour < 17:
		return "Good afternoon"
	case hour < 21:
		return "Good evening"
	default:
		return "Good night"
	}
}

// GetGreeting returns the dashboard greeting and a motivational quote.
func (h *Handler) GetGreeting(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, GreetingDTO{
		Greeting: timeOfDayGreeting(time.Now()),
		Quote:    motivationalQuotes[rand.Intn(len(motivationalQuotes))],
	})
}
