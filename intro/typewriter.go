/*
Package intro produces the one-time welcome animation as a sequence of
revealed-character events.

PURPOSE:
  The presentation layer should not own animation timing. Typewriter is a
  restartable, cancellable producer: each Run emits one event per revealed
  character, a line-break event between lines, and a final done event,
  then closes the channel. Cancelling the context closes the channel
  early. Runs share no state, so Run may be called any number of times.

CONSUMPTION:
  events := tw.Run(ctx)
  for ev := range events {
      switch ev.Kind {
      case intro.Reveal:    print(ev.Char)
      case intro.LineBreak: println()
      case intro.Done:      // fade out
      }
  }
*/
package intro

import (
	"context"
	"math/rand"
	"strings"
	"time"
)

// DefaultText matches the welcome banner shown on first visit.
const DefaultText = "Great New Year!\nYou are on a guitar lessons website"

const (
	defaultSpeed  = 60 * time.Millisecond
	defaultJitter = 40 * time.Millisecond
	defaultPause  = 800 * time.Millisecond
)

type Kind string

const (
	Reveal    Kind = "reveal"
	LineBreak Kind = "line_break"
	Done      Kind = "done"
)

// Event is a single step of the animation.
type Event struct {
	Kind Kind
	Char rune // set for Reveal events
}

// Typewriter reveals Text one character at a time. Speed is the base delay
// per character, Jitter an additional random delay, Pause the hold between
// lines and before Done.
type Typewriter struct {
	Text   string
	Speed  time.Duration
	Jitter time.Duration
	Pause  time.Duration
}

func New(text string) *Typewriter {
	if text == "" {
		text = DefaultText
	}
	return &Typewriter{
		Text:   text,
		Speed:  defaultSpeed,
		Jitter: defaultJitter,
		Pause:  defaultPause,
	}
}

// Run starts one animation pass. The returned channel is closed when the
// pass completes or ctx is cancelled. A pending delay cannot be aborted
// mid-tick, only the sequence as a whole.
func (t *Typewriter) Run(ctx context.Context) <-chan Event {
	out := make(chan Event)
	go t.run(ctx, out)
	return out
}

func (t *Typewriter) run(ctx context.Context, out chan<- Event) {
	defer close(out)

	lines := strings.Split(t.Text, "\n")
	for i, line := range lines {
		for _, ch := range line {
			if !t.sleep(ctx, t.charDelay()) {
				return
			}
			if !send(ctx, out, Event{Kind: Reveal, Char: ch}) {
				return
			}
		}
		if i < len(lines)-1 {
			if !t.sleep(ctx, t.Pause) {
				return
			}
			if !send(ctx, out, Event{Kind: LineBreak}) {
				return
			}
		}
	}

	if !t.sleep(ctx, t.Pause) {
		return
	}
	send(ctx, out, Event{Kind: Done})
}

func (t *Typewriter) charDelay() time.Duration {
	delay := t.Speed
	if t.Jitter > 0 {
		delay += time.Duration(rand.Int63n(int64(t.Jitter)))
	}
	return delay
}

func (t *Typewriter) sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func send(ctx context.Context, out chan<- Event, ev Event) bool {
	select {
	case <-ctx.Done():
		return false
	case out <- ev:
		return true
	}
}
