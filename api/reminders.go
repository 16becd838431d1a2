/*
reminders.go - Background lesson reminder scheduler

PURPOSE:
  Periodically scans the booking history for lessons happening within the
  next day and dispatches a reminder for each, once. Like all dispatch,
  reminders are fire-and-forget: a failed delivery is logged and not
  retried.

DESIGN:
  - Runs a background goroutine with a configurable check interval
  - Tracks already-reminded lesson ids in memory (a restart may remind
    again; reminders are advisory, not transactional)
  - Stoppable; Stop waits for the goroutine to exit

USAGE:
  sched := api.NewReminderScheduler(led, dispatcher, log)
  sched.Start()
  // ... later
  sched.Stop()

SEE ALSO:
  - notify: LessonReminder event
*/
package api

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/strum/lesson-engine/ledger"
	"github.com/strum/lesson-engine/notify"
)

// ReminderScheduler dispatches reminders for upcoming lessons.
type ReminderScheduler struct {
	Ledger        *ledger.Ledger
	Dispatcher    notify.Dispatcher
	CheckInterval time.Duration
	Window        time.Duration

	log  *zap.Logger
	stop chan struct{}
	wg   sync.WaitGroup
	mu   sync.Mutex
	sent map[ledger.LessonID]bool
}

// NewReminderScheduler creates a scheduler with a 1h check interval and a
// 24h reminder window.
func NewReminderScheduler(led *ledger.Ledger, d notify.Dispatcher, log *zap.Logger) *ReminderScheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReminderScheduler{
		Ledger:        led,
		Dispatcher:    d,
		CheckInterval: time.Hour,
		Window:        24 * time.Hour,
		log:           log,
		sent:          make(map[ledger.LessonID]bool),
	}
}

// Start launches the background check loop.
func (s *ReminderScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		return // already running
	}
	s.stop = make(chan struct{})

	s.wg.Add(1)
	go s.loop(s.stop)
	s.log.Info("reminder scheduler started",
		zap.Duration("check_interval", s.CheckInterval))
}

// Stop halts the loop and waits for it to exit.
func (s *ReminderScheduler) Stop() {
	s.mu.Lock()
	stop := s.stop
	s.stop = nil
	s.mu.Unlock()
	if stop == nil {
		return
	}
	close(stop)
	s.wg.Wait()
}

func (s *ReminderScheduler) loop(stop <-chan struct{}) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.CheckOnce(context.Background())
		}
	}
}

// CheckOnce scans for lessons starting within the window and dispatches
// one reminder per lesson id.
func (s *ReminderScheduler) CheckOnce(ctx context.Context) {
	now := time.Now()
	today := ledger.DateOf(now)
	horizon := ledger.DateOf(now.Add(s.Window))

	for _, l := range s.Ledger.Lessons() {
		if l.Date.Before(today) || horizon.Before(l.Date) {
			continue
		}
		s.mu.Lock()
		already := s.sent[l.ID]
		if !already {
			s.sent[l.ID] = true
		}
		s.mu.Unlock()
		if already {
			continue
		}

		outcome := s.Dispatcher.Notify(ctx, notify.LessonReminder{
			LessonID:  string(l.ID),
			Date:      l.Date.String(),
			StartTime: l.StartTime.String(),
			Topic:     l.Topic,
		})
		if !outcome.Delivered {
			s.log.Warn("lesson reminder not delivered",
				zap.String("lesson_id", string(l.ID)),
				zap.Error(outcome.Err))
		}
	}
}
