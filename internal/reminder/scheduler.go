package reminder

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"eliteagenda/internal/model"
)

// DefaultInterval is the scheduler's polling cadence. The daily rule
// matches an exact minute, so the cadence must stay well under a minute.
const DefaultInterval = 10 * time.Second

// EventSource provides the scheduler's read-only per-tick event snapshot.
type EventSource interface {
	List() ([]model.Event, error)
}

// Notifier receives fired notifications for best-effort external delivery
// (web push). Notify is called on its own goroutine, so it may block;
// failures must not affect in-app behavior.
type Notifier interface {
	Notify(model.Notification)
}

// Scheduler evaluates every event against the clock on a fixed cadence and
// fires each trigger occurrence exactly once into the sink.
type Scheduler struct {
	mu         sync.RWMutex
	source     EventSource
	sink       *Sink
	notifier   Notifier
	classifier *Classifier
	dedup      *dedupSet
	interval   time.Duration
	loc        *time.Location
	now        func() time.Time
	logger     *slog.Logger
	cancel     context.CancelFunc
	done       chan struct{}
}

// NewScheduler creates a reminder scheduler. notifier may be nil. loc is
// the timezone used for the daily minute-of-day comparison and dedup dates;
// nil means time.Local.
func NewScheduler(source EventSource, sink *Sink, notifier Notifier, classifier *Classifier, loc *time.Location, logger *slog.Logger) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		source:     source,
		sink:       sink,
		notifier:   notifier,
		classifier: classifier,
		dedup:      newDedupSet(),
		interval:   DefaultInterval,
		loc:        loc,
		now:        time.Now,
		logger:     logger,
	}
}

// Start begins the tick loop. Ticks run on a single goroutine and never
// overlap.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Tick()
			}
		}
	}()
}

// Stop cancels the tick loop and waits for the current tick to finish.
func (s *Scheduler) Stop() {
	s.mu.RLock()
	cancel := s.cancel
	done := s.done
	s.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// Tick evaluates all events once. Exported so tests (and a resume hook) can
// drive the scheduler with a fake clock.
func (s *Scheduler) Tick() {
	now := s.now().In(s.loc)

	events, err := s.source.List()
	if err != nil {
		s.logger.Error("reminder tick: list events", "error", err)
		return
	}

	s.mu.Lock()
	s.dedup.prune(now)

	var fired []model.Notification
	for _, e := range events {
		if e.ReminderMinutes == nil {
			continue // no reminder configured
		}
		lead := *e.ReminderMinutes

		key := s.dedup.key(e, lead, now)
		if s.dedup.contains(key) {
			continue
		}
		if !s.due(e, lead, now) {
			continue
		}

		fired = append(fired, s.fire(e, now))
		s.dedup.add(key, now)
	}
	s.mu.Unlock()

	// Push delivery is network I/O and must never hold up the tick loop or
	// the dedup lock; a hung push endpoint only costs its own goroutine.
	if s.notifier != nil {
		for _, n := range fired {
			go s.notifier.Notify(n)
		}
	}
}

// due decides whether the event's reminder condition holds at now.
func (s *Scheduler) due(e model.Event, lead int, now time.Time) bool {
	if e.Recurrence == model.RecurrenceDaily {
		// Exact minute-of-day match. A tick cadence coarser than a minute
		// would skip triggers entirely; DefaultInterval guarantees at least
		// five ticks land inside any given minute.
		start := e.StartTime.In(s.loc)
		eventMinute := start.Hour()*60 + start.Minute()
		nowMinute := now.Hour()*60 + now.Minute()
		return nowMinute == eventMinute-lead
	}

	// One-time events use the half-open window [start-lead, start). A tick
	// after resume still fires as long as the event has not started; once
	// now >= start the occurrence is dropped for good.
	remindAt := e.StartTime.Add(-time.Duration(lead) * time.Minute)
	return !now.Before(remindAt) && now.Before(e.StartTime)
}

func (s *Scheduler) fire(e model.Event, now time.Time) model.Notification {
	health := s.classifier.IsHealth(e)

	title := "Event Reminder"
	if health {
		title = "Health Alarm"
	}

	message := e.Title
	if e.Recurrence == model.RecurrenceDaily {
		message += " (Daily)"
	}
	message += " starts soon!"

	n := model.Notification{
		ID:        uuid.NewString(),
		EventID:   e.ID,
		Title:     title,
		Message:   message,
		Health:    health,
		Timestamp: now,
	}

	s.logger.Info("reminder fired", "event_id", e.ID, "title", e.Title, "health", health)
	s.sink.Add(n)
	return n
}

// DedupSize reports the number of retained dedup keys.
func (s *Scheduler) DedupSize() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dedup.len()
}
