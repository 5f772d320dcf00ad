package background

import (
	"context"
	"log"
	"time"

	"wishbase/internal/repositories"

	"github.com/go-co-op/gocron/v2"
)

// SessionSweeper periodically deletes expired session rows. Expiry is
// enforced lazily on every read; the sweep only bounds storage growth.
type SessionSweeper struct {
	scheduler gocron.Scheduler
	sessions  repositories.SessionRepository
	interval  time.Duration
}

func NewSessionSweeper(sessions repositories.SessionRepository, interval time.Duration) (*SessionSweeper, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	sweeper := &SessionSweeper{
		scheduler: scheduler,
		sessions:  sessions,
		interval:  interval,
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(sweeper.sweep),
		gocron.WithName("session-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, err
	}

	return sweeper, nil
}

// Start begins sweeping on the configured interval.
func (s *SessionSweeper) Start() {
	log.Printf("jobs: starting session sweeper (every %s)", s.interval)
	s.scheduler.Start()
}

// Stop shuts the scheduler down, waiting for a running sweep.
func (s *SessionSweeper) Stop() error {
	return s.scheduler.Shutdown()
}

func (s *SessionSweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	removed, err := s.sessions.DeleteExpired(ctx, time.Now())
	if err != nil {
		log.Printf("jobs: session sweep failed: %v", err)
		return
	}
	if removed > 0 {
		log.Printf("jobs: session sweep removed %d expired sessions", removed)
	}
}
