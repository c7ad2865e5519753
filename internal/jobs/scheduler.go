package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"bookwise/api/internal/repository"
	"bookwise/api/internal/service"
)

// Scheduler drives the periodic circulation passes: flagging overdue loans,
// expiring stale reservations and purging dead session rows.
type Scheduler struct {
	cron        *cron.Cron
	circulation *service.CirculationService
	sessions    *repository.SessionRepository
	log         zerolog.Logger
}

func NewScheduler(circulation *service.CirculationService, sessions *repository.SessionRepository, log zerolog.Logger) *Scheduler {
	c := cron.New(cron.WithSeconds())
	return &Scheduler{
		cron:        c,
		circulation: circulation,
		sessions:    sessions,
		log:         log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 */10 * * * *", s.runOverduePass); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("0 */10 * * * *", s.runExpiryPass); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("0 0 4 * * *", s.runSessionPurge); err != nil { // nightly
		return err
	}

	s.cron.Start()
	return nil
}

func (s *Scheduler) Stop() context.CancelFunc {
	_, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	go func() {
		s.cron.Stop()
		cancel()
	}()
	return cancel
}

func (s *Scheduler) runOverduePass() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	count, err := s.circulation.MarkOverdueLoans(ctx, time.Now())
	if err != nil {
		s.log.Error().Err(err).Msg("overdue pass failed")
		return
	}
	if count > 0 {
		s.log.Info().Int("loans", count).Msg("loans marked overdue")
	}
}

func (s *Scheduler) runExpiryPass() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	count, err := s.circulation.ExpireReservations(ctx, time.Now())
	if err != nil {
		s.log.Error().Err(err).Msg("reservation expiry pass failed")
		return
	}
	if count > 0 {
		s.log.Info().Int("reservations", count).Msg("reservations expired")
	}
}

func (s *Scheduler) runSessionPurge() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	// Revoked and expired rows stick around for thirty days for audit, then go.
	purged, err := s.sessions.PurgeStale(ctx, time.Now().Add(-30*24*time.Hour))
	if err != nil {
		s.log.Error().Err(err).Msg("session purge failed")
		return
	}
	if purged > 0 {
		s.log.Info().Int64("sessions", purged).Msg("stale sessions purged")
	}
}
