package cronjob

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

const warmTimeout = 2 * time.Minute

// Warmer precomputes the default dashboard tables.
type Warmer interface {
	WarmDefaults(ctx context.Context) error
}

type Scheduler struct {
	cron   *cron.Cron
	warmer Warmer
}

func NewScheduler(warmer Warmer) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
		warmer: warmer,
	}
}

// Start registers the warm job on spec (standard five-field or @every
// syntax) and starts the scheduler.
func (s *Scheduler) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.RunOnce); err != nil {
		return err
	}
	log.Printf("[warm] cron scheduler started (%s)", spec)
	s.cron.Start()
	return nil
}

// Stop waits for a running warm job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), warmTimeout)
	defer cancel()

	start := time.Now()
	if err := s.warmer.WarmDefaults(ctx); err != nil {
		log.Printf("[warm] failed: %v", err)
		return
	}
	log.Printf("[warm] default tables ready in %s", time.Since(start))
}
