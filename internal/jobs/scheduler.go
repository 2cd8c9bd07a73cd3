package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"newsportal/api/internal/news"
)

// Scheduler keeps the default headline feed warm so anonymous traffic is
// served from the cache instead of the upstream provider.
type Scheduler struct {
	cron *cron.Cron
	news *news.Service
	log  zerolog.Logger
}

func NewScheduler(newsService *news.Service, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		news: newsService,
		log:  log,
	}
}

func (s *Scheduler) Start() error {
	if s.news == nil {
		return nil
	}

	if _, err := s.cron.AddFunc("*/5 * * * *", s.warmHeadlines); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		s.log.Warn().Msg("scheduler stop timed out")
	}
}

func (s *Scheduler) warmHeadlines() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.news.WarmDefaultHeadlines(ctx); err != nil {
		s.log.Warn().Err(err).Msg("headline cache warm failed")
	}
}
