package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/santabot/santa-server-go/internal/repository"
)

// RetentionJob prunes sessions that finished longer ago than the retention
// window. Cascade deletes take the participant rows with them.
type RetentionJob struct {
	sessionRepo repository.SessionRepository
	retention   time.Duration
	interval    time.Duration
	done        chan struct{}
}

func NewRetentionJob(sessionRepo repository.SessionRepository, retention, interval time.Duration) *RetentionJob {
	return &RetentionJob{
		sessionRepo: sessionRepo,
		retention:   retention,
		interval:    interval,
		done:        make(chan struct{}),
	}
}

func (j *RetentionJob) Start() {
	go j.run()
	log.Info().Dur("interval", j.interval).Dur("retention", j.retention).Msg("retention job started")
}

func (j *RetentionJob) Stop() {
	close(j.done)
	log.Info().Msg("retention job stopped")
}

func (j *RetentionJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.prune()

	for {
		select {
		case <-j.done:
			return
		case <-ticker.C:
			j.prune()
		}
	}
}

func (j *RetentionJob) prune() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().Add(-j.retention)
	deleted, err := j.sessionRepo.DeleteFinishedBefore(ctx, cutoff)
	if err != nil {
		log.Error().Err(err).Msg("retention job: failed to prune finished sessions")
		return
	}
	if deleted > 0 {
		log.Info().Int64("deleted", deleted).Time("cutoff", cutoff).Msg("retention job: pruned finished sessions")
	}
}
