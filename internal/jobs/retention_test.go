package jobs

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"

	"github.com/santabot/santa-server-go/internal/model"
	"github.com/santabot/santa-server-go/internal/repository"
)

type mockSessionRepo struct {
	deleteCount int64
	pruneCalls  atomic.Int64
	lastCutoff  time.Time
}

func (m *mockSessionRepo) FindByCode(ctx context.Context, code string) (*model.Session, error) {
	return nil, nil
}

func (m *mockSessionRepo) FindLatestWaitingByOrganizer(ctx context.Context, organizerID int64) (*model.Session, error) {
	return nil, nil
}

func (m *mockSessionRepo) Create(ctx context.Context, params model.CreateSessionParams) (*model.Session, error) {
	return nil, nil
}

func (m *mockSessionRepo) MarkStarted(ctx context.Context, code string, startedAt time.Time) error {
	return nil
}

func (m *mockSessionRepo) MarkFinished(ctx context.Context, code string) error {
	return nil
}

func (m *mockSessionRepo) CountByStatus(ctx context.Context, status model.SessionStatus) (int, error) {
	return 0, nil
}

func (m *mockSessionRepo) DeleteFinishedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	m.lastCutoff = cutoff
	m.pruneCalls.Add(1)
	return m.deleteCount, nil
}

func (m *mockSessionRepo) WithTx(tx *sqlx.Tx) repository.SessionRepository {
	return m
}

func TestRetentionJob(t *testing.T) {
	t.Run("creates job with correct interval", func(t *testing.T) {
		job := NewRetentionJob(nil, 90*24*time.Hour, 5*time.Minute)

		assert.NotNil(t, job)
		assert.Equal(t, 5*time.Minute, job.interval)
		assert.Equal(t, 90*24*time.Hour, job.retention)
	})

	t.Run("runs a prune on start and stops cleanly", func(t *testing.T) {
		repo := &mockSessionRepo{deleteCount: 3}
		job := NewRetentionJob(repo, 24*time.Hour, 1*time.Hour)

		job.Start()
		time.Sleep(20 * time.Millisecond)
		job.Stop()

		assert.GreaterOrEqual(t, repo.pruneCalls.Load(), int64(1))
		assert.WithinDuration(t, time.Now().Add(-24*time.Hour), repo.lastCutoff, time.Minute)
	})
}
