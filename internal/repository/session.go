package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/santabot/santa-server-go/internal/model"
)

type SessionRepository interface {
	FindByCode(ctx context.Context, code string) (*model.Session, error)
	FindLatestWaitingByOrganizer(ctx context.Context, organizerID int64) (*model.Session, error)
	Create(ctx context.Context, params model.CreateSessionParams) (*model.Session, error)
	MarkStarted(ctx context.Context, code string, startedAt time.Time) error
	MarkFinished(ctx context.Context, code string) error
	CountByStatus(ctx context.Context, status model.SessionStatus) (int, error)
	DeleteFinishedBefore(ctx context.Context, cutoff time.Time) (int64, error)
	// WithTx returns a new repository that uses the given transaction
	WithTx(tx *sqlx.Tx) SessionRepository
}

// sessionDB is an interface satisfied by both *sqlx.DB and *sqlx.Tx
type sessionDB interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

type sessionRepo struct {
	db sessionDB
}

func NewSessionRepository(db *sqlx.DB) SessionRepository {
	return &sessionRepo{db: db}
}

func (r *sessionRepo) WithTx(tx *sqlx.Tx) SessionRepository {
	return &sessionRepo{db: tx}
}

func (r *sessionRepo) FindByCode(ctx context.Context, code string) (*model.Session, error) {
	var session model.Session
	err := r.db.GetContext(ctx, &session, `
		SELECT * FROM sessions WHERE id = $1
	`, code)
	return HandleNotFound(&session, err)
}

func (r *sessionRepo) FindLatestWaitingByOrganizer(ctx context.Context, organizerID int64) (*model.Session, error) {
	var session model.Session
	err := r.db.GetContext(ctx, &session, `
		SELECT * FROM sessions
		WHERE organizer_id = $1 AND status = 'waiting'
		ORDER BY created_at DESC
		LIMIT 1
	`, organizerID)
	return HandleNotFound(&session, err)
}

func (r *sessionRepo) Create(ctx context.Context, params model.CreateSessionParams) (*model.Session, error) {
	var session model.Session
	err := r.db.GetContext(ctx, &session, `
		INSERT INTO sessions (id, name, organizer_id, organizer_name, budget_hint)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING *
	`, params.ID, params.Name, params.OrganizerID, params.OrganizerName, params.BudgetHint)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepo) MarkStarted(ctx context.Context, code string, startedAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE sessions SET
			status = 'started',
			started_at = $2
		WHERE id = $1 AND status = 'waiting'
	`, code, startedAt)
	return err
}

func (r *sessionRepo) MarkFinished(ctx context.Context, code string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE sessions SET
			status = 'finished'
		WHERE id = $1 AND status = 'started'
	`, code)
	return err
}

func (r *sessionRepo) CountByStatus(ctx context.Context, status model.SessionStatus) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM sessions WHERE status = $1
	`, status)
	return count, err
}

func (r *sessionRepo) DeleteFinishedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM sessions
		WHERE status = 'finished' AND started_at < $1
	`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
