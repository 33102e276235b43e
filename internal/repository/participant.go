package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/santabot/santa-server-go/internal/model"
)

type ParticipantRepository interface {
	Add(ctx context.Context, params model.AddParticipantParams) (*model.Participant, error)
	FindBySessionAndUser(ctx context.Context, sessionID string, userID int64) (*model.Participant, error)
	FindLatestByUser(ctx context.Context, userID int64) (*model.Participant, error)
	ListBySession(ctx context.Context, sessionID string) ([]model.Participant, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Participant, error)
	SetTarget(ctx context.Context, sessionID string, userID, targetUserID int64) error
	UpdateWishlist(ctx context.Context, id int64, wishlist string) error
	CountBySession(ctx context.Context, sessionID string) (int, error)
	CountDistinctUsers(ctx context.Context) (int, error)
	// WithTx returns a new repository that uses the given transaction
	WithTx(tx *sqlx.Tx) ParticipantRepository
}

type participantRepo struct {
	db sessionDB
}

func NewParticipantRepository(db *sqlx.DB) ParticipantRepository {
	return &participantRepo{db: db}
}

func (r *participantRepo) WithTx(tx *sqlx.Tx) ParticipantRepository {
	return &participantRepo{db: tx}
}

func (r *participantRepo) Add(ctx context.Context, params model.AddParticipantParams) (*model.Participant, error) {
	var participant model.Participant
	err := r.db.GetContext(ctx, &participant, `
		INSERT INTO participants (session_id, user_id, display_name)
		VALUES ($1, $2, $3)
		RETURNING *
	`, params.SessionID, params.UserID, params.DisplayName)
	if err != nil {
		return nil, err
	}
	return &participant, nil
}

func (r *participantRepo) FindBySessionAndUser(ctx context.Context, sessionID string, userID int64) (*model.Participant, error) {
	var participant model.Participant
	err := r.db.GetContext(ctx, &participant, `
		SELECT * FROM participants
		WHERE session_id = $1 AND user_id = $2
	`, sessionID, userID)
	return HandleNotFound(&participant, err)
}

func (r *participantRepo) FindLatestByUser(ctx context.Context, userID int64) (*model.Participant, error) {
	var participant model.Participant
	err := r.db.GetContext(ctx, &participant, `
		SELECT * FROM participants
		WHERE user_id = $1
		ORDER BY joined_at DESC, id DESC
		LIMIT 1
	`, userID)
	return HandleNotFound(&participant, err)
}

func (r *participantRepo) ListBySession(ctx context.Context, sessionID string) ([]model.Participant, error) {
	var participants []model.Participant
	err := r.db.SelectContext(ctx, &participants, `
		SELECT * FROM participants
		WHERE session_id = $1
		ORDER BY joined_at ASC, id ASC
	`, sessionID)
	return participants, err
}

func (r *participantRepo) ListByUser(ctx context.Context, userID int64) ([]model.Participant, error) {
	var participants []model.Participant
	err := r.db.SelectContext(ctx, &participants, `
		SELECT * FROM participants
		WHERE user_id = $1
		ORDER BY joined_at ASC, id ASC
	`, userID)
	return participants, err
}

func (r *participantRepo) SetTarget(ctx context.Context, sessionID string, userID, targetUserID int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE participants SET
			target_user_id = $3
		WHERE session_id = $1 AND user_id = $2 AND target_user_id IS NULL
	`, sessionID, userID, targetUserID)
	return err
}

func (r *participantRepo) UpdateWishlist(ctx context.Context, id int64, wishlist string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE participants SET
			wishlist = $2
		WHERE id = $1
	`, id, wishlist)
	return err
}

func (r *participantRepo) CountBySession(ctx context.Context, sessionID string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM participants WHERE session_id = $1
	`, sessionID)
	return count, err
}

func (r *participantRepo) CountDistinctUsers(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(DISTINCT user_id) FROM participants
	`)
	return count, err
}
