package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/santabot/santa-server-go/internal/assign"
	"github.com/santabot/santa-server-go/internal/audit"
	"github.com/santabot/santa-server-go/internal/config"
	"github.com/santabot/santa-server-go/internal/database"
	"github.com/santabot/santa-server-go/internal/model"
	"github.com/santabot/santa-server-go/internal/repository"
)

const sessionCodeChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const DefaultBudgetHint = "no limit"

// SessionService is the gift-exchange state machine. Every mutation runs
// inside one store transaction; with a single dispatch worker invoking it,
// operations never interleave.
type SessionService struct {
	db              database.TxRunner
	sessions        repository.SessionRepository
	participants    repository.ParticipantRepository
	minParticipants int
}

func NewSessionService(
	db database.TxRunner,
	sessions repository.SessionRepository,
	participants repository.ParticipantRepository,
	minParticipants int,
) *SessionService {
	return &SessionService{
		db:              db,
		sessions:        sessions,
		participants:    participants,
		minParticipants: minParticipants,
	}
}

// CreateSession creates a waiting session and adds the organizer as its
// first participant. Both writes commit or roll back together.
func (s *SessionService) CreateSession(
	ctx context.Context,
	organizerID int64,
	organizerName, name, budgetHint string,
) (*model.Session, error) {
	if budgetHint == "" {
		budgetHint = DefaultBudgetHint
	}

	code, err := s.freshSessionCode(ctx)
	if err != nil {
		return nil, err
	}

	var session *model.Session
	err = s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		session, err = s.sessions.WithTx(tx).Create(ctx, model.CreateSessionParams{
			ID:            code,
			Name:          name,
			OrganizerID:   organizerID,
			OrganizerName: organizerName,
			BudgetHint:    budgetHint,
		})
		if err != nil {
			return fmt.Errorf("create session: %w", err)
		}

		_, err = s.participants.WithTx(tx).Add(ctx, model.AddParticipantParams{
			SessionID:   code,
			UserID:      organizerID,
			DisplayName: organizerName,
		})
		if err != nil {
			return fmt.Errorf("add organizer: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	audit.Log(ctx, audit.Event{
		Type:      audit.EventSessionCreated,
		SessionID: session.ID,
		UserID:    organizerID,
	})

	return session, nil
}

// JoinSession appends a participant to a waiting session.
func (s *SessionService) JoinSession(
	ctx context.Context,
	code string,
	userID int64,
	displayName string,
) (JoinResult, error) {
	code = NormalizeCode(code)

	var result JoinResult
	err := s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		sessions := s.sessions.WithTx(tx)
		participants := s.participants.WithTx(tx)

		session, err := sessions.FindByCode(ctx, code)
		if err != nil {
			return fmt.Errorf("find session: %w", err)
		}
		if session == nil {
			result = JoinResult{Reason: ReasonSessionNotFound}
			return nil
		}
		if session.Status != model.SessionStatusWaiting {
			result = JoinResult{Reason: ReasonSessionAlreadyStarted}
			return nil
		}

		existing, err := participants.FindBySessionAndUser(ctx, code, userID)
		if err != nil {
			return fmt.Errorf("find participant: %w", err)
		}
		if existing != nil {
			result = JoinResult{Reason: ReasonAlreadyJoined}
			return nil
		}

		if _, err := participants.Add(ctx, model.AddParticipantParams{
			SessionID:   code,
			UserID:      userID,
			DisplayName: displayName,
		}); err != nil {
			return fmt.Errorf("add participant: %w", err)
		}

		result = JoinResult{OK: true, Session: session}
		return nil
	})
	if err != nil {
		return JoinResult{}, err
	}

	if result.OK {
		audit.Log(ctx, audit.Event{
			Type:      audit.EventPlayerJoined,
			SessionID: code,
			UserID:    userID,
		})
	}

	return result, nil
}

// StartSession draws the assignment and flips the session to started. The
// target writes and the status flip are one atomic unit: a failure anywhere
// rolls everything back and the session stays waiting.
func (s *SessionService) StartSession(ctx context.Context, code string, callerID int64) (StartResult, error) {
	code = NormalizeCode(code)

	var result StartResult
	err := s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		sessions := s.sessions.WithTx(tx)
		participants := s.participants.WithTx(tx)

		session, err := sessions.FindByCode(ctx, code)
		if err != nil {
			return fmt.Errorf("find session: %w", err)
		}
		if session == nil {
			result = StartResult{Reason: ReasonSessionNotFound}
			return nil
		}
		if session.OrganizerID != callerID {
			result = StartResult{Reason: ReasonNotOrganizer}
			return nil
		}
		if session.Status != model.SessionStatusWaiting {
			result = StartResult{Reason: ReasonAlreadyStarted}
			return nil
		}

		roster, err := participants.ListBySession(ctx, code)
		if err != nil {
			return fmt.Errorf("list participants: %w", err)
		}
		if len(roster) < s.minParticipants {
			result = StartResult{Reason: ReasonNotEnoughParticipants}
			return nil
		}

		ids := make([]int64, len(roster))
		byID := make(map[int64]*model.Participant, len(roster))
		for i := range roster {
			ids[i] = roster[i].UserID
			byID[roster[i].UserID] = &roster[i]
		}

		targets := assign.Rotation(ids)

		reveals := make([]TargetReveal, 0, len(roster))
		for _, giverID := range ids {
			targetID := targets[giverID]
			if err := participants.SetTarget(ctx, code, giverID, targetID); err != nil {
				return fmt.Errorf("set target for %d: %w", giverID, err)
			}

			target := byID[targetID]
			reveal := TargetReveal{
				GiverUserID:  giverID,
				TargetUserID: targetID,
				TargetName:   target.DisplayName,
			}
			if target.Wishlist != nil {
				reveal.TargetWishlist = *target.Wishlist
			}
			reveals = append(reveals, reveal)
		}

		startedAt := time.Now()
		if err := sessions.MarkStarted(ctx, code, startedAt); err != nil {
			return fmt.Errorf("mark started: %w", err)
		}

		session.Status = model.SessionStatusStarted
		session.StartedAt = &startedAt
		result = StartResult{OK: true, Session: session, Reveals: reveals}
		return nil
	})
	if err != nil {
		return StartResult{}, err
	}

	if result.OK {
		for _, reveal := range result.Reveals {
			audit.Log(ctx, audit.Event{
				Type:      audit.EventPairAssigned,
				SessionID: code,
				UserID:    reveal.GiverUserID,
				Details:   map[string]any{"receiver": reveal.TargetUserID},
			})
		}
		audit.Log(ctx, audit.Event{
			Type:      audit.EventSessionStarted,
			SessionID: code,
			UserID:    callerID,
		})
	}

	return result, nil
}

// FinishSession closes a started session. Assignments and wishlists are
// left untouched.
func (s *SessionService) FinishSession(ctx context.Context, code string, callerID int64) (FinishResult, error) {
	code = NormalizeCode(code)

	var result FinishResult
	err := s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		sessions := s.sessions.WithTx(tx)
		participants := s.participants.WithTx(tx)

		session, err := sessions.FindByCode(ctx, code)
		if err != nil {
			return fmt.Errorf("find session: %w", err)
		}
		if session == nil {
			result = FinishResult{Reason: ReasonSessionNotFound}
			return nil
		}
		if session.OrganizerID != callerID {
			result = FinishResult{Reason: ReasonNotOrganizer}
			return nil
		}
		if session.Status != model.SessionStatusStarted {
			result = FinishResult{Reason: ReasonNotStarted}
			return nil
		}

		if err := sessions.MarkFinished(ctx, code); err != nil {
			return fmt.Errorf("mark finished: %w", err)
		}

		roster, err := participants.ListBySession(ctx, code)
		if err != nil {
			return fmt.Errorf("list participants: %w", err)
		}

		ids := make([]int64, len(roster))
		for i := range roster {
			ids[i] = roster[i].UserID
		}

		session.Status = model.SessionStatusFinished
		result = FinishResult{OK: true, Session: session, ParticipantIDs: ids}
		return nil
	})
	if err != nil {
		return FinishResult{}, err
	}

	if result.OK {
		audit.Log(ctx, audit.Event{
			Type:      audit.EventSessionFinished,
			SessionID: code,
			UserID:    callerID,
		})
	}

	return result, nil
}

// SetWishlist overwrites the wishlist on the caller's most recently joined
// membership, as long as that session is still waiting.
func (s *SessionService) SetWishlist(ctx context.Context, userID int64, text string) (WishlistResult, error) {
	var result WishlistResult
	err := s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		sessions := s.sessions.WithTx(tx)
		participants := s.participants.WithTx(tx)

		participant, err := participants.FindLatestByUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("find membership: %w", err)
		}
		if participant == nil {
			result = WishlistResult{Reason: ReasonNotAParticipant}
			return nil
		}

		session, err := sessions.FindByCode(ctx, participant.SessionID)
		if err != nil {
			return fmt.Errorf("find session: %w", err)
		}
		if session == nil || session.Status != model.SessionStatusWaiting {
			result = WishlistResult{Reason: ReasonSessionAlreadyStarted}
			return nil
		}

		if err := participants.UpdateWishlist(ctx, participant.ID, text); err != nil {
			return fmt.Errorf("update wishlist: %w", err)
		}

		result = WishlistResult{OK: true, SessionID: session.ID}
		return nil
	})
	if err != nil {
		return WishlistResult{}, err
	}

	if result.OK {
		audit.Log(ctx, audit.Event{
			Type:      audit.EventWishlistSaved,
			SessionID: result.SessionID,
			UserID:    userID,
		})
	}

	return result, nil
}

// FindLatestWaitingByOrganizer resolves the session an organizer most
// recently created and has not yet started.
func (s *SessionService) FindLatestWaitingByOrganizer(ctx context.Context, organizerID int64) (*model.Session, error) {
	return s.sessions.FindLatestWaitingByOrganizer(ctx, organizerID)
}

// NormalizeCode maps user input to the canonical session-code form.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// freshSessionCode generates a code and pre-checks it against the store,
// retrying a few times. A lost race after the pre-check still fails safely
// on the primary key constraint.
func (s *SessionService) freshSessionCode(ctx context.Context) (string, error) {
	var code string
	for attempt := 0; attempt < config.SessionCodeMaxAttempts; attempt++ {
		code = generateSessionCode()

		existing, err := s.sessions.FindByCode(ctx, code)
		if err != nil {
			return "", fmt.Errorf("check session code: %w", err)
		}
		if existing == nil {
			return code, nil
		}

		log.Warn().Str("code", code).Msg("session code collision, regenerating")
	}
	return "", fmt.Errorf("could not generate a unique session code after %d attempts", config.SessionCodeMaxAttempts)
}

func generateSessionCode() string {
	chars := []byte(sessionCodeChars)
	code := make([]byte, config.SessionCodeLength)
	for i := range code {
		n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(chars))))
		code[i] = chars[n.Int64()]
	}
	return string(code)
}
