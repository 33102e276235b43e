package service

import (
	"context"
	"fmt"

	"github.com/santabot/santa-server-go/internal/model"
)

// GetTargets resolves the caller's assignment in every session that has
// been started or finished. Read-only.
func (s *SessionService) GetTargets(ctx context.Context, userID int64) ([]TargetInfo, error) {
	memberships, err := s.participants.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}

	var infos []TargetInfo
	for _, membership := range memberships {
		session, err := s.sessions.FindByCode(ctx, membership.SessionID)
		if err != nil {
			return nil, fmt.Errorf("find session %s: %w", membership.SessionID, err)
		}
		if session == nil || !session.Status.Assigned() {
			continue
		}

		info := TargetInfo{
			SessionID:   session.ID,
			SessionName: session.Name,
		}

		if membership.TargetUserID != nil {
			target, err := s.participants.FindBySessionAndUser(ctx, session.ID, *membership.TargetUserID)
			if err != nil {
				return nil, fmt.Errorf("find target: %w", err)
			}
			if target != nil {
				info.Assigned = true
				info.TargetUserID = target.UserID
				info.TargetName = target.DisplayName
				if target.Wishlist != nil {
					info.TargetWishlist = *target.Wishlist
				}
			}
		}

		infos = append(infos, info)
	}

	return infos, nil
}

// GetSessionInfo returns the public projection of one session: roster with
// has-wishlist flags only. Returns nil when the code matches nothing.
func (s *SessionService) GetSessionInfo(ctx context.Context, code string) (*SessionInfo, error) {
	code = NormalizeCode(code)

	session, err := s.sessions.FindByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}
	if session == nil {
		return nil, nil
	}

	roster, err := s.participants.ListBySession(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}

	info := &SessionInfo{
		ID:            session.ID,
		Name:          session.Name,
		OrganizerID:   session.OrganizerID,
		OrganizerName: session.OrganizerName,
		Status:        session.Status,
		BudgetHint:    session.BudgetHint,
		CreatedAt:     session.CreatedAt,
		Participants:  make([]ParticipantSummary, 0, len(roster)),
	}

	for _, p := range roster {
		info.Participants = append(info.Participants, ParticipantSummary{
			UserID:      p.UserID,
			DisplayName: p.DisplayName,
			HasWishlist: p.HasWishlist(),
			IsOrganizer: p.UserID == session.OrganizerID,
		})
	}

	return info, nil
}

// ListPlayers returns the roster of the caller's most recently joined
// session, or nil when the caller has no memberships.
func (s *SessionService) ListPlayers(ctx context.Context, userID int64) (*SessionInfo, error) {
	membership, err := s.participants.FindLatestByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find membership: %w", err)
	}
	if membership == nil {
		return nil, nil
	}
	return s.GetSessionInfo(ctx, membership.SessionID)
}

// ListSessions returns every session the caller belongs to.
func (s *SessionService) ListSessions(ctx context.Context, userID int64) ([]SessionBrief, error) {
	memberships, err := s.participants.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}

	var briefs []SessionBrief
	for _, membership := range memberships {
		session, err := s.sessions.FindByCode(ctx, membership.SessionID)
		if err != nil {
			return nil, fmt.Errorf("find session %s: %w", membership.SessionID, err)
		}
		if session == nil {
			continue
		}

		count, err := s.participants.CountBySession(ctx, session.ID)
		if err != nil {
			return nil, fmt.Errorf("count participants: %w", err)
		}

		briefs = append(briefs, SessionBrief{
			ID:               session.ID,
			Name:             session.Name,
			Status:           session.Status,
			ParticipantCount: count,
		})
	}

	return briefs, nil
}

// GetStats returns whole-system counters for the /status command.
func (s *SessionService) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	var err error
	if stats.WaitingSessions, err = s.sessions.CountByStatus(ctx, model.SessionStatusWaiting); err != nil {
		return nil, fmt.Errorf("count waiting: %w", err)
	}
	if stats.StartedSessions, err = s.sessions.CountByStatus(ctx, model.SessionStatusStarted); err != nil {
		return nil, fmt.Errorf("count started: %w", err)
	}
	if stats.FinishedSessions, err = s.sessions.CountByStatus(ctx, model.SessionStatusFinished); err != nil {
		return nil, fmt.Errorf("count finished: %w", err)
	}
	if stats.DistinctPlayers, err = s.participants.CountDistinctUsers(ctx); err != nil {
		return nil, fmt.Errorf("count players: %w", err)
	}

	return stats, nil
}
