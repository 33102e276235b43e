package bot

import (
	"context"
	"fmt"

	"github.com/santabot/santa-server-go/internal/model"
	"github.com/santabot/santa-server-go/internal/service"
)

func (r *Router) createGame(ctx context.Context, chatID, userID int64, displayName, name string) error {
	session, err := r.sessions.CreateSession(ctx, userID, displayName, name, "")
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return r.reply(ctx, chatID, msgGameCreated(session, r.botUsername))
}

func (r *Router) join(ctx context.Context, chatID, userID int64, displayName, code string) error {
	result, err := r.sessions.JoinSession(ctx, code, userID, displayName)
	if err != nil {
		return fmt.Errorf("join session: %w", err)
	}
	if !result.OK {
		return r.reply(ctx, chatID, refusalText(result.Reason))
	}
	return r.reply(ctx, chatID, msgJoined(result.Session))
}

func (r *Router) startGame(ctx context.Context, chatID, userID int64, code string) error {
	if code == "" {
		session, err := r.sessions.FindLatestWaitingByOrganizer(ctx, userID)
		if err != nil {
			return fmt.Errorf("find waiting session: %w", err)
		}
		if session == nil {
			return r.reply(ctx, chatID, msgNoWaitingGame)
		}
		code = session.ID
	}

	result, err := r.sessions.StartSession(ctx, code, userID)
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	if !result.OK {
		return r.reply(ctx, chatID, refusalText(result.Reason))
	}

	reveals := make(map[int64]service.TargetReveal, len(result.Reveals))
	recipients := make([]int64, 0, len(result.Reveals))
	for _, reveal := range result.Reveals {
		reveals[reveal.GiverUserID] = reveal
		recipients = append(recipients, reveal.GiverUserID)
	}
	r.broadcast(ctx, recipients, func(giverID int64) string {
		return msgTargetReveal(result.Session.Name, reveals[giverID])
	})

	return r.reply(ctx, chatID, msgGameStarted(result.Session, len(result.Reveals)))
}

func (r *Router) finishGame(ctx context.Context, chatID, userID int64, code string) error {
	if code == "" {
		found, err := r.latestStartedOrganizedBy(ctx, userID)
		if err != nil {
			return err
		}
		if found == "" {
			return r.reply(ctx, chatID, msgNoStartedGame)
		}
		code = found
	}

	result, err := r.sessions.FinishSession(ctx, code, userID)
	if err != nil {
		return fmt.Errorf("finish session: %w", err)
	}
	if !result.OK {
		return r.reply(ctx, chatID, refusalText(result.Reason))
	}

	r.broadcast(ctx, result.ParticipantIDs, func(int64) string {
		return msgGameFinished(result.Session)
	})
	return nil
}

// latestStartedOrganizedBy resolves the bare /finishgame form: the most
// recent started session the caller organizes, or "" when there is none.
func (r *Router) latestStartedOrganizedBy(ctx context.Context, userID int64) (string, error) {
	briefs, err := r.sessions.ListSessions(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("list sessions: %w", err)
	}

	for i := len(briefs) - 1; i >= 0; i-- {
		if briefs[i].Status != model.SessionStatusStarted {
			continue
		}
		info, err := r.sessions.GetSessionInfo(ctx, briefs[i].ID)
		if err != nil {
			return "", fmt.Errorf("get session info: %w", err)
		}
		if info != nil && info.OrganizerID == userID {
			return info.ID, nil
		}
	}
	return "", nil
}

func (r *Router) setWishlist(ctx context.Context, chatID, userID int64, text string) error {
	result, err := r.sessions.SetWishlist(ctx, userID, text)
	if err != nil {
		return fmt.Errorf("set wishlist: %w", err)
	}
	if !result.OK {
		return r.reply(ctx, chatID, refusalText(result.Reason))
	}
	return r.reply(ctx, chatID, msgWishlistSaved(result.SessionID))
}

func (r *Router) myTargets(ctx context.Context, chatID, userID int64) error {
	targets, err := r.sessions.GetTargets(ctx, userID)
	if err != nil {
		return fmt.Errorf("get targets: %w", err)
	}
	return r.reply(ctx, chatID, msgMyTargets(targets))
}

func (r *Router) gameInfo(ctx context.Context, chatID int64, code string) error {
	info, err := r.sessions.GetSessionInfo(ctx, code)
	if err != nil {
		return fmt.Errorf("get session info: %w", err)
	}
	if info == nil {
		return r.reply(ctx, chatID, refusalText(service.ReasonSessionNotFound))
	}
	return r.reply(ctx, chatID, msgGameInfo(info))
}

func (r *Router) players(ctx context.Context, chatID, userID int64) error {
	info, err := r.sessions.ListPlayers(ctx, userID)
	if err != nil {
		return fmt.Errorf("list players: %w", err)
	}
	if info == nil {
		return r.reply(ctx, chatID, msgNoGames)
	}
	return r.reply(ctx, chatID, msgPlayers(info))
}

func (r *Router) myGames(ctx context.Context, chatID, userID int64) error {
	briefs, err := r.sessions.ListSessions(ctx, userID)
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}
	if len(briefs) == 0 {
		return r.reply(ctx, chatID, msgNoGames)
	}
	return r.reply(ctx, chatID, msgMyGames(briefs))
}

func (r *Router) status(ctx context.Context, chatID int64) error {
	stats, err := r.sessions.GetStats(ctx)
	if err != nil {
		return fmt.Errorf("get stats: %w", err)
	}
	depth := 0
	if r.queueDepth != nil {
		depth = r.queueDepth()
	}
	return r.reply(ctx, chatID, msgStatus(stats, depth))
}
