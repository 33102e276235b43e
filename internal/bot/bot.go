// Package bot turns decoded chat updates into gift-exchange operations and
// replies. It runs entirely inside the dispatch worker, so handlers never
// execute concurrently.
package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"github.com/santabot/santa-server-go/internal/model"
	"github.com/santabot/santa-server-go/internal/service"
	"github.com/santabot/santa-server-go/internal/util"
)

const deepLinkJoinPrefix = "join_"

// SessionManager is the slice of the session service the router needs.
type SessionManager interface {
	CreateSession(ctx context.Context, organizerID int64, organizerName, name, budgetHint string) (*model.Session, error)
	JoinSession(ctx context.Context, code string, userID int64, displayName string) (service.JoinResult, error)
	StartSession(ctx context.Context, code string, callerID int64) (service.StartResult, error)
	FinishSession(ctx context.Context, code string, callerID int64) (service.FinishResult, error)
	SetWishlist(ctx context.Context, userID int64, text string) (service.WishlistResult, error)
	GetTargets(ctx context.Context, userID int64) ([]service.TargetInfo, error)
	GetSessionInfo(ctx context.Context, code string) (*service.SessionInfo, error)
	ListPlayers(ctx context.Context, userID int64) (*service.SessionInfo, error)
	ListSessions(ctx context.Context, userID int64) ([]service.SessionBrief, error)
	GetStats(ctx context.Context) (*service.Stats, error)
	FindLatestWaitingByOrganizer(ctx context.Context, organizerID int64) (*model.Session, error)
}

// Notifier is the outbound message port.
type Notifier interface {
	Send(ctx context.Context, chatID int64, text string) error
}

// Router dispatches one update at a time. pendingNewGame tracks users who
// issued /newgame without a name and owe us one; no lock is needed because
// only the dispatch worker touches it.
type Router struct {
	sessions       SessionManager
	notifier       Notifier
	botUsername    string
	queueDepth     func() int
	pendingNewGame map[int64]bool
}

func NewRouter(sessions SessionManager, notifier Notifier, botUsername string, queueDepth func() int) *Router {
	return &Router{
		sessions:       sessions,
		notifier:       notifier,
		botUsername:    botUsername,
		queueDepth:     queueDepth,
		pendingNewGame: make(map[int64]bool),
	}
}

// HandleUpdate routes a single decoded update. Non-message updates (edited
// messages, callback queries) are ignored.
func (r *Router) HandleUpdate(ctx context.Context, update *tgbotapi.Update) error {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return nil
	}

	chatID := msg.Chat.ID
	userID := msg.From.ID
	displayName := util.FormatDisplayName(msg.From.FirstName, msg.From.UserName, userID)

	if msg.IsCommand() {
		delete(r.pendingNewGame, userID)
		return r.handleCommand(ctx, msg, chatID, userID, displayName)
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return nil
	}

	if r.pendingNewGame[userID] {
		delete(r.pendingNewGame, userID)
		return r.createGame(ctx, chatID, userID, displayName, text)
	}

	if util.IsValidSessionCode(strings.ToUpper(text)) {
		return r.reply(ctx, chatID, msgCodeHint(strings.ToUpper(text)))
	}

	return nil
}

func (r *Router) handleCommand(ctx context.Context, msg *tgbotapi.Message, chatID, userID int64, displayName string) error {
	arg := strings.TrimSpace(msg.CommandArguments())

	switch msg.Command() {
	case "start":
		if code, ok := strings.CutPrefix(arg, deepLinkJoinPrefix); ok {
			return r.join(ctx, chatID, userID, displayName, code)
		}
		return r.reply(ctx, chatID, msgWelcome)
	case "help":
		return r.reply(ctx, chatID, msgHelp)
	case "newgame":
		if arg == "" {
			r.pendingNewGame[userID] = true
			return r.reply(ctx, chatID, msgAskGameName)
		}
		return r.createGame(ctx, chatID, userID, displayName, arg)
	case "join":
		if arg == "" {
			return r.reply(ctx, chatID, msgJoinUsage)
		}
		return r.join(ctx, chatID, userID, displayName, arg)
	case "startgame":
		return r.startGame(ctx, chatID, userID, arg)
	case "finishgame":
		return r.finishGame(ctx, chatID, userID, arg)
	case "wish":
		if arg == "" {
			return r.reply(ctx, chatID, msgWishUsage)
		}
		return r.setWishlist(ctx, chatID, userID, arg)
	case "mytargets":
		return r.myTargets(ctx, chatID, userID)
	case "gameinfo":
		if arg == "" {
			return r.reply(ctx, chatID, msgGameInfoUsage)
		}
		return r.gameInfo(ctx, chatID, arg)
	case "players":
		return r.players(ctx, chatID, userID)
	case "mygames":
		return r.myGames(ctx, chatID, userID)
	case "status":
		return r.status(ctx, chatID)
	default:
		return r.reply(ctx, chatID, msgUnknownCommand)
	}
}

func (r *Router) reply(ctx context.Context, chatID int64, text string) error {
	return r.notifier.Send(ctx, chatID, text)
}

// broadcast sends to each recipient independently; a failed send is logged
// and skipped so the rest still get theirs.
func (r *Router) broadcast(ctx context.Context, recipients []int64, text func(userID int64) string) {
	for _, userID := range recipients {
		if err := r.notifier.Send(ctx, userID, text(userID)); err != nil {
			log.Warn().Err(err).Int64("user_id", userID).Msg("Broadcast send failed")
		}
	}
}
