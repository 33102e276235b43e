package bot

import (
	"fmt"
	"strings"

	"github.com/santabot/santa-server-go/internal/model"
	"github.com/santabot/santa-server-go/internal/service"
)

const (
	msgWelcome = "Ho ho ho! I'm your Secret Santa bot.\n" +
		"Use /newgame to organize a gift exchange or /join <code> to join one.\n" +
		"Type /help to see every command."

	msgHelp = "Commands:\n" +
		"/newgame [name] — organize a new gift exchange\n" +
		"/join <code> — join a game by its code\n" +
		"/wish <text> — save your wishlist (before the game starts)\n" +
		"/startgame [code] — draw names (organizer only)\n" +
		"/finishgame [code] — close the game (organizer only)\n" +
		"/mytargets — who you're gifting\n" +
		"/gameinfo <code> — game details\n" +
		"/players — who's in your latest game\n" +
		"/mygames — every game you're part of\n" +
		"/status — bot status"

	msgAskGameName    = "What should the game be called? Send me a name."
	msgJoinUsage      = "Usage: /join <code>"
	msgWishUsage      = "Usage: /wish <your wishlist text>"
	msgGameInfoUsage  = "Usage: /gameinfo <code>"
	msgUnknownCommand = "I don't know that command. Try /help."
	msgNoWaitingGame  = "You have no game waiting to start. Create one with /newgame."
	msgNoStartedGame  = "You have no running game to finish."
	msgNoGames        = "You're not in any game yet. Join one with /join <code>."

	wishlistPlaceholder = "not specified"
)

func msgCodeHint(code string) string {
	return fmt.Sprintf("That looks like a game code. Did you mean /join %s?", code)
}

func msgGameCreated(session *model.Session, botUsername string) string {
	return fmt.Sprintf(
		"Game %q created!\nCode: %s\nBudget: %s\n\n"+
			"Share this link so others can join:\nhttps://t.me/%s?start=join_%s\n\n"+
			"When everyone is in, run /startgame.",
		session.Name, session.ID, session.BudgetHint, botUsername, session.ID,
	)
}

func msgJoined(session *model.Session) string {
	return fmt.Sprintf(
		"You're in! %q (budget: %s).\n"+
			"Save your wishlist with /wish before the draw.",
		session.Name, session.BudgetHint,
	)
}

func msgGameStarted(session *model.Session, participants int) string {
	return fmt.Sprintf(
		"Names drawn for %q! All %d participants received their target.",
		session.Name, participants,
	)
}

func msgTargetReveal(sessionName string, reveal service.TargetReveal) string {
	wishlist := reveal.TargetWishlist
	if wishlist == "" {
		wishlist = wishlistPlaceholder
	}
	return fmt.Sprintf(
		"The draw is done for %q!\nYou are gifting: %s\nTheir wishlist: %s",
		sessionName, reveal.TargetName, wishlist,
	)
}

func msgGameFinished(session *model.Session) string {
	return fmt.Sprintf(
		"%q is over. Hope everyone loved their gifts — thanks for playing!",
		session.Name,
	)
}

func msgWishlistSaved(sessionID string) string {
	return fmt.Sprintf("Wishlist saved for game %s.", sessionID)
}

func msgMyTargets(targets []service.TargetInfo) string {
	if len(targets) == 0 {
		return "No targets yet. Targets appear once a game you joined has started."
	}

	var b strings.Builder
	b.WriteString("Your targets:\n")
	for _, t := range targets {
		wishlist := t.TargetWishlist
		if wishlist == "" {
			wishlist = wishlistPlaceholder
		}
		fmt.Fprintf(&b, "\n%s (%s):\nYou are gifting %s.\nWishlist: %s\n",
			t.SessionName, t.SessionID, t.TargetName, wishlist)
	}
	return b.String()
}

func msgGameInfo(info *service.SessionInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\nStatus: %s\nBudget: %s\nOrganizer: %s\nParticipants: %d\n",
		info.Name, info.ID, info.Status, info.BudgetHint, info.OrganizerName, len(info.Participants))
	return b.String()
}

func msgPlayers(info *service.SessionInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Players in %q (%s):\n", info.Name, info.ID)
	for _, p := range info.Participants {
		marks := ""
		if p.IsOrganizer {
			marks += " (organizer)"
		}
		if p.HasWishlist {
			marks += " 🎁"
		}
		fmt.Fprintf(&b, "• %s%s\n", p.DisplayName, marks)
	}
	return b.String()
}

func msgMyGames(briefs []service.SessionBrief) string {
	var b strings.Builder
	b.WriteString("Your games:\n")
	for _, brief := range briefs {
		fmt.Fprintf(&b, "• %s (%s) — %s, %d players\n",
			brief.Name, brief.ID, brief.Status, brief.ParticipantCount)
	}
	return b.String()
}

func msgStatus(stats *service.Stats, queueDepth int) string {
	return fmt.Sprintf(
		"Bot status:\nWaiting games: %d\nRunning games: %d\nFinished games: %d\nPlayers: %d\nQueued updates: %d",
		stats.WaitingSessions, stats.StartedSessions, stats.FinishedSessions,
		stats.DistinctPlayers, queueDepth,
	)
}

func refusalText(reason service.Reason) string {
	switch reason {
	case service.ReasonSessionNotFound:
		return "No game found for that code. Check it and try again."
	case service.ReasonNotOrganizer:
		return "Only the game's organizer can do that."
	case service.ReasonAlreadyStarted:
		return "Names are already drawn for this game."
	case service.ReasonNotStarted:
		return "This game hasn't started yet."
	case service.ReasonNotEnoughParticipants:
		return "Not enough participants yet. Invite more people first!"
	case service.ReasonAlreadyJoined:
		return "You're already in this game."
	case service.ReasonNotAParticipant:
		return "You haven't joined a game yet. Use /join <code> first."
	case service.ReasonSessionAlreadyStarted:
		return "Too late — this game has already started."
	default:
		return "Something went wrong. Please try again."
	}
}
