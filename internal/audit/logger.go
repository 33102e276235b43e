package audit

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type EventType string

const (
	EventSessionCreated  EventType = "session_created"
	EventPlayerJoined    EventType = "player_joined"
	EventSessionStarted  EventType = "session_started"
	EventPairAssigned    EventType = "pair_assigned"
	EventSessionFinished EventType = "session_finished"
	EventWishlistSaved   EventType = "wishlist_saved"
	EventUpdateDropped   EventType = "update_dropped"
)

type Event struct {
	Type      EventType
	SessionID string
	UserID    int64
	Details   map[string]any
}

// Log emits a structured domain event. These records are the operational
// trail for diagnosing sessions after the fact; they never include wishlist
// text.
func Log(ctx context.Context, event Event) {
	logger := log.With().
		Str("audit", "domain").
		Str("event_type", string(event.Type)).
		Logger()

	if event.SessionID != "" {
		logger = logger.With().Str("session_id", event.SessionID).Logger()
	}
	if event.UserID != 0 {
		logger = logger.With().Int64("user_id", event.UserID).Logger()
	}

	logEvent := logger.Info()
	for k, v := range event.Details {
		logEvent = addField(logEvent, k, v)
	}
	logEvent.Msg("domain event")
}

func addField(e *zerolog.Event, key string, value any) *zerolog.Event {
	switch v := value.(type) {
	case string:
		return e.Str(key, v)
	case int:
		return e.Int(key, v)
	case int64:
		return e.Int64(key, v)
	case bool:
		return e.Bool(key, v)
	default:
		return e.Interface(key, v)
	}
}
