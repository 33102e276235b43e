package service

import (
	"time"

	"github.com/santabot/santa-server-go/internal/model"
)

// Reason identifies a domain rule refusal. Refusals are expected outcomes
// returned inside results; they are never raised as errors.
type Reason string

const (
	ReasonNone                  Reason = ""
	ReasonSessionNotFound       Reason = "SESSION_NOT_FOUND"
	ReasonNotOrganizer          Reason = "NOT_ORGANIZER"
	ReasonAlreadyStarted        Reason = "ALREADY_STARTED"
	ReasonNotStarted            Reason = "NOT_STARTED"
	ReasonNotEnoughParticipants Reason = "NOT_ENOUGH_PARTICIPANTS"
	ReasonAlreadyJoined         Reason = "ALREADY_JOINED"
	ReasonNotAParticipant       Reason = "NOT_A_PARTICIPANT"
	ReasonSessionAlreadyStarted Reason = "SESSION_ALREADY_STARTED"
)

type JoinResult struct {
	OK      bool
	Reason  Reason
	Session *model.Session
}

// TargetReveal carries one giver's assignment, resolved to the target's
// display name and wishlist, for the post-start broadcast.
type TargetReveal struct {
	GiverUserID    int64
	TargetUserID   int64
	TargetName     string
	TargetWishlist string
}

type StartResult struct {
	OK      bool
	Reason  Reason
	Session *model.Session
	Reveals []TargetReveal
}

type FinishResult struct {
	OK             bool
	Reason         Reason
	Session        *model.Session
	ParticipantIDs []int64
}

type WishlistResult struct {
	OK        bool
	Reason    Reason
	SessionID string
}

// TargetInfo is one membership's assignment as seen by the giver.
type TargetInfo struct {
	SessionID      string
	SessionName    string
	Assigned       bool
	TargetUserID   int64
	TargetName     string
	TargetWishlist string
}

// ParticipantSummary deliberately exposes only a has-wishlist flag; wishlist
// text and assignments never leave through session projections.
type ParticipantSummary struct {
	UserID      int64
	DisplayName string
	HasWishlist bool
	IsOrganizer bool
}

type SessionInfo struct {
	ID            string
	Name          string
	OrganizerID   int64
	OrganizerName string
	Status        model.SessionStatus
	BudgetHint    string
	CreatedAt     time.Time
	Participants  []ParticipantSummary
}

type SessionBrief struct {
	ID               string
	Name             string
	Status           model.SessionStatus
	ParticipantCount int
}

type Stats struct {
	WaitingSessions  int
	StartedSessions  int
	FinishedSessions int
	DistinctPlayers  int
}
