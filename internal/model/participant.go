package model

import (
	"time"
)

// Participant is one user's membership in a session. TargetUserID is set
// exactly once, when the session starts, and never changes afterwards.
type Participant struct {
	ID           int64     `db:"id" json:"id"`
	SessionID    string    `db:"session_id" json:"sessionId"`
	UserID       int64     `db:"user_id" json:"userId"`
	DisplayName  string    `db:"display_name" json:"displayName"`
	Wishlist     *string   `db:"wishlist" json:"wishlist,omitempty"`
	TargetUserID *int64    `db:"target_user_id" json:"-"`
	JoinedAt     time.Time `db:"joined_at" json:"joinedAt"`
}

type AddParticipantParams struct {
	SessionID   string
	UserID      int64
	DisplayName string
}

func (p *Participant) HasWishlist() bool {
	return p.Wishlist != nil && *p.Wishlist != ""
}
