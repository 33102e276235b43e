package model

import (
	"time"
)

type Session struct {
	ID            string        `db:"id" json:"id"`
	Name          string        `db:"name" json:"name"`
	OrganizerID   int64         `db:"organizer_id" json:"organizerId"`
	OrganizerName string        `db:"organizer_name" json:"organizerName"`
	Status        SessionStatus `db:"status" json:"status"`
	BudgetHint    string        `db:"budget_hint" json:"budgetHint"`
	CreatedAt     time.Time     `db:"created_at" json:"createdAt"`
	StartedAt     *time.Time    `db:"started_at" json:"startedAt,omitempty"`
}

type CreateSessionParams struct {
	ID            string
	Name          string
	OrganizerID   int64
	OrganizerName string
	BudgetHint    string
}
