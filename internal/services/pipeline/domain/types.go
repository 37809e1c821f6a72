// Package domain holds pipeline types and ports
package domain

import (
	"time"

	"github.com/google/uuid"

	"warmintro/internal/core/draft"
	"warmintro/internal/core/stage"
)

// Card is one tracked outreach opportunity moving through the stage machine
type Card struct {
	ID            uuid.UUID            `json:"id"`
	NeedID        uuid.UUID            `json:"need_id"`
	ContactID     string               `json:"contact_id"`
	ContactName   string               `json:"contact_name"`
	Stage         stage.Stage          `json:"stage"`
	RankScore     float64              `json:"rank_score"`
	Justification string               `json:"justification,omitempty"`
	Drafts        []draft.MessageDraft `json:"drafts,omitempty"`
	NextAction    *time.Time           `json:"next_action_date,omitempty"`
	StatusTags    []string             `json:"status_tags,omitempty"`
	Outcome       string               `json:"outcome,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// PromoteInput creates a card for a ranked contact under a need
type PromoteInput struct {
	NeedID        uuid.UUID `json:"need_id" validate:"required"`
	ContactID     string    `json:"contact_id" validate:"required"`
	ContactName   string    `json:"contact_name" validate:"required"`
	RankScore     float64   `json:"rank_score" validate:"gte=0,lte=1"`
	Justification string    `json:"justification,omitempty"`
	StatusTags    []string  `json:"status_tags,omitempty"`
}

// ListFilter narrows List results; zero value lists everything
type ListFilter struct {
	NeedID    uuid.UUID
	ContactID string
	Stage     stage.Stage
	Live      bool // only cards not yet closed
}

// Outcomes accepted by Close
const (
	OutcomeWon  = "won"
	OutcomeLost = "lost"
)

// SweepResult reports one sweeper pass over due cards
type SweepResult struct {
	Advanced int      `json:"advanced"`
	Errors   []string `json:"errors,omitempty"`
}
