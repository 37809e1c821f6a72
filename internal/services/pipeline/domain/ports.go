package domain

import (
	"context"
	"time"

	"github.com/google/uuid"

	"warmintro/internal/core/draft"
	"warmintro/internal/core/stage"
)

// TrackerPort drives cards through the outreach pipeline
type TrackerPort interface {
	Promote(ctx context.Context, in PromoteInput) (Card, error)
	AttachDrafts(ctx context.Context, cardID uuid.UUID, drafts []draft.MessageDraft) (Card, error)
	Advance(ctx context.Context, cardID uuid.UUID, to stage.Stage) (Card, error)
	MarkSent(ctx context.Context, cardID uuid.UUID, nextAction time.Time) (Card, error)
	AgreeIntro(ctx context.Context, cardID uuid.UUID) (Card, error)
	Close(ctx context.Context, cardID uuid.UUID, outcome string) (Card, error)
	Get(ctx context.Context, cardID uuid.UUID) (Card, error)
	List(ctx context.Context, f ListFilter) ([]Card, error)
	DueCards(ctx context.Context, now time.Time) ([]Card, error)
	NextActions(ctx context.Context, now time.Time) (string, error)
}

// SweeperPort advances overdue cards into their follow up stages
type SweeperPort interface {
	Sweep(ctx context.Context, now time.Time) (SweepResult, error)
}
