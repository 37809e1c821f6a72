// Package service provides the pipeline tracker implementation
package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"warmintro/internal/core/draft"
	"warmintro/internal/core/report"
	"warmintro/internal/core/stage"
	"warmintro/internal/modkit/repokit"
	perr "warmintro/internal/platform/errors"
	"warmintro/internal/platform/logger"
	"warmintro/internal/platform/store"
	"warmintro/internal/services/pipeline/domain"
	"warmintro/internal/services/pipeline/repo"
)

// Config for the pipeline service
type Config struct {
	// FollowUpAfter schedules the next touch after a send or a follow up
	FollowUpAfter time.Duration
}

// Service implements domain.TrackerPort and domain.SweeperPort
type Service struct {
	DB     repokit.TxRunner
	Binder repokit.Binder[repo.Storage]
	CH     store.Clickhouse
	Log    logger.Logger
	Cfg    Config

	locks *cardLocks
	now   func() time.Time
	newID func() uuid.UUID
}

// Option mutates the service at construction
type Option func(*Service)

// WithClock overrides the wall clock
func WithClock(fn func() time.Time) Option {
	return func(s *Service) { s.now = fn }
}

// WithIDGen overrides the id generator
func WithIDGen(fn func() uuid.UUID) Option {
	return func(s *Service) { s.newID = fn }
}

// New constructs a pipeline service. CH may be nil; stage events are then skipped
func New(db repokit.TxRunner, ch store.Clickhouse, log logger.Logger, cfg Config, opts ...Option) *Service {
	if db == nil {
		panic("pipeline: nil TxRunner")
	}
	if cfg.FollowUpAfter <= 0 {
		cfg.FollowUpAfter = 5 * 24 * time.Hour
	}
	s := &Service{
		DB:     db,
		Binder: repo.NewPG(),
		CH:     ch,
		Log:    log,
		Cfg:    cfg,
		locks:  newCardLocks(),
		now:    time.Now,
		newID:  uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Promote implements domain.TrackerPort
func (s *Service) Promote(ctx context.Context, in domain.PromoteInput) (domain.Card, error) {
	if in.NeedID == uuid.Nil {
		return domain.Card{}, perr.InvalidArgf("need id required")
	}
	if strings.TrimSpace(in.ContactID) == "" {
		return domain.Card{}, perr.InvalidArgf("contact id required")
	}
	if in.RankScore < 0 || in.RankScore > 1 {
		return domain.Card{}, perr.InvalidArgf("rank score %.2f out of [0,1]", in.RankScore)
	}

	now := s.now().UTC()
	c := domain.Card{
		ID:            s.newID(),
		NeedID:        in.NeedID,
		ContactID:     strings.TrimSpace(in.ContactID),
		ContactName:   strings.TrimSpace(in.ContactName),
		Stage:         stage.Initial(),
		RankScore:     in.RankScore,
		Justification: in.Justification,
		StatusTags:    in.StatusTags,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.Binder.Bind(s.DB).Insert(ctx, c); err != nil {
		return domain.Card{}, err
	}
	s.emitEvent(ctx, c, "", c.Stage, now)

	// a promoted contact is already shortlisted, so the card moves straight on
	return s.Advance(ctx, c.ID, stage.Candidates)
}

// AttachDrafts implements domain.TrackerPort
// attaching drafts is the candidates to drafted transition
func (s *Service) AttachDrafts(
	ctx context.Context,
	cardID uuid.UUID,
	drafts []draft.MessageDraft,
) (domain.Card, error) {
	if len(drafts) == 0 {
		return domain.Card{}, perr.InvalidArgf("at least one draft required")
	}
	return s.mutate(ctx, cardID, func(c *domain.Card) error {
		if err := stage.CanAdvance(c.Stage, stage.Drafted); err != nil {
			return err
		}
		c.Stage = stage.Drafted
		c.Drafts = drafts
		return nil
	})
}

// Advance implements domain.TrackerPort
func (s *Service) Advance(ctx context.Context, cardID uuid.UUID, to stage.Stage) (domain.Card, error) {
	return s.mutate(ctx, cardID, func(c *domain.Card) error {
		if err := stage.CanAdvance(c.Stage, to); err != nil {
			return err
		}
		c.Stage = to
		switch to {
		case stage.ClosedWon:
			c.Outcome = domain.OutcomeWon
			c.NextAction = nil
		case stage.ClosedLost:
			c.Outcome = domain.OutcomeLost
			c.NextAction = nil
		case stage.WarmIntro:
			c.NextAction = nil
		}
		return nil
	})
}

// MarkSent implements domain.TrackerPort
func (s *Service) MarkSent(ctx context.Context, cardID uuid.UUID, nextAction time.Time) (domain.Card, error) {
	return s.mutate(ctx, cardID, func(c *domain.Card) error {
		if err := stage.CanAdvance(c.Stage, stage.Sent); err != nil {
			return err
		}
		c.Stage = stage.Sent
		if nextAction.IsZero() {
			nextAction = s.now().Add(s.Cfg.FollowUpAfter)
		}
		na := nextAction.UTC()
		c.NextAction = &na
		return nil
	})
}

// AgreeIntro implements domain.TrackerPort
func (s *Service) AgreeIntro(ctx context.Context, cardID uuid.UUID) (domain.Card, error) {
	return s.Advance(ctx, cardID, stage.WarmIntro)
}

// Close implements domain.TrackerPort
func (s *Service) Close(ctx context.Context, cardID uuid.UUID, outcome string) (domain.Card, error) {
	switch outcome {
	case domain.OutcomeWon:
		return s.Advance(ctx, cardID, stage.ClosedWon)
	case domain.OutcomeLost:
		return s.Advance(ctx, cardID, stage.ClosedLost)
	default:
		return domain.Card{}, perr.InvalidArgf("outcome must be %q or %q", domain.OutcomeWon, domain.OutcomeLost)
	}
}

// Get implements domain.TrackerPort
func (s *Service) Get(ctx context.Context, cardID uuid.UUID) (domain.Card, error) {
	return s.Binder.Bind(s.DB).Get(ctx, cardID)
}

// List implements domain.TrackerPort
func (s *Service) List(ctx context.Context, f domain.ListFilter) ([]domain.Card, error) {
	if f.Stage != "" && !stage.Valid(f.Stage) {
		return nil, perr.InvalidArgf("unknown stage %q", f.Stage)
	}
	return s.Binder.Bind(s.DB).List(ctx, f)
}

// DueCards implements domain.TrackerPort
func (s *Service) DueCards(ctx context.Context, now time.Time) ([]domain.Card, error) {
	if now.IsZero() {
		now = s.now()
	}
	return s.Binder.Bind(s.DB).Due(ctx, now.UTC())
}

// NextActions implements domain.TrackerPort
func (s *Service) NextActions(ctx context.Context, now time.Time) (string, error) {
	cards, err := s.Binder.Bind(s.DB).List(ctx, domain.ListFilter{})
	if err != nil {
		return "", err
	}
	views := make([]report.CardView, 0, len(cards))
	for _, c := range cards {
		views = append(views, report.CardView{
			ContactName:    c.ContactName,
			Stage:          c.Stage,
			NextActionDate: c.NextAction,
			Outcome:        c.Outcome,
		})
	}
	if now.IsZero() {
		now = s.now()
	}
	return report.NextActions(views, now), nil
}

// mutate loads the card under its lock, applies fn and persists the result.
// UpdatedAt only moves when fn accepts the transition
func (s *Service) mutate(
	ctx context.Context,
	cardID uuid.UUID,
	fn func(*domain.Card) error,
) (domain.Card, error) {
	unlock := s.locks.acquire(cardID)
	defer unlock()

	st := s.Binder.Bind(s.DB)
	c, err := st.Get(ctx, cardID)
	if err != nil {
		return domain.Card{}, err
	}
	from := c.Stage
	if err := fn(&c); err != nil {
		return domain.Card{}, err
	}

	now := s.now().UTC()
	c.UpdatedAt = now
	if err := st.Update(ctx, c); err != nil {
		return domain.Card{}, err
	}
	if c.Stage != from {
		s.emitEvent(ctx, c, from, c.Stage, now)
	}
	return c, nil
}

// emitEvent records a stage transition in ClickHouse, best effort only
func (s *Service) emitEvent(ctx context.Context, c domain.Card, from, to stage.Stage, at time.Time) {
	if s.CH == nil {
		return
	}
	err := s.CH.Insert(ctx, "stage_events", [][]any{{
		c.ID.String(), c.NeedID.String(), c.ContactID,
		string(from), string(to), at,
	}})
	if err != nil {
		s.Log.Warn().
			Err(err).
			Str("card_id", c.ID.String()).
			Str("to", string(to)).
			Msg("stage event insert failed")
	}
}
