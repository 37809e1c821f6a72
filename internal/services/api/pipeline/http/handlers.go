// Package http provides http transport for the outreach pipeline
package http

import (
	stdhttp "net/http"
	"time"

	"github.com/google/uuid"

	"warmintro/internal/core/draft"
	"warmintro/internal/core/stage"
	"warmintro/internal/modkit/httpkit"
	perr "warmintro/internal/platform/errors"
	"warmintro/internal/services/pipeline/domain"
)

// Ports the pipeline transport needs
type Ports struct {
	Tracker domain.TrackerPort
	Sweeper domain.SweeperPort
}

// ListInput filters the card listing
type ListInput struct {
	NeedID    string `json:"need_id,omitempty"`
	ContactID string `json:"contact_id,omitempty"`
	Stage     string `json:"stage,omitempty"`
	Live      bool   `json:"live,omitempty"`
}

// DraftsInput attaches composed drafts to a card
type DraftsInput struct {
	Drafts []draft.MessageDraft `json:"drafts" validate:"required,min=1"`
}

// AdvanceInput moves a card to a target stage
type AdvanceInput struct {
	To string `json:"to" validate:"required"`
}

// SentInput marks the outreach as sent
type SentInput struct {
	NextActionDate time.Time `json:"next_action_date,omitempty"`
}

// CloseInput closes a card won or lost
type CloseInput struct {
	Outcome string `json:"outcome" validate:"required,oneof=won lost"`
}

// Register mounts pipeline endpoints on the given router
func Register(r httpkit.Router, p Ports) {
	h := &handlers{p: p}

	httpkit.PostJSON[domain.PromoteInput](r, "/cards", h.promote)
	httpkit.PostJSON[ListInput](r, "/cards/list", h.list)
	httpkit.Get(r, "/cards/{id}", h.get)
	httpkit.PostJSON[DraftsInput](r, "/cards/{id}/drafts", h.attachDrafts)
	httpkit.PostJSON[AdvanceInput](r, "/cards/{id}/advance", h.advance)
	httpkit.PostJSON[SentInput](r, "/cards/{id}/sent", h.markSent)
	httpkit.Post(r, "/cards/{id}/intro", h.agreeIntro)
	httpkit.PostJSON[CloseInput](r, "/cards/{id}/close", h.close)
	httpkit.Get(r, "/cards/due", h.due)
	httpkit.Get(r, "/next-actions", h.nextActions)
	httpkit.Post(r, "/sweep", h.sweep)
}

type handlers struct{ p Ports }

func cardID(r *stdhttp.Request) (uuid.UUID, error) {
	raw := httpkit.Param(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, perr.InvalidArgf("bad card id %q", raw)
	}
	return id, nil
}

// @Summary Promote a ranked contact onto the pipeline board
// @Tags Pipeline
// @Accept json
// @Produce json
// @Param payload body domain.PromoteInput true "Card"
// @Success 200 {object} domain.Card "ok"
// @Router /pipeline/cards [post]
func (h *handlers) promote(r *stdhttp.Request, in domain.PromoteInput) (any, error) {
	return h.p.Tracker.Promote(r.Context(), in)
}

// @Summary List pipeline cards
// @Tags Pipeline
// @Accept json
// @Produce json
// @Param payload body ListInput true "Filter"
// @Success 200 {array} domain.Card "ok"
// @Router /pipeline/cards/list [post]
func (h *handlers) list(r *stdhttp.Request, in ListInput) (any, error) {
	f := domain.ListFilter{
		ContactID: in.ContactID,
		Stage:     stage.Stage(in.Stage),
		Live:      in.Live,
	}
	if in.NeedID != "" {
		id, err := uuid.Parse(in.NeedID)
		if err != nil {
			return nil, perr.InvalidArgf("bad need id %q", in.NeedID)
		}
		f.NeedID = id
	}
	return h.p.Tracker.List(r.Context(), f)
}

// @Summary Fetch one card
// @Tags Pipeline
// @Produce json
// @Param id path string true "Card ID"
// @Success 200 {object} domain.Card "ok"
// @Router /pipeline/cards/{id} [get]
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	id, err := cardID(r)
	if err != nil {
		return nil, err
	}
	return h.p.Tracker.Get(r.Context(), id)
}

// @Summary Attach outreach drafts, moving the card to drafted
// @Tags Pipeline
// @Accept json
// @Produce json
// @Param id path string true "Card ID"
// @Param payload body DraftsInput true "Drafts"
// @Success 200 {object} domain.Card "ok"
// @Router /pipeline/cards/{id}/drafts [post]
func (h *handlers) attachDrafts(r *stdhttp.Request, in DraftsInput) (any, error) {
	id, err := cardID(r)
	if err != nil {
		return nil, err
	}
	return h.p.Tracker.AttachDrafts(r.Context(), id, in.Drafts)
}

// @Summary Advance a card to a target stage
// @Tags Pipeline
// @Accept json
// @Produce json
// @Param id path string true "Card ID"
// @Param payload body AdvanceInput true "Target stage"
// @Success 200 {object} domain.Card "ok"
// @Router /pipeline/cards/{id}/advance [post]
func (h *handlers) advance(r *stdhttp.Request, in AdvanceInput) (any, error) {
	id, err := cardID(r)
	if err != nil {
		return nil, err
	}
	return h.p.Tracker.Advance(r.Context(), id, stage.Stage(in.To))
}

// @Summary Mark the outreach sent and schedule a follow up
// @Tags Pipeline
// @Accept json
// @Produce json
// @Param id path string true "Card ID"
// @Param payload body SentInput true "Follow up schedule"
// @Success 200 {object} domain.Card "ok"
// @Router /pipeline/cards/{id}/sent [post]
func (h *handlers) markSent(r *stdhttp.Request, in SentInput) (any, error) {
	id, err := cardID(r)
	if err != nil {
		return nil, err
	}
	return h.p.Tracker.MarkSent(r.Context(), id, in.NextActionDate)
}

// @Summary Record the contact agreeing to the intro
// @Tags Pipeline
// @Produce json
// @Param id path string true "Card ID"
// @Success 200 {object} domain.Card "ok"
// @Router /pipeline/cards/{id}/intro [post]
func (h *handlers) agreeIntro(r *stdhttp.Request) (any, error) {
	id, err := cardID(r)
	if err != nil {
		return nil, err
	}
	return h.p.Tracker.AgreeIntro(r.Context(), id)
}

// @Summary Close a card won or lost
// @Tags Pipeline
// @Accept json
// @Produce json
// @Param id path string true "Card ID"
// @Param payload body CloseInput true "Outcome"
// @Success 200 {object} domain.Card "ok"
// @Router /pipeline/cards/{id}/close [post]
func (h *handlers) close(r *stdhttp.Request, in CloseInput) (any, error) {
	id, err := cardID(r)
	if err != nil {
		return nil, err
	}
	return h.p.Tracker.Close(r.Context(), id, in.Outcome)
}

// @Summary List cards whose next action date has passed
// @Tags Pipeline
// @Produce json
// @Success 200 {array} domain.Card "ok"
// @Router /pipeline/cards/due [get]
func (h *handlers) due(r *stdhttp.Request) (any, error) {
	return h.p.Tracker.DueCards(r.Context(), time.Now())
}

// @Summary Render the next action line for every card
// @Tags Pipeline
// @Produce json
// @Success 200 {string} string "ok"
// @Router /pipeline/next-actions [get]
func (h *handlers) nextActions(r *stdhttp.Request) (any, error) {
	return h.p.Tracker.NextActions(r.Context(), time.Time{})
}

// @Summary Advance overdue cards into their follow up stages
// @Tags Pipeline
// @Produce json
// @Success 200 {object} domain.SweepResult "ok"
// @Router /pipeline/sweep [post]
func (h *handlers) sweep(r *stdhttp.Request) (any, error) {
	return h.p.Sweeper.Sweep(r.Context(), time.Time{})
}
