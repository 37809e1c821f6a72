// Package http provides http transport for need matching
package http

import (
	stdhttp "net/http"

	"warmintro/internal/core/extract"
	"warmintro/internal/modkit/httpkit"
	"warmintro/internal/services/match/domain"
)

// BatchInput evaluates several needs in one call.
// items are not validated here; the matcher collects per-item failures
type BatchInput struct {
	Items []domain.EvaluateInput `json:"items" validate:"required,min=1,max=100"`
}

// DraftInput asks for outreach drafts for one ranked contact
type DraftInput struct {
	Need      extract.NeedDescriptor `json:"need" validate:"required"`
	ContactID string                 `json:"contact_id" validate:"required"`
}

// Register mounts match endpoints on the given router
func Register(r httpkit.Router, m domain.MatcherPort) {
	h := &handlers{m: m}

	httpkit.PostJSON[domain.EvaluateInput](r, "/evaluate", h.evaluate)
	httpkit.PostJSON[BatchInput](r, "/evaluate/batch", h.evaluateBatch)
	httpkit.PostJSON[DraftInput](r, "/draft", h.draft)
}

type handlers struct{ m domain.MatcherPort }

// @Summary Extract a need and rank the roster against it
// @Tags Match
// @Accept json
// @Produce json
// @Param payload body domain.EvaluateInput true "Need"
// @Success 200 {object} domain.EvaluateResult "ok"
// @Router /match/evaluate [post]
func (h *handlers) evaluate(r *stdhttp.Request, in domain.EvaluateInput) (any, error) {
	return h.m.Evaluate(r.Context(), in)
}

// @Summary Evaluate a batch of needs
// @Tags Match
// @Accept json
// @Produce json
// @Param payload body BatchInput true "Needs"
// @Success 200 {array} domain.BatchItem "ok"
// @Router /match/evaluate/batch [post]
func (h *handlers) evaluateBatch(r *stdhttp.Request, in BatchInput) (any, error) {
	return h.m.EvaluateBatch(r.Context(), in.Items)
}

// @Summary Compose channel drafts for a contact under a need
// @Tags Match
// @Accept json
// @Produce json
// @Param payload body DraftInput true "Need and contact"
// @Success 200 {object} domain.DraftResult "ok"
// @Router /match/draft [post]
func (h *handlers) draft(r *stdhttp.Request, in DraftInput) (any, error) {
	return h.m.Draft(r.Context(), in.Need, in.ContactID)
}
