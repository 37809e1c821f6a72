// Package http provides http transport for the roster
package http

import (
	stdhttp "net/http"
	"time"

	"warmintro/internal/modkit/httpkit"
	"warmintro/internal/services/roster/domain"
)

// Ports the roster transport needs
type Ports struct {
	Reader domain.ReaderPort
	Writer domain.WriterPort
}

// InteractionInput records one touch with a contact
type InteractionInput struct {
	At time.Time `json:"at" validate:"required"`
}

// Register mounts roster endpoints on the given router
func Register(r httpkit.Router, p Ports) {
	h := &handlers{p: p}

	httpkit.PostJSON[domain.UpsertInput](r, "/contacts", h.upsert)
	httpkit.Get(r, "/contacts", h.list)
	httpkit.Get(r, "/contacts/{id}", h.get)
	httpkit.Delete(r, "/contacts/{id}", h.delete)
	httpkit.PostJSON[InteractionInput](r, "/contacts/{id}/interactions", h.interaction)
}

type handlers struct{ p Ports }

// @Summary Create or replace a contact
// @Tags Roster
// @Accept json
// @Produce json
// @Param payload body domain.UpsertInput true "Contact"
// @Success 200 {object} domain.Contact "ok"
// @Router /roster/contacts [post]
func (h *handlers) upsert(r *stdhttp.Request, in domain.UpsertInput) (any, error) {
	return h.p.Writer.Upsert(r.Context(), in)
}

// @Summary List every contact
// @Tags Roster
// @Produce json
// @Success 200 {array} domain.Contact "ok"
// @Router /roster/contacts [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	return h.p.Reader.Snapshot(r.Context())
}

// @Summary Fetch one contact
// @Tags Roster
// @Produce json
// @Param id path string true "Contact ID"
// @Success 200 {object} domain.Contact "ok"
// @Router /roster/contacts/{id} [get]
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	return h.p.Reader.Get(r.Context(), httpkit.Param(r, "id"))
}

// @Summary Delete a contact
// @Tags Roster
// @Param id path string true "Contact ID"
// @Success 204 "deleted"
// @Router /roster/contacts/{id} [delete]
func (h *handlers) delete(r *stdhttp.Request) (any, error) {
	if err := h.p.Writer.Delete(r.Context(), httpkit.Param(r, "id")); err != nil {
		return nil, err
	}
	return httpkit.NoContent(), nil
}

// @Summary Record an interaction with a contact
// @Tags Roster
// @Accept json
// @Param id path string true "Contact ID"
// @Param payload body InteractionInput true "Interaction"
// @Success 204 "recorded"
// @Router /roster/contacts/{id}/interactions [post]
func (h *handlers) interaction(r *stdhttp.Request, in InteractionInput) (any, error) {
	if err := h.p.Writer.RecordInteraction(r.Context(), httpkit.Param(r, "id"), in.At); err != nil {
		return nil, err
	}
	return httpkit.NoContent(), nil
}
