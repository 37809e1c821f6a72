// Package domain holds roster types and ports
package domain

import (
	"time"

	"warmintro/internal/core/rank"
)

// Contact re-exports the core contact record; the roster owns its persistence
type Contact = rank.Contact

// UpsertInput is the write shape for one contact
type UpsertInput struct {
	ID           string   `json:"id" validate:"required"`
	Name         string   `json:"name" validate:"required"`
	Title        string   `json:"title,omitempty"`
	Company      string   `json:"company,omitempty"`
	Location     string   `json:"location,omitempty"`
	ProfileRef   string   `json:"profile_ref,omitempty"`
	Relationship float64  `json:"relationship_strength" validate:"gte=0,lte=1"`
	Tags         []string `json:"tags,omitempty"`
	Notes        string   `json:"notes,omitempty"`
	Source       string   `json:"source,omitempty"`
}

// ToContact converts the input into the core record
func (in UpsertInput) ToContact() Contact {
	return Contact{
		ID:           in.ID,
		Name:         in.Name,
		Title:        in.Title,
		Company:      in.Company,
		Location:     in.Location,
		ProfileRef:   in.ProfileRef,
		Relationship: in.Relationship,
		Tags:         in.Tags,
		Notes:        in.Notes,
		Source:       in.Source,
	}
}

// Interaction records one touch with a contact
type Interaction struct {
	ContactID string    `json:"contact_id"`
	At        time.Time `json:"at"`
}
