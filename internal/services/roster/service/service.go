// Package service provides the roster service implementation
package service

import (
	"context"
	"strings"
	"time"

	"warmintro/internal/modkit/repokit"
	perr "warmintro/internal/platform/errors"
	"warmintro/internal/services/roster/domain"
	"warmintro/internal/services/roster/repo"
)

// Service implements domain.ReaderPort and domain.WriterPort over Postgres
type Service struct {
	DB     repokit.TxRunner
	Binder repokit.Binder[repo.Storage]
}

// New constructs a new roster service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Storage]) *Service {
	if db == nil {
		panic("roster: nil TxRunner")
	}
	if binder == nil {
		binder = repo.NewPG()
	}
	return &Service{DB: db, Binder: binder}
}

// Get implements domain.ReaderPort
func (s *Service) Get(ctx context.Context, id string) (domain.Contact, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Contact{}, perr.InvalidArgf("contact id required")
	}
	return s.Binder.Bind(s.DB).Get(ctx, id)
}

// Snapshot implements domain.ReaderPort
func (s *Service) Snapshot(ctx context.Context) ([]domain.Contact, error) {
	return s.Binder.Bind(s.DB).Snapshot(ctx)
}

// Upsert implements domain.WriterPort
func (s *Service) Upsert(ctx context.Context, in domain.UpsertInput) (domain.Contact, error) {
	c := in.ToContact()
	c.ID = strings.TrimSpace(c.ID)
	c.Name = strings.TrimSpace(c.Name)
	if err := c.Validate(); err != nil {
		return domain.Contact{}, perr.Wrapf(err, perr.ErrorCodeValidation, "upsert contact")
	}
	return s.Binder.Bind(s.DB).Upsert(ctx, c)
}

// RecordInteraction implements domain.WriterPort
// the stored timestamp only moves forward so replays cannot roll recency back
func (s *Service) RecordInteraction(ctx context.Context, contactID string, at time.Time) error {
	contactID = strings.TrimSpace(contactID)
	if contactID == "" {
		return perr.InvalidArgf("contact id required")
	}
	if at.IsZero() {
		return perr.InvalidArgf("interaction time required")
	}
	return s.Binder.Bind(s.DB).TouchInteraction(ctx, contactID, at.UTC())
}

// Delete implements domain.WriterPort
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return perr.InvalidArgf("contact id required")
	}
	return s.Binder.Bind(s.DB).Delete(ctx, id)
}
