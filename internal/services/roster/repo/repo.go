// Package repo provides the roster repository implementation.
package repo

import (
	"context"
	stderrs "errors"
	"time"

	"github.com/jackc/pgx/v5"

	"warmintro/internal/modkit/repokit"
	perr "warmintro/internal/platform/errors"
	"warmintro/internal/services/roster/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the roster repository
type Storage interface {
	Get(ctx context.Context, id string) (domain.Contact, error)
	Snapshot(ctx context.Context) ([]domain.Contact, error)
	Upsert(ctx context.Context, c domain.Contact) (domain.Contact, error)
	TouchInteraction(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
}

const contactCols = `
	id, name, title, company, location, profile_ref,
	relationship_strength, last_interaction, tags, notes, source`

// Upsert implements Storage
func (s *pg) Upsert(ctx context.Context, c domain.Contact) (domain.Contact, error) {
	if c.Tags == nil {
		// tags column is NOT NULL
		c.Tags = []string{}
	}
	row := s.q.QueryRow(ctx, `
		INSERT INTO contacts
			(id, name, title, company, location, profile_ref,
			relationship_strength, tags, notes, source, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10, now())
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			title = EXCLUDED.title,
			company = EXCLUDED.company,
			location = EXCLUDED.location,
			profile_ref = EXCLUDED.profile_ref,
			relationship_strength = EXCLUDED.relationship_strength,
			tags = EXCLUDED.tags,
			notes = EXCLUDED.notes,
			source = EXCLUDED.source,
			updated_at = now()
		RETURNING `+contactCols,
		c.ID, c.Name, c.Title, c.Company, c.Location, c.ProfileRef,
		c.Relationship, c.Tags, c.Notes, c.Source,
	)
	out, err := scanContact(row)
	if err != nil {
		return domain.Contact{}, perr.FromPostgresf(err, "upsert contact %s", c.ID)
	}
	return out, nil
}

// Get implements Storage
func (s *pg) Get(ctx context.Context, id string) (domain.Contact, error) {
	row := s.q.QueryRow(ctx, `SELECT `+contactCols+` FROM contacts WHERE id = $1`, id)
	out, err := scanContact(row)
	if stderrs.Is(err, pgx.ErrNoRows) {
		return domain.Contact{}, perr.NotFoundf("contact %s not found", id)
	}
	if err != nil {
		return domain.Contact{}, perr.FromPostgresf(err, "get contact %s", id)
	}
	return out, nil
}

// Snapshot implements Storage
func (s *pg) Snapshot(ctx context.Context) ([]domain.Contact, error) {
	rows, err := s.q.Query(ctx, `SELECT `+contactCols+` FROM contacts ORDER BY id`)
	if err != nil {
		return nil, perr.FromPostgres(err, "snapshot contacts")
	}
	defer rows.Close()

	var out []domain.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, perr.FromPostgres(err, "scan contact")
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// TouchInteraction implements Storage
func (s *pg) TouchInteraction(ctx context.Context, id string, at time.Time) error {
	tag, err := s.q.Exec(ctx, `
		UPDATE contacts
		SET last_interaction = GREATEST(COALESCE(last_interaction, 'epoch'::timestamptz), $2),
			updated_at = now()
		WHERE id = $1`, id, at)
	if err != nil {
		return perr.FromPostgresf(err, "touch contact %s", id)
	}
	if tag.RowsAffected() == 0 {
		return perr.NotFoundf("contact %s not found", id)
	}
	return nil
}

// Delete implements Storage
func (s *pg) Delete(ctx context.Context, id string) error {
	tag, err := s.q.Exec(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return perr.FromPostgresf(err, "delete contact %s", id)
	}
	if tag.RowsAffected() == 0 {
		return perr.NotFoundf("contact %s not found", id)
	}
	return nil
}

// scanner matches both Row and Rows
type scanner interface{ Scan(dest ...any) error }

func scanContact(sc scanner) (domain.Contact, error) {
	var c domain.Contact
	if err := sc.Scan(
		&c.ID, &c.Name, &c.Title, &c.Company, &c.Location, &c.ProfileRef,
		&c.Relationship, &c.LastContact, &c.Tags, &c.Notes, &c.Source,
	); err != nil {
		return domain.Contact{}, err
	}
	return c, nil
}
