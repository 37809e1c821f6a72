// Package repo provides the pipeline card repository implementation.
package repo

import (
	"context"
	"encoding/json"
	stderrs "errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"warmintro/internal/core/draft"
	"warmintro/internal/core/stage"
	"warmintro/internal/modkit/repokit"
	perr "warmintro/internal/platform/errors"
	"warmintro/internal/services/pipeline/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the pipeline card repository
type Storage interface {
	Insert(ctx context.Context, c domain.Card) error
	Get(ctx context.Context, id uuid.UUID) (domain.Card, error)
	Update(ctx context.Context, c domain.Card) error
	List(ctx context.Context, f domain.ListFilter) ([]domain.Card, error)
	Due(ctx context.Context, now time.Time) ([]domain.Card, error)
}

const cardCols = `
	id, need_id, contact_id, contact_name, stage, rank_score, justification,
	drafts, next_action_date, status_tags, outcome, created_at, updated_at`

// Insert implements Storage
func (s *pg) Insert(ctx context.Context, c domain.Card) error {
	drafts, err := marshalDrafts(c.Drafts)
	if err != nil {
		return err
	}
	if c.StatusTags == nil {
		// status_tags column is NOT NULL
		c.StatusTags = []string{}
	}
	_, err = s.q.Exec(ctx, `
		INSERT INTO pipeline_cards
			(id, need_id, contact_id, contact_name, stage, rank_score, justification,
			drafts, next_action_date, status_tags, outcome, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		c.ID, c.NeedID, c.ContactID, c.ContactName, string(c.Stage), c.RankScore,
		c.Justification, drafts, c.NextAction, c.StatusTags, c.Outcome,
		c.CreatedAt, c.UpdatedAt,
	)
	return perr.FromPostgresf(err, "insert card %s", c.ID)
}

// Get implements Storage
func (s *pg) Get(ctx context.Context, id uuid.UUID) (domain.Card, error) {
	row := s.q.QueryRow(ctx, `SELECT `+cardCols+` FROM pipeline_cards WHERE id = $1`, id)
	c, err := scanCard(row)
	if stderrs.Is(err, pgx.ErrNoRows) {
		return domain.Card{}, perr.NotFoundf("card %s not found", id)
	}
	if err != nil {
		return domain.Card{}, perr.FromPostgresf(err, "get card %s", id)
	}
	return c, nil
}

// Update implements Storage
// writes the whole mutable row; callers hold the card lock
func (s *pg) Update(ctx context.Context, c domain.Card) error {
	drafts, err := marshalDrafts(c.Drafts)
	if err != nil {
		return err
	}
	if c.StatusTags == nil {
		c.StatusTags = []string{}
	}
	tag, err := s.q.Exec(ctx, `
		UPDATE pipeline_cards SET
			stage = $2,
			rank_score = $3,
			justification = $4,
			drafts = $5,
			next_action_date = $6,
			status_tags = $7,
			outcome = $8,
			updated_at = $9
		WHERE id = $1`,
		c.ID, string(c.Stage), c.RankScore, c.Justification, drafts,
		c.NextAction, c.StatusTags, c.Outcome, c.UpdatedAt,
	)
	if err != nil {
		return perr.FromPostgresf(err, "update card %s", c.ID)
	}
	if tag.RowsAffected() == 0 {
		return perr.NotFoundf("card %s not found", c.ID)
	}
	return nil
}

// List implements Storage
func (s *pg) List(ctx context.Context, f domain.ListFilter) ([]domain.Card, error) {
	var sb strings.Builder
	var args []any
	arg := func(v any) string { args = append(args, v); return fmt.Sprintf("$%d", len(args)) }

	sb.WriteString(`SELECT ` + cardCols + ` FROM pipeline_cards WHERE 1=1`)
	if f.NeedID != uuid.Nil {
		sb.WriteString(" AND need_id = " + arg(f.NeedID))
	}
	if f.ContactID != "" {
		sb.WriteString(" AND contact_id = " + arg(f.ContactID))
	}
	if f.Stage != "" {
		sb.WriteString(" AND stage = " + arg(string(f.Stage)))
	}
	if f.Live {
		sb.WriteString(" AND stage NOT IN (" +
			arg(string(stage.ClosedWon)) + ", " + arg(string(stage.ClosedLost)) + ")")
	}
	sb.WriteString(" ORDER BY created_at, id")

	return s.queryCards(ctx, sb.String(), args...)
}

// Due implements Storage
// only stages with a scheduled follow up are eligible
func (s *pg) Due(ctx context.Context, now time.Time) ([]domain.Card, error) {
	return s.queryCards(ctx, `
		SELECT `+cardCols+`
		FROM pipeline_cards
		WHERE next_action_date IS NOT NULL
			AND next_action_date <= $1
			AND stage IN ($2, $3)
		ORDER BY next_action_date, id`,
		now, string(stage.Sent), string(stage.FollowUp1),
	)
}

func (s *pg) queryCards(ctx context.Context, sql string, args ...any) ([]domain.Card, error) {
	rows, err := s.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, perr.FromPostgres(err, "query cards")
	}
	defer rows.Close()

	var out []domain.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, perr.FromPostgres(err, "scan card")
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type scanner interface{ Scan(dest ...any) error }

func scanCard(sc scanner) (domain.Card, error) {
	var (
		c      domain.Card
		st     string
		drafts []byte
	)
	if err := sc.Scan(
		&c.ID, &c.NeedID, &c.ContactID, &c.ContactName, &st, &c.RankScore,
		&c.Justification, &drafts, &c.NextAction, &c.StatusTags, &c.Outcome,
		&c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return domain.Card{}, err
	}
	c.Stage = stage.Stage(st)
	if len(drafts) > 0 {
		if err := json.Unmarshal(drafts, &c.Drafts); err != nil {
			return domain.Card{}, perr.JSONErrf("decode card drafts: %v", err)
		}
	}
	return c, nil
}

func marshalDrafts(ds []draft.MessageDraft) ([]byte, error) {
	if len(ds) == 0 {
		return []byte("[]"), nil
	}
	b, err := json.Marshal(ds)
	if err != nil {
		return nil, perr.JSONErrf("encode card drafts: %v", err)
	}
	return b, nil
}
