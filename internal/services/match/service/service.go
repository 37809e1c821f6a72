// Package service provides the match service implementation
package service

import (
	"context"
	"strings"

	"warmintro/internal/core/draft"
	"warmintro/internal/core/extract"
	"warmintro/internal/core/needpack"
	"warmintro/internal/core/rank"
	"warmintro/internal/core/report"
	perr "warmintro/internal/platform/errors"
	"warmintro/internal/services/match/domain"
	rosterdom "warmintro/internal/services/roster/domain"
)

// Config for the match service
type Config struct {
	DefaultTopN int
	MaxTopN     int
}

// Service implements domain.MatcherPort
type Service struct {
	Roster    rosterdom.ReaderPort
	Extractor *extract.Extractor
	Ranker    *rank.Ranker
	Cfg       Config
}

// New constructs a match service over the embedded need vocabulary and
// the default ranking configuration
func New(roster rosterdom.ReaderPort, cfg Config, opts ...extract.Option) (*Service, error) {
	if roster == nil {
		return nil, perr.Newf(perr.ErrorCodeInvalidArgument, "match: nil roster reader")
	}
	pack, err := needpack.Load()
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "match: load need vocabulary")
	}
	if cfg.DefaultTopN <= 0 {
		cfg.DefaultTopN = rank.DefaultConfig().DefaultTopN
	}
	if cfg.MaxTopN <= 0 {
		cfg.MaxTopN = 50
	}
	return &Service{
		Roster:    roster,
		Extractor: extract.New(pack, opts...),
		Ranker:    rank.MustNew(rank.DefaultConfig()),
		Cfg:       cfg,
	}, nil
}

// Evaluate implements domain.MatcherPort
func (s *Service) Evaluate(ctx context.Context, in domain.EvaluateInput) (domain.EvaluateResult, error) {
	if strings.TrimSpace(in.Text) == "" {
		return domain.EvaluateResult{}, perr.InvalidArgf("need text required")
	}
	topN := in.TopN
	if topN <= 0 {
		topN = s.Cfg.DefaultTopN
	}
	if topN > s.Cfg.MaxTopN {
		topN = s.Cfg.MaxTopN
	}

	need := s.Extractor.Extract(in.Text, in.Author)

	roster, err := s.Roster.Snapshot(ctx)
	if err != nil {
		return domain.EvaluateResult{}, err
	}

	ranked, total := s.Ranker.Rank(need, roster, topN)
	return domain.EvaluateResult{
		Need:            need,
		Ranked:          ranked,
		TotalCandidates: total,
		Summary:         report.OpportunitySummary(need, ranked, total),
	}, nil
}

// EvaluateBatch implements domain.MatcherPort
// one bad item does not sink the batch; its error is carried on the item
func (s *Service) EvaluateBatch(ctx context.Context, ins []domain.EvaluateInput) ([]domain.BatchItem, error) {
	if len(ins) == 0 {
		return nil, perr.InvalidArgf("empty batch")
	}
	out := make([]domain.BatchItem, 0, len(ins))
	for _, in := range ins {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		item := domain.BatchItem{Input: in}
		res, err := s.Evaluate(ctx, in)
		if err != nil {
			item.Err = err.Error()
		} else {
			item.Result = &res
		}
		out = append(out, item)
	}
	return out, nil
}

// Draft implements domain.MatcherPort
func (s *Service) Draft(
	ctx context.Context,
	need extract.NeedDescriptor,
	contactID string,
) (domain.DraftResult, error) {
	contact, err := s.Roster.Get(ctx, contactID)
	if err != nil {
		return domain.DraftResult{}, err
	}

	// re-score the single contact so the drafts can name matched expertise
	var matched []string
	if ranked, _ := s.Ranker.Rank(need, []rank.Contact{contact}, 1); len(ranked) > 0 {
		matched = ranked[0].MatchedTags
	}

	return domain.DraftResult{
		ContactID: contact.ID,
		Drafts:    draft.Compose(contact, need, matched),
	}, nil
}
