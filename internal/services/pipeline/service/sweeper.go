package service

import (
	"context"
	"fmt"
	"time"

	"warmintro/internal/core/stage"
	"warmintro/internal/services/pipeline/domain"
)

// Sweep implements domain.SweeperPort
// overdue sent and follow_up_1 cards advance one step and get a fresh
// next action date; one bad card does not stop the pass
func (s *Service) Sweep(ctx context.Context, now time.Time) (domain.SweepResult, error) {
	if now.IsZero() {
		now = s.now()
	}

	due, err := s.Binder.Bind(s.DB).Due(ctx, now.UTC())
	if err != nil {
		return domain.SweepResult{}, err
	}

	var res domain.SweepResult
	for _, c := range due {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		next, ok := stage.Next(c.Stage)
		if !ok {
			continue
		}
		_, err := s.mutate(ctx, c.ID, func(card *domain.Card) error {
			// the card may have moved since Due ran; recheck under the lock
			if err := stage.CanAdvance(card.Stage, next); err != nil {
				return err
			}
			card.Stage = next
			na := now.UTC().Add(s.Cfg.FollowUpAfter)
			if next == stage.FollowUp2 {
				// last automatic touch, a human decides from here
				card.NextAction = nil
			} else {
				card.NextAction = &na
			}
			return nil
		})
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("card %s: %v", c.ID, err))
			continue
		}
		res.Advanced++
	}

	s.Log.Info().
		Int("due", len(due)).
		Int("advanced", res.Advanced).
		Int("errors", len(res.Errors)).
		Msg("pipeline sweep complete")
	return res, nil
}
