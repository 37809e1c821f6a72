package domain

import (
	"context"

	"warmintro/internal/core/extract"
)

// MatcherPort evaluates raw need text against the roster
type MatcherPort interface {
	Evaluate(ctx context.Context, in EvaluateInput) (EvaluateResult, error)
	EvaluateBatch(ctx context.Context, ins []EvaluateInput) ([]BatchItem, error)
	Draft(ctx context.Context, need extract.NeedDescriptor, contactID string) (DraftResult, error)
}
