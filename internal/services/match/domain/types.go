// Package domain holds match types and ports
package domain

import (
	"warmintro/internal/core/draft"
	"warmintro/internal/core/extract"
	"warmintro/internal/core/rank"
)

// EvaluateInput is one raw need to run through the matcher
type EvaluateInput struct {
	Text   string `json:"text" validate:"required"`
	Author string `json:"author,omitempty"`
	TopN   int    `json:"top_n,omitempty" validate:"gte=0,lte=50"`
}

// EvaluateResult bundles the extracted need, its ranked matches and a
// human readable summary for one evaluation
type EvaluateResult struct {
	Need            extract.NeedDescriptor `json:"need"`
	Ranked          []rank.RankedContact   `json:"ranked"`
	TotalCandidates int                    `json:"total_candidates"`
	Summary         string                 `json:"summary"`
}

// BatchItem is one entry of a batch evaluation; Err is set when that
// item failed and the rest of the batch still went through
type BatchItem struct {
	Input  EvaluateInput   `json:"input"`
	Result *EvaluateResult `json:"result,omitempty"`
	Err    string          `json:"error,omitempty"`
}

// DraftResult carries the generated outreach drafts for one contact
type DraftResult struct {
	ContactID string               `json:"contact_id"`
	Drafts    []draft.MessageDraft `json:"drafts"`
}
