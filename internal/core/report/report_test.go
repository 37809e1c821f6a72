package report

import (
	"strings"
	"testing"
	"time"

	"warmintro/internal/core/extract"
	"warmintro/internal/core/rank"
	"warmintro/internal/core/stage"
	ptime "warmintro/internal/platform/time"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestOpportunitySummaryWithMatches(t *testing.T) {
	need := extract.NeedDescriptor{
		Objective:    extract.ObjectiveRaise,
		KeywordsMust: []string{"packaging", "investment"},
		Geography:    []string{"New York, NY"},
		Urgency:      extract.UrgencyHigh,
	}
	ranked := []rank.RankedContact{
		{
			Contact:       rank.Contact{ID: "c1", Name: "Priya Shah", Company: "GreenWrap"},
			RankScore:     0.82,
			Justification: "relevance 0.50 (tags: packaging), relationship 0.90, recency 0.80",
		},
	}

	out := OpportunitySummary(need, ranked, 10)
	for _, want := range []string{"raise", "packaging", "New York, NY", "Top 1 of 10", "Priya Shah", "GreenWrap", "0.82", "relevance 0.50"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestOpportunitySummaryNoSignal(t *testing.T) {
	need := extract.NeedDescriptor{Objective: extract.ObjectiveUnknown}
	out := OpportunitySummary(need, nil, 7)
	if !strings.Contains(out, "No actionable need") || !strings.Contains(out, "7 contacts") {
		t.Fatalf("unexpected no-signal summary:\n%s", out)
	}
}

func TestOpportunitySummaryNoMatch(t *testing.T) {
	need := extract.NeedDescriptor{Objective: extract.ObjectiveIntro, KeywordsMust: []string{"packaging"}}
	out := OpportunitySummary(need, nil, 4)
	if !strings.Contains(out, "No matches above threshold out of 4") {
		t.Fatalf("unexpected no-match summary:\n%s", out)
	}
}

func TestNextActions(t *testing.T) {
	overdue := ptime.Ptr(now.AddDate(0, 0, -2))
	future := ptime.Ptr(now.AddDate(0, 0, 3))

	cards := []CardView{
		{ContactName: "Priya Shah", Stage: stage.Candidates},
		{ContactName: "Marcus Lee", Stage: stage.Sent, NextActionDate: overdue},
		{ContactName: "Dana Cruz", Stage: stage.FollowUp1, NextActionDate: future},
		{ContactName: "Ken Ito", Stage: stage.ClosedWon, Outcome: "intro made"},
	}

	out := NextActions(cards, now)
	for _, want := range []string{
		"Priya Shah: draft outreach",
		"Marcus Lee: follow up (due since 2026-02-27)",
		"Dana Cruz: wait until 2026-03-04",
		"Ken Ito: closed won (intro made)",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("next actions missing %q:\n%s", want, out)
		}
	}
}

func TestNextActionsEmpty(t *testing.T) {
	if out := NextActions(nil, now); !strings.Contains(out, "No cards") {
		t.Fatalf("unexpected: %s", out)
	}
}
