// Package report renders ranked results and pipeline state into
// human-readable next-action text. Pure formatting over the typed records
package report

import (
	"fmt"
	"strings"
	"time"

	"warmintro/internal/core/extract"
	"warmintro/internal/core/rank"
	"warmintro/internal/core/stage"
)

// CardView is the slice of pipeline card state the reporter needs
type CardView struct {
	ContactName    string
	Stage          stage.Stage
	NextActionDate *time.Time
	Outcome        string
}

// OpportunitySummary renders one need plus its shortlist with per-match justification
func OpportunitySummary(need extract.NeedDescriptor, ranked []rank.RankedContact, totalCandidates int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Opportunity: %s", objectiveLabel(need.Objective))
	if len(need.KeywordsMust) > 0 {
		fmt.Fprintf(&b, " [%s]", strings.Join(need.KeywordsMust, ", "))
	}
	if len(need.Geography) > 0 {
		fmt.Fprintf(&b, " in %s", strings.Join(need.Geography, " / "))
	}
	fmt.Fprintf(&b, " (urgency: %s)\n", need.Urgency)

	if !need.HasSignal() {
		fmt.Fprintf(&b, "No actionable need detected; %d contacts not evaluated.\n", totalCandidates)
		return b.String()
	}
	if len(ranked) == 0 {
		fmt.Fprintf(&b, "No matches above threshold out of %d contacts.\n", totalCandidates)
		return b.String()
	}

	fmt.Fprintf(&b, "Top %d of %d contacts:\n", len(ranked), totalCandidates)
	for i, rc := range ranked {
		fmt.Fprintf(&b, "%d. %s", i+1, rc.Contact.Name)
		if rc.Contact.Company != "" {
			fmt.Fprintf(&b, " (%s)", rc.Contact.Company)
		}
		fmt.Fprintf(&b, " — score %.2f\n   %s\n", rc.RankScore, rc.Justification)
	}
	return b.String()
}

// NextActions renders a per-card action block sorted by the caller's order
func NextActions(cards []CardView, now time.Time) string {
	if len(cards) == 0 {
		return "No cards in the pipeline.\n"
	}

	var b strings.Builder
	b.WriteString("Next actions:\n")
	for _, c := range cards {
		name := c.ContactName
		if strings.TrimSpace(name) == "" {
			name = "contact"
		}
		fmt.Fprintf(&b, "- %s: %s\n", name, actionFor(c, now))
	}
	return b.String()
}

func actionFor(c CardView, now time.Time) string {
	switch c.Stage {
	case stage.Backlog, stage.Candidates:
		return "draft outreach"
	case stage.Drafted:
		return "send the drafted message"
	case stage.Sent, stage.FollowUp1, stage.FollowUp2:
		if c.NextActionDate != nil && !c.NextActionDate.After(now) {
			return fmt.Sprintf("follow up (due since %s)", c.NextActionDate.Format("2006-01-02"))
		}
		if c.NextActionDate != nil {
			return fmt.Sprintf("wait until %s", c.NextActionDate.Format("2006-01-02"))
		}
		return "awaiting reply"
	case stage.WarmIntro:
		return "intro agreed, schedule the handoff"
	case stage.ClosedWon:
		return "closed won" + outcomeSuffix(c.Outcome)
	case stage.ClosedLost:
		return "closed lost" + outcomeSuffix(c.Outcome)
	default:
		return "review"
	}
}

func outcomeSuffix(outcome string) string {
	if outcome == "" {
		return ""
	}
	return " (" + outcome + ")"
}

func objectiveLabel(o extract.Objective) string {
	if o == "" || o == extract.ObjectiveUnknown {
		return "unclassified ask"
	}
	return string(o)
}
