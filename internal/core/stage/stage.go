// Package stage defines the outreach pipeline stage machine
package stage

import (
	perr "warmintro/internal/platform/errors"
)

// Stage is one step of the outreach pipeline
type Stage string

// Stages in declared order. closed_won and closed_lost are absorbing terminals
const (
	Backlog    Stage = "backlog"
	Candidates Stage = "candidates"
	Drafted    Stage = "drafted"
	Sent       Stage = "sent"
	FollowUp1  Stage = "follow_up_1"
	FollowUp2  Stage = "follow_up_2"
	WarmIntro  Stage = "warm_intro"
	ClosedWon  Stage = "closed_won"
	ClosedLost Stage = "closed_lost"
)

// order maps each stage to its position in the forward chain
var order = map[Stage]int{
	Backlog:    0,
	Candidates: 1,
	Drafted:    2,
	Sent:       3,
	FollowUp1:  4,
	FollowUp2:  5,
	WarmIntro:  6,
	ClosedWon:  7,
	ClosedLost: 7,
}

// Valid reports whether s is a known stage
func Valid(s Stage) bool {
	_, ok := order[s]
	return ok
}

// Terminal reports whether s absorbs all transitions
func Terminal(s Stage) bool { return s == ClosedWon || s == ClosedLost }

// Initial is the stage every fresh card starts in
func Initial() Stage { return Backlog }

// CanAdvance validates a from→to transition:
// forward one declared step only, except any non-terminal stage may jump to
// warm_intro, and warm_intro may close won or lost. Terminal stages reject everything
func CanAdvance(from, to Stage) error {
	if !Valid(from) {
		return perr.InvalidTransitionf("unknown stage %q", from)
	}
	if !Valid(to) {
		return perr.InvalidTransitionf("unknown stage %q", to)
	}
	if Terminal(from) {
		return perr.InvalidTransitionf("card is %s, no further transitions", from)
	}
	if to == WarmIntro {
		// agreement to intro short-circuits the chain from any live stage
		if from == WarmIntro {
			return perr.InvalidTransitionf("card already in %s", WarmIntro)
		}
		return nil
	}
	if Terminal(to) {
		if from != WarmIntro {
			return perr.InvalidTransitionf("%s can only be reached from %s, not %s", to, WarmIntro, from)
		}
		return nil
	}
	if order[to] != order[from]+1 {
		return perr.InvalidTransitionf("cannot move %s -> %s, stages advance one step", from, to)
	}
	return nil
}

// Next returns the single forward step after s, false when none applies
// (warm_intro branches to two terminals, terminals have no successor)
func Next(s Stage) (Stage, bool) {
	switch s {
	case Backlog:
		return Candidates, true
	case Candidates:
		return Drafted, true
	case Drafted:
		return Sent, true
	case Sent:
		return FollowUp1, true
	case FollowUp1:
		return FollowUp2, true
	default:
		return "", false
	}
}
