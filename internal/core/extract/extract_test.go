package extract

import (
	"slices"
	"testing"
	"time"

	"warmintro/internal/core/needpack"

	"github.com/google/uuid"
)

func newTestExtractor(t *testing.T) *Extractor {
	t.Helper()
	p, err := needpack.Load()
	if err != nil {
		t.Fatalf("needpack.Load: %v", err)
	}
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	id := uuid.MustParse("11111111-2222-3333-4444-555555555555")
	return New(p,
		WithClock(func() time.Time { return fixed }),
		WithIDGen(func() uuid.UUID { return id }),
	)
}

func TestExtractInvestorInNYC(t *testing.T) {
	e := newTestExtractor(t)

	nd := e.Extract("I need an investor for my packaging startup in NYC", "jordan")

	if nd.Objective != ObjectiveRaise {
		t.Fatalf("objective = %q, want %q", nd.Objective, ObjectiveRaise)
	}
	if !slices.Contains(nd.KeywordsMust, "packaging") {
		t.Fatalf("keywords missing packaging: %v", nd.KeywordsMust)
	}
	if !slices.Contains(nd.KeywordsMust, "investment") {
		t.Fatalf("keywords missing investment: %v", nd.KeywordsMust)
	}
	if !slices.Contains(nd.Geography, "New York, NY") {
		t.Fatalf("geography missing New York, NY: %v", nd.Geography)
	}
	if nd.Author != "jordan" {
		t.Fatalf("author = %q", nd.Author)
	}
	if !nd.HasSignal() {
		t.Fatal("expected actionable signal")
	}
}

func TestExtractEmptyInputDegrades(t *testing.T) {
	e := newTestExtractor(t)

	for _, in := range []string{"", "   ", "\x00\xff"} {
		nd := e.Extract(in, "")
		if nd.Objective != ObjectiveUnknown {
			t.Fatalf("Extract(%q) objective = %q, want unknown", in, nd.Objective)
		}
		if nd.HasSignal() {
			t.Fatalf("Extract(%q) reported signal: %v", in, nd.KeywordsMust)
		}
	}
}

func TestExtractNoMatchIsNotAnError(t *testing.T) {
	e := newTestExtractor(t)

	nd := e.Extract("just had a great coffee this morning", "")
	if nd.HasSignal() {
		t.Fatalf("unexpected keywords: %v", nd.KeywordsMust)
	}
	if nd.Objective != ObjectiveUnknown {
		t.Fatalf("objective = %q, want unknown", nd.Objective)
	}
}

func TestExtractDefaultsToIntroWhenTopicalOnly(t *testing.T) {
	e := newTestExtractor(t)

	nd := e.Extract("anyone deep in compostable materials?", "")
	if !nd.HasSignal() {
		t.Fatal("expected keywords")
	}
	if nd.Objective != ObjectiveIntro {
		t.Fatalf("objective = %q, want intro", nd.Objective)
	}
}

func TestExtractObjectiveFirstMatchWins(t *testing.T) {
	e := newTestExtractor(t)

	// both "hiring" and "partner" appear; hiring is earlier in the pack
	nd := e.Extract("we are hiring a partner manager", "")
	if nd.Objective != ObjectiveHire {
		t.Fatalf("objective = %q, want hire", nd.Objective)
	}
	if nd.Persona["role"][0] != "candidate" {
		t.Fatalf("persona = %v", nd.Persona)
	}
}

func TestExtractGeoWordBoundary(t *testing.T) {
	e := newTestExtractor(t)

	// "sf" must not fire inside other words
	nd := e.Extract("transfer of packaging assets", "")
	if len(nd.Geography) != 0 {
		t.Fatalf("unexpected geography: %v", nd.Geography)
	}

	nd = e.Extract("packaging founder in sf looking for intros", "")
	if !slices.Contains(nd.Geography, "San Francisco, CA") {
		t.Fatalf("geography = %v", nd.Geography)
	}
}

func TestExtractUrgency(t *testing.T) {
	e := newTestExtractor(t)

	cases := []struct {
		in   string
		want Urgency
	}{
		{"need a packaging intro ASAP", UrgencyHigh},
		{"looking for a packaging advisor soon", UrgencyMedium},
		{"exploring packaging partners", UrgencyLow},
	}
	for _, tc := range cases {
		if got := e.Extract(tc.in, "").Urgency; got != tc.want {
			t.Fatalf("Extract(%q) urgency = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestExtractKeywordsDeterministic(t *testing.T) {
	e := newTestExtractor(t)

	in := "sustainable packaging with compostable materials, certified, for retail and cpg"
	first := e.Extract(in, "").KeywordsMust
	for i := 0; i < 5; i++ {
		again := e.Extract(in, "").KeywordsMust
		if !slices.Equal(first, again) {
			t.Fatalf("keyword order changed: %v vs %v", first, again)
		}
	}
}
