package service

import (
	"context"
	"strings"
	"testing"
	"time"

	perr "warmintro/internal/platform/errors"
	"warmintro/internal/services/match/domain"
	rosterdom "warmintro/internal/services/roster/domain"
)

// memRoster is an in-memory roster reader for matcher tests
type memRoster struct {
	contacts []rosterdom.Contact
	err      error
}

func (m *memRoster) Get(_ context.Context, id string) (rosterdom.Contact, error) {
	if m.err != nil {
		return rosterdom.Contact{}, m.err
	}
	for _, c := range m.contacts {
		if c.ID == id {
			return c, nil
		}
	}
	return rosterdom.Contact{}, perr.NotFoundf("contact %s not found", id)
}

func (m *memRoster) Snapshot(context.Context) ([]rosterdom.Contact, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.contacts, nil
}

func testRoster() *memRoster {
	last := time.Now().Add(-10 * 24 * time.Hour)
	return &memRoster{contacts: []rosterdom.Contact{
		{
			ID: "c-packaging", Name: "Priya Shah", Title: "VP Packaging Innovation",
			Location: "New York, NY", Relationship: 0.8, LastContact: &last,
			Tags: []string{"packaging", "sustainability"},
		},
		{
			ID: "c-finance", Name: "Marcus Webb", Title: "CFO",
			Location: "Chicago, IL", Relationship: 0.9,
			Tags: []string{"finance"},
		},
	}}
}

func newMatcher(t *testing.T, roster rosterdom.ReaderPort) *Service {
	t.Helper()
	s, err := New(roster, Config{})
	if err != nil {
		t.Fatalf("service.New: %v", err)
	}
	return s
}

func TestEvaluateRanksRelevantContacts(t *testing.T) {
	s := newMatcher(t, testRoster())

	res, err := s.Evaluate(context.Background(), domain.EvaluateInput{
		Text:   "Looking for sustainable packaging experts in NYC",
		Author: "sam",
	})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(res.Ranked) != 1 {
		t.Fatalf("ranked = %d, want 1 (finance contact filtered)", len(res.Ranked))
	}
	if res.Ranked[0].Contact.ID != "c-packaging" {
		t.Fatalf("top contact = %s", res.Ranked[0].Contact.ID)
	}
	if res.TotalCandidates != 2 {
		t.Fatalf("total candidates = %d, want 2", res.TotalCandidates)
	}
	if !strings.Contains(res.Summary, "Priya Shah") {
		t.Fatalf("summary does not name the match: %q", res.Summary)
	}
}

func TestEvaluateNoSignalShortCircuits(t *testing.T) {
	s := newMatcher(t, testRoster())

	res, err := s.Evaluate(context.Background(), domain.EvaluateInput{Text: "hello there"})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(res.Ranked) != 0 {
		t.Fatalf("no-signal input ranked %d contacts", len(res.Ranked))
	}
	if res.Summary == "" {
		t.Fatal("no-signal input still needs a summary line")
	}
}

func TestEvaluateEmptyTextRejected(t *testing.T) {
	s := newMatcher(t, testRoster())

	_, err := s.Evaluate(context.Background(), domain.EvaluateInput{Text: "   "})
	if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("blank text: err = %v", err)
	}
}

func TestEvaluateBatchCollectsPerItemErrors(t *testing.T) {
	s := newMatcher(t, testRoster())

	items, err := s.EvaluateBatch(context.Background(), []domain.EvaluateInput{
		{Text: "need a packaging partner"},
		{Text: ""},
		{Text: "hiring a sustainability lead"},
	})
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("items = %d", len(items))
	}
	if items[0].Err != "" || items[0].Result == nil {
		t.Fatalf("item 0 should succeed: %+v", items[0])
	}
	if items[1].Err == "" || items[1].Result != nil {
		t.Fatalf("item 1 should fail: %+v", items[1])
	}
	if items[2].Err != "" {
		t.Fatalf("item 2 should succeed: %+v", items[2])
	}
}

func TestEvaluateBatchEmptyRejected(t *testing.T) {
	s := newMatcher(t, testRoster())

	_, err := s.EvaluateBatch(context.Background(), nil)
	if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("empty batch: err = %v", err)
	}
}

func TestDraftComposesAllChannels(t *testing.T) {
	s := newMatcher(t, testRoster())
	ctx := context.Background()

	res, err := s.Evaluate(ctx, domain.EvaluateInput{
		Text: "Looking for sustainable packaging experts in NYC",
	})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}

	out, err := s.Draft(ctx, res.Need, "c-packaging")
	if err != nil {
		t.Fatalf("draft: %v", err)
	}
	if len(out.Drafts) != 3 {
		t.Fatalf("drafts = %d, want 3", len(out.Drafts))
	}
	// matched expertise should surface in at least one body
	found := false
	for _, d := range out.Drafts {
		if strings.Contains(d.Body, "packaging") {
			found = true
		}
	}
	if !found {
		t.Fatal("no draft mentions the matched expertise")
	}
}

func TestDraftUnknownContact(t *testing.T) {
	s := newMatcher(t, testRoster())

	res, _ := s.Evaluate(context.Background(), domain.EvaluateInput{Text: "packaging help"})
	_, err := s.Draft(context.Background(), res.Need, "nope")
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("unknown contact: err = %v", err)
	}
}
