package http

import (
	stdctx "context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"warmintro/internal/core/draft"
	"warmintro/internal/core/stage"
	perr "warmintro/internal/platform/errors"
	phttp "warmintro/internal/platform/net/http"
	"warmintro/internal/services/pipeline/domain"
)

// stubTracker scripts responses per call
type stubTracker struct {
	card domain.Card
	err  error
}

func (s *stubTracker) Promote(stdctx.Context, domain.PromoteInput) (domain.Card, error) {
	return s.card, s.err
}

func (s *stubTracker) AttachDrafts(stdctx.Context, uuid.UUID, []draft.MessageDraft) (domain.Card, error) {
	return s.card, s.err
}

func (s *stubTracker) Advance(stdctx.Context, uuid.UUID, stage.Stage) (domain.Card, error) {
	return s.card, s.err
}

func (s *stubTracker) MarkSent(stdctx.Context, uuid.UUID, time.Time) (domain.Card, error) {
	return s.card, s.err
}

func (s *stubTracker) AgreeIntro(stdctx.Context, uuid.UUID) (domain.Card, error) {
	return s.card, s.err
}

func (s *stubTracker) Close(stdctx.Context, uuid.UUID, string) (domain.Card, error) {
	return s.card, s.err
}

func (s *stubTracker) Get(stdctx.Context, uuid.UUID) (domain.Card, error) {
	return s.card, s.err
}

func (s *stubTracker) List(stdctx.Context, domain.ListFilter) ([]domain.Card, error) {
	return []domain.Card{s.card}, s.err
}

func (s *stubTracker) DueCards(stdctx.Context, time.Time) ([]domain.Card, error) {
	return []domain.Card{s.card}, s.err
}

func (s *stubTracker) NextActions(stdctx.Context, time.Time) (string, error) {
	return "all quiet", s.err
}

type stubSweeper struct{}

func (stubSweeper) Sweep(stdctx.Context, time.Time) (domain.SweepResult, error) {
	return domain.SweepResult{Advanced: 1}, nil
}

func mount(t *testing.T, tr domain.TrackerPort) *chi.Mux {
	t.Helper()
	mux := chi.NewRouter()
	Register(phttp.AdaptChi(mux), Ports{Tracker: tr, Sweeper: stubSweeper{}})
	return mux
}

func TestInvalidTransitionMapsToConflict(t *testing.T) {
	tr := &stubTracker{err: perr.InvalidTransitionf("cannot move backlog -> sent")}
	mux := mount(t, tr)

	req := httptest.NewRequest("POST", "/cards/"+uuid.NewString()+"/advance",
		strings.NewReader(`{"to":"sent"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != 409 {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	var env phttp.Envelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if env.Code != perr.ErrorCodeInvalidTransition {
		t.Fatalf("envelope code = %v", env.Code)
	}
	if env.Error == "" {
		t.Fatal("envelope carries no error message")
	}
}

func TestBadCardIDRejected(t *testing.T) {
	mux := mount(t, &stubTracker{})

	req := httptest.NewRequest("POST", "/cards/not-a-uuid/intro", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != 422 {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestCloseValidatesOutcome(t *testing.T) {
	mux := mount(t, &stubTracker{})

	req := httptest.NewRequest("POST", "/cards/"+uuid.NewString()+"/close",
		strings.NewReader(`{"outcome":"maybe"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != 400 {
		t.Fatalf("status = %d, want 400 (validator oneof)", rec.Code)
	}
}

func TestPromoteReturnsCard(t *testing.T) {
	card := domain.Card{
		ID: uuid.New(), NeedID: uuid.New(), ContactID: "c1",
		ContactName: "Priya Shah", Stage: stage.Backlog,
	}
	mux := mount(t, &stubTracker{card: card})

	body := `{"need_id":"` + card.NeedID.String() + `","contact_id":"c1","contact_name":"Priya Shah","rank_score":0.8}`
	req := httptest.NewRequest("POST", "/cards", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var env phttp.Envelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	data, _ := json.Marshal(env.Data)
	var got domain.Card
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("decode card: %v", err)
	}
	if got.ID != card.ID || got.Stage != stage.Backlog {
		t.Fatalf("card round trip: %+v", got)
	}
}

func TestSweepEndpoint(t *testing.T) {
	mux := mount(t, &stubTracker{})

	req := httptest.NewRequest("POST", "/sweep", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"advanced":1`) {
		t.Fatalf("body = %s", rec.Body.String())
	}
}
