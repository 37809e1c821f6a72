package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"warmintro/internal/core/draft"
	"warmintro/internal/core/stage"
	"warmintro/internal/modkit/repokit"
	perr "warmintro/internal/platform/errors"
	"warmintro/internal/services/pipeline/domain"
	"warmintro/internal/services/pipeline/repo"
)

// memStore is an in-memory repo.Storage for service tests
type memStore struct {
	mu    sync.Mutex
	cards map[uuid.UUID]domain.Card
}

func newMemStore() *memStore {
	return &memStore{cards: map[uuid.UUID]domain.Card{}}
}

func (m *memStore) Insert(_ context.Context, c domain.Card) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cards[c.ID] = c
	return nil
}

func (m *memStore) Get(_ context.Context, id uuid.UUID) (domain.Card, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.cards[id]
	if !ok {
		return domain.Card{}, perr.NotFoundf("card %s not found", id)
	}
	return c, nil
}

func (m *memStore) Update(_ context.Context, c domain.Card) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.cards[c.ID]; !ok {
		return perr.NotFoundf("card %s not found", c.ID)
	}
	m.cards[c.ID] = c
	return nil
}

func (m *memStore) List(_ context.Context, f domain.ListFilter) ([]domain.Card, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Card
	for _, c := range m.cards {
		if f.Stage != "" && c.Stage != f.Stage {
			continue
		}
		if f.Live && stage.Terminal(c.Stage) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (m *memStore) Due(_ context.Context, now time.Time) ([]domain.Card, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Card
	for _, c := range m.cards {
		if c.NextAction == nil || c.NextAction.After(now) {
			continue
		}
		if c.Stage != stage.Sent && c.Stage != stage.FollowUp1 {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// chRecorder captures stage event inserts
type chRecorder struct {
	mu     sync.Mutex
	tables []string
	rows   [][][]any
}

func (c *chRecorder) Insert(_ context.Context, table string, data any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tables = append(c.tables, table)
	c.rows = append(c.rows, data.([][]any))
	return nil
}

func (c *chRecorder) Query(context.Context, string, ...any) (repokit.Rows, error) {
	return nil, nil
}

func (c *chRecorder) Close() error { return nil }

// nopDB satisfies TxRunner; the memStore binder never touches it
type nopDB struct{}

func (nopDB) Exec(context.Context, string, ...any) (repokit.CommandTag, error) {
	panic("unexpected sql")
}
func (nopDB) Query(context.Context, string, ...any) (repokit.Rows, error) { panic("unexpected sql") }
func (nopDB) QueryRow(context.Context, string, ...any) repokit.Row       { panic("unexpected sql") }
func (nopDB) Tx(context.Context, func(q repokit.RowQuerier) error) error { panic("unexpected sql") }

func newTestService(t *testing.T, mem *memStore, ch *chRecorder, now *time.Time) *Service {
	t.Helper()
	s := New(nopDB{}, nil, zerolog.Nop(), Config{FollowUpAfter: 5 * 24 * time.Hour},
		WithClock(func() time.Time { return *now }),
	)
	if ch != nil {
		s.CH = ch
	}
	s.Binder = repokit.BindFunc[repo.Storage](func(repokit.Queryer) repo.Storage { return mem })
	return s
}

func promote(t *testing.T, s *Service) domain.Card {
	t.Helper()
	c, err := s.Promote(context.Background(), domain.PromoteInput{
		NeedID:      uuid.New(),
		ContactID:   "c-priya",
		ContactName: "Priya Shah",
		RankScore:   0.82,
	})
	if err != nil {
		t.Fatalf("promote: %v", err)
	}
	return c
}

func TestPromoteLandsInCandidates(t *testing.T) {
	now := time.Date(2026, 2, 20, 12, 0, 0, 0, time.UTC)
	s := newTestService(t, newMemStore(), nil, &now)

	// a fresh card passes through backlog and settles in candidates
	c := promote(t, s)
	if c.Stage != stage.Candidates {
		t.Fatalf("fresh card stage = %s, want %s", c.Stage, stage.Candidates)
	}
	if !c.CreatedAt.Equal(now) || !c.UpdatedAt.Equal(now) {
		t.Fatalf("timestamps not set from clock: %v / %v", c.CreatedAt, c.UpdatedAt)
	}
}

func TestFullChainToClosedWon(t *testing.T) {
	now := time.Date(2026, 2, 20, 12, 0, 0, 0, time.UTC)
	s := newTestService(t, newMemStore(), nil, &now)
	ctx := context.Background()

	c := promote(t, s)

	c, err := s.AttachDrafts(ctx, c.ID, []draft.MessageDraft{{Channel: draft.ChannelEmail, Body: "hi"}})
	if err != nil {
		t.Fatalf("attach drafts: %v", err)
	}
	if c.Stage != stage.Drafted || len(c.Drafts) != 1 {
		t.Fatalf("drafted card wrong: stage=%s drafts=%d", c.Stage, len(c.Drafts))
	}

	c, err = s.MarkSent(ctx, c.ID, time.Time{})
	if err != nil {
		t.Fatalf("mark sent: %v", err)
	}
	if c.NextAction == nil {
		t.Fatal("sent card has no follow up date")
	}
	wantNext := now.Add(5 * 24 * time.Hour)
	if !c.NextAction.Equal(wantNext) {
		t.Fatalf("next action = %v, want %v", c.NextAction, wantNext)
	}

	for _, st := range []stage.Stage{stage.FollowUp1, stage.FollowUp2} {
		if c, err = s.Advance(ctx, c.ID, st); err != nil {
			t.Fatalf("to %s: %v", st, err)
		}
	}

	c, err = s.AgreeIntro(ctx, c.ID)
	if err != nil {
		t.Fatalf("agree intro: %v", err)
	}
	if c.Stage != stage.WarmIntro || c.NextAction != nil {
		t.Fatalf("warm intro card wrong: stage=%s next=%v", c.Stage, c.NextAction)
	}

	c, err = s.Close(ctx, c.ID, domain.OutcomeWon)
	if err != nil {
		t.Fatalf("close won: %v", err)
	}
	if c.Stage != stage.ClosedWon || c.Outcome != domain.OutcomeWon {
		t.Fatalf("closed card wrong: stage=%s outcome=%q", c.Stage, c.Outcome)
	}
}

func TestCannotSkipToClose(t *testing.T) {
	now := time.Date(2026, 2, 20, 12, 0, 0, 0, time.UTC)
	s := newTestService(t, newMemStore(), nil, &now)
	ctx := context.Background()

	c := promote(t, s)

	// candidates cannot jump straight to a terminal
	_, err := s.Close(ctx, c.ID, domain.OutcomeWon)
	if !perr.IsCode(err, perr.ErrorCodeInvalidTransition) {
		t.Fatalf("close from candidates: err = %v, want invalid transition", err)
	}

	got, err := s.Get(ctx, c.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Stage != stage.Candidates {
		t.Fatalf("rejected close moved card to %s", got.Stage)
	}
}

func TestClosedCardsAbsorb(t *testing.T) {
	now := time.Date(2026, 2, 20, 12, 0, 0, 0, time.UTC)
	s := newTestService(t, newMemStore(), nil, &now)
	ctx := context.Background()

	c := promote(t, s)
	if _, err := s.AgreeIntro(ctx, c.ID); err != nil {
		t.Fatalf("agree intro: %v", err)
	}
	if _, err := s.Close(ctx, c.ID, domain.OutcomeLost); err != nil {
		t.Fatalf("close lost: %v", err)
	}

	before, _ := s.Get(ctx, c.ID)
	_, err := s.Advance(ctx, c.ID, stage.WarmIntro)
	if !perr.IsCode(err, perr.ErrorCodeInvalidTransition) {
		t.Fatalf("advance after close: err = %v, want invalid transition", err)
	}
	after, _ := s.Get(ctx, c.ID)
	if !after.UpdatedAt.Equal(before.UpdatedAt) {
		t.Fatal("rejected transition touched UpdatedAt")
	}
}

func TestRejectedTransitionKeepsUpdatedAt(t *testing.T) {
	now := time.Date(2026, 2, 20, 12, 0, 0, 0, time.UTC)
	s := newTestService(t, newMemStore(), nil, &now)
	ctx := context.Background()

	c := promote(t, s)

	now = now.Add(time.Hour)
	_, err := s.Advance(ctx, c.ID, stage.Sent)
	if !perr.IsCode(err, perr.ErrorCodeInvalidTransition) {
		t.Fatalf("skip to sent: err = %v", err)
	}
	got, _ := s.Get(ctx, c.ID)
	if !got.UpdatedAt.Equal(c.UpdatedAt) {
		t.Fatalf("UpdatedAt moved on rejected transition: %v -> %v", c.UpdatedAt, got.UpdatedAt)
	}
}

func TestStageEventsEmitted(t *testing.T) {
	now := time.Date(2026, 2, 20, 12, 0, 0, 0, time.UTC)
	rec := &chRecorder{}
	s := newTestService(t, newMemStore(), rec, &now)
	ctx := context.Background()

	c := promote(t, s)
	if _, err := s.Advance(ctx, c.ID, stage.Drafted); err != nil {
		t.Fatalf("advance: %v", err)
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.tables) != 3 {
		t.Fatalf("events = %d, want 3 (create + auto candidates + advance)", len(rec.tables))
	}
	for _, tbl := range rec.tables {
		if tbl != "stage_events" {
			t.Fatalf("event table = %q", tbl)
		}
	}
	// promote emits creation then backlog -> candidates
	row := rec.rows[1][0]
	if row[3] != string(stage.Backlog) || row[4] != string(stage.Candidates) {
		t.Fatalf("event row = %v", row)
	}
	row = rec.rows[2][0]
	if row[3] != string(stage.Candidates) || row[4] != string(stage.Drafted) {
		t.Fatalf("event row = %v", row)
	}
}

func TestSweepAdvancesDueCards(t *testing.T) {
	now := time.Date(2026, 2, 20, 12, 0, 0, 0, time.UTC)
	mem := newMemStore()
	s := newTestService(t, mem, nil, &now)
	ctx := context.Background()

	// one overdue sent card, one overdue follow_up_1 card, one future card
	mk := func(st stage.Stage, due time.Time) uuid.UUID {
		c := promote(t, s)
		mem.mu.Lock()
		card := mem.cards[c.ID]
		card.Stage = st
		if !due.IsZero() {
			card.NextAction = &due
		}
		mem.cards[c.ID] = card
		mem.mu.Unlock()
		return c.ID
	}
	overdue := now.Add(-time.Hour)
	future := now.Add(48 * time.Hour)
	sent := mk(stage.Sent, overdue)
	fu1 := mk(stage.FollowUp1, overdue)
	waiting := mk(stage.Sent, future)

	res, err := s.Sweep(ctx, now)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if res.Advanced != 2 || len(res.Errors) != 0 {
		t.Fatalf("sweep result = %+v", res)
	}

	got, _ := s.Get(ctx, sent)
	if got.Stage != stage.FollowUp1 {
		t.Fatalf("sent card swept to %s", got.Stage)
	}
	if got.NextAction == nil || !got.NextAction.Equal(now.Add(5*24*time.Hour)) {
		t.Fatalf("swept card next action = %v", got.NextAction)
	}

	got, _ = s.Get(ctx, fu1)
	if got.Stage != stage.FollowUp2 {
		t.Fatalf("follow_up_1 card swept to %s", got.Stage)
	}
	if got.NextAction != nil {
		t.Fatal("follow_up_2 card should wait for a human")
	}

	got, _ = s.Get(ctx, waiting)
	if got.Stage != stage.Sent {
		t.Fatalf("future card swept early to %s", got.Stage)
	}
}

func TestConcurrentAdvanceOneWinner(t *testing.T) {
	now := time.Date(2026, 2, 20, 12, 0, 0, 0, time.UTC)
	s := newTestService(t, newMemStore(), nil, &now)
	ctx := context.Background()

	c := promote(t, s)

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.Advance(ctx, c.ID, stage.Drafted)
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else if !perr.IsCode(err, perr.ErrorCodeInvalidTransition) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("winners = %d, want exactly 1", wins)
	}
}

func TestCloseRejectsUnknownOutcome(t *testing.T) {
	now := time.Date(2026, 2, 20, 12, 0, 0, 0, time.UTC)
	s := newTestService(t, newMemStore(), nil, &now)

	c := promote(t, s)
	_, err := s.Close(context.Background(), c.ID, "maybe")
	if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("close maybe: err = %v", err)
	}
}
