//go:build integration_pg
// +build integration_pg

package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	perr "warmintro/internal/platform/errors"
	"warmintro/internal/platform/store"
	"warmintro/internal/services/roster/domain"
)

func startPostgres(t *testing.T) (dsn string, stop func()) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)

	req := tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
			"POSTGRES_DB":       "postgres",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections"),
		).WithDeadline(2 * time.Minute),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		cancel()
		t.Fatalf("failed to start postgres container: %v", err)
	}

	host, err := c.Host(ctx)
	if err != nil {
		_ = c.Terminate(context.Background())
		cancel()
		t.Fatalf("failed to get container host: %v", err)
	}
	mapped, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		_ = c.Terminate(context.Background())
		cancel()
		t.Fatalf("failed to get mapped port: %v", err)
	}

	dsn = fmt.Sprintf("postgres://postgres:postgres@%s:%s/postgres?sslmode=disable", host, mapped.Port())
	stop = func() {
		_ = c.Terminate(context.Background())
		cancel()
	}
	return dsn, stop
}

const contactsDDL = `
CREATE TABLE IF NOT EXISTS contacts (
    id                    text PRIMARY KEY,
    name                  text NOT NULL,
    title                 text NOT NULL DEFAULT '',
    company               text NOT NULL DEFAULT '',
    location              text NOT NULL DEFAULT '',
    profile_ref           text NOT NULL DEFAULT '',
    relationship_strength double precision NOT NULL DEFAULT 0,
    last_interaction      timestamptz,
    tags                  text[] NOT NULL DEFAULT '{}',
    notes                 text NOT NULL DEFAULT '',
    source                text NOT NULL DEFAULT '',
    created_at            timestamptz NOT NULL DEFAULT now(),
    updated_at            timestamptz NOT NULL DEFAULT now()
)`

func TestRosterRepo_Integration(t *testing.T) {
	dsn, stop := startPostgres(t)
	defer stop()

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	st, err := store.Open(ctx, store.Config{
		AppName: "warmintro-roster-it",
		PG: store.PGConfig{
			Enabled:  true,
			URL:      dsn,
			MaxConns: 2,
		},
	})
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	defer func() { _ = st.Close(context.Background()) }()

	if _, err := st.PG.Exec(ctx, contactsDDL); err != nil {
		t.Fatalf("create table: %v", err)
	}

	repo := NewPG().Bind(st.PG)

	in := domain.Contact{
		ID:           "c-priya",
		Name:         "Priya Shah",
		Title:        "VP Packaging Innovation",
		Location:     "New York, NY",
		Relationship: 0.8,
		Tags:         []string{"packaging", "sustainability"},
	}
	got, err := repo.Upsert(ctx, in)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if got.ID != in.ID || got.Relationship != 0.8 || len(got.Tags) != 2 {
		t.Fatalf("upsert round trip: %+v", got)
	}

	// upsert again with changed fields replaces
	in.Title = "SVP Packaging"
	if got, err = repo.Upsert(ctx, in); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if got.Title != "SVP Packaging" {
		t.Fatalf("upsert did not replace title: %q", got.Title)
	}

	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	if err := repo.TouchInteraction(ctx, in.ID, at); err != nil {
		t.Fatalf("touch: %v", err)
	}
	// an earlier timestamp must not roll the stored one back
	if err := repo.TouchInteraction(ctx, in.ID, at.Add(-24*time.Hour)); err != nil {
		t.Fatalf("touch earlier: %v", err)
	}
	got, err = repo.Get(ctx, in.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.LastContact == nil || !got.LastContact.Equal(at) {
		t.Fatalf("last interaction = %v, want %v", got.LastContact, at)
	}

	all, err := repo.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("snapshot = %d rows", len(all))
	}

	if _, err := repo.Get(ctx, "ghost"); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("get ghost: err = %v", err)
	}
	if err := repo.Delete(ctx, in.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, in.ID); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("double delete: err = %v", err)
	}
}
