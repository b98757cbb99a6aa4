package repo

import (
	"context"
	"os"
	"testing"
	"time"

	dom "github.com/Jaco-Potgieter/todo/internal/domain"
	"github.com/Jaco-Potgieter/todo/migrations"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

func setupPG(t *testing.T) *PGTodoRepo {
	t.Helper()
	dsn := os.Getenv("PG_TEST_DSN")
	if dsn == "" {
		t.Skip("PG_TEST_DSN not set (integration test)")
	}

	db, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		t.Fatal(err)
	}
	goose.SetBaseFS(migrations.FS)
	if err := goose.Up(db, "."); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`TRUNCATE todos RESTART IDENTITY`); err != nil {
		t.Fatal(err)
	}
	_ = db.Close()

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(pool.Close)
	return NewPGTodoRepo(pool)
}

func TestPGTodoRepo_Lifecycle(t *testing.T) {
	r := setupPG(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	saved, err := r.Save(ctx, dom.Todo{Title: "pg", Status: dom.StatusNew, CreatedAt: now, UpdatedAt: now})
	if err != nil {
		t.Fatal(err)
	}
	if saved.ID == 0 || saved.Description != nil {
		t.Fatalf("unexpected insert result %+v", saved)
	}
	if saved.CreatedAt.Location() != time.UTC || saved.UpdatedAt.Location() != time.UTC {
		t.Fatalf("timestamps not in UTC: %v, %v", saved.CreatedAt, saved.UpdatedAt)
	}

	saved.Status = dom.StatusInProgress
	saved.UpdatedAt = now.Add(time.Second)
	updated, err := r.Save(ctx, saved)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Status != dom.StatusInProgress || !updated.CreatedAt.Equal(now) {
		t.Fatalf("overwrite not applied: %+v", updated)
	}

	list, err := r.FindByStatus(ctx, dom.StatusInProgress)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 in-progress todo, got %d", len(list))
	}

	if err := r.Delete(ctx, updated); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := r.FindByID(ctx, updated.ID); err != nil || ok {
		t.Fatalf("expected absence after delete, ok=%v err=%v", ok, err)
	}
}
