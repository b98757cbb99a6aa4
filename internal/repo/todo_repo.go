package repo

import (
	"context"
	"errors"

	dom "github.com/Jaco-Potgieter/todo/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const todoColumns = `id, title, description, status, completed, created_at, updated_at`

// PGTodoRepo implements TodoRepo with Postgres.
type PGTodoRepo struct {
	db *pgxpool.Pool
}

func NewPGTodoRepo(db *pgxpool.Pool) *PGTodoRepo {
	return &PGTodoRepo{db: db}
}

func (r *PGTodoRepo) FindAll(ctx context.Context) ([]dom.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos ORDER BY created_at DESC, id DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return collectTodos(rows)
}

func (r *PGTodoRepo) FindByID(ctx context.Context, id int64) (dom.Todo, bool, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE id = $1`
	t, err := scanTodo(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return dom.Todo{}, false, nil
	}
	if err != nil {
		return dom.Todo{}, false, err
	}
	return t, true, nil
}

func (r *PGTodoRepo) FindByStatus(ctx context.Context, status dom.Status) ([]dom.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE status = $1 ORDER BY created_at DESC, id DESC`
	rows, err := r.db.Query(ctx, query, string(status))
	if err != nil {
		return nil, err
	}
	return collectTodos(rows)
}

func (r *PGTodoRepo) Save(ctx context.Context, t dom.Todo) (dom.Todo, error) {
	if t.ID == 0 {
		query := `
			INSERT INTO todos (title, description, status, completed, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING ` + todoColumns
		return scanTodo(r.db.QueryRow(ctx, query,
			t.Title, t.Description, string(t.Status), t.Completed, t.CreatedAt, t.UpdatedAt,
		))
	}
	// Overwrite, re-creating the row if it was deleted in between (last write wins).
	query := `
		INSERT INTO todos (id, title, description, status, completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			status = EXCLUDED.status,
			completed = EXCLUDED.completed,
			updated_at = EXCLUDED.updated_at
		RETURNING ` + todoColumns
	return scanTodo(r.db.QueryRow(ctx, query,
		t.ID, t.Title, t.Description, string(t.Status), t.Completed, t.CreatedAt, t.UpdatedAt,
	))
}

func (r *PGTodoRepo) Delete(ctx context.Context, t dom.Todo) error {
	_, err := r.db.Exec(ctx, `DELETE FROM todos WHERE id = $1`, t.ID)
	return err
}

func scanTodo(row pgx.Row) (dom.Todo, error) {
	var t dom.Todo
	var status string
	err := row.Scan(&t.ID, &t.Title, &t.Description, &status, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	t.Status = dom.Status(status)
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return t, err
}

func collectTodos(rows pgx.Rows) ([]dom.Todo, error) {
	defer rows.Close()
	list := []dom.Todo{}
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}
