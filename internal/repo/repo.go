package repo

import (
	"context"

	dom "github.com/Jaco-Potgieter/todo/internal/domain"
)

// TodoRepo is the persistence contract the service depends on.
//
// FindByID reports absence through ok == false; a non-nil error always means
// the backend itself failed. Save inserts when t.ID is zero and otherwise
// overwrites the row with that id. Delete of a missing row is not an error.
type TodoRepo interface {
	FindAll(ctx context.Context) ([]dom.Todo, error)
	FindByID(ctx context.Context, id int64) (t dom.Todo, ok bool, err error)
	FindByStatus(ctx context.Context, status dom.Status) ([]dom.Todo, error)
	Save(ctx context.Context, t dom.Todo) (dom.Todo, error)
	Delete(ctx context.Context, t dom.Todo) error
}
