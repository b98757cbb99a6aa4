package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	dom "github.com/Jaco-Potgieter/todo/internal/domain"
	"github.com/Jaco-Potgieter/todo/internal/repo"

	"golang.org/x/sync/singleflight"
)

// ListCache is the read-through cache in front of the list queries.
// Every write calls InvalidateAll.
type ListCache interface {
	GetList(ctx context.Context) ([]dom.Todo, bool, error)
	SetList(ctx context.Context, list []dom.Todo) error
	GetByStatus(ctx context.Context, status dom.Status) ([]dom.Todo, bool, error)
	SetByStatus(ctx context.Context, status dom.Status, list []dom.Todo) error
	InvalidateAll(ctx context.Context) error
}

type TodoService struct {
	repo  repo.TodoRepo
	cache ListCache
	sf    singleflight.Group
	gen   atomic.Uint64 // bumped by every write
	log   *slog.Logger
	now   func() time.Time
}

// Option configures a TodoService.
type Option func(*TodoService)

// WithCache enables read-through caching of list queries.
func WithCache(c ListCache) Option {
	return func(s *TodoService) { s.cache = c }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *TodoService) { s.log = l }
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *TodoService) { s.now = now }
}

// NewTodoService creates a TodoService. Without WithCache, caching is disabled.
func NewTodoService(r repo.TodoRepo, opts ...Option) *TodoService {
	s := &TodoService{repo: r, log: slog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TodoService) GetAllItems(ctx context.Context) ([]dom.Todo, error) {
	s.log.InfoContext(ctx, "fetching all todo items")
	if s.cache == nil {
		return s.findAll(ctx)
	}
	return s.readThrough(ctx, listKey, s.cache.GetList, s.findAll, s.cache.SetList)
}

func (s *TodoService) GetItemByID(ctx context.Context, id int64) (dom.Todo, error) {
	s.log.InfoContext(ctx, "fetching todo item", "id", id)
	t, ok, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return dom.Todo{}, fmt.Errorf("find todo %d: %w", id, err)
	}
	if !ok {
		s.log.ErrorContext(ctx, "todo item not found", "id", id)
		return dom.Todo{}, fmt.Errorf("%w with ID: %d", ErrNotFound, id)
	}
	return t, nil
}

// CreateItem validates t, stamps both timestamps and persists it.
// Any id on t is ignored; storage assigns one.
func (s *TodoService) CreateItem(ctx context.Context, t dom.Todo) (dom.Todo, error) {
	s.log.InfoContext(ctx, "creating todo item", "title", t.Title)
	t.ID = 0
	if t.Status == "" {
		t.Status = dom.StatusNew
	}
	if err := s.validateItem(ctx, &t, nil); err != nil {
		return dom.Todo{}, err
	}
	now := s.stamp(time.Time{})
	t.CreatedAt = now
	t.UpdatedAt = now

	saved, err := s.repo.Save(ctx, t)
	if err != nil {
		return dom.Todo{}, fmt.Errorf("save todo: %w", err)
	}
	s.invalidateCache(ctx)
	s.log.InfoContext(ctx, "todo item created", "id", saved.ID)
	return saved, nil
}

// UpdateItem merges the non-nil fields of patch into the stored todo.
// The status rule is checked only when patch.Status is set, against the
// status the todo had before the merge.
func (s *TodoService) UpdateItem(ctx context.Context, id int64, patch dom.TodoPatch) (dom.Todo, error) {
	existing, err := s.GetItemByID(ctx, id)
	if err != nil {
		return dom.Todo{}, err
	}
	s.log.InfoContext(ctx, "updating todo item", "id", id)

	previous := existing.Status
	merged := existing
	if patch.Title != nil {
		merged.Title = *patch.Title
	}
	if patch.Description != nil {
		merged.Description = patch.Description
	}
	if patch.Completed != nil {
		merged.Completed = *patch.Completed
	}
	if patch.Status != nil {
		merged.Status = *patch.Status
	}
	merged.UpdatedAt = s.stamp(existing.UpdatedAt)

	if patch.Status != nil {
		if err := s.validateItem(ctx, &merged, &previous); err != nil {
			return dom.Todo{}, err
		}
	}
	if merged.Completed && merged.Status != dom.StatusCompleted {
		merged.Status = dom.StatusCompleted
		s.log.InfoContext(ctx, "item marked as completed, status set to COMPLETED", "id", id)
	}

	saved, err := s.repo.Save(ctx, merged)
	if err != nil {
		return dom.Todo{}, fmt.Errorf("save todo %d: %w", id, err)
	}
	s.invalidateCache(ctx)
	return saved, nil
}

func (s *TodoService) DeleteItem(ctx context.Context, id int64) error {
	s.log.InfoContext(ctx, "deleting todo item", "id", id)
	t, err := s.GetItemByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, t); err != nil {
		return fmt.Errorf("delete todo %d: %w", id, err)
	}
	s.invalidateCache(ctx)
	s.log.InfoContext(ctx, "todo item deleted", "id", id)
	return nil
}

func (s *TodoService) GetItemsByStatus(ctx context.Context, status dom.Status) ([]dom.Todo, error) {
	s.log.InfoContext(ctx, "fetching todo items by status", "status", status)
	if s.cache == nil {
		return s.findByStatus(ctx, status)
	}
	return s.readThrough(ctx, statusKey(status),
		func(ctx context.Context) ([]dom.Todo, bool, error) { return s.cache.GetByStatus(ctx, status) },
		func(ctx context.Context) ([]dom.Todo, error) { return s.findByStatus(ctx, status) },
		func(ctx context.Context, list []dom.Todo) error { return s.cache.SetByStatus(ctx, status, list) },
	)
}

const listKey = "list"

func statusKey(status dom.Status) string {
	return "status:" + string(status)
}

// readThrough serves key from the cache, loading from storage on a miss.
// Concurrent misses share one load, which ignores caller cancellation.
// A load that overlaps a write never leaves its result in the cache.
func (s *TodoService) readThrough(
	ctx context.Context,
	key string,
	get func(context.Context) ([]dom.Todo, bool, error),
	load func(context.Context) ([]dom.Todo, error),
	set func(context.Context, []dom.Todo) error,
) ([]dom.Todo, error) {
	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		ctx := context.WithoutCancel(ctx)
		gen := s.gen.Load()
		if list, hit, err := get(ctx); err != nil {
			s.log.WarnContext(ctx, "todo cache read failed", "key", key, "error", err)
		} else if hit {
			return list, nil
		}
		list, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if s.gen.Load() != gen {
			return list, nil
		}
		if err := set(ctx, list); err != nil {
			s.log.WarnContext(ctx, "todo cache write failed", "key", key, "error", err)
			return list, nil
		}
		// a write may have invalidated between the check and the set
		if s.gen.Load() != gen {
			if err := s.cache.InvalidateAll(ctx); err != nil {
				s.log.WarnContext(ctx, "todo cache invalidation failed", "error", err)
			}
		}
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]dom.Todo), nil
}

// validateItem rejects a move back to NEW when previous is set and not NEW,
// then forces COMPLETED on a completed item. The revert check runs first.
func (s *TodoService) validateItem(ctx context.Context, t *dom.Todo, previous *dom.Status) error {
	if previous != nil && *previous != dom.StatusNew && t.Status == dom.StatusNew {
		s.log.ErrorContext(ctx, "status cannot be reverted to NEW", "id", t.ID, "previous", *previous)
		return ErrInvalidStatusTransition
	}
	if t.Completed && t.Status != dom.StatusCompleted {
		t.Status = dom.StatusCompleted
		s.log.InfoContext(ctx, "item marked as completed, status set to COMPLETED", "id", t.ID)
	}
	return nil
}

// stamp returns the current time at storage precision, strictly after prev.
func (s *TodoService) stamp(prev time.Time) time.Time {
	now := s.now().UTC().Truncate(time.Microsecond)
	if !now.After(prev) {
		now = prev.UTC().Truncate(time.Microsecond).Add(time.Microsecond)
	}
	return now
}

func (s *TodoService) findAll(ctx context.Context) ([]dom.Todo, error) {
	list, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("find todos: %w", err)
	}
	return list, nil
}

func (s *TodoService) findByStatus(ctx context.Context, status dom.Status) ([]dom.Todo, error) {
	list, err := s.repo.FindByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("find todos by status %s: %w", status, err)
	}
	return list, nil
}

func (s *TodoService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	s.gen.Add(1)
	s.sf.Forget(listKey)
	for _, st := range dom.Statuses {
		s.sf.Forget(statusKey(st))
	}
	if err := s.cache.InvalidateAll(ctx); err != nil {
		s.log.WarnContext(ctx, "todo cache invalidation failed", "error", err)
	}
}
