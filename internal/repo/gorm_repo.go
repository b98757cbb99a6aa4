package repo

import (
	"context"
	"fmt"
	"time"

	dom "github.com/Jaco-Potgieter/todo/internal/domain"

	"gorm.io/gorm"
)

// todoRecord is the GORM row mapping of dom.Todo. Timestamps are owned by
// the service, so GORM's automatic time tracking is switched off.
type todoRecord struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	Title       string    `gorm:"not null"`
	Description *string   `gorm:"type:text"`
	Status      string    `gorm:"size:32;not null;index;check:todos_status_check,status IN ('NEW','IN_PROGRESS','COMPLETED')"`
	Completed   bool      `gorm:"not null;check:todos_completed_status_check,NOT completed OR status = 'COMPLETED'"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime:false"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime:false"`
}

func (todoRecord) TableName() string {
	return "todos"
}

func recordFromTodo(t dom.Todo) todoRecord {
	return todoRecord{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (r todoRecord) toTodo() dom.Todo {
	return dom.Todo{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Status:      dom.Status(r.Status),
		Completed:   r.Completed,
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
}

// GormTodoRepo implements TodoRepo on top of GORM (SQLite in practice).
type GormTodoRepo struct {
	db *gorm.DB
}

// NewGormTodoRepo migrates the todos table and returns the repository.
func NewGormTodoRepo(db *gorm.DB) (*GormTodoRepo, error) {
	if err := db.AutoMigrate(&todoRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate todos: %w", err)
	}
	return &GormTodoRepo{db: db}, nil
}

func (r *GormTodoRepo) FindAll(ctx context.Context) ([]dom.Todo, error) {
	var records []todoRecord
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to find todos: %w", err)
	}
	return toTodos(records), nil
}

func (r *GormTodoRepo) FindByID(ctx context.Context, id int64) (dom.Todo, bool, error) {
	var records []todoRecord
	// Find with Limit instead of First: a miss is not an error here.
	if err := r.db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&records).Error; err != nil {
		return dom.Todo{}, false, fmt.Errorf("failed to find todo: %w", err)
	}
	if len(records) == 0 {
		return dom.Todo{}, false, nil
	}
	return records[0].toTodo(), true, nil
}

func (r *GormTodoRepo) FindByStatus(ctx context.Context, status dom.Status) ([]dom.Todo, error) {
	var records []todoRecord
	err := r.db.WithContext(ctx).
		Where("status = ?", string(status)).
		Order("created_at DESC, id DESC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find todos by status: %w", err)
	}
	return toTodos(records), nil
}

func (r *GormTodoRepo) Save(ctx context.Context, t dom.Todo) (dom.Todo, error) {
	rec := recordFromTodo(t)
	if err := r.db.WithContext(ctx).Save(&rec).Error; err != nil {
		return dom.Todo{}, fmt.Errorf("failed to save todo: %w", err)
	}
	return rec.toTodo(), nil
}

func (r *GormTodoRepo) Delete(ctx context.Context, t dom.Todo) error {
	if err := r.db.WithContext(ctx).Delete(&todoRecord{}, "id = ?", t.ID).Error; err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	return nil
}

func toTodos(records []todoRecord) []dom.Todo {
	out := make([]dom.Todo, len(records))
	for i := range records {
		out[i] = records[i].toTodo()
	}
	return out
}
