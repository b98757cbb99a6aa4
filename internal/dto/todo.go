package dto

import (
	"time"

	dom "github.com/Jaco-Potgieter/todo/internal/domain"
)

// CreateTodoRequest is the JSON body for POST /api/todo/createItem.
// An id in the body is ignored.
type CreateTodoRequest struct {
	Title       string  `json:"title" binding:"required,max=255"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Status      *string `json:"status" example:"NEW"`
	Completed   *bool   `json:"completed"`
}

// ToTodo converts the request into a domain todo. Status defaults to NEW.
func (r CreateTodoRequest) ToTodo() (dom.Todo, error) {
	t := dom.Todo{
		Title:       r.Title,
		Description: r.Description,
		Status:      dom.StatusNew,
	}
	if r.Status != nil {
		s, err := dom.ParseStatus(*r.Status)
		if err != nil {
			return dom.Todo{}, err
		}
		t.Status = s
	}
	if r.Completed != nil {
		t.Completed = *r.Completed
	}
	return t, nil
}

// UpdateTodoRequest is the JSON body for PUT /api/todo/{id}.
// Absent or null fields keep their stored value.
type UpdateTodoRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=255"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Status      *string `json:"status" example:"IN_PROGRESS"`
	Completed   *bool   `json:"completed"`
}

func (r UpdateTodoRequest) ToPatch() (dom.TodoPatch, error) {
	p := dom.TodoPatch{
		Title:       r.Title,
		Description: r.Description,
		Completed:   r.Completed,
	}
	if r.Status != nil {
		s, err := dom.ParseStatus(*r.Status)
		if err != nil {
			return dom.TodoPatch{}, err
		}
		p.Status = &s
	}
	return p, nil
}

type TodoResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Status      string    `json:"status" example:"NEW"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func TodoToResponse(t dom.Todo) TodoResponse {
	return TodoResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func TodosToResponses(list []dom.Todo) []TodoResponse {
	out := make([]TodoResponse, len(list))
	for i := range list {
		out[i] = TodoToResponse(list[i])
	}
	return out
}
