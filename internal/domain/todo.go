package domain

import (
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle stage of a Todo.
type Status string

const (
	StatusNew        Status = "NEW"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

// Statuses lists every known status in lifecycle order.
var Statuses = []Status{StatusNew, StatusInProgress, StatusCompleted}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

func (s Status) String() string { return string(s) }

// ParseStatus accepts a status name in any case, e.g. "in_progress".
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("unknown status %q", raw)
	}
	return s, nil
}

// Domain entity: бизнес-объект (истина).
// Не зависит от Gin, Postgres, Redis.
type Todo struct {
	ID          int64
	Title       string
	Description *string
	Status      Status
	Completed   bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TodoPatch is a partial update. A nil field keeps the stored value.
type TodoPatch struct {
	Title       *string
	Description *string
	Completed   *bool
	Status      *Status
}
