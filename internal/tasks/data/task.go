package data

import (
	"fmt"
	"strings"
	"time"
)

// Priority is the effort level of a task.
type Priority string

const (
	PriorityNone   Priority = ""
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists the settable priorities in ascending order.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// ParsePriority accepts low/medium/high (any case) and their first letters.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return PriorityNone, nil
	case "l", "low":
		return PriorityLow, nil
	case "m", "medium":
		return PriorityMedium, nil
	case "h", "high":
		return PriorityHigh, nil
	}
	return PriorityNone, fmt.Errorf("invalid priority %q: expected low, medium or high", s)
}

// Valid reports whether p is one of the known priorities or unset.
func (p Priority) Valid() bool {
	switch p {
	case PriorityNone, PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Next cycles none -> low -> medium -> high -> none.
func (p Priority) Next() Priority {
	switch p {
	case PriorityNone:
		return PriorityLow
	case PriorityLow:
		return PriorityMedium
	case PriorityMedium:
		return PriorityHigh
	}
	return PriorityNone
}

// Task is a single to-do item as served by the backend.
type Task struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Date        Date      `json:"date"`
	Priority    Priority  `json:"effort,omitempty"`
	Position    int       `json:"position,omitempty"`
	Done        bool      `json:"done,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

func (t Task) String() string {
	var b strings.Builder
	if t.Done {
		b.WriteString("[x] ")
	} else {
		b.WriteString("[ ] ")
	}
	b.WriteString(t.Description)
	if t.Priority != PriorityNone {
		b.WriteString(" !" + string(t.Priority))
	}
	if !t.Date.IsZero() {
		b.WriteString(" @" + t.Date.String())
	}
	return b.String()
}

// Validate checks the fields a backend requires on write.
func (t Task) Validate() error {
	if strings.TrimSpace(t.Description) == "" {
		return fmt.Errorf("task description is required")
	}
	if t.Date.IsZero() {
		return fmt.Errorf("task date is required")
	}
	if !t.Priority.Valid() {
		return fmt.Errorf("invalid priority %q", t.Priority)
	}
	return nil
}

// DeletedRecord remembers where a deleted task lived so it can be restored.
type DeletedRecord struct {
	Task  Task
	Index int
	Date  Date
}
