package domain

import (
	"fmt"
	"strings"
	"time"
)

// DueDateLayout is the ISO calendar-date layout used for every due date.
const DueDateLayout = "2006-01-02"

// TodoItem is one row of a TodoList.
type TodoItem struct {
	Description string
	AssignedTo  string
	DueDate     *time.Time
	Completed   bool
}

// ItemInput holds raw form values for creating or replacing an item.
type ItemInput struct {
	Description string
	AssignedTo  string
	DueDate     string
	Completed   bool
}

// NewTodoItem validates raw form values and builds an item.
func NewTodoItem(in ItemInput) (TodoItem, error) {
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return TodoItem{}, NewValidationError(FieldDescription, "description is required")
	}
	due, err := ParseDueDate(in.DueDate)
	if err != nil {
		return TodoItem{}, err
	}
	return TodoItem{
		Description: description,
		AssignedTo:  strings.TrimSpace(in.AssignedTo),
		DueDate:     due,
		Completed:   in.Completed,
	}, nil
}

// ParseDueDate parses a YYYY-MM-DD value into a UTC calendar date.
// Empty input means no due date.
func ParseDueDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.ParseInLocation(DueDateLayout, raw, time.UTC)
	if err != nil {
		return nil, NewValidationError(FieldDueDate, fmt.Sprintf("due date must be YYYY-MM-DD, got %q", raw))
	}
	return &parsed, nil
}

// DueDateString formats the due date, or returns "" when none is set.
func (i TodoItem) DueDateString() string {
	if i.DueDate == nil {
		return ""
	}
	return i.DueDate.UTC().Format(DueDateLayout)
}

// Status is the display label for the completion flag.
func (i TodoItem) Status() string {
	if i.Completed {
		return "Complete"
	}
	return "Incomplete"
}

// Input converts the item back into form values.
func (i TodoItem) Input() ItemInput {
	return ItemInput{
		Description: i.Description,
		AssignedTo:  i.AssignedTo,
		DueDate:     i.DueDateString(),
		Completed:   i.Completed,
	}
}
