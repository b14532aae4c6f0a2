package domain

import (
	"fmt"
	"strings"
)

// SortField is an item column that can order a list.
type SortField string

// SortField values, one per sortable column.
const (
	SortFieldTask    SortField = "task"
	SortFieldStatus  SortField = "status"
	SortFieldDueDate SortField = "due_date"
)

// SortCriterion is a (field, direction) pair, or SortNone.
type SortCriterion string

// SortCriterion values.
const (
	SortNone          SortCriterion = ""
	SortByTaskAsc     SortCriterion = "task_asc"
	SortByTaskDesc    SortCriterion = "task_desc"
	SortByStatusAsc   SortCriterion = "status_asc"
	SortByStatusDesc  SortCriterion = "status_desc"
	SortByDueDateAsc  SortCriterion = "due_date_asc"
	SortByDueDateDesc SortCriterion = "due_date_desc"
)

var sortCriteria = map[SortField][2]SortCriterion{
	SortFieldTask:    {SortByTaskAsc, SortByTaskDesc},
	SortFieldStatus:  {SortByStatusAsc, SortByStatusDesc},
	SortFieldDueDate: {SortByDueDateAsc, SortByDueDateDesc},
}

// Criterion returns the criterion for field in the given direction.
func Criterion(field SortField, descending bool) (SortCriterion, error) {
	pair, ok := sortCriteria[field]
	if !ok {
		return SortNone, NewValidationError("sort", fmt.Sprintf("unknown sort field %q", field))
	}
	if descending {
		return pair[1], nil
	}
	return pair[0], nil
}

// Field returns the column the criterion orders by, or "" for SortNone.
func (c SortCriterion) Field() SortField {
	for field, pair := range sortCriteria {
		if c == pair[0] || c == pair[1] {
			return field
		}
	}
	return ""
}

// Descending reports whether the criterion orders from high to low.
func (c SortCriterion) Descending() bool {
	return strings.HasSuffix(string(c), "_desc")
}

// Toggle returns the criterion a header click on field selects: the same
// field ascending flips to descending, anything else starts ascending.
func (c SortCriterion) Toggle(field SortField) (SortCriterion, error) {
	asc, err := Criterion(field, false)
	if err != nil {
		return SortNone, err
	}
	if c == asc {
		return Criterion(field, true)
	}
	return asc, nil
}

// String returns a display label.
func (c SortCriterion) String() string {
	if c == SortNone {
		return "none"
	}
	dir := "ascending"
	if c.Descending() {
		dir = "descending"
	}
	return fmt.Sprintf("%s %s", strings.ReplaceAll(string(c.Field()), "_", " "), dir)
}

func (c SortCriterion) compare() func(a, b TodoItem) int {
	var base func(a, b TodoItem) int
	switch c.Field() {
	case SortFieldTask:
		base = compareTask
	case SortFieldStatus:
		base = compareStatus
	case SortFieldDueDate:
		base = compareDueDate
	default:
		return nil
	}
	if c.Descending() {
		return func(a, b TodoItem) int { return base(b, a) }
	}
	return base
}

func compareTask(a, b TodoItem) int {
	return strings.Compare(strings.ToLower(a.Description), strings.ToLower(b.Description))
}

func compareStatus(a, b TodoItem) int {
	switch {
	case a.Completed == b.Completed:
		return 0
	case !a.Completed:
		return -1
	default:
		return 1
	}
}

// compareDueDate orders undated items after dated ones.
func compareDueDate(a, b TodoItem) int {
	switch {
	case a.DueDate == nil && b.DueDate == nil:
		return 0
	case a.DueDate == nil:
		return 1
	case b.DueDate == nil:
		return -1
	default:
		return a.DueDate.Compare(*b.DueDate)
	}
}
