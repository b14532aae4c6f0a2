package domain

import (
	"slices"
	"strconv"
	"strings"
)

// MoveDirection names the neighbour a reorder swaps with.
type MoveDirection string

// MoveUp and MoveDown are the two reorder directions.
const (
	MoveUp   MoveDirection = "up"
	MoveDown MoveDirection = "down"
)

// TodoList is a named, owned, ordered sequence of items.
type TodoList struct {
	ID    string
	Name  string
	Owner string
	Items []TodoItem
}

// NewTodoList constructs an empty list.
func NewTodoList(id, name, owner string) (*TodoList, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, NewValidationError(FieldListID, "id is required")
	}
	list := &TodoList{ID: id}
	if err := list.Rename(name); err != nil {
		return nil, err
	}
	list.SetOwner(owner)
	return list, nil
}

// Rename sets the list name. Uniqueness across lists is checked by the owner of the collection.
func (l *TodoList) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return NewValidationError(FieldListName, "list name is required")
	}
	l.Name = name
	return nil
}

// SetOwner sets the list owner. An empty owner means unassigned.
func (l *TodoList) SetOwner(owner string) {
	l.Owner = strings.TrimSpace(owner)
}

// Len returns the number of items.
func (l *TodoList) Len() int {
	return len(l.Items)
}

// AddItem appends an item and returns its index.
func (l *TodoList) AddItem(item TodoItem) int {
	l.Items = append(l.Items, item)
	return len(l.Items) - 1
}

// ItemAt returns the item at index i.
func (l *TodoList) ItemAt(i int) (TodoItem, error) {
	if i < 0 || i >= len(l.Items) {
		return TodoItem{}, itemNotFound(i)
	}
	return l.Items[i], nil
}

// ReplaceItem overwrites the item at index i in place.
func (l *TodoList) ReplaceItem(i int, item TodoItem) error {
	if i < 0 || i >= len(l.Items) {
		return itemNotFound(i)
	}
	l.Items[i] = item
	return nil
}

// RemoveItem deletes the item at index i and returns it.
func (l *TodoList) RemoveItem(i int) (TodoItem, error) {
	if i < 0 || i >= len(l.Items) {
		return TodoItem{}, itemNotFound(i)
	}
	removed := l.Items[i]
	l.Items = slices.Delete(l.Items, i, i+1)
	return removed, nil
}

// MoveItemUp swaps item i with its predecessor.
func (l *TodoList) MoveItemUp(i int) error {
	return l.moveItem(i, MoveUp)
}

// MoveItemDown swaps item i with its successor.
func (l *TodoList) MoveItemDown(i int) error {
	return l.moveItem(i, MoveDown)
}

// moveItem leaves the sequence untouched when i sits at the edge being moved toward.
func (l *TodoList) moveItem(i int, dir MoveDirection) error {
	if i < 0 || i >= len(l.Items) {
		return itemNotFound(i)
	}
	j := i - 1
	if dir == MoveDown {
		j = i + 1
	}
	if j < 0 || j >= len(l.Items) {
		return &IndexBoundaryError{Index: i, Len: len(l.Items), Direction: dir}
	}
	l.Items[i], l.Items[j] = l.Items[j], l.Items[i]
	return nil
}

// SortItems reorders items stably by the criterion's field and direction.
func (l *TodoList) SortItems(c SortCriterion) {
	cmp := c.compare()
	if cmp == nil {
		return
	}
	slices.SortStableFunc(l.Items, cmp)
}

// Clone returns a deep copy of the list.
func (l *TodoList) Clone() *TodoList {
	if l == nil {
		return nil
	}
	out := *l
	out.Items = make([]TodoItem, len(l.Items))
	for i, item := range l.Items {
		if item.DueDate != nil {
			due := *item.DueDate
			item.DueDate = &due
		}
		out.Items[i] = item
	}
	return &out
}

// CompletedCount returns how many items are complete.
func (l *TodoList) CompletedCount() int {
	n := 0
	for _, item := range l.Items {
		if item.Completed {
			n++
		}
	}
	return n
}

// PlaceholderName returns base, or "base N" with the smallest N >= 2 not present in taken.
func PlaceholderName(base string, taken func(string) bool) string {
	base = strings.TrimSpace(base)
	if base == "" {
		base = "Untitled"
	}
	if !taken(base) {
		return base
	}
	for n := 2; ; n++ {
		candidate := base + " " + strconv.Itoa(n)
		if !taken(candidate) {
			return candidate
		}
	}
}
