package app

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/evanschultz/todolist/internal/domain"
)

// Screen identifies which of the three screens is showing.
type Screen string

// ScreenHome and related constants name the screens.
const (
	ScreenHome Screen = "home"
	ScreenList Screen = "list"
	ScreenItem Screen = "item"
)

// SessionConfig holds placeholder values for newly created lists.
type SessionConfig struct {
	PlaceholderName  string
	PlaceholderOwner string
}

// IDGenerator returns unique identifiers for new lists.
type IDGenerator func() string

// Clock returns the current time.
type Clock func() time.Time

// Session owns all application state: the list collection, the list being
// edited, the item-edit mode, the current screen and the current sort criterion.
// It is used from a single event loop and is not safe for concurrent use.
type Session struct {
	journal          Journal
	idGen            IDGenerator
	clock            Clock
	placeholderName  string
	placeholderOwner string

	lists       []*domain.TodoList
	active      *domain.TodoList
	pending     bool
	editingItem bool
	editIndex   int
	screen      Screen
	sort        domain.SortCriterion
}

// NewSession constructs a session on the Home screen with no lists.
// A nil journal disables activity recording.
func NewSession(journal Journal, idGen IDGenerator, clock Clock, cfg SessionConfig) *Session {
	if idGen == nil {
		var n int
		idGen = func() string {
			n++
			return "list-" + strconv.Itoa(n)
		}
	}
	if clock == nil {
		clock = time.Now
	}
	if strings.TrimSpace(cfg.PlaceholderName) == "" {
		cfg.PlaceholderName = "Untitled"
	}
	return &Session{
		journal:          journal,
		idGen:            idGen,
		clock:            clock,
		placeholderName:  strings.TrimSpace(cfg.PlaceholderName),
		placeholderOwner: strings.TrimSpace(cfg.PlaceholderOwner),
		editIndex:        -1,
		screen:           ScreenHome,
		sort:             domain.SortNone,
	}
}

// Seed appends starting lists. Names must be unique among themselves and the existing collection.
func (s *Session) Seed(ctx context.Context, lists []*domain.TodoList) error {
	for _, list := range lists {
		if list == nil {
			continue
		}
		if err := s.checkNameAvailable(list.Name, ""); err != nil {
			return err
		}
		added := list.Clone()
		if strings.TrimSpace(added.ID) == "" {
			added.ID = s.idGen()
		}
		s.lists = append(s.lists, added)
		if err := s.record(ctx, added, domain.ChangeOperationCreateList, map[string]string{"source": "seed"}); err != nil {
			return err
		}
	}
	return nil
}

// Lists returns copies of every committed list in collection order.
func (s *Session) Lists() []*domain.TodoList {
	out := make([]*domain.TodoList, 0, len(s.lists))
	for _, list := range s.lists {
		out = append(out, list.Clone())
	}
	return out
}

// ListToEdit returns a copy of the list being edited.
func (s *Session) ListToEdit() (*domain.TodoList, bool) {
	if s.active == nil {
		return nil, false
	}
	return s.active.Clone(), true
}

// IsPending reports whether the list being edited has not been committed yet.
func (s *Session) IsPending() bool {
	return s.active != nil && s.pending
}

// Screen returns the current screen.
func (s *Session) Screen() Screen {
	return s.screen
}

// SortCriterion returns the current sort criterion.
func (s *Session) SortCriterion() domain.SortCriterion {
	return s.sort
}

// IsCurrentItemSortCriterion reports whether c is the current sort criterion.
func (s *Session) IsCurrentItemSortCriterion(c domain.SortCriterion) bool {
	return s.sort == c
}

// IsEditingItem reports whether the item form edits an existing item.
func (s *Session) IsEditingItem() bool {
	return s.editingItem
}

// EditingIndex returns the index of the item being edited, or -1.
func (s *Session) EditingIndex() int {
	if !s.editingItem {
		return -1
	}
	return s.editIndex
}

// SetIsEditingItem switches the item form between add mode and editing item index.
func (s *Session) SetIsEditingItem(editing bool, index int) error {
	if !editing {
		s.editingItem = false
		s.editIndex = -1
		return nil
	}
	list, err := s.requireActive()
	if err != nil {
		return err
	}
	if _, err := list.ItemAt(index); err != nil {
		return err
	}
	s.editingItem = true
	s.editIndex = index
	return nil
}

// GoHome shows the Home screen and discards an uncommitted new list.
func (s *Session) GoHome() {
	if s.pending {
		s.active = nil
		s.pending = false
	}
	s.editingItem = false
	s.editIndex = -1
	s.screen = ScreenHome
}

// GoList shows the list detail screen.
func (s *Session) GoList() error {
	if _, err := s.requireActive(); err != nil {
		return err
	}
	s.screen = ScreenList
	return nil
}

// GoItem shows the item form screen.
func (s *Session) GoItem() error {
	if _, err := s.requireActive(); err != nil {
		return err
	}
	s.screen = ScreenItem
	return nil
}

// CreateNewList makes a placeholder list the list being edited without adding it to the collection.
func (s *Session) CreateNewList(_ context.Context) (*domain.TodoList, error) {
	name := domain.PlaceholderName(s.placeholderName, func(candidate string) bool {
		return s.nameTaken(candidate, "")
	})
	list, err := domain.NewTodoList(s.idGen(), name, s.placeholderOwner)
	if err != nil {
		return nil, err
	}
	s.active = list
	s.pending = true
	s.resetListState()
	return list.Clone(), nil
}

// LoadList makes the named list the list being edited.
func (s *Session) LoadList(_ context.Context, name string) error {
	idx := s.indexByName(name)
	if idx < 0 {
		return domain.NewNotFoundError("list", strings.TrimSpace(name))
	}
	s.active = s.lists[idx]
	s.pending = false
	s.resetListState()
	return nil
}

// UpdateListName renames the list being edited.
func (s *Session) UpdateListName(ctx context.Context, name string) error {
	list, err := s.requireActive()
	if err != nil {
		return err
	}
	if err := s.checkNameAvailable(name, list.ID); err != nil {
		return err
	}
	previous := list.Name
	if err := list.Rename(name); err != nil {
		return err
	}
	if previous == list.Name && !s.pending {
		return nil
	}
	if err := s.commitPending(ctx); err != nil {
		return err
	}
	return s.record(ctx, list, domain.ChangeOperationRenameList, map[string]string{"from": previous, "to": list.Name})
}

// UpdateListOwner reassigns the list being edited. An empty owner is allowed.
func (s *Session) UpdateListOwner(ctx context.Context, owner string) error {
	list, err := s.requireActive()
	if err != nil {
		return err
	}
	previous := list.Owner
	list.SetOwner(owner)
	if previous == list.Owner && !s.pending {
		return nil
	}
	if err := s.commitPending(ctx); err != nil {
		return err
	}
	return s.record(ctx, list, domain.ChangeOperationSetOwner, map[string]string{"from": previous, "to": list.Owner})
}

// RemoveList deletes the list with id from the collection. Removing the
// uncommitted new list discards it and leaves the collection untouched.
func (s *Session) RemoveList(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if s.pending && s.active != nil && s.active.ID == id {
		s.active = nil
		s.pending = false
		s.resetListState()
		return nil
	}
	idx := slices.IndexFunc(s.lists, func(l *domain.TodoList) bool { return l.ID == id })
	if idx < 0 {
		return domain.NewNotFoundError("list", id)
	}
	removed := s.lists[idx]
	s.lists = slices.Delete(s.lists, idx, idx+1)
	if s.active == removed {
		s.active = nil
		s.resetListState()
	}
	return s.record(ctx, removed, domain.ChangeOperationDeleteList, map[string]string{"items": strconv.Itoa(removed.Len())})
}

// ItemAt returns the item at index i of the list being edited.
func (s *Session) ItemAt(i int) (domain.TodoItem, error) {
	list, err := s.requireActive()
	if err != nil {
		return domain.TodoItem{}, err
	}
	return list.ItemAt(i)
}

// AddItem validates in and appends it to the list being edited.
func (s *Session) AddItem(ctx context.Context, in domain.ItemInput) (int, error) {
	list, err := s.requireActive()
	if err != nil {
		return -1, err
	}
	item, err := domain.NewTodoItem(in)
	if err != nil {
		return -1, err
	}
	idx := list.AddItem(item)
	if err := s.commitPending(ctx); err != nil {
		return idx, err
	}
	return idx, s.record(ctx, list, domain.ChangeOperationAddItem, itemMetadata(idx, item))
}

// UpdateItem validates in and replaces item i of the list being edited in place.
func (s *Session) UpdateItem(ctx context.Context, i int, in domain.ItemInput) error {
	list, err := s.requireActive()
	if err != nil {
		return err
	}
	if _, err := list.ItemAt(i); err != nil {
		return err
	}
	item, err := domain.NewTodoItem(in)
	if err != nil {
		return err
	}
	if err := list.ReplaceItem(i, item); err != nil {
		return err
	}
	return s.record(ctx, list, domain.ChangeOperationUpdateItem, itemMetadata(i, item))
}

// RemoveItem deletes item i of the list being edited.
func (s *Session) RemoveItem(ctx context.Context, i int) error {
	list, err := s.requireActive()
	if err != nil {
		return err
	}
	removed, err := list.RemoveItem(i)
	if err != nil {
		return err
	}
	if s.editingItem {
		s.editingItem = false
		s.editIndex = -1
	}
	return s.record(ctx, list, domain.ChangeOperationRemoveItem, itemMetadata(i, removed))
}

// MoveItemUp swaps item i with its predecessor.
func (s *Session) MoveItemUp(ctx context.Context, i int) error {
	return s.moveItem(ctx, i, domain.MoveUp)
}

// MoveItemDown swaps item i with its successor.
func (s *Session) MoveItemDown(ctx context.Context, i int) error {
	return s.moveItem(ctx, i, domain.MoveDown)
}

func (s *Session) moveItem(ctx context.Context, i int, dir domain.MoveDirection) error {
	list, err := s.requireActive()
	if err != nil {
		return err
	}
	move := list.MoveItemUp
	to := i - 1
	if dir == domain.MoveDown {
		move = list.MoveItemDown
		to = i + 1
	}
	if err := move(i); err != nil {
		return err
	}
	return s.record(ctx, list, domain.ChangeOperationMoveItem, map[string]string{
		"from": strconv.Itoa(i),
		"to":   strconv.Itoa(to),
	})
}

// SortItems orders the list being edited by c and records c as current.
func (s *Session) SortItems(ctx context.Context, c domain.SortCriterion) error {
	list, err := s.requireActive()
	if err != nil {
		return err
	}
	list.SortItems(c)
	s.sort = c
	if s.pending {
		return nil
	}
	return s.record(ctx, list, domain.ChangeOperationSortItems, map[string]string{"criterion": string(c)})
}

// RecentActivity returns up to limit journal entries, newest first. An empty
// listID returns entries for every list.
func (s *Session) RecentActivity(ctx context.Context, listID string, limit int) ([]domain.ChangeEvent, error) {
	if s.journal == nil {
		return nil, nil
	}
	events, err := s.journal.ListChangeEvents(ctx, listID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: list activity: %w", ErrJournal, err)
	}
	return events, nil
}

// requireActive returns the list being edited.
func (s *Session) requireActive() (*domain.TodoList, error) {
	if s.active == nil {
		return nil, ErrNoActiveList
	}
	return s.active, nil
}

// resetListState clears per-list view state after switching lists.
func (s *Session) resetListState() {
	s.editingItem = false
	s.editIndex = -1
	s.sort = domain.SortNone
}

// commitPending appends the uncommitted new list to the collection.
func (s *Session) commitPending(ctx context.Context) error {
	if !s.pending || s.active == nil {
		return nil
	}
	s.lists = append(s.lists, s.active)
	s.pending = false
	return s.record(ctx, s.active, domain.ChangeOperationCreateList, nil)
}

// checkNameAvailable rejects blank names and names used by a list other than exceptID.
func (s *Session) checkNameAvailable(name, exceptID string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.NewValidationError(domain.FieldListName, "list name is required")
	}
	if s.nameTaken(name, exceptID) {
		return domain.NewValidationError(domain.FieldListName, fmt.Sprintf("a list named %q already exists", name))
	}
	return nil
}

// nameTaken compares names case-insensitively.
func (s *Session) nameTaken(name, exceptID string) bool {
	for _, list := range s.lists {
		if list.ID != exceptID && strings.EqualFold(list.Name, name) {
			return true
		}
	}
	return false
}

func (s *Session) indexByName(name string) int {
	name = strings.TrimSpace(name)
	return slices.IndexFunc(s.lists, func(l *domain.TodoList) bool { return l.Name == name })
}

// record appends a journal entry. The in-memory mutation already happened and stands on failure.
func (s *Session) record(ctx context.Context, list *domain.TodoList, op domain.ChangeOperation, meta map[string]string) error {
	if s.journal == nil {
		return nil
	}
	if meta == nil {
		meta = map[string]string{}
	}
	event := domain.ChangeEvent{
		ListID:     list.ID,
		ListName:   list.Name,
		Operation:  op,
		Metadata:   meta,
		OccurredAt: s.clock().UTC(),
	}
	if err := s.journal.AppendChangeEvent(ctx, event); err != nil {
		return fmt.Errorf("%w: record %s: %w", ErrJournal, op, err)
	}
	return nil
}

func itemMetadata(i int, item domain.TodoItem) map[string]string {
	return map[string]string{
		"index":       strconv.Itoa(i),
		"description": item.Description,
	}
}
