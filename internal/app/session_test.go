package app

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/evanschultz/todolist/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeJournal struct {
	events []domain.ChangeEvent
	err    error
}

func (f *fakeJournal) AppendChangeEvent(_ context.Context, event domain.ChangeEvent) error {
	if f.err != nil {
		return f.err
	}
	event.ID = int64(len(f.events) + 1)
	f.events = append(f.events, event)
	return nil
}

func (f *fakeJournal) ListChangeEvents(_ context.Context, listID string, limit int) ([]domain.ChangeEvent, error) {
	out := make([]domain.ChangeEvent, 0, len(f.events))
	for i := len(f.events) - 1; i >= 0; i-- {
		if listID != "" && f.events[i].ListID != listID {
			continue
		}
		out = append(out, f.events[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeJournal) operations() []domain.ChangeOperation {
	out := make([]domain.ChangeOperation, 0, len(f.events))
	for _, event := range f.events {
		out = append(out, event.Operation)
	}
	return out
}

func newTestSession(t *testing.T) (*Session, *fakeJournal) {
	t.Helper()
	journal := &fakeJournal{}
	var n int
	idGen := func() string {
		n++
		return "l" + strconv.Itoa(n)
	}
	now := time.Date(2026, 2, 21, 12, 0, 0, 0, time.UTC)
	return NewSession(journal, idGen, func() time.Time { return now }, SessionConfig{
		PlaceholderName:  "Untitled",
		PlaceholderOwner: "Unknown",
	}), journal
}

func listNames(lists []*domain.TodoList) []string {
	out := make([]string, 0, len(lists))
	for _, list := range lists {
		out = append(out, list.Name)
	}
	return out
}

func itemNames(t *testing.T, s *Session) []string {
	t.Helper()
	list, ok := s.ListToEdit()
	require.True(t, ok)
	out := make([]string, 0, list.Len())
	for _, item := range list.Items {
		out = append(out, item.Description)
	}
	return out
}

func seedGroceries(t *testing.T, s *Session) {
	t.Helper()
	ctx := context.Background()
	list, err := domain.NewTodoList("groceries", "Groceries", "")
	require.NoError(t, err)
	for _, in := range []domain.ItemInput{
		{Description: "Milk", DueDate: "2024-01-01"},
		{Description: "Eggs", DueDate: "2024-01-02"},
	} {
		item, err := domain.NewTodoItem(in)
		require.NoError(t, err)
		list.AddItem(item)
	}
	require.NoError(t, s.Seed(ctx, []*domain.TodoList{list}))
}

func TestNewSessionStartsHome(t *testing.T) {
	s, _ := newTestSession(t)
	assert.Equal(t, ScreenHome, s.Screen())
	assert.Empty(t, s.Lists())
	assert.Equal(t, domain.SortNone, s.SortCriterion())
	assert.False(t, s.IsEditingItem())
	assert.Equal(t, -1, s.EditingIndex())
	_, ok := s.ListToEdit()
	assert.False(t, ok)
	assert.ErrorIs(t, s.GoList(), ErrNoActiveList)
}

func TestCreateThenDeleteRestoresCollection(t *testing.T) {
	ctx := context.Background()
	s, journal := newTestSession(t)
	seedGroceries(t, s)
	before := listNames(s.Lists())
	eventsBefore := len(journal.events)

	created, err := s.CreateNewList(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Untitled", created.Name)
	assert.Equal(t, "Unknown", created.Owner)
	assert.True(t, s.IsPending())
	assert.Equal(t, before, listNames(s.Lists()))

	require.NoError(t, s.RemoveList(ctx, created.ID))
	assert.Equal(t, before, listNames(s.Lists()))
	assert.Len(t, journal.events, eventsBefore)
	_, ok := s.ListToEdit()
	assert.False(t, ok)
}

func TestGoHomeDiscardsPendingList(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSession(t)
	_, err := s.CreateNewList(ctx)
	require.NoError(t, err)
	require.NoError(t, s.GoList())
	s.GoHome()
	assert.Empty(t, s.Lists())
	assert.False(t, s.IsPending())
	assert.Equal(t, ScreenHome, s.Screen())
}

func TestPendingListCommitsOnFirstMutation(t *testing.T) {
	ctx := context.Background()
	s, journal := newTestSession(t)

	_, err := s.CreateNewList(ctx)
	require.NoError(t, err)
	require.NoError(t, s.UpdateListOwner(ctx, "Ann"))
	assert.False(t, s.IsPending())
	assert.Equal(t, []string{"Untitled"}, listNames(s.Lists()))

	_, err = s.CreateNewList(ctx)
	require.NoError(t, err)
	list, _ := s.ListToEdit()
	assert.Equal(t, "Untitled 2", list.Name)
	_, err = s.AddItem(ctx, domain.ItemInput{Description: "Call plumber"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Untitled", "Untitled 2"}, listNames(s.Lists()))

	assert.Equal(t, []domain.ChangeOperation{
		domain.ChangeOperationCreateList,
		domain.ChangeOperationSetOwner,
		domain.ChangeOperationCreateList,
		domain.ChangeOperationAddItem,
	}, journal.operations())
}

func TestLoadListUnknownNameIsNotFound(t *testing.T) {
	s, _ := newTestSession(t)
	seedGroceries(t, s)
	err := s.LoadList(context.Background(), "Hardware")
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Hardware", nf.Key)
	_, ok := s.ListToEdit()
	assert.False(t, ok)
}

func TestUpdateListNameValidation(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSession(t)
	seedGroceries(t, s)
	_, err := s.CreateNewList(ctx)
	require.NoError(t, err)

	err = s.UpdateListName(ctx, "groceries")
	assert.ErrorIs(t, err, domain.ErrValidation)
	err = s.UpdateListName(ctx, "   ")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.True(t, s.IsPending())

	require.NoError(t, s.UpdateListName(ctx, "Hardware"))
	assert.Equal(t, []string{"Groceries", "Hardware"}, listNames(s.Lists()))

	require.NoError(t, s.LoadList(ctx, "Groceries"))
	require.NoError(t, s.UpdateListName(ctx, "Groceries"))
	assert.ErrorIs(t, s.UpdateListName(ctx, "Hardware"), domain.ErrValidation)
	list, _ := s.ListToEdit()
	assert.Equal(t, "Groceries", list.Name)
}

func TestAddAndUpdateItemModes(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSession(t)
	seedGroceries(t, s)
	require.NoError(t, s.LoadList(ctx, "Groceries"))

	idx, err := s.AddItem(ctx, domain.ItemInput{Description: "Bread", AssignedTo: "Bo", DueDate: "2024-01-03"})
	require.NoError(t, err)
	assert.Equal(t, 2, idx)
	assert.Equal(t, []string{"Milk", "Eggs", "Bread"}, itemNames(t, s))

	require.NoError(t, s.SetIsEditingItem(true, 0))
	assert.Equal(t, 0, s.EditingIndex())
	require.NoError(t, s.UpdateItem(ctx, s.EditingIndex(), domain.ItemInput{Description: "Oat milk", Completed: true}))
	assert.Equal(t, []string{"Oat milk", "Eggs", "Bread"}, itemNames(t, s))
	item, err := s.ItemAt(0)
	require.NoError(t, err)
	assert.True(t, item.Completed)
	assert.Equal(t, "", item.DueDateString())

	assert.ErrorIs(t, s.SetIsEditingItem(true, 9), domain.ErrNotFound)
	_, err = s.AddItem(ctx, domain.ItemInput{Description: "Jam", DueDate: "tomorrow"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Len(t, itemNames(t, s), 3)
}

func TestRemoveItemAndList(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSession(t)
	seedGroceries(t, s)
	other, err := domain.NewTodoList("chores", "Chores", "Ann")
	require.NoError(t, err)
	require.NoError(t, s.Seed(ctx, []*domain.TodoList{other}))

	require.NoError(t, s.LoadList(ctx, "Groceries"))
	require.NoError(t, s.RemoveItem(ctx, 0))
	assert.Equal(t, []string{"Eggs"}, itemNames(t, s))
	assert.ErrorIs(t, s.RemoveItem(ctx, 3), domain.ErrNotFound)

	require.NoError(t, s.RemoveList(ctx, "groceries"))
	assert.Equal(t, []string{"Chores"}, listNames(s.Lists()))
	assert.Equal(t, "Ann", s.Lists()[0].Owner)
	assert.ErrorIs(t, s.RemoveList(ctx, "groceries"), domain.ErrNotFound)
}

func TestMoveItemsAndBoundaries(t *testing.T) {
	ctx := context.Background()
	s, journal := newTestSession(t)
	seedGroceries(t, s)
	require.NoError(t, s.LoadList(ctx, "Groceries"))

	require.NoError(t, s.MoveItemDown(ctx, 0))
	assert.Equal(t, []string{"Eggs", "Milk"}, itemNames(t, s))
	last := journal.events[len(journal.events)-1]
	assert.Equal(t, domain.ChangeOperationMoveItem, last.Operation)
	assert.Equal(t, "1", last.Metadata["to"])

	count := len(journal.events)
	assert.ErrorIs(t, s.MoveItemUp(ctx, 0), domain.ErrIndexBoundary)
	assert.ErrorIs(t, s.MoveItemDown(ctx, 1), domain.ErrIndexBoundary)
	assert.Equal(t, []string{"Eggs", "Milk"}, itemNames(t, s))
	assert.Len(t, journal.events, count)
}

func TestSortItemsRecordsCriterionAndResetsOnLoad(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSession(t)
	seedGroceries(t, s)
	require.NoError(t, s.LoadList(ctx, "Groceries"))

	require.NoError(t, s.SortItems(ctx, domain.SortByDueDateDesc))
	assert.True(t, s.IsCurrentItemSortCriterion(domain.SortByDueDateDesc))
	assert.Equal(t, []string{"Eggs", "Milk"}, itemNames(t, s))

	require.NoError(t, s.LoadList(ctx, "Groceries"))
	assert.Equal(t, domain.SortNone, s.SortCriterion())
}

func TestJournalFailureKeepsMutation(t *testing.T) {
	ctx := context.Background()
	s, journal := newTestSession(t)
	seedGroceries(t, s)
	require.NoError(t, s.LoadList(ctx, "Groceries"))
	journal.err = errors.New("disk gone")

	_, err := s.AddItem(ctx, domain.ItemInput{Description: "Bread"})
	require.ErrorIs(t, err, ErrJournal)
	assert.Contains(t, err.Error(), "record add_item")
	assert.Equal(t, []string{"Milk", "Eggs", "Bread"}, itemNames(t, s))
}

func TestRecentActivityFiltersByList(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSession(t)
	seedGroceries(t, s)
	require.NoError(t, s.LoadList(ctx, "Groceries"))
	require.NoError(t, s.UpdateListOwner(ctx, "Bo"))
	_, err := s.CreateNewList(ctx)
	require.NoError(t, err)
	require.NoError(t, s.UpdateListName(ctx, "Hardware"))

	events, err := s.RecentActivity(ctx, "groceries", 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, domain.ChangeOperationSetOwner, events[0].Operation)
	assert.Equal(t, "Bo", events[0].Metadata["to"])

	all, err := s.RecentActivity(ctx, "", 2)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, domain.ChangeOperationRenameList, all[0].Operation)
	assert.Equal(t, "Hardware", all[0].ListName)
}

func TestSeedRejectsDuplicateNames(t *testing.T) {
	s, _ := newTestSession(t)
	a, err := domain.NewTodoList("a", "Work", "")
	require.NoError(t, err)
	b, err := domain.NewTodoList("b", "work", "")
	require.NoError(t, err)
	err = s.Seed(context.Background(), []*domain.TodoList{a, b})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, []string{"Work"}, listNames(s.Lists()))
}

func TestNilJournalDisablesRecording(t *testing.T) {
	ctx := context.Background()
	s := NewSession(nil, nil, nil, SessionConfig{})
	created, err := s.CreateNewList(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Untitled", created.Name)
	assert.Equal(t, "list-1", created.ID)
	_, err = s.AddItem(ctx, domain.ItemInput{Description: "x"})
	require.NoError(t, err)
	events, err := s.RecentActivity(ctx, "", 10)
	require.NoError(t, err)
	assert.Empty(t, events)
}
