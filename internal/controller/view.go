package controller

import (
	"context"

	"github.com/evanschultz/todolist/internal/app"
	"github.com/evanschultz/todolist/internal/domain"
)

// View renders state handed to it and otherwise stays passive.
type View interface {
	ShowScreen(app.Screen)
	LoadHome(lists []*domain.TodoList)
	LoadListData(list *domain.TodoList, sort domain.SortCriterion, rows []RowActions)
	FillItemForm(form domain.ItemInput, editing bool)
	ClearItemForm()
	ShowDialog()
	HideDialog()
	ShowActivity(events []domain.ChangeEvent)
	ShowMessage(msg string)
	ShowError(err error)
}

// RowActions are the handlers bound to one rendered item row. Each closure
// holds the row index it was bound with.
type RowActions struct {
	Index    int
	Open     func(context.Context) error
	MoveUp   func(context.Context) error
	MoveDown func(context.Context) error
	Delete   func(context.Context) error
}

// BindRow binds the per-row handlers for item row i.
func (c *Controller) BindRow(i int) RowActions {
	row := i
	dispatch := func(control ControlID) func(context.Context) error {
		return func(ctx context.Context) error {
			return c.Dispatch(ctx, rowClick(control, row))
		}
	}
	return RowActions{
		Index:    row,
		Open:     dispatch(ControlItemRow),
		MoveUp:   dispatch(ControlRowMoveUp),
		MoveDown: dispatch(ControlRowMoveDown),
		Delete:   dispatch(ControlRowDelete),
	}
}
