package controller

import (
	"context"
	"fmt"

	"github.com/evanschultz/todolist/internal/app"
	"github.com/evanschultz/todolist/internal/domain"
)

func (c *Controller) createNewList(ctx context.Context, _ Event) (Propagation, error) {
	if _, err := c.session.CreateNewList(ctx); err != nil {
		return Stop, err
	}
	return Stop, c.showList()
}

func (c *Controller) editList(ctx context.Context, ev Event) (Propagation, error) {
	if err := c.session.LoadList(ctx, ev.Value); err != nil {
		return Stop, err
	}
	return Stop, c.showList()
}

func (c *Controller) goHome(_ context.Context, _ Event) (Propagation, error) {
	c.session.GoHome()
	c.showHome()
	return Stop, nil
}

func (c *Controller) deleteList(_ context.Context, _ Event) (Propagation, error) {
	c.modal = ModalConfirmDelete
	c.view.ShowDialog()
	return Stop, nil
}

func (c *Controller) confirmDeleteList(ctx context.Context, _ Event) (Propagation, error) {
	c.hideDialog()
	list, ok := c.session.ListToEdit()
	if !ok {
		return Stop, app.ErrNoActiveList
	}
	if err := c.absorbJournal(c.session.RemoveList(ctx, list.ID)); err != nil {
		return Stop, err
	}
	c.session.GoHome()
	c.showHome()
	c.view.ShowMessage(fmt.Sprintf("deleted %q", list.Name))
	return Stop, nil
}

func (c *Controller) cancelDeleteList(_ context.Context, _ Event) (Propagation, error) {
	c.hideDialog()
	return Stop, nil
}

func (c *Controller) changeName(ctx context.Context, ev Event) (Propagation, error) {
	if err := c.absorbJournal(c.session.UpdateListName(ctx, ev.Value)); err != nil {
		return Stop, err
	}
	return Stop, c.refreshList()
}

func (c *Controller) changeOwner(ctx context.Context, ev Event) (Propagation, error) {
	if err := c.absorbJournal(c.session.UpdateListOwner(ctx, ev.Value)); err != nil {
		return Stop, err
	}
	return Stop, c.refreshList()
}

func (c *Controller) addItem(_ context.Context, _ Event) (Propagation, error) {
	if err := c.session.SetIsEditingItem(false, -1); err != nil {
		return Stop, err
	}
	if err := c.session.GoItem(); err != nil {
		return Stop, err
	}
	c.view.FillItemForm(c.newItem, false)
	c.view.ShowScreen(app.ScreenItem)
	return Stop, nil
}

func (c *Controller) editItem(_ context.Context, ev Event) (Propagation, error) {
	item, err := c.session.ItemAt(ev.Row)
	if err != nil {
		return Stop, err
	}
	if err := c.session.SetIsEditingItem(true, ev.Row); err != nil {
		return Stop, err
	}
	if err := c.session.GoItem(); err != nil {
		return Stop, err
	}
	c.view.FillItemForm(item.Input(), true)
	c.view.ShowScreen(app.ScreenItem)
	return Stop, nil
}

// Row action buttons always stop propagation so the row's editor never opens
// in the same interaction.

func (c *Controller) moveItemUp(ctx context.Context, ev Event) (Propagation, error) {
	if err := c.absorbJournal(c.session.MoveItemUp(ctx, ev.Row)); err != nil {
		return Stop, err
	}
	return Stop, c.refreshList()
}

func (c *Controller) moveItemDown(ctx context.Context, ev Event) (Propagation, error) {
	if err := c.absorbJournal(c.session.MoveItemDown(ctx, ev.Row)); err != nil {
		return Stop, err
	}
	return Stop, c.refreshList()
}

func (c *Controller) deleteItem(ctx context.Context, ev Event) (Propagation, error) {
	if err := c.absorbJournal(c.session.RemoveItem(ctx, ev.Row)); err != nil {
		return Stop, err
	}
	return Stop, c.refreshList()
}

func (c *Controller) sortBy(field domain.SortField) Handler {
	return func(ctx context.Context, _ Event) (Propagation, error) {
		next, err := c.session.SortCriterion().Toggle(field)
		if err != nil {
			return Stop, err
		}
		if err := c.absorbJournal(c.session.SortItems(ctx, next)); err != nil {
			return Stop, err
		}
		return Stop, c.refreshList()
	}
}

// submitItem creates or updates per the item-edit mode flag. A rejected form
// stays open with its values intact.
func (c *Controller) submitItem(ctx context.Context, ev Event) (Propagation, error) {
	var err error
	if c.session.IsEditingItem() {
		err = c.session.UpdateItem(ctx, c.session.EditingIndex(), ev.Form)
	} else {
		_, err = c.session.AddItem(ctx, ev.Form)
	}
	if err := c.absorbJournal(err); err != nil {
		return Stop, err
	}
	return c.closeItemForm()
}

func (c *Controller) cancelItem(_ context.Context, _ Event) (Propagation, error) {
	return c.closeItemForm()
}

func (c *Controller) showActivity(ctx context.Context, _ Event) (Propagation, error) {
	listID := ""
	if c.session.Screen() == app.ScreenList {
		if list, ok := c.session.ListToEdit(); ok {
			listID = list.ID
		}
	}
	events, err := c.session.RecentActivity(ctx, listID, c.activityLimit)
	if err != nil {
		return Stop, err
	}
	c.view.ShowActivity(events)
	return Stop, nil
}

func (c *Controller) closeItemForm() (Propagation, error) {
	c.view.ClearItemForm()
	if err := c.session.SetIsEditingItem(false, -1); err != nil {
		return Stop, err
	}
	return Stop, c.showList()
}

func (c *Controller) hideDialog() {
	c.modal = ModalHidden
	c.view.HideDialog()
}

// showList moves to the list screen and renders the list being edited.
func (c *Controller) showList() error {
	if err := c.session.GoList(); err != nil {
		return err
	}
	if err := c.refreshList(); err != nil {
		return err
	}
	c.view.ShowScreen(app.ScreenList)
	return nil
}

// refreshList re-renders the list being edited and rebinds every row.
func (c *Controller) refreshList() error {
	list, ok := c.session.ListToEdit()
	if !ok {
		return app.ErrNoActiveList
	}
	rows := make([]RowActions, list.Len())
	for i := range rows {
		rows[i] = c.BindRow(i)
	}
	c.view.LoadListData(list, c.session.SortCriterion(), rows)
	return nil
}

func (c *Controller) showHome() {
	c.view.LoadHome(c.session.Lists())
	c.view.ShowScreen(app.ScreenHome)
}
