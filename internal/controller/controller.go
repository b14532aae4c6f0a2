// Package controller maps UI events onto session mutations and tells the view what to render.
package controller

import (
	"context"
	"errors"
	"io"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/evanschultz/todolist/internal/app"
	"github.com/evanschultz/todolist/internal/domain"
)

// Modal is the state of the delete-confirmation overlay.
type Modal int

// ModalHidden and ModalConfirmDelete are the overlay states.
const (
	ModalHidden Modal = iota
	ModalConfirmDelete
)

// Propagation tells Dispatch whether an event continues to the enclosing control.
type Propagation int

// Continue and Stop control event bubbling.
const (
	Continue Propagation = iota
	Stop
)

// Handler responds to one event.
type Handler func(context.Context, Event) (Propagation, error)

// handlerKey indexes the dispatch table.
type handlerKey struct {
	control ControlID
	kind    EventKind
}

// route is one dispatch-table entry.
type route struct {
	handle  Handler
	screens []app.Screen
	modal   bool
}

// defaultActivityLimit bounds the activity log when no option sets it.
const defaultActivityLimit = 20

// Controller owns the session and the screen/modal state machine.
type Controller struct {
	session       *app.Session
	view          View
	logger        *log.Logger
	routes        map[handlerKey]route
	modal         Modal
	newItem       domain.ItemInput
	activityLimit int
}

// New constructs a controller and builds its dispatch table.
func New(session *app.Session, view View, opts ...Option) *Controller {
	c := &Controller{
		session:       session,
		view:          view,
		logger:        log.New(io.Discard),
		modal:         ModalHidden,
		newItem:       domain.ItemInput{Description: "Unknown", AssignedTo: "Unknown"},
		activityLimit: defaultActivityLimit,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	c.routes = c.buildRoutes()
	return c
}

// buildRoutes is the full event-to-handler mapping. Every control is bound
// here once, together with the screens on which it is live.
func (c *Controller) buildRoutes() map[handlerKey]route {
	home := []app.Screen{app.ScreenHome}
	list := []app.Screen{app.ScreenList}
	item := []app.Screen{app.ScreenItem}
	homeOrList := []app.Screen{app.ScreenHome, app.ScreenList}

	return map[handlerKey]route{
		{ControlHomeNewList, EventClick}:    {handle: c.createNewList, screens: home},
		{ControlHomeListLink, EventClick}:   {handle: c.editList, screens: home},
		{ControlListHeading, EventClick}:    {handle: c.goHome, screens: list},
		{ControlListTrash, EventClick}:      {handle: c.deleteList, screens: list},
		{ControlListNameField, EventKeyUp}:  {handle: c.changeName, screens: list},
		{ControlListOwnerField, EventKeyUp}: {handle: c.changeOwner, screens: list},
		{ControlAddItem, EventClick}:        {handle: c.addItem, screens: list},
		{ControlSortTask, EventClick}:       {handle: c.sortBy(domain.SortFieldTask), screens: list},
		{ControlSortStatus, EventClick}:     {handle: c.sortBy(domain.SortFieldStatus), screens: list},
		{ControlSortDueDate, EventClick}:    {handle: c.sortBy(domain.SortFieldDueDate), screens: list},
		{ControlItemRow, EventClick}:        {handle: c.editItem, screens: list},
		{ControlRowMoveUp, EventClick}:      {handle: c.moveItemUp, screens: list},
		{ControlRowMoveDown, EventClick}:    {handle: c.moveItemDown, screens: list},
		{ControlRowDelete, EventClick}:      {handle: c.deleteItem, screens: list},
		{ControlItemSubmit, EventClick}:     {handle: c.submitItem, screens: item},
		{ControlItemCancel, EventClick}:     {handle: c.cancelItem, screens: item},
		{ControlModalYes, EventClick}:       {handle: c.confirmDeleteList, screens: list, modal: true},
		{ControlModalNo, EventClick}:        {handle: c.cancelDeleteList, screens: list, modal: true},
		{ControlActivityLog, EventClick}:    {handle: c.showActivity, screens: homeOrList},
	}
}

// Start renders the initial Home screen.
func (c *Controller) Start(_ context.Context) {
	c.view.LoadHome(c.session.Lists())
	c.view.ShowScreen(c.session.Screen())
}

// Screen returns the current screen.
func (c *Controller) Screen() app.Screen {
	return c.session.Screen()
}

// Modal returns the overlay state.
func (c *Controller) Modal() Modal {
	return c.modal
}

// Handle dispatches a single-event interaction.
func (c *Controller) Handle(ctx context.Context, ev Event) error {
	return c.Dispatch(ctx, Interaction{Path: []Event{ev}})
}

// Dispatch runs the handlers along the interaction path, innermost first,
// until one stops propagation. While the confirm dialog is up only the
// dialog's own controls respond. Errors are reported to the view here; the
// returned error is informational and the session is never left half-mutated.
func (c *Controller) Dispatch(ctx context.Context, in Interaction) error {
	for _, ev := range in.Path {
		r, ok := c.routes[handlerKey{ev.Control, ev.Kind}]
		if !ok {
			continue
		}
		if (c.modal == ModalConfirmDelete) != r.modal {
			c.logger.Debug("event ignored", "control", ev.Control, "kind", ev.Kind, "modal", c.modal)
			return nil
		}
		if !slices.Contains(r.screens, c.session.Screen()) {
			c.logger.Debug("event ignored off screen", "control", ev.Control, "screen", c.session.Screen())
			continue
		}
		c.logger.Debug("dispatch", "control", ev.Control, "kind", ev.Kind, "row", ev.Row)
		prop, err := r.handle(ctx, ev)
		if err != nil {
			return c.fail(err)
		}
		if prop == Stop {
			return nil
		}
	}
	return nil
}

// fail reports err to the view. A reorder at the edge of the list is a
// no-op rather than a failure.
func (c *Controller) fail(err error) error {
	if errors.Is(err, domain.ErrIndexBoundary) {
		c.logger.Debug("reorder ignored", "err", err)
		c.view.ShowMessage("item is already at the edge of the list")
		return nil
	}
	c.logger.Warn("interaction failed", "err", err)
	c.view.ShowError(err)
	return err
}

// absorbJournal keeps a journal failure from blocking a mutation that already happened.
func (c *Controller) absorbJournal(err error) error {
	if err == nil || !errors.Is(err, app.ErrJournal) {
		return err
	}
	c.logger.Warn("activity not recorded", "err", err)
	return nil
}
