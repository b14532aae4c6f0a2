package controller

import "github.com/evanschultz/todolist/internal/domain"

// ControlID names a control that can raise UI events.
type ControlID string

// Controls present at startup and the per-row controls bound at render time.
const (
	ControlHomeNewList    ControlID = "home_new_list_button"
	ControlHomeListLink   ControlID = "home_list_link"
	ControlListHeading    ControlID = "list_heading"
	ControlListTrash      ControlID = "list_trash"
	ControlListNameField  ControlID = "list_name_textfield"
	ControlListOwnerField ControlID = "list_owner_textfield"
	ControlAddItem        ControlID = "add_item_button"
	ControlSortTask       ControlID = "sort_task_header"
	ControlSortStatus     ControlID = "sort_status_header"
	ControlSortDueDate    ControlID = "sort_due_date_header"
	ControlItemRow        ControlID = "item_row"
	ControlRowMoveUp      ControlID = "row_move_up_button"
	ControlRowMoveDown    ControlID = "row_move_down_button"
	ControlRowDelete      ControlID = "row_delete_button"
	ControlItemSubmit     ControlID = "item_form_submit_button"
	ControlItemCancel     ControlID = "item_form_cancel_button"
	ControlModalYes       ControlID = "modal_yes_button"
	ControlModalNo        ControlID = "modal_no_button"
	ControlActivityLog    ControlID = "activity_log_button"
)

// EventKind is the kind of raw UI event.
type EventKind string

// EventClick and EventKeyUp are the event kinds the controller responds to.
const (
	EventClick EventKind = "click"
	EventKeyUp EventKind = "keyup"
)

// Event is one raw UI event on one control.
type Event struct {
	Control ControlID
	Kind    EventKind
	// Row is the item index a per-row control was bound to.
	Row int
	// Value carries a text field's contents or a home link's list name.
	Value string
	// Form carries the item form's fields on submit.
	Form domain.ItemInput
}

// Interaction is the path one user action travels, innermost control first.
type Interaction struct {
	Path []Event
}

// Click builds a click on a single control.
func Click(control ControlID) Interaction {
	return Interaction{Path: []Event{{Control: control, Kind: EventClick}}}
}

// OpenList builds a click on the home link for the named list.
func OpenList(name string) Interaction {
	return Interaction{Path: []Event{{Control: ControlHomeListLink, Kind: EventClick, Value: name}}}
}

// KeyUp builds a key-up on a text field holding value.
func KeyUp(control ControlID, value string) Interaction {
	return Interaction{Path: []Event{{Control: control, Kind: EventKeyUp, Value: value}}}
}

// Submit builds a click on the item form's submit button.
func Submit(form domain.ItemInput) Interaction {
	return Interaction{Path: []Event{{Control: ControlItemSubmit, Kind: EventClick, Form: form}}}
}

// rowClick builds a click on a per-row control. Action buttons sit inside the
// row, so the event continues to the row unless a handler stops it.
func rowClick(control ControlID, row int) Interaction {
	path := []Event{{Control: control, Kind: EventClick, Row: row}}
	if control != ControlItemRow {
		path = append(path, Event{Control: ControlItemRow, Kind: EventClick, Row: row})
	}
	return Interaction{Path: path}
}
