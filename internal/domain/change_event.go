package domain

import "time"

// ChangeOperation describes a recorded activity operation on a list.
type ChangeOperation string

// ChangeOperation values used by the session activity journal.
const (
	ChangeOperationCreateList ChangeOperation = "create_list"
	ChangeOperationRenameList ChangeOperation = "rename_list"
	ChangeOperationSetOwner   ChangeOperation = "set_owner"
	ChangeOperationDeleteList ChangeOperation = "delete_list"
	ChangeOperationAddItem    ChangeOperation = "add_item"
	ChangeOperationUpdateItem ChangeOperation = "update_item"
	ChangeOperationRemoveItem ChangeOperation = "remove_item"
	ChangeOperationMoveItem   ChangeOperation = "move_item"
	ChangeOperationSortItems  ChangeOperation = "sort_items"
)

// ChangeEvent represents a single activity-log entry for a list.
type ChangeEvent struct {
	ID         int64
	ListID     string
	ListName   string
	Operation  ChangeOperation
	Metadata   map[string]string
	OccurredAt time.Time
}
