package tui

import (
	"charm.land/bubbles/v2/key"
	"github.com/evanschultz/todolist/internal/app"
)

// keyMap represents key map data used by this package.
type keyMap struct {
	quit       key.Binding
	toggleHelp key.Binding
	moveUp     key.Binding
	moveDown   key.Binding
	activity   key.Binding

	newList  key.Binding
	openList key.Binding

	editItem     key.Binding
	addItem      key.Binding
	itemUp       key.Binding
	itemDown     key.Binding
	deleteItem   key.Binding
	sortTask     key.Binding
	sortStatus   key.Binding
	sortDueDate  key.Binding
	renameList   key.Binding
	editOwner    key.Binding
	trashList    key.Binding
	copyMarkdown key.Binding
	preview      key.Binding
	home         key.Binding

	nextField      key.Binding
	prevField      key.Binding
	toggleComplete key.Binding
	submit         key.Binding
	cancel         key.Binding

	confirm key.Binding
	decline key.Binding
}

// newKeyMap constructs key map.
func newKeyMap() keyMap {
	return keyMap{
		quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		toggleHelp: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		moveUp:     key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		moveDown:   key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		activity:   key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "activity log")),

		newList:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new list")),
		openList: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open list")),

		editItem:     key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e/enter", "edit item")),
		addItem:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add item")),
		itemUp:       key.NewBinding(key.WithKeys("K", "shift+k"), key.WithHelp("K", "move item up")),
		itemDown:     key.NewBinding(key.WithKeys("J", "shift+j"), key.WithHelp("J", "move item down")),
		deleteItem:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete item")),
		sortTask:     key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "sort task")),
		sortStatus:   key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "sort status")),
		sortDueDate:  key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "sort due date")),
		renameList:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rename")),
		editOwner:    key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "owner")),
		trashList:    key.NewBinding(key.WithKeys("D", "shift+d"), key.WithHelp("D", "delete list")),
		copyMarkdown: key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy markdown")),
		preview:      key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "preview")),
		home:         key.NewBinding(key.WithKeys("esc", "h"), key.WithHelp("esc/h", "home")),

		nextField:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		prevField:      key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
		toggleComplete: key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "toggle completed")),
		submit:         key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		cancel:         key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),

		confirm: key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "delete")),
		decline: key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n/esc", "keep")),
	}
}

// screenKeys is the help.KeyMap for one screen.
type screenKeys struct {
	keys   keyMap
	screen app.Screen
	dialog bool
}

// ShortHelp handles short help.
func (s screenKeys) ShortHelp() []key.Binding {
	k := s.keys
	if s.dialog {
		return []key.Binding{k.confirm, k.decline}
	}
	switch s.screen {
	case app.ScreenList:
		return []key.Binding{k.editItem, k.addItem, k.itemUp, k.itemDown, k.deleteItem, k.renameList, k.home, k.toggleHelp}
	case app.ScreenItem:
		return []key.Binding{k.nextField, k.toggleComplete, k.submit, k.cancel}
	default:
		return []key.Binding{k.newList, k.openList, k.activity, k.toggleHelp, k.quit}
	}
}

// FullHelp handles full help.
func (s screenKeys) FullHelp() [][]key.Binding {
	k := s.keys
	if s.dialog {
		return [][]key.Binding{{k.confirm, k.decline}}
	}
	switch s.screen {
	case app.ScreenList:
		return [][]key.Binding{
			{k.moveUp, k.moveDown, k.editItem, k.addItem, k.deleteItem},
			{k.itemUp, k.itemDown, k.sortTask, k.sortStatus, k.sortDueDate},
			{k.renameList, k.editOwner, k.trashList, k.copyMarkdown, k.preview},
			{k.activity, k.home, k.toggleHelp, k.quit},
		}
	case app.ScreenItem:
		return [][]key.Binding{{k.nextField, k.prevField, k.toggleComplete, k.submit, k.cancel}}
	default:
		return [][]key.Binding{
			{k.moveUp, k.moveDown, k.newList, k.openList},
			{k.activity, k.toggleHelp, k.quit},
		}
	}
}
