// Package tui is the terminal view: it draws what the controller hands it and
// forwards key presses as controller interactions.
package tui

import (
	"context"
	"fmt"
	"image/color"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/atotto/clipboard"
	"github.com/evanschultz/todolist/internal/app"
	"github.com/evanschultz/todolist/internal/controller"
	"github.com/evanschultz/todolist/internal/render"
)

// Model is the bubbletea program model.
type Model struct {
	ctrl *controller.Controller
	view *viewState

	keys          keyMap
	help          help.Model
	renderer      *render.Terminal
	clipboard     func(string) error
	accent        color.Color
	showCompleted bool
	ctrlOpts      []controller.Option

	width     int
	height    int
	homeIndex int
	rowIndex  int
	preview   bool
}

// clipboardMsg reports the result of a markdown copy.
type clipboardMsg struct {
	name string
	err  error
}

// NewModel builds the view, wires it to a controller over session and renders Home.
func NewModel(session *app.Session, opts ...Option) Model {
	h := help.New()
	h.ShowAll = false
	m := Model{
		view:          newViewState(),
		keys:          newKeyMap(),
		help:          h,
		renderer:      render.NewTerminal("dark"),
		clipboard:     clipboard.WriteAll,
		accent:        lipgloss.Color("62"),
		showCompleted: true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	m.ctrl = controller.New(session, m.view, m.ctrlOpts...)
	m.ctrl.Start(context.Background())
	return m
}

// WithControllerOptions passes options through to the controller.
func WithControllerOptions(opts ...controller.Option) Option {
	return func(m *Model) {
		m.ctrlOpts = append(m.ctrlOpts, opts...)
	}
}

// Init handles init.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update updates state for the requested operation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case clipboardMsg:
		if msg.err != nil {
			m.view.ShowError(fmt.Errorf("copy markdown: %w", msg.err))
			return m, nil
		}
		m.view.ShowMessage(fmt.Sprintf("copied %q as markdown", msg.name))
		return m, nil

	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		m.view.clearStatus()
		var cmd tea.Cmd
		switch {
		case m.view.activityOpen:
			m.handleActivityKey(msg)
		case m.ctrl.Modal() == controller.ModalConfirmDelete:
			m.handleDialogKey(msg)
		case m.view.screen == app.ScreenItem:
			m.handleItemKey(msg)
		case m.view.screen == app.ScreenList:
			m, cmd = m.handleListKey(msg)
		default:
			m, cmd = m.handleHomeKey(msg)
		}
		m.clampSelections()
		return m, cmd

	default:
		return m, nil
	}
}

// View handles view.
func (m Model) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

// dispatch forwards an interaction. Failures already reached the view via ShowError.
func (m Model) dispatch(in controller.Interaction) {
	_ = m.ctrl.Dispatch(context.Background(), in)
}

func (m *Model) handleActivityKey(msg tea.KeyPressMsg) {
	switch {
	case key.Matches(msg, m.keys.cancel), key.Matches(msg, m.keys.activity), key.Matches(msg, m.keys.quit):
		m.view.activityOpen = false
	}
}

func (m *Model) handleDialogKey(msg tea.KeyPressMsg) {
	switch {
	case key.Matches(msg, m.keys.confirm):
		m.dispatch(controller.Click(controller.ControlModalYes))
		m.preview = false
	case key.Matches(msg, m.keys.decline):
		m.dispatch(controller.Click(controller.ControlModalNo))
	}
}

func (m Model) handleHomeKey(msg tea.KeyPressMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.toggleHelp):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.moveUp):
		m.homeIndex--
	case key.Matches(msg, m.keys.moveDown):
		m.homeIndex++
	case key.Matches(msg, m.keys.newList):
		m.rowIndex = 0
		m.dispatch(controller.Click(controller.ControlHomeNewList))
	case key.Matches(msg, m.keys.openList):
		if len(m.view.lists) == 0 {
			return m, nil
		}
		m.rowIndex = 0
		m.dispatch(controller.OpenList(m.view.lists[clamp(m.homeIndex, 0, len(m.view.lists)-1)].Name))
	case key.Matches(msg, m.keys.activity):
		m.dispatch(controller.Click(controller.ControlActivityLog))
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyPressMsg) (Model, tea.Cmd) {
	if m.view.editing != listFieldNone {
		m.handleListFieldKey(msg)
		return m, nil
	}
	row, hasRow := m.selectedRow()
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.toggleHelp):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.moveUp):
		m.rowIndex--
	case key.Matches(msg, m.keys.moveDown):
		m.rowIndex++
	case key.Matches(msg, m.keys.editItem):
		if hasRow {
			_ = row.Open(context.Background())
		}
	case key.Matches(msg, m.keys.addItem):
		m.dispatch(controller.Click(controller.ControlAddItem))
	case key.Matches(msg, m.keys.itemUp):
		if hasRow && row.MoveUp(context.Background()) == nil && m.rowIndex > 0 {
			m.rowIndex--
		}
	case key.Matches(msg, m.keys.itemDown):
		if hasRow && row.MoveDown(context.Background()) == nil && m.rowIndex < len(m.view.rows)-1 {
			m.rowIndex++
		}
	case key.Matches(msg, m.keys.deleteItem):
		if hasRow {
			_ = row.Delete(context.Background())
		}
	case key.Matches(msg, m.keys.sortTask):
		m.dispatch(controller.Click(controller.ControlSortTask))
	case key.Matches(msg, m.keys.sortStatus):
		m.dispatch(controller.Click(controller.ControlSortStatus))
	case key.Matches(msg, m.keys.sortDueDate):
		m.dispatch(controller.Click(controller.ControlSortDueDate))
	case key.Matches(msg, m.keys.renameList):
		m.view.beginListField(listFieldName)
	case key.Matches(msg, m.keys.editOwner):
		m.view.beginListField(listFieldOwner)
	case key.Matches(msg, m.keys.trashList):
		m.dispatch(controller.Click(controller.ControlListTrash))
	case key.Matches(msg, m.keys.copyMarkdown):
		return m, m.copyMarkdownCmd()
	case key.Matches(msg, m.keys.preview):
		m.preview = !m.preview
	case key.Matches(msg, m.keys.activity):
		m.dispatch(controller.Click(controller.ControlActivityLog))
	case key.Matches(msg, m.keys.home):
		m.preview = false
		m.dispatch(controller.Click(controller.ControlListHeading))
	}
	return m, nil
}

// handleListFieldKey types into a header field and sends its value on every key.
func (m *Model) handleListFieldKey(msg tea.KeyPressMsg) {
	switch msg.String() {
	case "enter", "esc", "tab":
		m.view.endListField()
		return
	}
	if m.view.editing == listFieldOwner {
		m.view.ownerInput, _ = m.view.ownerInput.Update(msg)
		m.dispatch(controller.KeyUp(controller.ControlListOwnerField, m.view.ownerInput.Value()))
		return
	}
	m.view.nameInput, _ = m.view.nameInput.Update(msg)
	m.dispatch(controller.KeyUp(controller.ControlListNameField, m.view.nameInput.Value()))
}

func (m *Model) handleItemKey(msg tea.KeyPressMsg) {
	switch {
	case key.Matches(msg, m.keys.cancel):
		m.dispatch(controller.Click(controller.ControlItemCancel))
	case key.Matches(msg, m.keys.submit):
		m.dispatch(controller.Submit(m.view.formInput()))
	case key.Matches(msg, m.keys.nextField):
		m.view.focusFormField(m.view.formFocus + 1)
	case key.Matches(msg, m.keys.prevField):
		m.view.focusFormField(m.view.formFocus - 1)
	case m.view.formFocus == formFieldCompleted:
		if key.Matches(msg, m.keys.toggleComplete) {
			m.view.formCompleted = !m.view.formCompleted
		}
	default:
		idx := m.view.formFocus
		m.view.formInputs[idx], _ = m.view.formInputs[idx].Update(msg)
	}
}

// selectedRow returns the row bindings under the cursor.
func (m Model) selectedRow() (controller.RowActions, bool) {
	if len(m.view.rows) == 0 {
		return controller.RowActions{}, false
	}
	return m.view.rows[clamp(m.rowIndex, 0, len(m.view.rows)-1)], true
}

// clampSelections keeps cursors inside the loaded data.
func (m *Model) clampSelections() {
	m.homeIndex = clamp(m.homeIndex, 0, len(m.view.lists)-1)
	m.rowIndex = clamp(m.rowIndex, 0, len(m.view.rows)-1)
}

// copyMarkdownCmd copies the list being edited to the clipboard as markdown.
func (m Model) copyMarkdownCmd() tea.Cmd {
	list := m.view.list
	if list == nil {
		return nil
	}
	markdown := render.ListMarkdown(list)
	write := m.clipboard
	name := list.Name
	return func() tea.Msg {
		return clipboardMsg{name: name, err: write(markdown)}
	}
}
