package tui

import (
	"charm.land/bubbles/v2/textinput"
	"github.com/evanschultz/todolist/internal/app"
	"github.com/evanschultz/todolist/internal/controller"
	"github.com/evanschultz/todolist/internal/domain"
)

// listField is the list header field taking keystrokes, if any.
type listField int

const (
	listFieldNone listField = iota
	listFieldName
	listFieldOwner
)

// Item form fields in tab order. The completed flag is a checkbox, not an input.
const (
	formFieldDescription = iota
	formFieldAssignedTo
	formFieldDueDate
	formFieldCompleted
	formFieldCount
)

// viewState is what the controller draws into. Model shares it by pointer so
// controller calls made during Update land in the next render.
type viewState struct {
	screen app.Screen
	lists  []*domain.TodoList
	list   *domain.TodoList
	sort   domain.SortCriterion
	rows   []controller.RowActions

	nameInput  textinput.Model
	ownerInput textinput.Model
	editing    listField

	formInputs    []textinput.Model
	formCompleted bool
	formFocus     int
	formEditing   bool

	dialog       bool
	activity     []activityEntry
	activityOpen bool

	message string
	err     error
}

var _ controller.View = (*viewState)(nil)

func newViewState() *viewState {
	return &viewState{
		screen:     app.ScreenHome,
		nameInput:  newModalInput("", "list name (required)", "", 80),
		ownerInput: newModalInput("", "owner", "", 80),
		formInputs: newItemFormInputs(),
	}
}

// newModalInput constructs modal input.
func newModalInput(prompt, placeholder, value string, limit int) textinput.Model {
	in := textinput.New()
	in.Prompt = prompt
	in.Placeholder = placeholder
	in.CharLimit = limit
	if value != "" {
		in.SetValue(value)
	}
	return in
}

func newItemFormInputs() []textinput.Model {
	return []textinput.Model{
		newModalInput("", "what needs doing (required)", "", 120),
		newModalInput("", "who is doing it", "", 80),
		newModalInput("", "YYYY-MM-DD or empty", "", 10),
	}
}

// ShowScreen switches the visible screen.
func (v *viewState) ShowScreen(screen app.Screen) {
	v.screen = screen
	if screen != app.ScreenList {
		v.endListField()
	}
}

// LoadHome replaces the home screen's lists.
func (v *viewState) LoadHome(lists []*domain.TodoList) {
	v.lists = lists
}

// LoadListData replaces the list screen's data and row bindings. A header
// field being typed into keeps its text.
func (v *viewState) LoadListData(list *domain.TodoList, sort domain.SortCriterion, rows []controller.RowActions) {
	v.list = list
	v.sort = sort
	v.rows = rows
	if v.editing != listFieldName {
		v.nameInput.SetValue(list.Name)
	}
	if v.editing != listFieldOwner {
		v.ownerInput.SetValue(list.Owner)
	}
}

// FillItemForm opens the item form with form's values.
func (v *viewState) FillItemForm(form domain.ItemInput, editing bool) {
	v.ClearItemForm()
	v.formInputs[formFieldDescription].SetValue(form.Description)
	v.formInputs[formFieldAssignedTo].SetValue(form.AssignedTo)
	v.formInputs[formFieldDueDate].SetValue(form.DueDate)
	v.formCompleted = form.Completed
	v.formEditing = editing
	v.focusFormField(formFieldDescription)
}

// ClearItemForm empties the item form.
func (v *viewState) ClearItemForm() {
	v.formInputs = newItemFormInputs()
	v.formCompleted = false
	v.formFocus = formFieldDescription
	v.formEditing = false
}

// ShowDialog raises the delete confirmation.
func (v *viewState) ShowDialog() {
	v.dialog = true
}

// HideDialog lowers the delete confirmation.
func (v *viewState) HideDialog() {
	v.dialog = false
}

// ShowActivity opens the activity overlay.
func (v *viewState) ShowActivity(events []domain.ChangeEvent) {
	v.activity = mapChangeEventsToActivityEntries(events)
	v.activityOpen = true
}

// ShowMessage sets the status line.
func (v *viewState) ShowMessage(msg string) {
	v.message = msg
	v.err = nil
}

// ShowError sets the inline error.
func (v *viewState) ShowError(err error) {
	v.err = err
}

func (v *viewState) clearStatus() {
	v.message = ""
	v.err = nil
}

// formInput reads the item form.
func (v *viewState) formInput() domain.ItemInput {
	return domain.ItemInput{
		Description: v.formInputs[formFieldDescription].Value(),
		AssignedTo:  v.formInputs[formFieldAssignedTo].Value(),
		DueDate:     v.formInputs[formFieldDueDate].Value(),
		Completed:   v.formCompleted,
	}
}

// focusFormField focuses form field idx, wrapping around.
func (v *viewState) focusFormField(idx int) {
	v.formFocus = wrapIndex(idx, 0, formFieldCount)
	for i := range v.formInputs {
		v.formInputs[i].Blur()
	}
	if v.formFocus < len(v.formInputs) {
		v.formInputs[v.formFocus].Focus()
		v.formInputs[v.formFocus].CursorEnd()
	}
}

// beginListField moves keystrokes into a header field.
func (v *viewState) beginListField(field listField) {
	v.endListField()
	v.editing = field
	switch field {
	case listFieldName:
		v.nameInput.Focus()
		v.nameInput.CursorEnd()
	case listFieldOwner:
		v.ownerInput.Focus()
		v.ownerInput.CursorEnd()
	}
}

// endListField stops header editing and shows the committed values again.
func (v *viewState) endListField() {
	v.editing = listFieldNone
	v.nameInput.Blur()
	v.ownerInput.Blur()
	if v.list != nil {
		v.nameInput.SetValue(v.list.Name)
		v.ownerInput.SetValue(v.list.Owner)
	}
}
