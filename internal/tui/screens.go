package tui

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	xansi "github.com/charmbracelet/x/ansi"
	"github.com/evanschultz/todolist/internal/app"
	"github.com/evanschultz/todolist/internal/domain"
	"github.com/evanschultz/todolist/internal/render"
)

// activityLogViewWindow caps rows drawn in the activity overlay.
const activityLogViewWindow = 12

// Fixed table column widths; the task column takes what is left.
const (
	dueColumnWidth      = 10
	statusColumnWidth   = 10
	assignedColumnWidth = 14
)

// activityEntry is one rendered activity-log row.
type activityEntry struct {
	At      time.Time
	Summary string
	Target  string
}

// palette bundles the colors shared by every screen.
type palette struct {
	accent color.Color
	muted  color.Color
	dim    color.Color
	danger color.Color
}

func (m Model) palette() palette {
	return palette{
		accent: m.accent,
		muted:  lipgloss.Color("241"),
		dim:    lipgloss.Color("239"),
		danger: lipgloss.Color("203"),
	}
}

// render draws the whole frame as a string.
func (m Model) render() string {
	p := m.palette()
	var body string
	switch m.view.screen {
	case app.ScreenList:
		body = m.renderList(p)
	case app.ScreenItem:
		body = m.renderItemForm(p)
	default:
		body = m.renderHome(p)
	}

	sections := []string{body}
	if m.view.err != nil {
		sections = append(sections, "", lipgloss.NewStyle().Bold(true).Foreground(p.danger).Render("error: "+m.view.err.Error()))
	} else if strings.TrimSpace(m.view.message) != "" {
		sections = append(sections, "", lipgloss.NewStyle().Foreground(p.dim).Render(m.view.message))
	}
	content := strings.Join(sections, "\n")

	helpBubble := m.help
	helpBubble.SetWidth(max(0, m.width-2))
	helpLine := lipgloss.NewStyle().
		Foreground(p.muted).
		BorderTop(true).
		BorderForeground(p.dim).
		Padding(0, 1).
		Width(max(0, m.width)).
		Render(helpBubble.View(screenKeys{keys: m.keys, screen: m.view.screen, dialog: m.view.dialog}))

	if m.height > 0 {
		content = fitLines(content, max(0, m.height-lipgloss.Height(helpLine)))
	}
	full := content + "\n" + helpLine

	overlay := ""
	switch {
	case m.view.dialog:
		overlay = m.renderDialog(p)
	case m.view.activityOpen:
		overlay = m.renderActivity(p, m.width-8)
	case m.preview && m.view.screen == app.ScreenList:
		overlay = m.renderPreview(p, m.width-8)
	}
	if overlay != "" {
		height := lipgloss.Height(full)
		if m.height > 0 {
			height = m.height
		}
		full = overlayOnContent(full, overlay, m.width, height)
	}
	return full
}

func (m Model) renderHome(p palette) string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	selectedStyle := lipgloss.NewStyle().Foreground(p.accent).Bold(true)
	subStyle := lipgloss.NewStyle().Foreground(p.muted)

	lines := []string{titleStyle.Render("Todo Lists"), ""}
	if len(m.view.lists) == 0 {
		lines = append(lines, subStyle.Render("No lists yet. Press n to create one."))
		return strings.Join(lines, "\n")
	}
	for i, list := range m.view.lists {
		name := "  " + list.Name
		if i == m.homeIndex {
			name = selectedStyle.Render("│ " + list.Name)
		}
		detail := fmt.Sprintf("  %d items", list.Len())
		if owner := strings.TrimSpace(list.Owner); owner != "" {
			detail = "  " + owner + " •" + detail
		}
		lines = append(lines, name+subStyle.Render(detail))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderList(p palette) string {
	list := m.view.list
	if list == nil {
		return ""
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(p.accent)
	labelStyle := lipgloss.NewStyle().Foreground(p.muted)
	headStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	selectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	doneStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("243"))

	heading := labelStyle.Render("Todo Lists › ") + titleStyle.Render(list.Name)
	if m.showCompleted {
		heading += labelStyle.Render(fmt.Sprintf("  %d/%d complete", list.CompletedCount(), list.Len()))
	}
	lines := []string{
		heading,
		"",
		labelStyle.Render("Name:  ") + m.view.nameInput.View(),
		labelStyle.Render("Owner: ") + m.view.ownerInput.View(),
		"",
	}

	taskWidth := m.taskColumnWidth()
	header := "  " + cell(sortLabel("Task", domain.SortFieldTask, m.view.sort), taskWidth) +
		cell(sortLabel("Due Date", domain.SortFieldDueDate, m.view.sort), dueColumnWidth+2) +
		cell(sortLabel("Status", domain.SortFieldStatus, m.view.sort), statusColumnWidth+2) +
		cell("Assigned To", assignedColumnWidth)
	lines = append(lines, headStyle.Render(header))

	if list.Len() == 0 {
		lines = append(lines, labelStyle.Render("  (no items) press a to add one"))
	}
	for i, item := range list.Items {
		due := item.DueDateString()
		if due == "" {
			due = "-"
		}
		row := cell(item.Description, taskWidth) +
			cell(due, dueColumnWidth+2) +
			cell(item.Status(), statusColumnWidth+2) +
			cell(item.AssignedTo, assignedColumnWidth)
		switch {
		case i == m.rowIndex:
			row = selectedStyle.Render("│ " + row)
		case item.Completed:
			row = doneStyle.Render("  " + row)
		default:
			row = "  " + row
		}
		lines = append(lines, row)
	}
	if m.view.sort != domain.SortNone {
		lines = append(lines, "", labelStyle.Render("sorted by "+m.view.sort.String()))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderItemForm(p palette) string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(p.accent)
	labelStyle := lipgloss.NewStyle().Foreground(p.muted)
	focusStyle := lipgloss.NewStyle().Foreground(p.accent).Bold(true)

	title := "Add item"
	if m.view.formEditing {
		title = "Edit item"
	}
	if m.view.list != nil {
		title += labelStyle.Render("  in " + m.view.list.Name)
	}
	labels := []string{"Task", "Assigned To", "Due Date"}
	lines := []string{titleStyle.Render(title), ""}
	for i, label := range labels {
		rendered := labelStyle.Render(fmt.Sprintf("%-12s", label))
		if i == m.view.formFocus {
			rendered = focusStyle.Render(fmt.Sprintf("%-12s", label))
		}
		lines = append(lines, rendered+m.view.formInputs[i].View())
	}
	box := "[ ]"
	if m.view.formCompleted {
		box = "[x]"
	}
	completed := labelStyle.Render(fmt.Sprintf("%-12s", "Completed"))
	if m.view.formFocus == formFieldCompleted {
		completed = focusStyle.Render(fmt.Sprintf("%-12s", "Completed"))
	}
	lines = append(lines, completed+box)
	return strings.Join(lines, "\n")
}

func (m Model) renderDialog(p palette) string {
	name := ""
	if m.view.list != nil {
		name = m.view.list.Name
	}
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.danger).
		Padding(0, 1)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(p.danger)
	hintStyle := lipgloss.NewStyle().Foreground(p.muted)
	lines := []string{
		titleStyle.Render("Delete list?"),
		fmt.Sprintf("%q and its items will be removed.", name),
		"",
		hintStyle.Render("y delete • n/esc keep"),
	}
	return style.Render(strings.Join(lines, "\n"))
}

func (m Model) renderActivity(p palette, maxWidth int) string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.accent).
		Padding(0, 1)
	if maxWidth > 0 {
		style = style.Width(clamp(maxWidth, 44, 96))
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(p.accent)
	hintStyle := lipgloss.NewStyle().Foreground(p.muted)
	lines := []string{titleStyle.Render("Activity Log")}
	if len(m.view.activity) == 0 {
		lines = append(lines, hintStyle.Render("(no activity yet)"))
	}
	for idx, entry := range m.view.activity {
		if idx >= activityLogViewWindow {
			break
		}
		lines = append(lines, fmt.Sprintf("%s  %s • %s", formatActivityTimestamp(entry.At), entry.Summary, truncate(entry.Target, 42)))
	}
	lines = append(lines, hintStyle.Render("esc close"))
	return style.Render(strings.Join(lines, "\n"))
}

func (m Model) renderPreview(p palette, maxWidth int) string {
	if m.view.list == nil || m.renderer == nil {
		return ""
	}
	width := clamp(maxWidth, 24, 96)
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.accent).
		Padding(0, 1)
	hintStyle := lipgloss.NewStyle().Foreground(p.muted)
	body := m.renderer.Render(render.ListMarkdown(m.view.list), width-4)
	return style.Render(body + "\n" + hintStyle.Render("p close • y copy"))
}

// taskColumnWidth fits the task column to the terminal.
func (m Model) taskColumnWidth() int {
	width := m.width
	if width <= 0 {
		width = 80
	}
	return clamp(width-4-dueColumnWidth-statusColumnWidth-assignedColumnWidth-4, 12, 48)
}

// sortLabel marks the header of the active sort column.
func sortLabel(label string, field domain.SortField, current domain.SortCriterion) string {
	if current == domain.SortNone || current.Field() != field {
		return label
	}
	if current.Descending() {
		return label + " ▼"
	}
	return label + " ▲"
}

// cell pads or truncates s to exactly width cells.
func cell(s string, width int) string {
	s = truncate(s, width-1)
	return s + strings.Repeat(" ", max(0, width-lipgloss.Width(s)))
}

// mapChangeEventsToActivityEntries converts newest-first journal events into overlay rows.
func mapChangeEventsToActivityEntries(events []domain.ChangeEvent) []activityEntry {
	entries := make([]activityEntry, 0, len(events))
	for _, event := range events {
		entries = append(entries, mapChangeEventToActivityEntry(event))
	}
	return entries
}

// mapChangeEventToActivityEntry derives a compact activity row from one journal event.
func mapChangeEventToActivityEntry(event domain.ChangeEvent) activityEntry {
	summary := strings.ReplaceAll(string(event.Operation), "_", " ")
	target := event.ListName
	switch event.Operation {
	case domain.ChangeOperationRenameList, domain.ChangeOperationSetOwner:
		target = fmt.Sprintf("%s → %s", orDash(event.Metadata["from"]), orDash(event.Metadata["to"]))
	case domain.ChangeOperationAddItem, domain.ChangeOperationUpdateItem, domain.ChangeOperationRemoveItem:
		target = event.ListName + ": " + event.Metadata["description"]
	case domain.ChangeOperationMoveItem:
		target = fmt.Sprintf("%s: row %s → %s", event.ListName, event.Metadata["from"], event.Metadata["to"])
	case domain.ChangeOperationSortItems:
		target = fmt.Sprintf("%s: %s", event.ListName, domain.SortCriterion(event.Metadata["criterion"]))
	}
	return activityEntry{
		At:      event.OccurredAt.UTC(),
		Summary: summary,
		Target:  orDash(target),
	}
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// formatActivityTimestamp shows a time for today and a date otherwise.
func formatActivityTimestamp(at time.Time) string {
	if at.IsZero() {
		return "--:--:--"
	}
	local := at.Local()
	now := time.Now().In(local.Location())
	if local.Year() != now.Year() || local.YearDay() != now.YearDay() {
		return local.Format("01-02 15:04")
	}
	return local.Format("15:04:05")
}

// clamp clamps the requested operation.
func clamp(v, minV, maxV int) int {
	if maxV < minV {
		return minV
	}
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

// wrapIndex wraps an index by delta for a bounded collection.
func wrapIndex(current int, delta int, total int) int {
	if total <= 0 {
		return 0
	}
	next := current + delta
	for next < 0 {
		next += total
	}
	for next >= total {
		next -= total
	}
	return next
}

// fitLines fits lines.
func fitLines(content string, maxLines int) string {
	if maxLines <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	switch {
	case len(lines) > maxLines:
		if maxLines == 1 {
			lines = []string{"…"}
		} else {
			lines = append(lines[:maxLines-1], "…")
		}
	case len(lines) < maxLines:
		lines = append(lines, make([]string, maxLines-len(lines))...)
	}
	return strings.Join(lines, "\n")
}

// overlayOnContent centers overlay over base. Without a known size the
// overlay is stacked above base instead.
func overlayOnContent(base, overlay string, width, height int) string {
	if width <= 0 || height <= 0 {
		return overlay + "\n\n" + base
	}
	base = fitLines(base, height)
	canvas := lipgloss.NewCanvas(width, height)
	baseLayer := lipgloss.NewLayer(base).X(0).Y(0).Z(0)
	centered := lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, overlay)
	overlayLayer := lipgloss.NewLayer(centered).X(0).Y(0).Z(10)
	canvas.Compose(baseLayer)
	canvas.Compose(overlayLayer)
	return canvas.Render()
}

// truncate shortens s to max display cells with an ellipsis.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if xansi.StringWidth(s) <= max {
		return s
	}
	if max <= 1 {
		return xansi.Truncate(s, max, "")
	}
	return xansi.Truncate(s, max, "…")
}
