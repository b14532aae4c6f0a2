// Package render turns lists into Markdown and Markdown into terminal text.
package render

import (
	"fmt"
	"strings"

	"github.com/evanschultz/todolist/internal/domain"
)

// ListMarkdown renders a list as a Markdown document with a task checklist.
func ListMarkdown(list *domain.TodoList) string {
	if list == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", escape(list.Name))
	owner := list.Owner
	if owner == "" {
		owner = "unassigned"
	}
	fmt.Fprintf(&b, "Owner: **%s** · %d/%d complete\n\n", escape(owner), list.CompletedCount(), list.Len())
	if list.Len() == 0 {
		b.WriteString("_No items._\n")
		return b.String()
	}
	for _, item := range list.Items {
		box := " "
		if item.Completed {
			box = "x"
		}
		fmt.Fprintf(&b, "- [%s] %s", box, escape(item.Description))
		var details []string
		if item.AssignedTo != "" {
			details = append(details, "@"+escape(item.AssignedTo))
		}
		if due := item.DueDateString(); due != "" {
			details = append(details, "due "+due)
		}
		if len(details) > 0 {
			fmt.Fprintf(&b, " (%s)", strings.Join(details, ", "))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// escape neutralizes characters that would turn plain text into Markdown markup.
func escape(s string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		"*", `\*`,
		"_", `\_`,
		"`", "\\`",
		"[", `\[`,
		"]", `\]`,
		"#", `\#`,
	)
	return replacer.Replace(s)
}
