package publish

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"formbuddy/internal/model"
	"formbuddy/internal/view"
)

type RenderOptions struct {
	// Now anchors the days-left labels.
	Now time.Time
	// Timestamps adds the created/updated lines.
	Timestamps bool
}

// RenderTaskMarkdown renders one task as a Markdown page. The TUI detail pane shows the same text.
func RenderTaskMarkdown(t model.Task, opt RenderOptions) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# " + t.Ref())
	writeLn("")
	writeLn("- Form: " + strings.TrimSpace(t.FormNumber))
	writeLn("- Status: " + t.Status.Label())
	writeLn("- Frequency: " + t.Frequency.Label())
	writeLn(fmt.Sprintf("- Deadline: %s (%s)", t.Deadline.String(), view.DueLabel(t, opt.Now)))
	if opt.Timestamps {
		writeLn("- Created: " + t.CreatedAt.UTC().Format(time.RFC3339))
		writeLn("- Updated: " + t.UpdatedAt.UTC().Format(time.RFC3339))
		writeLn("- ID: `" + t.ID + "`")
	}

	if desc := strings.TrimSpace(t.Description); desc != "" {
		writeLn("")
		writeLn("## Description")
		writeLn("")
		writeLn(desc)
	}
	return buf.String()
}

// RenderIndexMarkdown renders the summary counters and a table of tasks in the given order.
func RenderIndexMarkdown(tasks []model.Task, total int, opt RenderOptions) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	st := view.Aggregate(tasks, opt.Now)
	writeLn("# BIR filing tasks")
	writeLn("")
	writeLn(fmt.Sprintf("Showing %d of %d tasks.", len(tasks), total))
	writeLn("")
	writeLn(fmt.Sprintf("- Completed: %d", st.Completed))
	writeLn(fmt.Sprintf("- In progress: %d", st.InProgress))
	writeLn(fmt.Sprintf("- Not started: %d", st.NotStarted))
	writeLn(fmt.Sprintf("- Overdue: %d", st.Overdue))
	writeLn("")
	if len(tasks) == 0 {
		writeLn("_No tasks._")
		return buf.String()
	}
	writeLn("| Form | Name | Deadline | Frequency | Status |")
	writeLn("|---|---|---|---|---|")
	for _, t := range tasks {
		writeLn(fmt.Sprintf("| [%s](tasks/%s.md) | %s | %s | %s | %s |",
			cell(t.FormNumber), t.ID, cell(t.FormName), t.Deadline.String(), t.Frequency.Label(), t.Status.Label()))
	}
	return buf.String()
}

func cell(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
