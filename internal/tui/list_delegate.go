package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"formbuddy/internal/model"
	"formbuddy/internal/view"
)

type taskItem struct {
	task model.Task
	now  time.Time
}

func (i taskItem) FilterValue() string { return i.task.FormNumber + " " + i.task.FormName }

// taskDelegate renders a two-line row:
//
//	○ 1601-C  Monthly Withholding Tax Return
//	  2025-01-20 · Monthly · Overdue (1 week ago)
type taskDelegate struct {
	normal   lipgloss.Style
	selected lipgloss.Style
}

func newTaskDelegate() taskDelegate {
	return taskDelegate{
		normal: lipgloss.NewStyle(),
		selected: lipgloss.NewStyle().
			Foreground(colorSelectedFg).
			Background(colorSelectedBg).
			Bold(true),
	}
}

func (d taskDelegate) Height() int                             { return 2 }
func (d taskDelegate) Spacing() int                            { return 1 }
func (d taskDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d taskDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(taskItem)
	contentW := m.Width()
	if !ok || contentW < 8 {
		return
	}

	style := d.normal
	if index == m.Index() {
		style = d.selected
	}

	t := it.task
	title := fmt.Sprintf("%s %s  %s", statusBadge(t.Status), t.FormNumber, t.FormName)

	u := view.Classify(t, it.now)
	due := view.DueLabel(t, it.now)
	if t.Status == model.StatusCompleted {
		due = styleMuted().Render(due)
	} else {
		due = lipgloss.NewStyle().Foreground(urgencyColor(u)).Render(due)
	}
	meta := fmt.Sprintf("  %s · %s · %s (%s)", t.Deadline.String(), t.Frequency.Label(), due, view.RelativeDue(t, it.now))

	fmt.Fprint(w, style.Render(fitLine(title, contentW))+"\n"+style.Render(fitLine(meta, contentW)))
}

// fitLine pads or cuts s to exactly width cells, ANSI-aware.
func fitLine(s string, width int) string {
	sw := xansi.StringWidth(s)
	switch {
	case sw < width:
		return s + strings.Repeat(" ", width-sw)
	case sw > width:
		return xansi.Truncate(s, width, "…")
	}
	return s
}

func newList(items []list.Item) list.Model {
	l := list.New(items, newTaskDelegate(), 0, 0)
	// The header and footer are ours; keep list chrome minimal.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(true)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	up := append([]string{}, l.KeyMap.CursorUp.Keys()...)
	l.KeyMap.CursorUp.SetKeys(append(up, "ctrl+p")...)
	down := append([]string{}, l.KeyMap.CursorDown.Keys()...)
	l.KeyMap.CursorDown.SetKeys(append(down, "ctrl+n")...)
	// f and d are board actions here.
	l.KeyMap.NextPage.SetKeys("right", "l", "pgdown")
	l.KeyMap.PrevPage.SetKeys("left", "h", "pgup", "b")
	return l
}
