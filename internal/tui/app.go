package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"formbuddy/internal/model"
	"formbuddy/internal/publish"
	"formbuddy/internal/view"
)

type mode int

const (
	modeList mode = iota
	modeSearch
	modeForm
	modeConfirmDelete
)

const flashTTL = 4 * time.Second

type clearFlashMsg struct{ seq int }

type appModel struct {
	store Store
	now   func() time.Time
	log   *zap.SugaredLogger
	ctx   context.Context

	width  int
	height int

	mode       mode
	list       list.Model
	search     textinput.Model
	form       taskForm
	pending    model.Task
	showDetail bool

	// Transient view state; never persisted.
	filter view.Filter
	sort   view.SortKey

	stats view.Stats
	shown int
	total int

	flash    string
	flashErr bool
	flashSeq int
}

func newAppModel(s Store, opts Options) appModel {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop().Sugar()
	}
	if opts.Sort == "" {
		opts.Sort = view.DefaultSort
	}

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "form number or name"
	search.CharLimit = 64

	m := appModel{
		store:      s,
		now:        opts.Now,
		log:        opts.Log,
		ctx:        context.Background(),
		list:       newList(nil),
		search:     search,
		sort:       opts.Sort,
		showDetail: opts.Detail,
	}
	m.refresh()
	return m
}

func (m appModel) Init() tea.Cmd { return nil }

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case clearFlashMsg:
		if msg.seq == m.flashSeq {
			m.flash = ""
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeForm:
			return m.updateForm(msg)
		case modeConfirmDelete:
			return m.updateConfirm(msg)
		case modeSearch:
			return m.updateSearch(msg)
		}
		return m.updateList(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m appModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	sel, hasSel := m.selected()

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "a":
		m.form = newTaskForm()
		m.mode = modeForm
		return m, textinput.Blink
	case "e":
		if !hasSel {
			return m, nil
		}
		m.form = newEditForm(sel)
		m.mode = modeForm
		return m, textinput.Blink
	case "d", "delete":
		if !hasSel {
			return m, nil
		}
		m.pending = sel
		m.mode = modeConfirmDelete
		return m, nil
	case " ":
		if !hasSel {
			return m, nil
		}
		return m.setStatus(sel, sel.Status.Next())
	case "1", "2", "3":
		if !hasSel {
			return m, nil
		}
		return m.setStatus(sel, model.Statuses()[int(msg.String()[0]-'1')])
	case "s":
		m.filter = m.filter.NextStatus()
		m.refresh()
		return m, nil
	case "f":
		m.filter = m.filter.NextFrequency()
		m.refresh()
		return m, nil
	case "o":
		m.sort = m.sort.Next()
		m.refresh()
		return m.withFlash("Sorted by "+strings.ToLower(m.sort.Label()), false)
	case "/":
		m.mode = modeSearch
		m.search.SetValue(m.filter.Query)
		m.search.CursorEnd()
		cmd := m.search.Focus()
		return m, cmd
	case "c":
		m.filter = view.Filter{}
		m.search.SetValue("")
		m.refresh()
		return m.withFlash("Filters cleared", false)
	case "y":
		if !hasSel {
			return m, nil
		}
		if err := copyToClipboard(sel.Ref()); err != nil {
			m.log.Warnw("clipboard copy failed", "error", err)
			return m.withFlash("Copy failed: "+err.Error(), true)
		}
		return m.withFlash("Copied: "+sel.Ref(), false)
	case "enter":
		m.showDetail = !m.showDetail
		m.resize()
		return m, nil
	case "r":
		res, err := m.store.Load(m.ctx)
		if err != nil {
			m.log.Errorw("reload failed", "error", err)
			return m.withFlash("Reload failed: "+err.Error(), true)
		}
		m.refresh()
		if res.Recovered {
			return m.withFlash("Stored tasks were unreadable; defaults restored (a copy was kept)", true)
		}
		return m.withFlash(fmt.Sprintf("Reloaded %d tasks", res.Count), false)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m appModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.mode = modeList
		m.search.Blur()
		return m, nil
	case "esc":
		m.mode = modeList
		m.search.Blur()
		m.search.SetValue("")
		m.filter.Query = ""
		m.refresh()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.filter.Query = m.search.Value()
	m.refresh()
	return m, cmd
}

func (m appModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var action formAction
	m.form, cmd, action = m.form.update(msg)
	switch action {
	case formCancel:
		m.mode = modeList
		return m, nil
	case formSubmit:
		return m.submitForm()
	}
	return m, cmd
}

func (m appModel) submitForm() (tea.Model, tea.Cmd) {
	f, err := m.form.fields()
	if err != nil {
		m.form.err = err.Error()
		return m, nil
	}

	var t model.Task
	verb := "added"
	if m.form.editingID == "" {
		t, err = m.store.Add(m.ctx, f)
	} else {
		verb = "updated"
		t, err = m.store.Update(m.ctx, m.form.editingID, model.PatchFromFields(f))
	}
	if err != nil {
		// Keep the form open so nothing typed is lost.
		m.log.Errorw("save failed", "id", m.form.editingID, "error", err)
		m.form.err = err.Error()
		return m.withFlash("Save failed: "+err.Error(), true)
	}

	m.mode = modeList
	m.refresh()
	m.selectID(t.ID)
	return m.withFlash("Task "+verb+": "+t.Ref(), false)
}

func (m appModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.mode = modeList
		t, err := m.store.Delete(m.ctx, m.pending.ID)
		m.pending = model.Task{}
		if err != nil {
			m.log.Errorw("delete failed", "error", err)
			return m.withFlash("Delete failed: "+err.Error(), true)
		}
		m.refresh()
		return m.withFlash("Task deleted: "+t.Ref(), false)
	case "n", "N", "esc", "q":
		m.mode = modeList
		m.pending = model.Task{}
		return m, nil
	}
	return m, nil
}

func (m appModel) setStatus(t model.Task, s model.Status) (tea.Model, tea.Cmd) {
	if t.Status == s {
		return m, nil
	}
	updated, err := m.store.UpdateStatus(m.ctx, t.ID, s)
	if err != nil {
		m.log.Errorw("status change failed", "id", t.ID, "error", err)
		return m.withFlash("Status change failed: "+err.Error(), true)
	}
	m.refresh()
	m.selectID(updated.ID)
	return m.withFlash(updated.FormNumber+" marked "+updated.Status.Label(), false)
}

func (m appModel) withFlash(msg string, isErr bool) (tea.Model, tea.Cmd) {
	m.flashSeq++
	m.flash = msg
	m.flashErr = isErr
	seq := m.flashSeq
	return m, tea.Tick(flashTTL, func(time.Time) tea.Msg { return clearFlashMsg{seq: seq} })
}

// refresh recomputes the visible list and counters from the store, keeping the selection when possible.
func (m *appModel) refresh() {
	curID := ""
	if t, ok := m.selected(); ok {
		curID = t.ID
	}

	now := m.now()
	all := m.store.List()
	res := view.Build(all, m.filter, m.sort)
	m.stats = view.Aggregate(all, now)
	m.shown, m.total = res.Shown, res.Total

	items := make([]list.Item, 0, len(res.Tasks))
	for _, t := range res.Tasks {
		items = append(items, taskItem{task: t, now: now})
	}
	m.list.SetItems(items)
	if curID != "" {
		m.selectID(curID)
	}
}

func (m *appModel) selectID(id string) {
	for i, it := range m.list.Items() {
		if ti, ok := it.(taskItem); ok && ti.task.ID == id {
			m.list.Select(i)
			return
		}
	}
}

func (m appModel) selected() (model.Task, bool) {
	if it, ok := m.list.SelectedItem().(taskItem); ok {
		return it.task, true
	}
	return model.Task{}, false
}

// header (3) + filter bar (1) + flash (1) + footer (1) + gaps.
const chromeHeight = 8

func (m *appModel) resize() {
	h := m.height - chromeHeight
	if h < 6 {
		h = 6
	}
	m.list.SetSize(m.listWidth(), h)
}

func (m appModel) listWidth() int {
	w := m.width
	if w < 40 {
		w = 40
	}
	if m.showDetail && w >= 90 {
		return w / 2
	}
	return w
}

func (m appModel) View() string {
	parts := []string{m.viewHeader(), m.viewFilterBar()}

	switch m.mode {
	case modeForm:
		parts = append(parts, m.form.view(min(m.width, 80)))
	case modeConfirmDelete:
		parts = append(parts, m.viewConfirm())
	default:
		parts = append(parts, m.viewBody())
	}

	parts = append(parts, m.viewFlash(), m.viewFooter())
	return strings.Join(parts, "\n")
}

func (m appModel) viewHeader() string {
	title := styleTitle().Render("FormBuddy") + styleMuted().Render("  BIR filing tracker")
	counter := func(label string, n int, c lipgloss.TerminalColor) string {
		return lipgloss.NewStyle().Foreground(c).Bold(true).Render(fmt.Sprintf("%d", n)) + " " + styleMuted().Render(label)
	}
	counts := strings.Join([]string{
		counter("total", m.stats.Total, colorAccent),
		counter("completed", m.stats.Completed, colorCompleted),
		counter("in progress", m.stats.InProgress, colorInProgress),
		counter("not started", m.stats.NotStarted, colorNotStarted),
		counter("overdue", m.stats.Overdue, colorOverdue),
	}, "   ")
	return title + "\n" + counts + "\n"
}

func (m appModel) viewFilterBar() string {
	status := "All"
	if m.filter.Status != nil {
		status = m.filter.Status.Label()
	}
	freq := "All"
	if m.filter.Frequency != nil {
		freq = m.filter.Frequency.Label()
	}
	bar := fmt.Sprintf("Status: %s   Frequency: %s   Sort: %s", status, freq, m.sort.Label())
	if m.mode == modeSearch {
		bar += "   " + m.search.View()
	} else if q := strings.TrimSpace(m.filter.Query); q != "" {
		bar += "   Search: " + q
	}
	summary := fmt.Sprintf("Showing %d of %d tasks", m.shown, m.total)
	return styleMuted().Render(bar) + "\n" + summary
}

func (m appModel) viewBody() string {
	if m.shown == 0 {
		msg := view.Result{Shown: m.shown, Total: m.total}.EmptyMessage(m.filter)
		return lipgloss.NewStyle().Padding(1, 2).Render(styleMuted().Render(msg))
	}

	left := m.list.View()
	if !m.showDetail || m.listWidth() == m.width || m.width < 90 {
		if m.showDetail {
			return left + "\n" + m.viewDetail(max(m.width, 40)-2, 8)
		}
		return left
	}
	rightW := m.width - m.listWidth() - 3
	detail := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(colorBorder).
		PaddingLeft(1).
		Render(m.viewDetail(rightW, m.height-chromeHeight))
	return lipgloss.JoinHorizontal(lipgloss.Top, left, detail)
}

func (m appModel) viewDetail(width, height int) string {
	t, ok := m.selected()
	if !ok {
		return styleMuted().Render("No task selected.")
	}
	md := publish.RenderTaskMarkdown(t, publish.RenderOptions{Now: m.now()})
	out := renderMarkdown(md, width)
	if height > 0 {
		lines := strings.Split(out, "\n")
		if len(lines) > height {
			out = strings.Join(lines[:height], "\n")
		}
	}
	return out
}

func (m appModel) viewConfirm() string {
	body := fmt.Sprintf("Delete %s?\n\n%s", m.pending.Ref(), styleMuted().Render("y: delete   n/esc: keep"))
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorOverdue).
		Padding(0, 1).
		Render(styleTitle().Render("Confirm delete") + "\n\n" + body)
}

func (m appModel) viewFlash() string {
	if m.flash == "" {
		return ""
	}
	c := colorFlashOK
	if m.flashErr {
		c = colorFlashErr
	}
	return lipgloss.NewStyle().Foreground(c).Render(m.flash)
}

func (m appModel) viewFooter() string {
	var help string
	switch m.mode {
	case modeSearch:
		help = "type to search   enter: keep   esc: clear"
	case modeForm, modeConfirmDelete:
		return ""
	default:
		help = "a add  e edit  d delete  space/1-3 status  s status filter  f frequency  o sort  / search  c clear  y copy  enter detail  r reload  q quit"
	}
	return styleMuted().Render(help)
}
