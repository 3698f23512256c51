package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"formbuddy/internal/model"
)

const (
	fieldFormNumber = iota
	fieldFormName
	fieldDeadline
	fieldDescription
	fieldFrequency
	fieldStatus
	fieldCount
)

var fieldLabels = [fieldCount]string{"Form number", "Form name", "Deadline", "Description", "Frequency", "Status"}

type formAction int

const (
	formNone formAction = iota
	formSubmit
	formCancel
)

// taskForm edits the user-facing fields of a task. Text fields are textinputs; frequency and
// status are pickers cycled with left/right.
type taskForm struct {
	editingID string
	inputs    [fieldDescription + 1]textinput.Model
	frequency model.Frequency
	status    model.Status
	focus     int
	err       string
}

func newTaskForm() taskForm {
	f := taskForm{frequency: model.FrequencyMonthly, status: model.StatusNotStarted}
	placeholders := [...]string{"1701", "Annual Income Tax Return", "YYYY-MM-DD", "optional, Markdown"}
	limits := [...]int{32, 120, 10, 2000}
	for i := range f.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = placeholders[i]
		ti.CharLimit = limits[i]
		f.inputs[i] = ti
	}
	f.setFocus(fieldFormNumber)
	return f
}

func newEditForm(t model.Task) taskForm {
	f := newTaskForm()
	f.editingID = t.ID
	f.inputs[fieldFormNumber].SetValue(t.FormNumber)
	f.inputs[fieldFormName].SetValue(t.FormName)
	f.inputs[fieldDeadline].SetValue(t.Deadline.String())
	f.inputs[fieldDescription].SetValue(t.Description)
	f.frequency = t.Frequency
	f.status = t.Status
	return f
}

func (f *taskForm) setFocus(i int) {
	f.focus = (i + fieldCount) % fieldCount
	for j := range f.inputs {
		if j == f.focus {
			f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
}

func (f taskForm) update(msg tea.Msg) (taskForm, tea.Cmd, formAction) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return f, nil, formNone
	}
	switch km.String() {
	case "esc", "ctrl+g":
		return f, nil, formCancel
	case "ctrl+s":
		return f, nil, formSubmit
	case "enter":
		if f.focus == fieldCount-1 {
			return f, nil, formSubmit
		}
		f.setFocus(f.focus + 1)
		return f, nil, formNone
	case "tab", "down":
		f.setFocus(f.focus + 1)
		return f, nil, formNone
	case "shift+tab", "up":
		f.setFocus(f.focus - 1)
		return f, nil, formNone
	}

	switch f.focus {
	case fieldFrequency:
		switch km.String() {
		case "left", "h":
			f.frequency = cycle(model.Frequencies(), f.frequency, -1)
		case "right", "l", " ":
			f.frequency = cycle(model.Frequencies(), f.frequency, 1)
		}
		return f, nil, formNone
	case fieldStatus:
		switch km.String() {
		case "left", "h":
			f.status = cycle(model.Statuses(), f.status, -1)
		case "right", "l", " ":
			f.status = cycle(model.Statuses(), f.status, 1)
		}
		return f, nil, formNone
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	f.err = ""
	return f, cmd, formNone
}

func cycle[T comparable](all []T, cur T, step int) T {
	for i, v := range all {
		if v == cur {
			return all[(i+step+len(all))%len(all)]
		}
	}
	return all[0]
}

// fields parses and validates the form the same way the CLI validates flags.
func (f taskForm) fields() (model.Fields, error) {
	out := model.Fields{
		FormNumber:  f.inputs[fieldFormNumber].Value(),
		FormName:    f.inputs[fieldFormName].Value(),
		Description: f.inputs[fieldDescription].Value(),
		Frequency:   f.frequency,
		Status:      f.status,
	}
	if raw := strings.TrimSpace(f.inputs[fieldDeadline].Value()); raw != "" {
		d, err := model.ParseDate(raw)
		if err != nil {
			return model.Fields{}, &model.ValidationError{Field: "deadline", Reason: "expected YYYY-MM-DD"}
		}
		out.Deadline = d
	}
	out = out.Normalize()
	if err := out.Validate(); err != nil {
		return model.Fields{}, err
	}
	return out, nil
}

func (f taskForm) view(width int) string {
	if width < 30 {
		width = 30
	}
	labelW := 13
	bodyW := width - labelW - 4

	title := "New task"
	if f.editingID != "" {
		title = "Edit task"
	}

	rows := []string{styleTitle().Render(title), ""}
	for i := 0; i < fieldCount; i++ {
		label := fieldLabels[i]
		lst := lipgloss.NewStyle().Width(labelW)
		if i == f.focus {
			lst = lst.Bold(true).Foreground(colorAccent)
			label = "› " + label
		} else {
			label = "  " + label
		}

		var value string
		switch i {
		case fieldFrequency:
			value = renderPicker(model.Frequencies(), f.frequency, func(v model.Frequency) string { return v.Label() }, i == f.focus)
		case fieldStatus:
			value = renderPicker(model.Statuses(), f.status, func(v model.Status) string { return v.Label() }, i == f.focus)
		default:
			f.inputs[i].Width = bodyW
			value = f.inputs[i].View()
		}
		rows = append(rows, lst.Render(label)+" "+value)
	}
	if f.err != "" {
		rows = append(rows, "", lipgloss.NewStyle().Foreground(colorFlashErr).Render(f.err))
	}
	rows = append(rows, "", styleMuted().Render("tab/↑↓: move   ←/→: change option   enter: next/save   ctrl+s: save   esc: cancel"))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1).
		Width(width - 2).
		Render(strings.Join(rows, "\n"))
}

func renderPicker[T comparable](all []T, cur T, label func(T) string, focused bool) string {
	parts := make([]string, 0, len(all))
	for _, v := range all {
		if v == cur {
			st := lipgloss.NewStyle().Bold(true).Foreground(colorSelectedFg).Background(colorSelectedBg)
			if focused {
				st = st.Foreground(colorAccent)
			}
			parts = append(parts, st.Render("["+label(v)+"]"))
			continue
		}
		parts = append(parts, styleMuted().Render(" "+label(v)+" "))
	}
	return strings.Join(parts, " ")
}
