package view

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"formbuddy/internal/model"
)

// Filter narrows the task list. Set constraints combine with AND; a zero Filter passes everything.
type Filter struct {
	Status    *model.Status    `json:"status,omitempty"`
	Frequency *model.Frequency `json:"frequency,omitempty"`
	Query     string           `json:"query,omitempty"`
}

func (f Filter) IsZero() bool {
	return f.Status == nil && f.Frequency == nil && strings.TrimSpace(f.Query) == ""
}

// Match reports whether t passes the enum constraints and, when a query is set,
// fuzzy-matches "<formNumber> <formName>".
func (f Filter) Match(t model.Task) bool {
	if f.Status != nil && t.Status != *f.Status {
		return false
	}
	if f.Frequency != nil && t.Frequency != *f.Frequency {
		return false
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		return len(fuzzy.Find(strings.ToLower(q), []string{searchText(t)})) > 0
	}
	return true
}

func searchText(t model.Task) string {
	return strings.ToLower(t.FormNumber + " " + t.FormName)
}

// WithStatus returns f constrained to s (nil clears the constraint).
func (f Filter) WithStatus(s *model.Status) Filter {
	f.Status = s
	return f
}

func (f Filter) WithFrequency(fr *model.Frequency) Filter {
	f.Frequency = fr
	return f
}

// NextStatus cycles the status constraint: any -> not-started -> in-progress -> completed -> any.
func (f Filter) NextStatus() Filter {
	all := model.Statuses()
	if f.Status == nil {
		s := all[0]
		f.Status = &s
		return f
	}
	for i, s := range all {
		if s == *f.Status && i+1 < len(all) {
			n := all[i+1]
			f.Status = &n
			return f
		}
	}
	f.Status = nil
	return f
}

// NextFrequency cycles the frequency constraint the same way as NextStatus.
func (f Filter) NextFrequency() Filter {
	all := model.Frequencies()
	if f.Frequency == nil {
		fr := all[0]
		f.Frequency = &fr
		return f
	}
	for i, fr := range all {
		if fr == *f.Frequency && i+1 < len(all) {
			n := all[i+1]
			f.Frequency = &n
			return f
		}
	}
	f.Frequency = nil
	return f
}
