package tui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"formbuddy/internal/model"
	"formbuddy/internal/view"
)

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

// Faint text on light terminals is often illegible; only dim on dark backgrounds.
func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

var (
	colorMuted      = ac("240", "243")
	colorAccent     = ac("27", "62")
	colorSelectedBg = ac("#e9e9e9", "#262626")
	colorSelectedFg = ac("235", "255")
	colorBorder     = ac("250", "240")

	colorOverdue = ac("160", "203")
	colorUrgent  = ac("166", "214")
	colorSoon    = ac("136", "221")
	colorNormal  = ac("28", "114")

	colorNotStarted = ac("244", "246")
	colorInProgress = ac("27", "75")
	colorCompleted  = ac("28", "114")

	colorFlashErr = ac("160", "203")
	colorFlashOK  = ac("28", "114")
)

func styleMuted() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
}

func styleTitle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
}

func urgencyColor(u view.Urgency) lipgloss.TerminalColor {
	switch u {
	case view.UrgencyOverdue:
		return colorOverdue
	case view.UrgencyUrgent:
		return colorUrgent
	case view.UrgencySoon:
		return colorSoon
	}
	return colorNormal
}

func statusColor(s model.Status) lipgloss.TerminalColor {
	switch s {
	case model.StatusInProgress:
		return colorInProgress
	case model.StatusCompleted:
		return colorCompleted
	}
	return colorNotStarted
}

// statusBadge is a fixed-width marker so list rows line up.
func statusBadge(s model.Status) string {
	glyph := "○"
	switch s {
	case model.StatusInProgress:
		glyph = "◐"
	case model.StatusCompleted:
		glyph = "●"
	}
	return lipgloss.NewStyle().Foreground(statusColor(s)).Render(glyph)
}

// applyColorProfilePreference honors NO_COLOR and otherwise trusts TERM/COLORTERM over
// termenv's probe when they claim more colors. CLICOLOR is ignored on purpose: it is meant
// for piped output, not a full-screen program.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}

	profile := termenv.ColorProfile()
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	switch {
	case strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit"):
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	case strings.Contains(term, "256color"):
		if profile == termenv.Ascii || profile == termenv.ANSI {
			profile = termenv.ANSI256
		}
	}
	lipgloss.SetColorProfile(profile)
}

// applyThemePreference picks the light or dark palette:
// FORMBUDDY_TUI_THEME=light|dark|auto first, then the COLORFGBG "fg;bg" hint.
func applyThemePreference() {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("FORMBUDDY_TUI_THEME"))) {
	case "light":
		lipgloss.SetHasDarkBackground(false)
		return
	case "dark":
		lipgloss.SetHasDarkBackground(true)
		return
	}

	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			lipgloss.SetHasDarkBackground(bg < 7)
		}
	}
}
