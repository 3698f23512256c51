package tui

import (
	"strings"
	"testing"

	xansi "github.com/charmbracelet/x/ansi"
)

func TestFitLine_PadsAndTruncatesByCellWidth(t *testing.T) {
	for _, tc := range []struct {
		in    string
		width int
	}{
		{"short", 10},
		{"exactly10!", 10},
		{"a much longer line than fits", 10},
		{"\x1b[31mred text that is long\x1b[0m", 8},
	} {
		got := fitLine(tc.in, tc.width)
		if w := xansi.StringWidth(got); w != tc.width {
			t.Fatalf("fitLine(%q, %d) has width %d: %q", tc.in, tc.width, w, got)
		}
	}
}

func TestRenderMarkdown_KeepsText(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	out := renderMarkdown("# 1701 - Annual Income Tax Return\n\nIndividual income tax return", 60)
	if !strings.Contains(out, "Individual income tax return") {
		t.Fatalf("expected body text in rendered markdown:\n%s", out)
	}
	if renderMarkdown("   ", 60) != "" {
		t.Fatalf("expected empty input to render empty")
	}
}

func TestCycle_Wraps(t *testing.T) {
	all := []string{"a", "b", "c"}
	if cycle(all, "c", 1) != "a" || cycle(all, "a", -1) != "c" || cycle(all, "zzz", 1) != "a" {
		t.Fatalf("unexpected cycle results")
	}
}
