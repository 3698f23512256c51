package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_WritesJSONToFileAtLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "formbuddy.log")
	log, err := New(Options{Level: "info", Encoding: "json", Path: path})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	log.Debugw("hidden")
	log.Infow("seeded default tasks", "count", 3)
	_ = log.Sync()

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected only the info line; got %q", b)
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("expected json line: %v", err)
	}
	if rec["message"] != "seeded default tasks" || rec["count"] != float64(3) || rec["logger"] != "formbuddy" {
		t.Fatalf("unexpected record: %v", rec)
	}
}

func TestNew_BadLevelFallsBackToWarn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.log")
	log, err := New(Options{Level: "loud", Path: path})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	log.Infow("nope")
	log.Warnw("yes")
	_ = log.Sync()
	b, _ := os.ReadFile(path)
	if strings.Contains(string(b), "nope") || !strings.Contains(string(b), "yes") {
		t.Fatalf("unexpected log content: %q", b)
	}
}
