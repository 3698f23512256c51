package main

import (
	"fmt"
	"os"
	"strings"

	"formbuddy/internal/cli"
	"formbuddy/internal/store"
)

// persistent flags that take a separate value token.
var valueFlags = map[string]bool{
	"--dir":       true,
	"--backend":   true,
	"--config":    true,
	"--format":    true,
	"--log-level": true,
}

// rewriteTaskLookupArgs turns `formbuddy [flags] <task-id>` into `formbuddy [flags] tasks show <task-id>`.
// Cobra would treat the id as an unknown subcommand, so this happens before parsing.
func rewriteTaskLookupArgs(argv []string) []string {
	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		switch {
		case a == "":
			continue
		case a == "--":
			if i+1 < len(argv) && store.IsTaskID(argv[i+1]) {
				return insertShow(argv, i+1)
			}
			return argv
		case strings.HasPrefix(a, "-"):
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		case store.IsTaskID(a):
			return insertShow(argv, i)
		default:
			// First positional is a real subcommand (or garbage cobra will report).
			return argv
		}
	}
	return argv
}

func insertShow(argv []string, at int) []string {
	out := make([]string, 0, len(argv)+2)
	out = append(out, argv[:at]...)
	out = append(out, "tasks", "show")
	return append(out, argv[at:]...)
}

func main() {
	os.Args = rewriteTaskLookupArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		if !cli.Reported(err) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
