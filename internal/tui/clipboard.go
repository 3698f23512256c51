package tui

import "github.com/atotto/clipboard"

// copyToClipboard is swapped out in tests; there is no clipboard on CI machines.
var copyToClipboard = clipboard.WriteAll
