package app

import (
	"fmt"
	"os"
	"strings"

	"vx/internal/ports"
)

// unknownToolHints produces did-you-mean suggestions when a resolution
// failed on an unrecognized tool name.
func unknownToolHints(cat ports.CatalogPort, tool string, err error) []string {
	if err == nil || !strings.Contains(err.Error(), "unknown tool") {
		return nil
	}
	suggester, ok := cat.(interface{ Suggest(string) []string })
	if !ok {
		return nil
	}
	matches := suggester.Suggest(tool)
	if len(matches) == 0 {
		return nil
	}
	return []string{fmt.Sprintf("hint: unknown tool %q; did you mean %s?", tool, strings.Join(matches, ", "))}
}

// emitHints writes hint messages to stderr.
func emitHints(hints []string) {
	for _, h := range hints {
		fmt.Fprintln(os.Stderr, h)
	}
}
