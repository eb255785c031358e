package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// renderStream displays each cumulative update in place, replacing the
// previously rendered message the way a chat window would, and returns
// the final text. On a non-terminal writer only the final update is
// printed.
func renderStream(w io.Writer, updates <-chan string) string {
	if f, ok := w.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		var last string
		for update := range updates {
			last = update
		}
		fmt.Fprintln(w, last)
		return last
	}

	var last string
	lines := 0
	for update := range updates {
		if lines > 0 {
			// Move to the start of the previous render and clear it.
			fmt.Fprintf(w, "\x1b[%dF\x1b[J", lines)
		}
		fmt.Fprintln(w, update)
		lines = strings.Count(update, "\n") + 1
		last = update
	}
	return last
}
