package commands

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"

	"github.com/teranos/contentful-typegen/errors"
)

func printSuccess(w io.Writer, count int, out string) {
	fmt.Fprintln(w, pterm.LightGreen(fmt.Sprintf("✅ Generated %d type(s) → %s", count, out)))
}

func printError(w io.Writer, msg string) {
	fmt.Fprintln(w, pterm.Red(msg))
}

// printHints lists the hints attached anywhere in err's chain.
func printHints(w io.Writer, err error) {
	for _, hint := range errors.GetAllHints(err) {
		fmt.Fprintf(w, "  %s %s\n", pterm.Yellow("hint:"), hint)
	}
}
