package tui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/futuretree/advisor/pkg/domain"
)

// PrintResult renders the answer as markdown when stdout is a terminal,
// falling back to plain text for pipes.
func PrintResult(result domain.Result) {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithColorProfile(termenv.ColorProfile()),
			glamour.WithWordWrap(100),
		)
		if err == nil {
			if out, err := renderer.Render(result.Answer); err == nil {
				fmt.Print(out)
				printSources(result)
				return
			}
		}
	}

	fmt.Println(result.Answer)
	printSources(result)
}

func printSources(result domain.Result) {
	if len(result.Sources) == 0 {
		return
	}
	fmt.Printf("\n(route: %s, retries: %d)\n", result.Route, result.Retries)
	for i, src := range result.Sources {
		label := src.Metadata[domain.MetaCompany]
		if label == nil {
			label = src.Metadata[domain.MetaURL]
		}
		fmt.Printf("  [%d] %s (%v)\n", i+1, src.Origin, label)
	}
}
