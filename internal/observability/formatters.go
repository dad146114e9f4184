// Package observability provides logging and formatted diagnostic output
// for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/jonathan/tlf/internal/endpoint"
	"github.com/jonathan/tlf/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stderr; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	inner := boxWidth - 4
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", runewidth.FillRight(title, inner))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		// Pad by display width so æøå keep the right border aligned
		line = runewidth.Truncate(line, inner, "...")
		fmt.Fprintf(p.out, "│ %s │\n", runewidth.FillRight(line, inner))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintEndpoint outputs the resolved search-data endpoint.
func (p *Printer) PrintEndpoint(ep *endpoint.Endpoint, elapsed time.Duration) {
	if ep == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Origin:   %s\n", ep.Origin))
	sb.WriteString(fmt.Sprintf("Build ID: %s\n", ep.BuildID))
	sb.WriteString(fmt.Sprintf("Locale:   %s\n", ep.Locale))
	sb.WriteString(fmt.Sprintf("Resolved: %s", elapsed.Round(time.Millisecond)))

	p.printBox("RESOLVED ENDPOINT", sb.String())
}

// PrintOutcome outputs the classification and the first few normalized results.
//
//nolint:errcheck // writing to stderr; errors are not recoverable
func (p *Printer) PrintOutcome(outcome *types.Outcome) {
	if outcome == nil {
		return
	}

	if outcome.Kind == types.KindUnknown {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %s │\n", runewidth.FillRight("CLASSIFICATION INCONCLUSIVE", boxWidth-4))
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Query:    %s\n", outcome.Query))
	sb.WriteString(fmt.Sprintf("Kind:     %s\n", outcome.Kind))
	sb.WriteString(fmt.Sprintf("Results:  %d\n", len(outcome.Results)))

	if len(outcome.Results) > 0 {
		sb.WriteString("\n")
		count := min(len(outcome.Results), maxItemsToShow)
		for i := 0; i < count; i++ {
			r := outcome.Results[i]
			sb.WriteString(fmt.Sprintf("  • %s", r.Name))
			if n := len(r.PhoneNumbers); n > 0 {
				sb.WriteString(fmt.Sprintf(" (%d phone", n))
				if n != 1 {
					sb.WriteString("s")
				}
				sb.WriteString(")")
			}
			sb.WriteString("\n")
		}
		if len(outcome.Results) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(outcome.Results)-maxItemsToShow))
		}
	}

	p.printBox("LOOKUP OUTCOME", strings.TrimSuffix(sb.String(), "\n"))
}
