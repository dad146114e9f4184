package rendering

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jonathan/tlf/internal/types"
)

// PhoneLabel prefixes every phone number line.
const PhoneLabel = "Tlf: "

// Format selects the output layout.
type Format string

const (
	// FormatPlain prints one block of lines per result
	FormatPlain Format = "plain"
	// FormatTable prints aligned columns
	FormatTable Format = "table"
	// FormatJSON prints an indented JSON array
	FormatJSON Format = "json"
)

// Options configures RenderWith.
type Options struct {
	Format Format
	// Color renders names in bold; plain format only.
	Color bool
	// Width is the table width; 0 means the terminal width.
	Width int
}

var nameStyle = lipgloss.NewStyle().Bold(true)

// Render lays out results as blocks separated by a blank line. Empty fields
// produce no line at all. An empty slice renders as "".
func Render(results []types.SearchResult) string {
	return renderPlain(results, false)
}

// RenderResult lays out a single result: name, street, area, then one
// labelled line per phone number.
func RenderResult(r types.SearchResult) string {
	return renderBlock(r, false)
}

// RenderWith renders results in the requested format.
func RenderWith(results []types.SearchResult, opts Options) (string, error) {
	switch opts.Format {
	case "", FormatPlain:
		return renderPlain(results, opts.Color), nil
	case FormatTable:
		return renderTable(results, opts.Width), nil
	case FormatJSON:
		if results == nil {
			results = []types.SearchResult{}
		}
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return "", &RenderError{Message: "failed to encode results", Cause: err}
		}
		return string(data), nil
	default:
		return "", &RenderError{Message: fmt.Sprintf("unknown format %q", opts.Format)}
	}
}

func renderPlain(results []types.SearchResult, color bool) string {
	blocks := make([]string, 0, len(results))
	for _, r := range results {
		blocks = append(blocks, renderBlock(r, color))
	}
	return strings.Join(blocks, "\n\n")
}

func renderBlock(r types.SearchResult, color bool) string {
	name := r.Name
	if color {
		name = nameStyle.Render(name)
	}

	lines := []string{name}
	if r.Street != "" {
		lines = append(lines, r.Street)
	}
	if r.Area != "" {
		lines = append(lines, r.Area)
	}
	for _, p := range r.PhoneNumbers {
		lines = append(lines, PhoneLabel+p)
	}
	return strings.Join(lines, "\n")
}

// Header introduces a non-empty result list.
func Header(query string, n int) string {
	plural := ""
	if n != 1 {
		plural = "s"
	}
	return fmt.Sprintf("%d result%s for '%s':", n, plural, query)
}

// NoResultsMessage is printed when a query ends without results.
func NoResultsMessage(query string) string {
	return fmt.Sprintf("No results for '%s'", query)
}
