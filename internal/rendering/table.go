package rendering

import (
	"io"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/jonathan/tlf/internal/types"
)

const (
	minTableWidth  = 40
	minColumnWidth = 8
	columnGap      = "  "
)

// TerminalWidth returns the width of stdout, or 80 when it is not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func renderTable(results []types.SearchResult, width int) string {
	if width <= 0 {
		width = TerminalWidth()
	}
	if width < minTableWidth {
		width = minTableWidth
	}

	rows := [][3]string{{"NAME", "ADDRESS", "PHONE"}}
	for _, r := range results {
		address := r.Street
		if r.Area != "" {
			if address != "" {
				address += ", "
			}
			address += r.Area
		}
		rows = append(rows, [3]string{r.Name, address, strings.Join(r.PhoneNumbers, ", ")})
	}

	cols := columnWidths(rows, width)

	var sb strings.Builder
	for i, row := range rows {
		cells := make([]string, 0, 3)
		for c, cell := range row {
			cell = runewidth.Truncate(cell, cols[c], "…")
			if c < 2 {
				cell = runewidth.FillRight(cell, cols[c])
			}
			cells = append(cells, cell)
		}
		sb.WriteString(strings.TrimRight(strings.Join(cells, columnGap), " "))
		if i < len(rows)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// columnWidths sizes each column to its widest cell, then shrinks the widest
// column until the row fits in width.
func columnWidths(rows [][3]string, width int) [3]int {
	var cols [3]int
	for _, row := range rows {
		for c, cell := range row {
			if w := runewidth.StringWidth(cell); w > cols[c] {
				cols[c] = w
			}
		}
	}

	budget := width - 2*len(columnGap)
	for cols[0]+cols[1]+cols[2] > budget {
		widest := 0
		for c := 1; c < 3; c++ {
			if cols[c] > cols[widest] {
				widest = c
			}
		}
		if cols[widest] <= minColumnWidth {
			break
		}
		cols[widest]--
	}
	return cols
}
