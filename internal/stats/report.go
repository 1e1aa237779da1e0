package stats

import (
	"fmt"
	"io"
	"time"

	"github.com/verte-zerg/keycast/internal/keysym"
	"github.com/verte-zerg/keycast/internal/markup"
	"github.com/verte-zerg/keycast/internal/model"
)

// RenderRecordings prints a table of stored recordings.
func RenderRecordings(w io.Writer, recs []model.Recording) error {
	if len(recs) == 0 {
		_, err := fmt.Fprintln(w, "No recordings found.")
		return err
	}
	rows := make([][]string, 0, len(recs))
	for _, rec := range recs {
		rows = append(rows, []string{
			rec.Name,
			rec.CreatedAt.Local().Format("2006-01-02 15:04"),
			string(rec.KeyMode),
			fmt.Sprintf("%d", rec.Events),
			rec.Duration.Round(100 * time.Millisecond).String(),
		})
	}
	lines := formatTable([]string{"Name", "Created", "Mode", "Events", "Duration"}, rows, map[int]bool{3: true, 4: true})
	return writeLines(w, lines)
}

// RenderSymbolTable prints the symbol frequency table with the label each
// symbol renders as when no icon fonts are available.
func RenderSymbolTable(w io.Writer, counts []model.SymbolCount) error {
	if len(counts) == 0 {
		_, err := fmt.Fprintln(w, "No key presses recorded.")
		return err
	}
	total := 0
	for _, c := range counts {
		total += c.Presses + c.Repeats
	}
	rows := make([][]string, 0, len(counts))
	for _, c := range counts {
		share := 0.0
		if total > 0 {
			share = float64(c.Presses+c.Repeats) / float64(total) * 100
		}
		rows = append(rows, []string{
			c.Symbol,
			SymbolLabel(c.Symbol),
			fmt.Sprintf("%d", c.Presses),
			fmt.Sprintf("%d", c.Repeats),
			fmt.Sprintf("%.1f%%", share),
		})
	}
	lines := formatTable([]string{"Symbol", "Label", "Presses", "Repeats", "Share"}, rows, map[int]bool{2: true, 3: true, 4: true})
	return writeLines(w, lines)
}

// SymbolLabel returns the plain text a symbol renders as without icon
// fonts. Unknown symbols render as themselves.
func SymbolLabel(symbol string) string {
	if p, ok := keysym.Lookup(symbol); ok {
		if text := markup.Text(markup.Render(p.Display, nil)); text != "" {
			return text
		}
		return "(silent)"
	}
	return symbol
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
