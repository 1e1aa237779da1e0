package stats

import (
	"io"
	"strings"

	"github.com/verte-zerg/keycast/internal/keysym"
	"github.com/verte-zerg/keycast/internal/markup"
)

// RenderKeyTable prints every known symbol with the label it renders as
// under fonts, and its backspace and spacing flags.
func RenderKeyTable(w io.Writer, fonts markup.FontSet) error {
	symbols := keysym.Symbols()
	rows := make([][]string, 0, len(symbols))
	for _, sym := range symbols {
		p, _ := keysym.Lookup(sym)
		text := markup.Text(markup.Render(p.Display, fonts))
		text = strings.ReplaceAll(text, "\n", `\n`)
		var flags []string
		if p.HaltsBaked {
			flags = append(flags, "halts")
		}
		if p.Silent {
			flags = append(flags, "silent")
		}
		if p.Spaced {
			flags = append(flags, "spaced")
		}
		rows = append(rows, []string{sym, text, strings.Join(flags, ",")})
	}
	return writeLines(w, formatTable([]string{"Symbol", "Label", "Flags"}, rows, nil))
}
