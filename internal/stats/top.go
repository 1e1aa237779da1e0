package stats

import (
	"sort"

	"github.com/verte-zerg/keycast/internal/model"
)

// TopSymbols returns the n most pressed symbols. Ties break on the symbol
// name. A non-positive n returns every symbol.
func TopSymbols(counts []model.SymbolCount, n int) []model.SymbolCount {
	if len(counts) == 0 {
		return nil
	}
	out := make([]model.SymbolCount, len(counts))
	copy(out, counts)
	sort.Slice(out, func(i, j int) bool {
		ti := out[i].Presses + out[i].Repeats
		tj := out[j].Presses + out[j].Repeats
		if ti == tj {
			return out[i].Symbol < out[j].Symbol
		}
		return ti > tj
	})
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}
