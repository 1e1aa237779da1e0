// Package fonts queries which font families are installed.
package fonts

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/verte-zerg/keycast/internal/markup"
)

// Families lists installed font families through fontconfig.
func Families(ctx context.Context) (markup.FontSet, error) {
	out, err := exec.CommandContext(ctx, "fc-list", ":", "family").Output()
	if err != nil {
		return nil, fmt.Errorf("failed to run fc-list: %w", err)
	}
	names, err := ParseFamilies(bytes.NewReader(out))
	if err != nil {
		return nil, err
	}
	return markup.NewFontSet(names...), nil
}

// ParseFamilies reads fc-list family output. Each line may list several
// comma-separated names for one family, and fontconfig escapes '-', ',' and
// ':' with a backslash.
func ParseFamilies(r io.Reader) ([]string, error) {
	seen := map[string]struct{}{}
	var names []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		for _, name := range splitEscaped(scanner.Text()) {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read font families: %w", err)
	}
	return names, nil
}

func splitEscaped(line string) []string {
	var parts []string
	var b strings.Builder
	escaped := false
	for _, r := range line {
		switch {
		case escaped:
			b.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == ',':
			parts = append(parts, b.String())
			b.Reset()
		default:
			b.WriteRune(r)
		}
	}
	return append(parts, b.String())
}
