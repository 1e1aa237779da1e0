package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/keycast/internal/model"
)

func TestRenderRecordings(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderRecordings(&buf, nil); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "No recordings") {
		t.Fatalf("expected empty notice, got %q", buf.String())
	}

	buf.Reset()
	recs := []model.Recording{{
		Name:      "demo",
		CreatedAt: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		KeyMode:   model.KeyModeComposed,
		Events:    42,
		Duration:  1500 * time.Millisecond,
	}}
	if err := RenderRecordings(&buf, recs); err != nil {
		t.Fatalf("render: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one row, got %q", buf.String())
	}
	if !strings.HasPrefix(lines[1], "demo") || !strings.Contains(lines[1], "composed") || !strings.HasSuffix(lines[1], "1.5s") {
		t.Fatalf("unexpected row %q", lines[1])
	}
}

func TestRenderSymbolTable(t *testing.T) {
	var buf bytes.Buffer
	counts := []model.SymbolCount{
		{Symbol: "a", Presses: 3},
		{Symbol: "Shift_L", Presses: 1},
	}
	if err := RenderSymbolTable(&buf, counts); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "75.0%") || !strings.Contains(out, "25.0%") {
		t.Fatalf("missing shares in %q", out)
	}
}

func TestSymbolLabel(t *testing.T) {
	if got := SymbolLabel("q"); got != "q" {
		t.Fatalf("unknown symbols render as themselves, got %q", got)
	}
	if got := SymbolLabel("Escape"); got != "Esc" {
		t.Fatalf("expected Esc, got %q", got)
	}
}

func TestKeyRateAndSparkline(t *testing.T) {
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	events := []model.KeyEvent{
		{Symbol: "a", Pressed: true, Time: start},
		{Symbol: "a", Pressed: false, Time: start.Add(100 * time.Millisecond)},
		{Symbol: "b", Pressed: true, Time: start.Add(200 * time.Millisecond)},
		{Symbol: "b", Pressed: true, Repeated: true, Time: start.Add(700 * time.Millisecond)},
		{Symbol: "c", Pressed: true, Time: start.Add(2500 * time.Millisecond)},
	}
	rates := KeyRate(events, time.Second)
	if len(rates) != 3 {
		t.Fatalf("expected 3 buckets, got %v", rates)
	}
	if rates[0] != 2 || rates[1] != 0 || rates[2] != 1 {
		t.Fatalf("unexpected rates %v", rates)
	}
	if got := Sparkline(rates); got != "@ +" {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if got := Sparkline([]float64{1, 1}); got != "++" {
		t.Fatalf("flat sparkline %q", got)
	}
}

func TestPlotRate(t *testing.T) {
	var buf bytes.Buffer
	if err := PlotRate(&buf, "Rate", []float64{0, 2, 4}, 12, 4); err != nil {
		t.Fatalf("plot: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 5 || lines[0] != "Rate" {
		t.Fatalf("unexpected plot %q", buf.String())
	}
	if !strings.HasPrefix(lines[1], "4.0/s | ") {
		t.Fatalf("missing top axis label in %q", lines[1])
	}
	if !strings.Contains(lines[4], barChar) {
		t.Fatalf("bottom row should carry bars: %q", lines[4])
	}
}

func TestRenderKeyTable(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderKeyTable(&buf, nil); err != nil {
		t.Fatalf("render: %v", err)
	}
	var escape string
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.HasPrefix(line, "Escape ") {
			escape = line
		}
	}
	if !strings.Contains(escape, "Esc") || !strings.Contains(escape, "halts,silent,spaced") {
		t.Fatalf("unexpected Escape row %q", escape)
	}
}
