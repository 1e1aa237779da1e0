package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/verte-zerg/keycast/internal/model"
)

const (
	sparkChars          = " .:-=+*#%@"
	defaultPlotHeight   = 8
	minPlotWidth        = 10
	axisSeparator       = " | "
	barChar             = "#"
	terminalWidthBackup = 80
)

// KeyRate buckets presses by time and returns presses per second for each
// bucket. Releases and auto-repeats are not counted.
func KeyRate(events []model.KeyEvent, bucket time.Duration) []float64 {
	if len(events) == 0 || bucket <= 0 {
		return nil
	}
	start := events[0].Time
	end := events[len(events)-1].Time
	n := int(end.Sub(start)/bucket) + 1
	if n < 1 {
		n = 1
	}
	counts := make([]float64, n)
	for _, ev := range events {
		if !ev.Pressed || ev.Repeated {
			continue
		}
		idx := int(ev.Time.Sub(start) / bucket)
		if idx < 0 {
			idx = 0
		}
		if idx >= n {
			idx = n - 1
		}
		counts[idx]++
	}
	perSecond := bucket.Seconds()
	for i := range counts {
		counts[i] /= perSecond
	}
	return counts
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := minMax(values)
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// PlotRate renders a column chart of per-bucket key rates. A non-positive
// width follows the terminal width.
func PlotRate(w io.Writer, title string, rates []float64, width, height int) error {
	if len(rates) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	_, peak := minMax(rates)
	top := fmt.Sprintf("%.1f/s", peak)
	labelWidth := runewidth.StringWidth(top)
	if width <= 0 {
		width = terminalWidth() - labelWidth - runewidth.StringWidth(axisSeparator)
	}
	width = max(width, minPlotWidth)

	cols := resample(rates, width)
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	for row := 0; row < height; row++ {
		label := ""
		switch row {
		case 0:
			label = top
		case height - 1:
			label = "0"
		}
		threshold := peak * float64(height-row-1) / float64(height)
		var b strings.Builder
		b.WriteString(runewidth.FillLeft(label, labelWidth))
		b.WriteString(axisSeparator)
		for _, v := range cols {
			if v > threshold && v > 0 {
				b.WriteString(barChar)
			} else {
				b.WriteByte(' ')
			}
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(b.String(), " ")); err != nil {
			return err
		}
	}
	return nil
}

func minMax(values []float64) (float64, float64) {
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	return minVal, maxVal
}

// resample averages values down to width columns, or stretches them by
// repetition when there are fewer values than columns.
func resample(values []float64, width int) []float64 {
	if len(values) == 0 || width <= 0 {
		return nil
	}
	out := make([]float64, width)
	if len(values) <= width {
		for i := range out {
			out[i] = values[i*len(values)/width]
		}
		return out
	}
	for i := 0; i < width; i++ {
		start := i * len(values) / width
		end := (i + 1) * len(values) / width
		if end <= start {
			end = start + 1
		}
		var sum float64
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}
