// Package tui provides the Bubble Tea host that shows the keystroke label.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/verte-zerg/keycast/internal/label"
	"github.com/verte-zerg/keycast/internal/markup"
	"github.com/verte-zerg/keycast/internal/model"
	"github.com/verte-zerg/keycast/internal/source"
)

const maxLabelLines = 4

// Options wires the model to a label manager.
type Options struct {
	// Forward receives every key the terminal reports.
	Forward func(model.KeyEvent)
	// Clear empties the label history.
	Clear func()
	// SetEnabled pauses or resumes label updates.
	SetEnabled func(bool)
	// Updates delivers label updates from the manager's listener.
	Updates <-chan label.Update
	// Timeout clears the label after this much inactivity. Zero disables it.
	Timeout time.Duration

	Palette Palette
	Status  string
	Logger  zerolog.Logger
}

type updateMsg label.Update

type updatesClosedMsg struct{}

type timeoutMsg struct {
	seq int
}

// Model implements the Bubble Tea keystroke display.
type Model struct {
	opts   Options
	keys   keyMap
	help   help.Model
	styles styles

	width  int
	height int

	markup  string
	repeats int
	err     error
	paused  bool
	seq     int
	keyCnt  int
}

// NewModel constructs the display model.
func NewModel(opts Options) *Model {
	if opts.Forward == nil {
		opts.Forward = func(model.KeyEvent) {}
	}
	if opts.Clear == nil {
		opts.Clear = func() {}
	}
	if opts.SetEnabled == nil {
		opts.SetEnabled = func(bool) {}
	}
	return &Model{
		opts:   opts,
		keys:   defaultKeyMap(),
		help:   help.New(),
		styles: newStyles(opts.Palette),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return waitForUpdate(m.opts.Updates)
}

func waitForUpdate(ch <-chan label.Update) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		upd, ok := <-ch
		if !ok {
			return updatesClosedMsg{}
		}
		return updateMsg(upd)
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case updateMsg:
		return m, tea.Batch(m.applyUpdate(label.Update(msg)), waitForUpdate(m.opts.Updates))
	case updatesClosedMsg:
		return m, nil
	case timeoutMsg:
		if msg.seq == m.seq && m.markup != "" {
			m.opts.Logger.Debug().Dur("timeout", m.opts.Timeout).Msg("label timed out")
			m.clear()
		}
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) applyUpdate(upd label.Update) tea.Cmd {
	if upd.Err != nil {
		m.err = upd.Err
		m.opts.Logger.Error().Err(upd.Err).Msg("event source failed")
		return nil
	}
	m.markup = upd.Markup
	m.repeats = upd.Repeats
	m.seq++
	if m.opts.Timeout <= 0 || m.markup == "" {
		return nil
	}
	seq := m.seq
	return tea.Tick(m.opts.Timeout, func(time.Time) tea.Msg {
		return timeoutMsg{seq: seq}
	})
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Clear):
		m.clear()
		return nil
	case key.Matches(msg, m.keys.Pause):
		m.paused = !m.paused
		m.opts.SetEnabled(!m.paused)
		return nil
	}
	events := source.FromKeyMsg(msg, time.Now())
	if len(events) == 0 {
		m.opts.Logger.Debug().Str("key", source.KeyName(msg)).Msg("untranslatable key")
		return nil
	}
	for _, ev := range events {
		m.keyCnt++
		m.opts.Forward(ev)
	}
	return nil
}

func (m *Model) clear() {
	m.opts.Clear()
	m.markup = ""
	m.repeats = 0
	m.seq++
}

// View implements tea.Model.
func (m *Model) View() string {
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return m.renderLabel(0, maxLabelLines) + "\n" + footer
	}
	contentWidth := int(float64(m.width) * 0.70)
	if contentWidth < 1 {
		contentWidth = 1
	}
	bodyHeight := m.height - 1
	lines := min(maxLabelLines, max(1, bodyHeight-2))
	box := ""
	if m.markup != "" {
		// Border and padding take two cells on each side.
		box = m.styles.box.Render(m.renderLabel(max(1, contentWidth-4), lines))
	}
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Bottom, box)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderLabel(width, lines int) string {
	if m.markup == "" {
		return ""
	}
	runes := buildStyledRunes(markup.Parse(m.markup), m.styles.label)
	return fitTail(runes, width, lines)
}

func (m *Model) renderFooter() string {
	segments := []string{}
	if m.opts.Status != "" {
		segments = append(segments, m.opts.Status)
	}
	segments = append(segments, fmt.Sprintf("Keys %d", m.keyCnt))
	if m.repeats > 0 {
		segments = append(segments, fmt.Sprintf("Mods ×%d", m.repeats))
	}
	if m.paused {
		segments = append(segments, "Paused")
	}
	footer := m.styles.footer.Render(strings.Join(segments, " · "))
	if m.err != nil {
		footer += "  " + m.styles.errorMsg.Render(m.err.Error())
	}
	return footer + "  " + m.help.View(m.keys)
}
