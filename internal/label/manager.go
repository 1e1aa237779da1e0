// Package label turns raw key events into the keystroke label shown on screen.
//
// A Manager owns the label history for one session. Sources feed it events
// through HandleKey from a single goroutine; the configured key mode decides
// which handler appends, pops or ignores each event, and every accepted event
// re-renders the label and notifies the listener.
package label

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/keycast/internal/keysym"
	"github.com/verte-zerg/keycast/internal/markup"
	"github.com/verte-zerg/keycast/internal/model"
)

// ErrRunning is returned when reconfiguring a manager that has a live source.
var ErrRunning = errors.New("label manager is running")

// Update is delivered to the listener after every re-render. Err is set
// instead of Markup when the event source failed.
type Update struct {
	Markup  string
	Repeats int
	Err     error
}

// Listener receives label updates.
type Listener func(Update)

// Sink consumes events from a Source.
type Sink interface {
	HandleKey(ev model.KeyEvent)
	HandleFailure(err error)
}

// Source produces key events on its own goroutine.
type Source interface {
	Start() error
	// Stop signals the source to halt. It does not wait.
	Stop()
	// Wait blocks until the source goroutine has exited.
	Wait() error
}

// Opener creates a source delivering events to sink.
type Opener func(dec model.Decoding, sink Sink) (Source, error)

// Manager is the event dispatcher and label state machine.
type Manager struct {
	log      zerolog.Logger
	listener Listener
	open     Opener
	now      func() time.Time

	mu      sync.Mutex
	view    *view
	history History
	count   int
	enabled bool

	srcMu sync.Mutex
	src   Source
}

// New validates cfg and builds a stopped manager.
func New(cfg model.LabelConfig, fonts markup.FontSet, listener Listener, open Opener, logger zerolog.Logger) (*Manager, error) {
	v, err := newView(cfg, fonts)
	if err != nil {
		return nil, err
	}
	if listener == nil {
		listener = func(Update) {}
	}
	return &Manager{
		log:      logger,
		listener: listener,
		open:     open,
		now:      time.Now,
		view:     v,
		enabled:  true,
	}, nil
}

// Start stops any running source and starts a new one.
func (m *Manager) Start() error {
	m.srcMu.Lock()
	defer m.srcMu.Unlock()
	m.stopLocked()

	if m.open == nil {
		return fmt.Errorf("no event source configured")
	}
	m.mu.Lock()
	dec := m.view.cfg.Decoding()
	m.mu.Unlock()

	src, err := m.open(dec, m)
	if err != nil {
		return fmt.Errorf("failed to open event source: %w", err)
	}
	if err := src.Start(); err != nil {
		return fmt.Errorf("failed to start event source: %w", err)
	}
	m.src = src
	m.log.Debug().Bool("compose", dec.Compose).Bool("translate", dec.Translate).Msg("source started")
	return nil
}

// Stop halts the running source and waits for it to exit. No event callback
// fires after Stop returns. Stop is a no-op when already stopped.
func (m *Manager) Stop() {
	m.srcMu.Lock()
	defer m.srcMu.Unlock()
	m.stopLocked()
}

func (m *Manager) stopLocked() {
	if m.src == nil {
		return
	}
	m.src.Stop()
	m.log.Debug().Msg("source stopped")
	if err := m.src.Wait(); err != nil {
		m.log.Debug().Err(err).Msg("source exited with error")
	}
	m.src = nil
}

// Wait blocks until the running source finishes on its own.
func (m *Manager) Wait() error {
	m.srcMu.Lock()
	src := m.src
	m.srcMu.Unlock()
	if src == nil {
		return nil
	}
	err := src.Wait()

	m.srcMu.Lock()
	if m.src == src {
		m.src = nil
	}
	m.srcMu.Unlock()
	return err
}

// Running reports whether a source is attached.
func (m *Manager) Running() bool {
	m.srcMu.Lock()
	defer m.srcMu.Unlock()
	return m.src != nil
}

// Reconfigure swaps the configuration and rebuilds every cache. It only
// works while stopped.
func (m *Manager) Reconfigure(cfg model.LabelConfig, fonts markup.FontSet) error {
	m.srcMu.Lock()
	defer m.srcMu.Unlock()
	if m.src != nil {
		return ErrRunning
	}
	v, err := newView(cfg, fonts)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.view = v
	m.mu.Unlock()
	return nil
}

// Config returns the active configuration.
func (m *Manager) Config() model.LabelConfig {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view.cfg
}

// SetEnabled turns event handling on or off.
func (m *Manager) SetEnabled(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = enabled
}

// Enabled reports whether events are being handled.
func (m *Manager) Enabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.enabled
}

// Clear empties the history.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = nil
	m.count = 0
}

// History returns a copy of the current history.
func (m *Manager) History() History {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(History, len(m.history))
	copy(out, m.history)
	return out
}

// Repeats returns the current repeat counter.
func (m *Manager) Repeats() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.count
}

// HandleKey processes one event. It implements Sink.
func (m *Manager) HandleKey(ev model.KeyEvent) {
	upd, ok := m.handleKey(ev)
	if ok {
		m.listener(upd)
	}
}

// HandleFailure reports a source failure to the listener. It implements Sink.
func (m *Manager) HandleFailure(err error) {
	if err == nil {
		err = errors.New("event source failed")
	}
	m.log.Debug().Err(err).Msg("source failure")
	m.listener(Update{Err: err})
}

func (m *Manager) handleKey(ev model.KeyEvent) (Update, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := m.view

	if !m.enabled {
		m.log.Debug().Str("symbol", ev.Symbol).Msg("key dropped while disabled")
		return Update{}, false
	}
	if !ev.Pressed {
		m.log.Debug().Int("code", ev.Code).Str("symbol", ev.Symbol).Msg("key released")
	}
	if _, ok := v.ignore[ev.Symbol]; ok {
		m.log.Debug().Int("code", ev.Code).Str("symbol", ev.Symbol).Msg("key ignored")
		return Update{}, false
	}
	if ev.Filtered {
		m.log.Debug().Int("code", ev.Code).Str("symbol", ev.Symbol).Msg("key filtered")
	} else if ev.Pressed {
		state := "pressed"
		if ev.Repeated {
			state = "repeated"
		}
		m.log.Debug().
			Int("code", ev.Code).
			Str("symbol", ev.Symbol).
			Str("string", ev.String).
			Stringer("mods", ev.Mods).
			Msg("key " + state)
	}

	if _, ok := keysym.ToModifier(ev.Symbol); ok {
		if len(m.history) > 0 && ev.Pressed {
			m.count++
			return m.render(v), true
		}
		return Update{}, false
	}

	if !v.handler(v, ev, &m.history, m.now()) {
		return Update{}, false
	}
	return m.render(v), true
}

func (m *Manager) render(v *view) Update {
	text := m.history.Render(v.render, m.now())
	if text == "" {
		m.count = 0
	}
	m.log.Debug().Str("markup", text).Int("repeats", m.count).Msg("label updated")
	return Update{Markup: text, Repeats: m.count}
}
