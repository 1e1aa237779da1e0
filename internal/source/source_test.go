package source

import (
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/verte-zerg/keycast/internal/model"
)

type recordingSink struct {
	mu       sync.Mutex
	events   []model.KeyEvent
	failures []error
}

func (s *recordingSink) HandleKey(ev model.KeyEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func (s *recordingSink) HandleFailure(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, err)
}

func (s *recordingSink) symbols() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.events))
	for _, ev := range s.events {
		out = append(out, ev.Symbol)
	}
	return out
}

func TestChannelDeliversUntilClosed(t *testing.T) {
	in := make(chan Message, 4)
	sink := &recordingSink{}
	src := NewChannel(in, model.Decoding{}, sink, zerolog.Nop())
	if err := src.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	in <- Message{Event: model.KeyEvent{Symbol: "a", Pressed: true}}
	in <- Message{Event: model.KeyEvent{Symbol: "b", Pressed: true}}
	close(in)
	if err := src.Wait(); err != nil {
		t.Fatalf("wait: %v", err)
	}
	got := sink.symbols()
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("unexpected events %v", got)
	}
	if err := src.Start(); err == nil {
		t.Fatalf("second start must fail")
	}
}

func TestChannelFailureEndsSource(t *testing.T) {
	in := make(chan Message, 2)
	sink := &recordingSink{}
	src := NewChannel(in, model.Decoding{}, sink, zerolog.Nop())
	boom := errors.New("device gone")
	in <- Message{Err: boom}
	in <- Message{Event: model.KeyEvent{Symbol: "a"}}
	if err := src.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	_ = src.Wait()
	if len(sink.failures) != 1 || !errors.Is(sink.failures[0], boom) {
		t.Fatalf("expected one failure, got %v", sink.failures)
	}
	if len(sink.events) != 0 {
		t.Fatalf("events delivered after failure: %v", sink.symbols())
	}
}

func TestChannelStopJoins(t *testing.T) {
	in := make(chan Message)
	sink := &recordingSink{}
	src := NewChannel(in, model.Decoding{}, sink, zerolog.Nop())
	if err := src.Wait(); err != nil {
		t.Fatalf("wait before start: %v", err)
	}
	if err := src.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	src.Stop()
	src.Stop()
	if err := src.Wait(); err != nil {
		t.Fatalf("wait: %v", err)
	}
}

func TestReplayDeliversInOrder(t *testing.T) {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	events := []model.KeyEvent{
		{Symbol: "h", Pressed: true, Time: base},
		{Symbol: "i", Pressed: true, Time: base.Add(5 * time.Millisecond)},
	}
	sink := &recordingSink{}
	src := NewReplay(events, true, sink, zerolog.Nop())
	if err := src.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	_ = src.Wait()
	got := sink.symbols()
	if len(got) != 2 || got[0] != "h" || got[1] != "i" {
		t.Fatalf("unexpected events %v", got)
	}
}

func TestReplayStopInterruptsPacing(t *testing.T) {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	events := []model.KeyEvent{
		{Symbol: "h", Pressed: true, Time: base},
		{Symbol: "i", Pressed: true, Time: base.Add(time.Hour)},
	}
	sink := &recordingSink{}
	src := NewReplay(events, true, sink, zerolog.Nop())
	if err := src.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	src.Stop()
	_ = src.Wait()
	if got := sink.symbols(); len(got) > 1 {
		t.Fatalf("paced replay ignored stop: %v", got)
	}
}

func TestFromKeyMsgRunes(t *testing.T) {
	now := time.Now()
	evs := FromKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'A'}, Alt: true}, now)
	if len(evs) != 1 {
		t.Fatalf("expected one event, got %d", len(evs))
	}
	ev := evs[0]
	if ev.Symbol != "A" || ev.String != "A" || !ev.Pressed {
		t.Fatalf("unexpected event %+v", ev)
	}
	if !ev.Mods.Has(model.ModShift) || !ev.Mods.Has(model.ModAlt) {
		t.Fatalf("expected shift+alt, got %s", ev.Mods)
	}

	evs = FromKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a."), Paste: true, Alt: true}, now)
	if len(evs) != 2 || evs[0].Symbol != "a" || evs[1].Symbol != "period" {
		t.Fatalf("unexpected paste events %+v", evs)
	}
	if evs[0].Mods != 0 {
		t.Fatalf("pasted runes carry no modifiers, got %s", evs[0].Mods)
	}
}

func TestFromKeyMsgSpecialKeys(t *testing.T) {
	now := time.Now()
	cases := []struct {
		msg    tea.KeyMsg
		symbol string
		mods   model.ModState
	}{
		{tea.KeyMsg{Type: tea.KeyEnter}, "Return", 0},
		{tea.KeyMsg{Type: tea.KeyTab}, "Tab", 0},
		{tea.KeyMsg{Type: tea.KeyShiftTab}, "ISO_Left_Tab", model.ModShift},
		{tea.KeyMsg{Type: tea.KeyBackspace}, "BackSpace", 0},
		{tea.KeyMsg{Type: tea.KeySpace}, "space", 0},
		{tea.KeyMsg{Type: tea.KeyPgUp}, "Prior", 0},
		{tea.KeyMsg{Type: tea.KeyCtrlShiftLeft}, "Left", model.ModCtrl | model.ModShift},
		{tea.KeyMsg{Type: tea.KeyF5}, "F5", 0},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, "c", model.ModCtrl},
		{tea.KeyMsg{Type: tea.KeyEscape, Alt: true}, "Escape", model.ModAlt},
	}
	for _, tc := range cases {
		evs := FromKeyMsg(tc.msg, now)
		if len(evs) != 1 {
			t.Fatalf("%s: expected one event, got %d", tc.symbol, len(evs))
		}
		if evs[0].Symbol != tc.symbol || evs[0].Mods != tc.mods {
			t.Fatalf("expected %s/%s, got %s/%s", tc.symbol, tc.mods, evs[0].Symbol, evs[0].Mods)
		}
	}
}

func TestRuneSymbol(t *testing.T) {
	if RuneSymbol(' ') != "space" || RuneSymbol('~') != "asciitilde" || RuneSymbol('é') != "é" {
		t.Fatalf("unexpected rune symbols")
	}
}
