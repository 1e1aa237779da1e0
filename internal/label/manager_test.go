package label

import (
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/keycast/internal/markup"
	"github.com/verte-zerg/keycast/internal/model"
)

func TestModifierPressBumpsCounter(t *testing.T) {
	m, rec := newTestManager(t, nil)

	m.HandleKey(press("Control_L", "", model.ModCtrl))
	if len(rec.updates) != 0 {
		t.Fatalf("modifier on empty history must not render")
	}

	m.HandleKey(press("a", "a", 0))
	m.HandleKey(press("Shift_L", "", 0))
	m.HandleKey(release("Shift_L", ""))
	m.HandleKey(press("Shift_R", "", 0))

	expectHistory(t, m, "a")
	if len(rec.updates) != 3 {
		t.Fatalf("expected 3 updates, got %d", len(rec.updates))
	}
	last := rec.updates[len(rec.updates)-1]
	if last.Markup != "a" || last.Repeats != 2 {
		t.Fatalf("unexpected update %+v", last)
	}
}

func TestEmptyLabelResetsCounter(t *testing.T) {
	m, rec := newTestManager(t, nil)
	m.HandleKey(press("a", "a", 0))
	m.HandleKey(press("Shift_L", "", 0))
	m.HandleKey(press("Shift_L", "", 0))
	if m.Repeats() != 2 {
		t.Fatalf("expected counter 2, got %d", m.Repeats())
	}
	m.HandleKey(press("BackSpace", "\b", 0))
	last := rec.updates[len(rec.updates)-1]
	if last.Markup != "" || last.Repeats != 0 {
		t.Fatalf("empty label must report zero repeats, got %+v", last)
	}
}

func TestIgnoredSymbolIsNoop(t *testing.T) {
	m, rec := newTestManager(t, func(c *model.LabelConfig) { c.Ignore = []string{"Escape", "a"} })
	m.HandleKey(press("b", "b", 0))
	before := len(m.History())
	m.HandleKey(press("Escape", "\x1b", 0))
	m.HandleKey(press("a", "a", 0))
	if len(m.History()) != before {
		t.Fatalf("ignored keys changed history")
	}
	if len(rec.updates) != 1 {
		t.Fatalf("ignored keys rendered: %d updates", len(rec.updates))
	}
}

func TestDisabledManagerDropsEvents(t *testing.T) {
	m, rec := newTestManager(t, nil)
	m.SetEnabled(false)
	m.HandleKey(press("a", "a", 0))
	if len(rec.updates) != 0 || len(m.History()) != 0 {
		t.Fatalf("disabled manager handled an event")
	}
	m.SetEnabled(true)
	m.HandleKey(press("a", "a", 0))
	expectHistory(t, m, "a")
}

func TestHandleFailureNotifies(t *testing.T) {
	m, rec := newTestManager(t, nil)
	boom := errors.New("display closed")
	m.HandleFailure(boom)
	if len(rec.updates) != 1 || !errors.Is(rec.updates[0].Err, boom) {
		t.Fatalf("expected failure update, got %+v", rec.updates)
	}
}

func TestClearEmptiesHistory(t *testing.T) {
	m, _ := newTestManager(t, nil)
	m.HandleKey(press("a", "a", 0))
	m.HandleKey(press("Shift_L", "", 0))
	m.Clear()
	if len(m.History()) != 0 || m.Repeats() != 0 {
		t.Fatalf("clear left state behind")
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := model.DefaultLabelConfig()
	cfg.BakMode = "sideways"
	if _, err := New(cfg, nil, nil, nil, zerolog.Nop()); !errors.Is(err, model.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestReconfigureRebuildsFonts(t *testing.T) {
	m, _ := newTestManager(t, nil)
	m.HandleKey(press("XF86AudioMute", "", 0))
	expectHistory(t, m, "Mute")

	m.Clear()
	if err := m.Reconfigure(m.Config(), markup.NewFontSet("FontAwesome")); err != nil {
		t.Fatalf("reconfigure: %v", err)
	}
	m.HandleKey(press("XF86AudioMute", "", 0))
	want := `<span font_family="FontAwesome" font_weight="regular">` + "\uf026" + `</span>`
	expectHistory(t, m, want)
}

type fakeSource struct {
	sink   Sink
	events []model.KeyEvent
	fail   error
	stop   chan struct{}
	done   chan struct{}
	once   sync.Once
}

func (s *fakeSource) Start() error {
	go func() {
		defer close(s.done)
		for _, ev := range s.events {
			select {
			case <-s.stop:
				return
			default:
			}
			s.sink.HandleKey(ev)
		}
		if s.fail != nil {
			s.sink.HandleFailure(s.fail)
			return
		}
		<-s.stop
	}()
	return nil
}

func (s *fakeSource) Stop() {
	s.once.Do(func() { close(s.stop) })
}

func (s *fakeSource) Wait() error {
	<-s.done
	return nil
}

func TestStartStopLifecycle(t *testing.T) {
	var (
		mu      sync.Mutex
		updates []Update
		decs    []model.Decoding
	)
	events := []model.KeyEvent{press("h", "h", 0), press("i", "i", 0)}
	delivered := make(chan struct{})
	listener := func(u Update) {
		mu.Lock()
		updates = append(updates, u)
		n := len(updates)
		mu.Unlock()
		if n == len(events) {
			close(delivered)
		}
	}
	opener := func(dec model.Decoding, sink Sink) (Source, error) {
		decs = append(decs, dec)
		return &fakeSource{sink: sink, events: events, stop: make(chan struct{}), done: make(chan struct{})}, nil
	}

	m, err := New(model.DefaultLabelConfig(), nil, listener, opener, zerolog.Nop())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	m.Stop()

	if err := m.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	<-delivered
	if err := m.Reconfigure(model.DefaultLabelConfig(), nil); !errors.Is(err, ErrRunning) {
		t.Fatalf("expected ErrRunning, got %v", err)
	}
	m.Stop()
	m.Stop()
	if m.Running() {
		t.Fatalf("manager still running after stop")
	}

	mu.Lock()
	defer mu.Unlock()
	if updates[len(updates)-1].Markup != "h i" {
		t.Fatalf("unexpected label %q", updates[len(updates)-1].Markup)
	}
	if len(decs) != 1 || !decs[0].Compose || !decs[0].Translate {
		t.Fatalf("composed mode must request compose+translate, got %+v", decs)
	}
	if err := m.Reconfigure(model.DefaultLabelConfig(), nil); err != nil {
		t.Fatalf("reconfigure while stopped: %v", err)
	}
}

func TestWaitReturnsAfterSourceFailure(t *testing.T) {
	boom := errors.New("no display")
	var got []Update
	opener := func(_ model.Decoding, sink Sink) (Source, error) {
		return &fakeSource{sink: sink, fail: boom, stop: make(chan struct{}), done: make(chan struct{})}, nil
	}
	m, err := New(model.DefaultLabelConfig(), nil, func(u Update) { got = append(got, u) }, opener, zerolog.Nop())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := m.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := m.Wait(); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if m.Running() {
		t.Fatalf("finished source should detach")
	}
	if len(got) != 1 || !errors.Is(got[0].Err, boom) {
		t.Fatalf("expected one failure update, got %+v", got)
	}
}
