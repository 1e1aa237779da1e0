package source

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/keycast/internal/label"
	"github.com/verte-zerg/keycast/internal/model"
)

// Replay delivers a recorded event stream, optionally at its original pace.
type Replay struct {
	worker
	events []model.KeyEvent
	pace   bool
	sink   label.Sink
	log    zerolog.Logger
}

// NewReplay builds a Replay source.
func NewReplay(events []model.KeyEvent, pace bool, sink label.Sink, logger zerolog.Logger) *Replay {
	return &Replay{
		worker: newWorker(),
		events: events,
		pace:   pace,
		sink:   sink,
		log:    logger,
	}
}

// ReplayOpener returns a label.Opener replaying events.
func ReplayOpener(events []model.KeyEvent, pace bool, logger zerolog.Logger) label.Opener {
	return func(_ model.Decoding, sink label.Sink) (label.Source, error) {
		return NewReplay(events, pace, sink, logger), nil
	}
}

// Start launches the replay goroutine.
func (r *Replay) Start() error {
	return r.start(r.loop)
}

func (r *Replay) loop(stop <-chan struct{}) {
	var prev time.Time
	for i, ev := range r.events {
		if r.pace && i > 0 && !prev.IsZero() && ev.Time.After(prev) {
			timer := time.NewTimer(ev.Time.Sub(prev))
			select {
			case <-stop:
				timer.Stop()
				return
			case <-timer.C:
			}
		} else {
			select {
			case <-stop:
				return
			default:
			}
		}
		prev = ev.Time
		r.sink.HandleKey(ev)
	}
	r.log.Debug().Int("events", len(r.events)).Msg("replay finished")
}
