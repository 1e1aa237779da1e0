package source

import (
	"github.com/rs/zerolog"

	"github.com/verte-zerg/keycast/internal/label"
	"github.com/verte-zerg/keycast/internal/model"
)

// Message is one item read by a Channel source. A non-nil Err reports an
// upstream failure and ends the source.
type Message struct {
	Event model.KeyEvent
	Err   error
}

// Channel delivers events read from a Go channel. Closing the channel ends
// the source.
type Channel struct {
	worker
	in   <-chan Message
	sink label.Sink
	dec  model.Decoding
	log  zerolog.Logger
}

// NewChannel builds a Channel source.
func NewChannel(in <-chan Message, dec model.Decoding, sink label.Sink, logger zerolog.Logger) *Channel {
	return &Channel{
		worker: newWorker(),
		in:     in,
		sink:   sink,
		dec:    dec,
		log:    logger,
	}
}

// ChannelOpener returns a label.Opener that reads from in.
func ChannelOpener(in <-chan Message, logger zerolog.Logger) label.Opener {
	return func(dec model.Decoding, sink label.Sink) (label.Source, error) {
		return NewChannel(in, dec, sink, logger), nil
	}
}

// Start launches the reading goroutine.
func (c *Channel) Start() error {
	c.log.Debug().Bool("compose", c.dec.Compose).Bool("translate", c.dec.Translate).Msg("channel source starting")
	return c.start(c.loop)
}

func (c *Channel) loop(stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case msg, ok := <-c.in:
			if !ok {
				c.log.Debug().Msg("channel source closed")
				return
			}
			// A stop that raced with a pending message wins.
			select {
			case <-stop:
				return
			default:
			}
			if msg.Err != nil {
				c.sink.HandleFailure(msg.Err)
				return
			}
			c.sink.HandleKey(msg.Event)
		}
	}
}
