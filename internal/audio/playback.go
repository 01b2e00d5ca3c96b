package audio

import (
	"log/slog"

	"github.com/eleven-am/voice-client/internal/realtime"
)

type PlayerConfig struct {
	// MaxBufferedSamples caps the jitter buffer; zero means
	// DefaultJitterCap.
	MaxBufferedSamples int
	// OnTurnEnd fires when the server marks audio output done for an
	// item.
	OnTurnEnd func(ref realtime.ItemRef)
	// OnEvent receives every non-audio event, keeping session events
	// visible to the caller when the Player owns the stream.
	OnEvent func(ev realtime.ReceivedEvent)
	Log     *slog.Logger
}

// Player feeds a jitter buffer from the inbound event stream. An audio
// output callback pulls one sample at a time via PullSample and gets
// silence rather than ever waiting.
type Player struct {
	buf       *JitterBuffer
	onTurnEnd func(realtime.ItemRef)
	onEvent   func(realtime.ReceivedEvent)
	log       *slog.Logger
}

func NewPlayer(cfg PlayerConfig) *Player {
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}
	return &Player{
		buf:       NewJitterBuffer(cfg.MaxBufferedSamples),
		onTurnEnd: cfg.OnTurnEnd,
		onEvent:   cfg.OnEvent,
		log:       cfg.Log,
	}
}

// Buffer exposes the underlying jitter buffer.
func (p *Player) Buffer() *JitterBuffer {
	return p.buf
}

// PullSample is the real-time output callback entry point.
func (p *Player) PullSample() int16 {
	return p.buf.PullSample()
}

// HandleEvent routes one received event: audio deltas are decoded into
// the jitter buffer, audio done fires the turn-end hook, everything
// else is forwarded.
func (p *Player) HandleEvent(ev realtime.ReceivedEvent) {
	switch e := ev.(type) {
	case realtime.AudioDelta:
		samples, err := DecodePCM16Base64(e.Delta)
		if err != nil {
			p.log.Debug("dropping undecodable audio delta", "item_id", e.ItemID, "error", err)
			return
		}
		p.buf.Push(samples)
	case realtime.AudioDone:
		if p.onTurnEnd != nil {
			p.onTurnEnd(e.ItemRef)
		}
	default:
		if p.onEvent != nil {
			p.onEvent(ev)
		}
	}
}

// Run consumes the stream until it closes. It is the Player's blocking
// attach mode; callers that want to multiplex events themselves call
// HandleEvent directly instead.
func (p *Player) Run(events <-chan realtime.ReceivedEvent) {
	for ev := range events {
		p.HandleEvent(ev)
	}
}
