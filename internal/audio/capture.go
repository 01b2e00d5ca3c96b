package audio

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/eleven-am/voice-client/internal/realtime"
)

// Sender accepts input events for ordered delivery. *realtime.Session
// satisfies it.
type Sender interface {
	Send(ctx context.Context, ev realtime.InputEvent) error
}

const (
	// DefaultTargetRate is the protocol's fixed audio rate.
	DefaultTargetRate = 24000

	defaultHandoffDepth = 32
)

type CaptureConfig struct {
	// SourceRate and SourceChannels describe the device callback format.
	SourceRate     int
	SourceChannels int
	// TargetRate defaults to DefaultTargetRate.
	TargetRate int
	// HandoffDepth bounds the real-time handoff. When it is full the
	// newest chunk is dropped so the callback never blocks.
	HandoffDepth int
	Log          *slog.Logger
}

// CapturePipeline bridges a hard-real-time capture callback into
// base64 PCM16 audio append events. OnFrame is safe to call from a
// real-time thread: it only downmixes and performs a non-blocking
// handoff. A worker goroutine does the resampling and encoding.
type CapturePipeline struct {
	sender    Sender
	resampler *Resampler
	channels  int
	log       *slog.Logger

	handoff chan []float32
	done    chan struct{}

	stopOnce sync.Once
	wg       sync.WaitGroup
	dropped  atomic.Uint64
}

func NewCapturePipeline(sender Sender, cfg CaptureConfig) (*CapturePipeline, error) {
	if cfg.TargetRate <= 0 {
		cfg.TargetRate = DefaultTargetRate
	}
	if cfg.HandoffDepth <= 0 {
		cfg.HandoffDepth = defaultHandoffDepth
	}
	if cfg.SourceChannels <= 0 {
		cfg.SourceChannels = 1
	}
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}

	resampler, err := NewResampler(cfg.SourceRate, cfg.TargetRate)
	if err != nil {
		return nil, err
	}

	return &CapturePipeline{
		sender:    sender,
		resampler: resampler,
		channels:  cfg.SourceChannels,
		log:       cfg.Log,
		handoff:   make(chan []float32, cfg.HandoffDepth),
		done:      make(chan struct{}),
	}, nil
}

// Start launches the resampling worker. ctx bounds the sends it makes.
func (p *CapturePipeline) Start(ctx context.Context) {
	p.wg.Add(1)
	go p.run(ctx)
}

// OnFrame is the capture callback entry point: interleaved float
// samples at the device's native rate and channel count. It completes
// in bounded time and never blocks; under overload the chunk is
// dropped and the drop counter incremented.
func (p *CapturePipeline) OnFrame(interleaved []float32) {
	mono := Downmix(interleaved, p.channels)

	select {
	case p.handoff <- mono:
	case <-p.done:
	default:
		p.dropped.Add(1)
	}
}

// Commit signals an explicit turn boundary. Unnecessary when the
// session uses server-side turn detection.
func (p *CapturePipeline) Commit(ctx context.Context) error {
	return p.sender.Send(ctx, realtime.CommitAudio())
}

// Clear discards the server-side input buffer.
func (p *CapturePipeline) Clear(ctx context.Context) error {
	return p.sender.Send(ctx, realtime.ClearAudio())
}

// Dropped reports how many capture chunks were discarded because the
// handoff was full.
func (p *CapturePipeline) Dropped() uint64 {
	return p.dropped.Load()
}

// Stop terminates the worker and waits for it to exit.
func (p *CapturePipeline) Stop() {
	p.stopOnce.Do(func() {
		close(p.done)
	})
	p.wg.Wait()
}

func (p *CapturePipeline) run(ctx context.Context) {
	defer p.wg.Done()

	for {
		select {
		case <-p.done:
			return
		case <-ctx.Done():
			return
		case chunk := <-p.handoff:
			resampled := p.resampler.Process(chunk)
			if len(resampled) == 0 {
				continue
			}
			b64 := EncodePCM16Base64(Float32ToInt16(resampled))
			if err := p.sender.Send(ctx, realtime.AppendAudio(b64)); err != nil {
				p.log.Debug("dropping capture chunk", "error", err)
			}
		}
	}
}
