package audio

import (
	"sync"

	"github.com/gammazero/deque"
)

// DefaultJitterCap bounds buffered playback at five seconds of 24 kHz
// mono audio.
const DefaultJitterCap = 5 * DefaultTargetRate

// JitterBuffer absorbs arrival jitter of decoded audio and presents a
// steady pull-based sample source. The writer side blocks on the
// mutex; the reader side only ever tries the lock, substituting
// silence on contention or underrun, so a real-time output callback
// can pull from it without risk of stalling.
type JitterBuffer struct {
	mu  sync.Mutex
	buf deque.Deque[int16]
	max int
}

func NewJitterBuffer(maxSamples int) *JitterBuffer {
	if maxSamples <= 0 {
		maxSamples = DefaultJitterCap
	}
	return &JitterBuffer{max: maxSamples}
}

// Push appends samples to the back of the queue. Beyond the cap the
// oldest samples are evicted, bounding memory under a stalled
// consumer.
func (b *JitterBuffer) Push(samples []int16) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, s := range samples {
		b.buf.PushBack(s)
	}
	for b.buf.Len() > b.max {
		b.buf.PopFront()
	}
}

// PullSample pops one sample from the front. It never blocks: on lock
// contention or an empty queue it returns the zero sample.
func (b *JitterBuffer) PullSample() int16 {
	if !b.mu.TryLock() {
		return 0
	}
	defer b.mu.Unlock()

	if b.buf.Len() == 0 {
		return 0
	}
	return b.buf.PopFront()
}

// Len reports the number of buffered samples.
func (b *JitterBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Len()
}

// Flush drops everything buffered and reports how many samples were
// discarded.
func (b *JitterBuffer) Flush() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := b.buf.Len()
	b.buf.Clear()
	return n
}
