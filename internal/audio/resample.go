package audio

import "fmt"

// Resampler converts a sample stream between rates by linear
// interpolation. It carries its position and the last input sample
// across Process calls, so feeding a stream chunk by chunk produces
// the same output as feeding it whole.
type Resampler struct {
	fromRate int
	toRate   int
	step     float64

	pos  float64
	prev float32
}

func NewResampler(fromRate, toRate int) (*Resampler, error) {
	if fromRate <= 0 || toRate <= 0 {
		return nil, fmt.Errorf("invalid sample rates %d -> %d", fromRate, toRate)
	}
	return &Resampler{
		fromRate: fromRate,
		toRate:   toRate,
		step:     float64(fromRate) / float64(toRate),
	}, nil
}

// Process resamples one chunk. The returned slice is freshly
// allocated; input is not retained.
func (r *Resampler) Process(in []float32) []float32 {
	if len(in) == 0 {
		return nil
	}
	if r.fromRate == r.toRate {
		out := make([]float32, len(in))
		copy(out, in)
		return out
	}

	out := make([]float32, 0, int(float64(len(in))/r.step)+1)
	pos := r.pos
	for pos < float64(len(in)-1) {
		var s0, s1 float32
		var frac float32
		if pos < 0 {
			// interpolating across the previous chunk boundary
			s0, s1 = r.prev, in[0]
			frac = float32(pos + 1)
		} else {
			idx := int(pos)
			s0, s1 = in[idx], in[idx+1]
			frac = float32(pos - float64(idx))
		}
		out = append(out, s0+(s1-s0)*frac)
		pos += r.step
	}

	r.pos = pos - float64(len(in))
	r.prev = in[len(in)-1]
	return out
}

// Reset drops carried state so the next Process starts a fresh stream.
func (r *Resampler) Reset() {
	r.pos = 0
	r.prev = 0
}
