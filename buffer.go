package condemus

import "math"

// AudioBuffer is a mono output vector with an output sample rate and a
// resampler selection. Stereo is two parallel buffers sharing a rate.
type AudioBuffer struct {
	Out       []float64
	Rate      float64
	Resampler Resampler
}

func NewAudioBuffer(samples int, rate float64, r Resampler) *AudioBuffer {
	return &AudioBuffer{Out: make([]float64, samples), Rate: rate, Resampler: r}
}

// LenSecs is the buffer duration at its output rate.
func (b *AudioBuffer) LenSecs() float64 {
	return float64(len(b.Out)) / b.Rate
}

func (b *AudioBuffer) Zero() {
	for i := range b.Out {
		b.Out[i] = 0
	}
}

// Whole is a slice covering the entire buffer.
func (b *AudioBuffer) Whole() AudioBufferSlice {
	return AudioBufferSlice{buf: b, start: 0, end: b.LenSecs(), rate: b.Rate}
}

// Slice is a window over [start, end) seconds of the buffer.
func (b *AudioBuffer) Slice(start, end float64) AudioBufferSlice {
	return AudioBufferSlice{buf: b, start: start, end: end, rate: b.Rate}
}

// AudioBufferSlice is a value-typed window into an AudioBuffer. It carries
// an effective consumption rate which pitch shifting scales away from the
// buffer's physical rate; sub-intervals compose without copying and without
// aliasing a borrowed sub-slice.
type AudioBufferSlice struct {
	buf        *AudioBuffer
	start, end float64 // window bounds in buffer seconds
	rate       float64 // effective rate; buf.Rate unless pitch-scaled
}

// Rate is the slice's effective consumption rate in samples per second.
func (s AudioBufferSlice) Rate() float64 {
	return s.rate
}

// Samples is the number of physical output samples the window spans.
func (s AudioBufferSlice) Samples() int {
	n := secsToSamples(s.end-s.start, s.buf.Rate)
	if base := s.base(); base+n > len(s.buf.Out) {
		n = len(s.buf.Out) - base
	}
	if n < 0 {
		n = 0
	}
	return n
}

// LenSecs is the window duration in effective seconds: the amount of source
// time a sampler consumes filling it.
func (s AudioBufferSlice) LenSecs() float64 {
	return float64(s.Samples()) / s.rate
}

// Window returns the sub-window [from, to) given in effective seconds
// relative to the slice start.
func (s AudioBufferSlice) Window(from, to float64) AudioBufferSlice {
	scale := s.rate / s.buf.Rate
	lo := s.start + from*scale
	hi := s.start + to*scale
	if hi > s.end {
		hi = s.end
	}
	return AudioBufferSlice{buf: s.buf, start: lo, end: hi, rate: s.rate}
}

// WithRate scales the effective rate. Pitch shift is expressed this way:
// the sampler underneath stays naive and simply sees time pass at a
// different rate.
func (s AudioBufferSlice) WithRate(scale float64) AudioBufferSlice {
	s.rate *= scale
	return s
}

func (s AudioBufferSlice) base() int {
	return secsToSamples(s.start, s.buf.Rate)
}

// out returns the physical samples for effective index range [from, to)
// within the window, clamped to the window and the buffer.
func (s AudioBufferSlice) out(from, to int) []float64 {
	base := s.base()
	n := s.Samples()
	if from < 0 {
		from = 0
	}
	if to > n {
		to = n
	}
	if from >= to {
		return nil
	}
	return s.buf.Out[base+from : base+to]
}

// secsToSamples converts a time in seconds to a sample count at rate.
// Rounding keeps boundaries stable when the seconds value carries float
// error from accumulated row arithmetic.
func secsToSamples(secs, rate float64) int {
	return int(math.Round(secs * rate))
}
