package condemus

import "math"

// Sampler produces audio from one sample under a loop or granulation policy,
// advancing its own position. Implementations are the variants of
// InstrumentMode; both stay loop-agnostic below the Subsegs partition.
type Sampler interface {
	// Render mixes the next LenSecs of playback into the sink at gain.
	Render(sink AudioBufferSlice, gain float64)
	// NextLoop advances to the next loop entry. A false return means the
	// voice should be cut.
	NextLoop() bool
	// Finished reports that playback ran off a non-looping end.
	Finished() bool
}

func (m InstrumentMode) newSampler(proj *Project, sample int) Sampler {
	switch m.Kind {
	case ModeGranulating:
		return newGranulatingSamplerState(proj, sample, m.Granulating)
	default:
		return newBasicSamplerState(proj, sample, m.Basic)
	}
}

// renderSpan mixes a single monotone run of source audio into the sink
// starting at offs effective seconds. The run is clamped against the sample
// bounds; time outside them stays silent.
func renderSpan(smp *Sample, sink AudioBufferSlice, offs float64, from Position, length float64, gain float64) {
	if length <= 0 {
		return
	}

	left, right := from.At, from.At+length
	if from.Reversing {
		left, right = from.At-length, from.At
	}

	sampleLen := smp.LenSecs()
	clampedLeft, clampedRight := math.Max(left, 0), math.Min(right, sampleLen)
	if clampedRight <= clampedLeft {
		return
	}

	// The audible part starts after the lead spent outside the sample:
	// before 0 for forward runs, past the sample end for reversed runs.
	var lead float64
	if from.Reversing {
		lead = right - clampedRight
	} else {
		lead = clampedLeft - left
	}

	lo := secsToSamples(offs+lead, sink.rate)
	ro := secsToSamples(offs+lead+(clampedRight-clampedLeft), sink.rate)
	dst := sink.out(lo, ro)
	if len(dst) == 0 {
		return
	}

	ls := secsToSamples(clampedLeft, smp.BaseRate)
	rs := secsToSamples(clampedRight, smp.BaseRate)
	if rs > len(smp.Audio) {
		rs = len(smp.Audio)
	}
	if ls < 0 {
		ls = 0
	}
	if rs <= ls {
		return
	}

	sink.buf.Resampler.Resample(smp.Audio[ls:rs], dst, gain, from.Reversing)
}

// BasicSamplerState plays a sample under an ordered list of loop defs.
type BasicSamplerState struct {
	proj     *Project
	sample   int
	def      BasicMode
	position Position
	currLoop int
}

func newBasicSamplerState(proj *Project, sample int, def BasicMode) *BasicSamplerState {
	return &BasicSamplerState{
		proj:     proj,
		sample:   sample,
		def:      def,
		position: Position{At: def.Start},
	}
}

// thisLoop is the active loop def; exhausting the list degrades to a
// non-looping run to the end of the sample.
func (s *BasicSamplerState) thisLoop() LoopDef {
	if s.currLoop < len(s.def.Loops) {
		return s.def.Loops[s.currLoop]
	}
	return LoopDef{Kind: LoopNone}
}

func (s *BasicSamplerState) Render(sink AudioBufferSlice, gain float64) {
	smp := &s.proj.Samples[s.sample]
	if smp.BaseRate <= 0 || len(smp.Audio) == 0 {
		return
	}

	def := s.thisLoop()
	if def.Kind != LoopNone && def.Section.Len() <= 0 {
		return
	}

	segs := def.Subsegs(s.position, sink.LenSecs())
	offs := 0.0
	for _, seg := range segs {
		renderSpan(smp, sink, offs, seg.From, seg.Length, gain)
		offs += seg.Length
	}
	s.position = segs[len(segs)-1].End()
}

func (s *BasicSamplerState) NextLoop() bool {
	if s.currLoop+1 < len(s.def.Loops) {
		s.currLoop++
		return true
	}
	return false
}

func (s *BasicSamplerState) Finished() bool {
	if s.thisLoop().Kind != LoopNone {
		return false
	}
	smp := &s.proj.Samples[s.sample]
	if s.position.Reversing {
		return s.position.At <= 0
	}
	return s.position.At >= smp.LenSecs()
}

// GranuleState is one live granule: a short one-shot window of the sample,
// aged against the granulating segment length.
type GranuleState struct {
	At  float64
	Age float64
}

// GranulatingSamplerState re-triggers the mode's segment every interval,
// enveloping each granule by the smoothing mode.
type GranulatingSamplerState struct {
	proj     *Project
	sample   int
	def      GranulatingMode
	granules []GranuleState
	age      float64
}

func newGranulatingSamplerState(proj *Project, sample int, def GranulatingMode) *GranulatingSamplerState {
	// The note onset is the first granule.
	return &GranulatingSamplerState{
		proj:     proj,
		sample:   sample,
		def:      def,
		granules: []GranuleState{{At: def.Segment.From}},
	}
}

func (s *GranulatingSamplerState) Render(sink AudioBufferSlice, gain float64) {
	smp := &s.proj.Samples[s.sample]
	segLen := s.def.Segment.Len()
	if smp.BaseRate <= 0 || len(smp.Audio) == 0 || segLen <= 0 || s.def.Interval <= 0 {
		return
	}

	dur := sink.LenSecs()

	// Spawn one granule per interval multiple crossed in (age, age+dur].
	k0 := int(math.Floor(s.age / s.def.Interval))
	k1 := int(math.Floor((s.age + dur) / s.def.Interval))
	for k := k0 + 1; k <= k1; k++ {
		s.granules = append(s.granules, GranuleState{At: s.def.Segment.From})
	}
	s.age += dur

	live := s.granules[:0]
	for _, g := range s.granules {
		span := math.Min(dur, segLen-g.Age)
		if span > 0 {
			n := g.Age / segLen
			dist := math.Min(n, 1-n)
			factor := s.def.Smoothing.factor(dist)
			renderSpan(smp, sink, 0, Position{At: g.At}, span, gain*s.def.Gain*factor)
		}

		g.At += dur
		g.Age += dur
		if g.Age < segLen {
			live = append(live, g)
		}
	}
	s.granules = live
}

func (s *GranulatingSamplerState) NextLoop() bool {
	return false
}

func (s *GranulatingSamplerState) Finished() bool {
	return false
}

// factor evaluates the granule envelope at dist, the normalized distance to
// the nearer granule edge (0 at the edges, 0.5 in the middle).
func (m SmoothingMode) factor(dist float64) float64 {
	switch m.Kind {
	case SmoothingTriangle:
		return 2 * dist
	case SmoothingLinear:
		if m.Width <= 0 {
			return 1
		}
		return math.Min(1, dist/m.Width)
	case SmoothingSquareRoot:
		if m.Width <= 0 {
			return 1
		}
		return math.Min(1, math.Sqrt(dist/m.Width))
	case SmoothingCosine:
		if m.Width <= 0 {
			return 1
		}
		return math.Cos((1 - dist) * math.Pi / (2 * m.Width))
	default:
		return 1
	}
}
