package condemus

// Transport carries the track-global tempo and volume, mutated by pattern
// commands. Tempo scales effective row speed relative to the track's
// initial tempo; Volume multiplies every channel gain. Slides progress
// against a monotone track-time clock that the pattern row walk pushes
// forward at every subsegment boundary, so a slide moves within a render
// call and the trajectory does not depend on how the caller splits blocks.
type Transport struct {
	Tempo  float64
	Volume float64

	initTempo float64
	clock     float64
	slides    []transportSlide
}

type transportSlide struct {
	kind  CommandKind
	start float64
	slide Slide
	pos   float64
}

func newTransport(meta TrackMetadata) Transport {
	// InitVolume is taken as authored: zero starts the track muted, which
	// a later SlideGlobalVolume can fade in from.
	return Transport{Tempo: meta.InitTempo, Volume: meta.InitVolume, initTempo: meta.InitTempo}
}

// tempoScale is the factor applied to every pattern's own row speed.
func (t *Transport) tempoScale() float64 {
	if t.initTempo <= 0 {
		return 1
	}
	return t.Tempo / t.initTempo
}

// fire applies a pattern command. Set variants assign instantly; Slide
// variants ramp from the value at fire time.
func (t *Transport) fire(cmd Command) {
	switch cmd.Kind {
	case CommandSetTempo:
		t.Tempo = cmd.Value
	case CommandSetGlobalVolume:
		t.Volume = cmd.Value
	case CommandSlideTempo:
		if cmd.Slide.Length <= 0 {
			t.Tempo += cmd.Slide.Amount
			return
		}
		t.slides = append(t.slides, transportSlide{kind: cmd.Kind, start: t.Tempo, slide: cmd.Slide})
	case CommandSlideGlobalVolume:
		if cmd.Slide.Length <= 0 {
			t.Volume += cmd.Slide.Amount
			return
		}
		t.slides = append(t.slides, transportSlide{kind: cmd.Kind, start: t.Volume, slide: cmd.Slide})
	}
}

// advanceTo progresses live slides up to track time now. Calls for time the
// clock has already passed are no-ops, so overlapping patterns walking the
// same region advance a slide exactly once.
func (t *Transport) advanceTo(now float64) {
	dt := now - t.clock
	if dt <= 0 {
		return
	}
	t.clock = now

	live := t.slides[:0]
	for _, s := range t.slides {
		s.pos += dt
		f := s.pos / s.slide.Length
		if f > 1 {
			f = 1
		}
		v := s.start + s.slide.Amount*f
		switch s.kind {
		case CommandSlideTempo:
			t.Tempo = v
		case CommandSlideGlobalVolume:
			t.Volume = v
		}
		if s.pos < s.slide.Length {
			live = append(live, s)
		}
	}
	t.slides = live
}
