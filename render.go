package condemus

// RenderState sequences one track's patterns and fans rendering across the
// active ones. The caller owns it exclusively; one Render call produces one
// contiguous block of stereo audio and advances the clock by the block
// duration. Rendering is single-threaded and synchronous.
type RenderState struct {
	proj *Project

	track     int // -1 when stopped
	position  float64
	transport Transport

	active  []activePattern
	started []bool // per pattern ref of the current track
}

type activePattern struct {
	state *PatternState
	ref   int
}

// NewRenderState validates the project once up front; rendering assumes the
// indices resolve.
func NewRenderState(proj *Project) (*RenderState, error) {
	if err := proj.Validate(); err != nil {
		return nil, err
	}
	return &RenderState{proj: proj, track: -1}, nil
}

// SetTrack selects the track and rewinds to position zero, instantiating
// the pattern states scheduled at the track start.
func (rs *RenderState) SetTrack(track int) error {
	if track < 0 || track >= len(rs.proj.Tracks) {
		return ErrBadTrackIndex
	}

	rs.track = track
	rs.position = 0
	rs.transport = newTransport(rs.proj.Tracks[track].Metadata)
	rs.active = rs.active[:0]
	rs.started = make([]bool, len(rs.proj.Tracks[track].PatternRefs))

	for i, ref := range rs.proj.Tracks[track].PatternRefs {
		if ref.Position <= 0 {
			rs.activate(i, ref.Pattern, 0)
		}
	}
	return nil
}

// Stop deselects the track; subsequent renders produce silence.
func (rs *RenderState) Stop() {
	rs.track = -1
	rs.position = 0
	rs.active = nil
	rs.started = nil
}

// Playing reports whether a track is selected and has audio left to
// produce: pattern states still active or activation boundaries ahead.
func (rs *RenderState) Playing() bool {
	if rs.track < 0 {
		return false
	}
	if len(rs.active) > 0 {
		return true
	}
	for _, s := range rs.started {
		if !s {
			return true
		}
	}
	return false
}

func (rs *RenderState) activate(ref, pattern int, startAt float64) {
	rs.started[ref] = true
	rs.active = append(rs.active, activePattern{state: newPatternState(rs.proj, pattern, startAt), ref: ref})
}

// Render zeroes both buffers and mixes the next block of the track into
// them. The buffers must share rate and resampler; on a rate mismatch the
// left buffer's rate wins. Pattern refs whose position falls inside the
// block start rendering at their exact offset, so output is independent of
// the caller's block size.
func (rs *RenderState) Render(left, right *AudioBuffer) {
	left.Zero()
	right.Zero()

	if rs.track < 0 {
		return
	}

	if right.Rate != left.Rate {
		shadow := *right
		shadow.Rate = left.Rate
		right = &shadow
	}

	dur := left.LenSecs()
	start, end := rs.position, rs.position+dur
	refs := rs.proj.Tracks[rs.track].PatternRefs

	for i, ref := range refs {
		if !rs.started[i] && ref.Position < end {
			rs.activate(i, ref.Pattern, ref.Position)
		}
	}

	keep := rs.active[:0]
	for _, ap := range rs.active {
		offs := refs[ap.ref].Position - start
		if offs < 0 {
			offs = 0
		}
		lw := left.Whole().Window(offs, dur)
		rw := right.Whole().Window(offs, dur)
		ended := ap.state.render(lw, rw, &rs.transport)
		if !ended {
			keep = append(keep, ap)
		}
	}
	rs.active = keep

	// Catch the transport clock up through regions no pattern walked.
	rs.transport.advanceTo(end)
	rs.position = end
}
