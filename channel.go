package condemus

import (
	"math"
	"reflect"

	baseclone "github.com/huandu/go-clone"
	clone "github.com/huandu/go-clone/generic"
)

func init() {
	// Sampler snapshots deep-clone their state but must share the
	// immutable project, not copy it.
	baseclone.MarkAsOpaquePointer(reflect.TypeOf((*Project)(nil)))
}

// ChannelState is one active note: instrument + sample + pitch + effects +
// sampler. It holds indices into the shared immutable project, never bare
// pointers into its data.
type ChannelState struct {
	proj       *Project
	instrument int
	sample     int

	pitch   float64
	volume  float64
	panning float64
	effects []EffectState
	sampler Sampler

	paused  bool
	stopped bool
	fading  bool
	fadeLen float64
	fadePos float64
}

func newChannelState(proj *Project, ins *NoteInstruction) *ChannelState {
	inst := &proj.Instruments[ins.Instrument]
	c := &ChannelState{
		proj:       proj,
		instrument: ins.Instrument,
		sample:     inst.Sample,
		pitch:      ins.Pitch,
		volume:     ins.Volume,
		panning:    clampPan(ins.Pan + inst.Pan),
		sampler:    inst.Mode.newSampler(proj, inst.Sample),
	}
	for _, e := range ins.Effects {
		c.effects = append(c.effects, newEffectState(e))
	}
	return c
}

func clampPan(p float64) float64 {
	return math.Max(-1, math.Min(1, p))
}

// stop ends the voice; it is reaped at the end of the current block.
func (c *ChannelState) stop() {
	c.stopped = true
}

// fade ramps the volume linearly to zero over secs, then the voice dies.
func (c *ChannelState) fade(secs float64) {
	if secs <= 0 {
		c.stopped = true
		return
	}
	c.fading = true
	c.fadeLen = secs
	c.fadePos = 0
}

// togglePause holds the voice: sampler position and effect clocks freeze
// while paused and resume from the held position.
func (c *ChannelState) togglePause() {
	c.paused = !c.paused
}

func (c *ChannelState) nextLoop() bool {
	return c.sampler.NextLoop()
}

func (c *ChannelState) finished() bool {
	if c.stopped {
		return true
	}
	if c.fading && c.fadePos >= c.fadeLen {
		return true
	}
	return c.sampler.Finished()
}

func (c *ChannelState) fadeGain() float64 {
	if !c.fading {
		return 1
	}
	return math.Max(0, 1-c.fadePos/c.fadeLen)
}

// render mixes the voice into both stereo sinks. Effects are applied before
// the sampler emits audio for this window; pitch shift is expressed as a
// rate change on the sinks. The left pass runs on a snapshot of the sampler
// so both passes observe the same start state.
func (c *ChannelState) render(left, right AudioBufferSlice, gain float64) {
	if c.paused || c.stopped || left.Samples() == 0 {
		return
	}

	dt := left.LenSecs()
	for i := range c.effects {
		c.effects[i].apply(c, dt)
	}

	inst := &c.proj.Instruments[c.instrument]
	pitchRate := math.Exp2((c.pitch - inst.BasePitch) / 12)

	g := gain * inst.Volume * c.fadeGain() * c.volume
	lgain := g * (1 - c.panning) / 2
	rgain := g * (1 + c.panning) / 2

	snapshot := clone.Clone(c.sampler)
	snapshot.Render(left.WithRate(pitchRate), lgain)
	c.sampler.Render(right.WithRate(pitchRate), rgain)

	if c.fading {
		c.fadePos += dt
	}

	live := c.effects[:0]
	for i := range c.effects {
		if !c.effects[i].advance(dt) {
			live = append(live, c.effects[i])
		}
	}
	c.effects = live
}
