package condemus

import "math"

// EffectState is a live effect on a channel: the instance definition plus
// the seconds elapsed since it started. Effects are owned by their channel
// and take it as an explicit argument when applied; there are no
// back-references.
type EffectState struct {
	def EffectInstance
	pos float64
}

func newEffectState(def EffectInstance) EffectState {
	return EffectState{def: def}
}

// apply mutates the channel's pitch, volume or panning for the next dt
// seconds of playback. The three vibrations add the derivative of a sine so
// the accumulated modulation stays zero-mean.
func (e *EffectState) apply(c *ChannelState, dt float64) {
	switch e.def.Effect.Kind {
	case EffectVibrato:
		v := e.def.Effect.Vibration
		c.pitch += v.Speed * v.Depth * math.Cos(2*math.Pi*e.pos*v.Speed)
	case EffectTremolo:
		v := e.def.Effect.Vibration
		c.volume += v.Speed * v.Depth * math.Cos(2*math.Pi*e.pos*v.Speed)
	case EffectPanbrello:
		v := e.def.Effect.Vibration
		c.panning += v.Speed * v.Depth * math.Cos(2*math.Pi*e.pos*v.Speed)
	case EffectPortamento:
		sl := e.def.Effect.Slide
		if sl.Length <= 0 || e.pos >= sl.Length {
			return
		}
		// Linear ramp; the final partial step is clipped so the total
		// shift lands exactly on Amount.
		step := math.Min(dt, sl.Length-e.pos)
		c.pitch += sl.Amount * step / sl.Length
	}
}

// advance moves the effect clock and reports expiry.
func (e *EffectState) advance(dt float64) bool {
	e.pos += dt
	return e.expired()
}

func (e *EffectState) expired() bool {
	return e.pos >= e.def.Length
}
