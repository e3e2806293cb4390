package condemus

import (
	"math"
	"testing"
)

func vibratoInstance(speed, depth, length float64) EffectInstance {
	return EffectInstance{
		Length: length,
		Effect: Effect{Kind: EffectVibrato, Vibration: Vibration{Speed: speed, Depth: depth}},
	}
}

func TestVibratoZeroDepthIsNoOp(t *testing.T) {
	ch := &ChannelState{pitch: 60, volume: 1}
	es := newEffectState(vibratoInstance(3, 0, 1))

	for i := 0; i < 50; i++ {
		es.apply(ch, 0.01)
		es.advance(0.01)
	}
	if ch.pitch != 60 {
		t.Errorf("pitch moved to %v with zero depth", ch.pitch)
	}
}

func TestTremoloZeroMean(t *testing.T) {
	ch := &ChannelState{volume: 1}
	es := newEffectState(EffectInstance{
		Length: 1,
		Effect: Effect{Kind: EffectTremolo, Vibration: Vibration{Speed: 1, Depth: 0.1}},
	})

	// One full period in uniform steps: the cosine contributions cancel.
	const n = 100
	for i := 0; i < n; i++ {
		es.apply(ch, 1.0/n)
		es.advance(1.0 / n)
	}
	if math.Abs(ch.volume-1) > 1e-9 {
		t.Errorf("volume drifted to %v over a full period", ch.volume)
	}
	if !es.expired() {
		t.Error("effect should have expired at pos >= length")
	}
}

func TestPanbrelloMovesPanning(t *testing.T) {
	ch := &ChannelState{}
	es := newEffectState(EffectInstance{
		Length: 1,
		Effect: Effect{Kind: EffectPanbrello, Vibration: Vibration{Speed: 2, Depth: 0.25}},
	})

	es.apply(ch, 0.01)
	if got := ch.panning; math.Abs(got-2*0.25) > 1e-12 {
		t.Errorf("first application = %v, want %v (cos(0) peak)", got, 2*0.25)
	}
}

func TestPortamentoTotalShift(t *testing.T) {
	ch := &ChannelState{pitch: 60}
	es := newEffectState(EffectInstance{
		Length: 1,
		Effect: Effect{Kind: EffectPortamento, Slide: Slide{Length: 0.5, Amount: 2}},
	})

	// Uneven block sizes; the final partial step is clipped so the ramp
	// lands exactly on the requested amount.
	for _, dt := range []float64{0.3, 0.3, 0.3} {
		es.apply(ch, dt)
		es.advance(dt)
	}
	if math.Abs(ch.pitch-62) > 1e-12 {
		t.Errorf("pitch = %v, want 62", ch.pitch)
	}
}

func TestEffectExpiryPruning(t *testing.T) {
	proj := newTestProject()
	note := &NoteInstruction{
		Instrument: 0,
		Pitch:      60,
		Volume:     1,
		Effects:    []EffectInstance{vibratoInstance(2, 0.1, 0.25)},
	}
	ch := newChannelState(proj, note)
	if len(ch.effects) != 1 {
		t.Fatalf("expected one live effect, got %d", len(ch.effects))
	}

	left := NewAudioBuffer(5, 10, ResampleLinear)
	right := NewAudioBuffer(5, 10, ResampleLinear)
	ch.render(left.Whole(), right.Whole(), 1) // 0.5s > effect length
	if len(ch.effects) != 0 {
		t.Errorf("expired effect not pruned, %d left", len(ch.effects))
	}
}
