package condemus

import (
	"math"
	"testing"
)

func TestBufferLenSecs(t *testing.T) {
	b := NewAudioBuffer(441, 44100, ResampleLinear)
	if got := b.LenSecs(); math.Abs(got-0.01) > 1e-12 {
		t.Errorf("LenSecs = %v, want 0.01", got)
	}
}

func TestSliceSamples(t *testing.T) {
	b := NewAudioBuffer(20, 10, ResampleLinear)

	whole := b.Whole()
	if whole.Samples() != 20 {
		t.Errorf("whole Samples = %d, want 20", whole.Samples())
	}
	if whole.LenSecs() != 2 {
		t.Errorf("whole LenSecs = %v, want 2", whole.LenSecs())
	}

	s := b.Slice(0.5, 1.5)
	if s.Samples() != 10 {
		t.Errorf("slice Samples = %d, want 10", s.Samples())
	}

	// Windows clamp to the slice end; 0.75s at 10 Hz rounds up.
	w := s.Window(0.25, 5)
	if w.Samples() != 8 {
		t.Errorf("window Samples = %d, want 8", w.Samples())
	}
}

func TestSliceWithRate(t *testing.T) {
	b := NewAudioBuffer(10, 10, ResampleLinear)

	s := b.Whole().WithRate(2)
	if s.Samples() != 10 {
		t.Errorf("physical sample count must not change, got %d", s.Samples())
	}
	// The sampler underneath sees half the time pass.
	if math.Abs(s.LenSecs()-0.5) > 1e-12 {
		t.Errorf("scaled LenSecs = %v, want 0.5", s.LenSecs())
	}
}

func TestSliceOutClamps(t *testing.T) {
	b := NewAudioBuffer(10, 10, ResampleLinear)
	s := b.Slice(0.5, 1.0)

	out := s.out(0, 100)
	if len(out) != 5 {
		t.Errorf("clamped out length = %d, want 5", len(out))
	}
	out[0] = 1
	if b.Out[5] != 1 {
		t.Error("out window does not alias the buffer at the slice base")
	}

	if got := s.out(3, 3); got != nil {
		t.Errorf("empty range should be nil, got %v", got)
	}
}

func TestRenderSingleSampleBlock(t *testing.T) {
	// A one-sample block is degenerate but must behave.
	proj := newTestProject()
	rs := newTestRenderState(t, proj)
	if err := rs.SetTrack(0); err != nil {
		t.Fatal(err)
	}

	left, right := renderBlock(t, rs, 1, 10)
	if len(left) != 1 || len(right) != 1 {
		t.Fatal("block length changed")
	}
	if left[0] != 0 {
		t.Errorf("first ramp sample should be 0, got %v", left[0])
	}

	// Subsequent single-sample blocks stay well-defined and bounded by the
	// active channel gain.
	for i := 0; i < 30; i++ {
		left, right = renderBlock(t, rs, 1, 10)
		if math.Abs(left[0]) > 0.5 || math.Abs(right[0]) > 0.5 {
			t.Fatalf("block %d exceeds channel gain: %v %v", i, left[0], right[0])
		}
	}
}
