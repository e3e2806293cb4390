package condemus

import (
	"math"
	"testing"

	clone "github.com/huandu/go-clone/generic"
)

// rampProject is the template most tests derive from: a five-point ramp
// sample looping forward over its full second, played by a 1x1 pattern.
// Tests clone it and adjust rather than mutating the shared value.
var rampProject = Project{
	Samples: []Sample{
		{Audio: []float64{0, 0.25, 0.5, 0.75, 1}, BaseRate: 5},
	},
	Instruments: []Instrument{
		{
			Sample:    0,
			Volume:    1,
			BasePitch: 60,
			Mode: InstrumentMode{
				Kind: ModeBasic,
				Basic: BasicMode{
					Loops: []LoopDef{{Kind: LoopForward, Section: LoopSection{From: 0, To: 1}}},
				},
			},
		},
	},
	Patterns: []Pattern{
		{
			Width:    1,
			Height:   1,
			RowSpeed: 1,
			Instructions: []Instruction{
				{Kind: InstructionNote, Note: &NoteInstruction{Instrument: 0, Pitch: 60, Volume: 1}},
			},
		},
	},
	Tracks: []Track{
		{
			PatternRefs: []PatternRef{{Position: 0, Pattern: 0}},
			Metadata:    TrackMetadata{Name: "ramp", InitVolume: 1},
		},
	},
}

func newTestProject() *Project {
	p := clone.Clone(rampProject)
	return &p
}

func newTestRenderState(t *testing.T, proj *Project) *RenderState {
	t.Helper()
	rs, err := NewRenderState(proj)
	if err != nil {
		t.Fatalf("NewRenderState: %v", err)
	}
	return rs
}

func renderBlock(t *testing.T, rs *RenderState, samples int, rate float64) ([]float64, []float64) {
	t.Helper()
	left := NewAudioBuffer(samples, rate, ResampleLinear)
	right := NewAudioBuffer(samples, rate, ResampleLinear)
	rs.Render(left, right)
	return left.Out, right.Out
}

func floatsNear(a, b []float64, tol float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}

func expectFloats(t *testing.T, got, want []float64, tol float64) {
	t.Helper()
	if !floatsNear(got, want, tol) {
		t.Errorf("audio mismatch\n got %v\nwant %v", got, want)
	}
}

func allZero(xs []float64) bool {
	for _, x := range xs {
		if x != 0 {
			return false
		}
	}
	return true
}
