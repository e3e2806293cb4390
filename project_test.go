package condemus

import (
	"errors"
	"math"
	"testing"
)

func TestValidateCatchesDanglingIndices(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Project)
		want   error
	}{
		{"instrument sample", func(p *Project) { p.Instruments[0].Sample = 3 }, ErrBadSampleIndex},
		{"note instrument", func(p *Project) { p.Patterns[0].Instructions[0].Note.Instrument = 7 }, ErrBadInstrumentIndex},
		{"track pattern", func(p *Project) { p.Tracks[0].PatternRefs[0].Pattern = 7 }, ErrBadPatternIndex},
		{"pattern shape", func(p *Project) { p.Patterns[0].Height = 5 }, ErrBadPatternShape},
		{"negative baserate", func(p *Project) { p.Samples[0].BaseRate = -1 }, ErrBadBaseRate},
	}

	for _, tc := range cases {
		proj := newTestProject()
		tc.mutate(proj)
		if err := proj.Validate(); !errors.Is(err, tc.want) {
			t.Errorf("%s: got %v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestValidateAcceptsTemplate(t *testing.T) {
	if err := newTestProject().Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestTrackDuration(t *testing.T) {
	proj := newTestProject()
	proj.Patterns = append(proj.Patterns, Pattern{Width: 0, Height: 4, RowSpeed: 2})
	proj.Tracks[0].PatternRefs = append(proj.Tracks[0].PatternRefs, PatternRef{Position: 1.5, Pattern: 1})

	// Pattern 0 spans [0, 1], pattern 1 spans [1.5, 3.5].
	dur, err := proj.TrackDuration(0)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(dur-3.5) > 1e-12 {
		t.Errorf("duration = %v, want 3.5", dur)
	}

	if _, err := proj.TrackDuration(3); err != ErrBadTrackIndex {
		t.Errorf("expected ErrBadTrackIndex, got %v", err)
	}
}
