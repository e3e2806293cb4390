package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/condemus/condemus"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <project>",
	Short: "Print the contents of a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var modeNames = map[condemus.InstrumentModeKind]string{
	condemus.ModeBasic:       "basic",
	condemus.ModeGranulating: "granulating",
}

func runInspect(cmd *cobra.Command, args []string) error {
	proj, err := condemus.LoadProject(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("samples: %d\n", len(proj.Samples))
	for i := range proj.Samples {
		s := &proj.Samples[i]
		fmt.Printf("  %2d: %6d frames @ %.0f Hz (%.2fs)\n", i, len(s.Audio), s.BaseRate, s.LenSecs())
	}

	fmt.Printf("instruments: %d\n", len(proj.Instruments))
	for i := range proj.Instruments {
		ins := &proj.Instruments[i]
		fmt.Printf("  %2d: sample %d, %s, base pitch %.1f, vol %.2f, pan %+.2f\n",
			i, ins.Sample, modeNames[ins.Mode.Kind], ins.BasePitch, ins.Volume, ins.Pan)
	}

	fmt.Printf("patterns: %d\n", len(proj.Patterns))
	for i := range proj.Patterns {
		p := &proj.Patterns[i]
		fmt.Printf("  %2d: %dx%d @ %.2f rows/s (%.2fs), %d commands\n",
			i, p.Width, p.Height, p.RowSpeed, p.LenSecs(), len(p.Commands))
	}

	fmt.Printf("tracks: %d\n", len(proj.Tracks))
	for i := range proj.Tracks {
		t := &proj.Tracks[i]
		dur, _ := proj.TrackDuration(i)
		fmt.Printf("  %2d: %q, tempo %.1f, volume %.2f, %d refs, %.2fs\n",
			i, t.Metadata.Name, t.Metadata.InitTempo, t.Metadata.InitVolume, len(t.PatternRefs), dur)
		for _, ref := range t.PatternRefs {
			fmt.Printf("      %7.2fs -> pattern %d\n", ref.Position, ref.Pattern)
		}
	}
	return nil
}
