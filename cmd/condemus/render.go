package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/condemus/condemus"
	"github.com/condemus/condemus/internal/comb"
	"github.com/condemus/condemus/wav"
)

const renderBlockSamples = 2048

var renderFlags struct {
	track       int
	out         string
	duration    float64
	rate        int
	interp      string
	reverb      bool
	reverbDelay int
	reverbDecay float64
}

var renderCmd = &cobra.Command{
	Use:   "render <project>",
	Short: "Render a track to a WAV file",
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

func init() {
	f := renderCmd.Flags()
	f.IntVarP(&renderFlags.track, "track", "t", 0, "track index to render")
	f.StringVarP(&renderFlags.out, "out", "o", "out.wav", "output WAV file")
	f.Float64VarP(&renderFlags.duration, "duration", "d", 0, "seconds to render (0 = track length plus a 2s tail)")
	f.IntVarP(&renderFlags.rate, "rate", "r", 44100, "output sample rate in Hz")
	f.StringVar(&renderFlags.interp, "interp", "linear", "resampler: nearest or linear")
	f.BoolVar(&renderFlags.reverb, "reverb", false, "apply a comb filter reverb to the output")
	f.IntVar(&renderFlags.reverbDelay, "reverb-delay", 120, "reverb delay in milliseconds")
	f.Float64Var(&renderFlags.reverbDecay, "reverb-decay", 0.4, "reverb decay factor")
	rootCmd.AddCommand(renderCmd)
}

func pickResampler(name string) (condemus.Resampler, error) {
	switch name {
	case "nearest":
		return condemus.ResampleNearest, nil
	case "linear":
		return condemus.ResampleLinear, nil
	default:
		return 0, fmt.Errorf("unknown resampler %q", name)
	}
}

func runRender(cmd *cobra.Command, args []string) error {
	proj, err := condemus.LoadProject(args[0])
	if err != nil {
		return err
	}

	resampler, err := pickResampler(renderFlags.interp)
	if err != nil {
		return err
	}

	state, err := condemus.NewRenderState(proj)
	if err != nil {
		return err
	}
	if err := state.SetTrack(renderFlags.track); err != nil {
		return err
	}

	duration := renderFlags.duration
	if duration <= 0 {
		trackLen, err := proj.TrackDuration(renderFlags.track)
		if err != nil {
			return err
		}
		duration = trackLen + 2
	}

	wavF, err := os.Create(renderFlags.out)
	if err != nil {
		return err
	}
	defer wavF.Close()

	wavW, err := wav.NewWriter(wavF, renderFlags.rate)
	if err != nil {
		return err
	}

	var reverb *comb.Comb
	if renderFlags.reverb {
		reverb = comb.New(renderFlags.reverbDecay, renderFlags.reverbDelay, renderFlags.rate)
	}

	rate := float64(renderFlags.rate)
	left := condemus.NewAudioBuffer(renderBlockSamples, rate, resampler)
	right := condemus.NewAudioBuffer(renderBlockSamples, rate, resampler)

	samplesLeft := int(duration * rate)
	for samplesLeft > 0 {
		n := renderBlockSamples
		if n > samplesLeft {
			n = samplesLeft
		}
		if n != len(left.Out) {
			left = condemus.NewAudioBuffer(n, rate, resampler)
			right = condemus.NewAudioBuffer(n, rate, resampler)
		}

		state.Render(left, right)
		if reverb != nil {
			reverb.Process(left.Out, right.Out)
		}
		if err := wavW.WriteStereo(left.Out, right.Out); err != nil {
			return err
		}
		samplesLeft -= n
	}

	if _, err := wavW.Finish(); err != nil {
		return err
	}
	log.Printf("wrote %.2fs to %s", duration, renderFlags.out)
	return nil
}
