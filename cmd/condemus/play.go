package main

import (
	"encoding/binary"
	"io"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/spf13/cobra"

	"github.com/condemus/condemus"
)

const playBlockSamples = 4096

var playFlags struct {
	track    int
	duration float64
	rate     int
}

var playCmd = &cobra.Command{
	Use:   "play <project>",
	Short: "Play a track through the default audio device",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlay,
}

func init() {
	f := playCmd.Flags()
	f.IntVarP(&playFlags.track, "track", "t", 0, "track index to play")
	f.Float64VarP(&playFlags.duration, "duration", "d", 0, "seconds to play (0 = until the track falls silent)")
	f.IntVarP(&playFlags.rate, "rate", "r", 44100, "output sample rate in Hz")
	rootCmd.AddCommand(playCmd)
}

// pcmStream adapts a RenderState to the io.Reader oto consumes, producing
// interleaved 16-bit little-endian stereo PCM.
type pcmStream struct {
	state       *condemus.RenderState
	left, right *condemus.AudioBuffer
	pending     []byte
	samplesLeft int // -1 means unbounded
}

func newPCMStream(state *condemus.RenderState, rate int, duration float64) *pcmStream {
	samplesLeft := -1
	if duration > 0 {
		samplesLeft = int(duration * float64(rate))
	}
	return &pcmStream{
		state:       state,
		left:        condemus.NewAudioBuffer(playBlockSamples, float64(rate), condemus.ResampleLinear),
		right:       condemus.NewAudioBuffer(playBlockSamples, float64(rate), condemus.ResampleLinear),
		samplesLeft: samplesLeft,
	}
}

func (s *pcmStream) Read(p []byte) (int, error) {
	if len(s.pending) == 0 {
		if s.samplesLeft == 0 || !s.state.Playing() {
			return 0, io.EOF
		}

		n := playBlockSamples
		if s.samplesLeft > 0 && n > s.samplesLeft {
			n = s.samplesLeft
			s.left = condemus.NewAudioBuffer(n, s.left.Rate, s.left.Resampler)
			s.right = condemus.NewAudioBuffer(n, s.right.Rate, s.right.Resampler)
		}
		s.state.Render(s.left, s.right)
		if s.samplesLeft > 0 {
			s.samplesLeft -= n
		}

		s.pending = make([]byte, n*4)
		for i := 0; i < n; i++ {
			binary.LittleEndian.PutUint16(s.pending[i*4:], uint16(quantize(s.left.Out[i])))
			binary.LittleEndian.PutUint16(s.pending[i*4+2:], uint16(quantize(s.right.Out[i])))
		}
	}

	n := copy(p, s.pending)
	s.pending = s.pending[n:]
	return n, nil
}

func quantize(v float64) int16 {
	if v > 1 {
		v = 1
	} else if v < -1 {
		v = -1
	}
	return int16(v * 32767)
}

func runPlay(cmd *cobra.Command, args []string) error {
	proj, err := condemus.LoadProject(args[0])
	if err != nil {
		return err
	}

	state, err := condemus.NewRenderState(proj)
	if err != nil {
		return err
	}
	if err := state.SetTrack(playFlags.track); err != nil {
		return err
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   playFlags.rate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return err
	}
	<-ready

	player := ctx.NewPlayer(newPCMStream(state, playFlags.rate, playFlags.duration))
	player.SetBufferSize(playFlags.rate / 10 * 4) // 100ms
	player.Play()
	for player.IsPlaying() {
		time.Sleep(50 * time.Millisecond)
	}
	return player.Close()
}
