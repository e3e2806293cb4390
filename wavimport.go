package condemus

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-audio/wav"
)

var ErrNotWAV = errors.New("not a valid WAV file")

// LoadSampleWAV builds a Sample from a WAV file: channels are mixed down to
// mono, integer PCM is normalized to [-1, 1], and the baserate is the
// file's sample rate.
func LoadSampleWAV(path string) (Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return Sample{}, fmt.Errorf("load sample: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return Sample{}, fmt.Errorf("load sample %s: %w", path, ErrNotWAV)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return Sample{}, fmt.Errorf("load sample: %w", err)
	}

	nch := buf.Format.NumChannels
	if nch < 1 {
		return Sample{}, fmt.Errorf("load sample %s: %w", path, ErrNotWAV)
	}
	scale := float64(int(1) << (dec.BitDepth - 1))

	audio := make([]float64, len(buf.Data)/nch)
	for i := range audio {
		sum := 0
		for c := 0; c < nch; c++ {
			sum += buf.Data[i*nch+c]
		}
		audio[i] = float64(sum) / float64(nch) / scale
	}

	return Sample{Audio: audio, BaseRate: float64(buf.Format.SampleRate)}, nil
}
