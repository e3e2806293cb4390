// Package wav writes 16-bit stereo PCM WAVE files incrementally: audio is
// appended block by block and the RIFF sizes are back-patched on Finish, so
// the quantity of audio never has to be known up front.
// See http://soundfile.sapp.org/doc/WaveFormat/ for format documentation.

package wav

import (
	"encoding/binary"
	"io"
)

const PCM = 1

type Writer struct {
	WS io.WriteSeeker
}

type Format struct {
	AudioFormat   uint16
	Channels      uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
}

// NewWriter emits the RIFF/fmt/data scaffolding with placeholder sizes and
// leaves the writer positioned for audio data.
func NewWriter(ws io.WriteSeeker, sampleRate int) (*Writer, error) {
	w := &Writer{WS: ws}

	format := Format{
		AudioFormat:   PCM,
		Channels:      2,
		SampleRate:    uint32(sampleRate),
		ByteRate:      uint32(sampleRate) * 2 * (16 / 8),
		BlockAlign:    2 * (16 / 8),
		BitsPerSample: 16,
	}

	// Sizes of the RIFF and data chunks are unknown until Finish; write
	// zeros now and come back for them later.
	if err := w.chunkHeader("RIFF", 0); err != nil {
		return nil, err
	}
	if _, err := ws.Write([]byte("WAVE")); err != nil {
		return nil, err
	}
	if err := w.chunkHeader("fmt ", 16); err != nil {
		return nil, err
	}
	if err := binary.Write(ws, binary.LittleEndian, format); err != nil {
		return nil, err
	}
	return w, w.chunkHeader("data", 0)
}

func (w *Writer) chunkHeader(id string, size int32) error {
	if _, err := w.WS.Write([]byte(id)); err != nil {
		return err
	}
	return binary.Write(w.WS, binary.LittleEndian, size)
}

// WriteStereo appends one block of float stereo audio as 16-bit PCM.
// Amplitudes are clamped to [-1, 1]; left and right must be equal length.
func (w *Writer) WriteStereo(left, right []float64) error {
	frames := make([]int16, 0, len(left)*2)
	for i := range left {
		frames = append(frames, quantize(left[i]), quantize(right[i]))
	}
	return binary.Write(w.WS, binary.LittleEndian, frames)
}

func quantize(s float64) int16 {
	if s > 1 {
		s = 1
	} else if s < -1 {
		s = -1
	}
	return int16(s * 32767)
}

// Finish back-patches the RIFF and data chunk sizes now that the quantity
// of audio data is known.
func (w *Writer) Finish() (int64, error) {
	wlen, err := w.WS.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, err
	}

	if err := w.patchSize(4, int32(wlen-8)); err != nil {
		return 0, err
	}
	if err := w.patchSize(40, int32(wlen-44)); err != nil {
		return 0, err
	}
	return wlen, nil
}

func (w *Writer) patchSize(offset int64, size int32) error {
	if _, err := w.WS.Seek(offset, io.SeekStart); err != nil {
		return err
	}
	return binary.Write(w.WS, binary.LittleEndian, size)
}
