// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/ik5/djdeck/audio"
)

// Player is implemented by inputs that can tell whether they are running.
// Inputs without it count as always playing.
type Player interface {
	IsPlaying() bool
}

// Mixer sums its inputs into one bus without scaling. Inputs are fixed at
// construction; Process and ReadSamples belong to the audio path.
type Mixer struct {
	inputs    []audio.Processor
	channels  int
	rate      int
	blockSize int
	log       *logrus.Entry

	scratch [][]float32
	planar  [][]float32
}

var (
	_ audio.Processor = (*Mixer)(nil)
	_ audio.Source    = (*Mixer)(nil)
)

// New returns a mixer already prepared for sampleRate and blockSize. A nil
// log uses the standard logger.
func New(sampleRate, channels, blockSize int, log *logrus.Entry, inputs ...audio.Processor) (*Mixer, error) {
	switch {
	case sampleRate <= 0 || channels <= 0 || blockSize <= 0:
		return nil, fmt.Errorf("%w: %d Hz, %d channels, %d frames",
			ErrInvalidLayout, sampleRate, channels, blockSize)
	case len(inputs) == 0:
		return nil, ErrNoInputs
	}
	for i, in := range inputs {
		if in == nil {
			return nil, fmt.Errorf("%w: input %d is nil", ErrNoInputs, i)
		}
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	m := &Mixer{
		inputs:   inputs,
		channels: channels,
		log:      log,
	}
	m.Prepare(sampleRate, blockSize)
	return m, nil
}

// Prepare forwards the device layout to every input.
func (m *Mixer) Prepare(sampleRate, blockSize int) {
	if sampleRate <= 0 || blockSize <= 0 {
		return
	}
	m.rate = sampleRate
	if blockSize != m.blockSize {
		m.blockSize = blockSize
		m.scratch = planarBuffer(m.channels, blockSize)
		m.planar = planarBuffer(m.channels, blockSize)
	}
	for _, in := range m.inputs {
		in.Prepare(sampleRate, blockSize)
	}

	m.log.WithFields(logrus.Fields{
		"function":    "Prepare",
		"inputs":      len(m.inputs),
		"sample_rate": sampleRate,
		"block_size":  blockSize,
	}).Debug("Mixer prepared")
}

func (m *Mixer) Release() {
	for _, in := range m.inputs {
		in.Release()
	}
}

// Process overwrites block[c][start:start+length] with the sum of the
// inputs. Channels past the mixer's own count are silenced.
func (m *Mixer) Process(block [][]float32, start, length int) {
	if length <= 0 || start < 0 {
		return
	}
	for _, ch := range block {
		if start+length > len(ch) {
			return
		}
	}

	for _, ch := range block {
		clear(ch[start : start+length])
	}

	channels := min(len(block), m.channels)
	for off := 0; off < length; off += m.blockSize {
		n := min(m.blockSize, length-off)
		for _, in := range m.inputs {
			in.Process(m.scratch, 0, n)
			for c := range channels {
				dst := block[c][start+off : start+off+n]
				for i, v := range m.scratch[c][:n] {
					dst[i] += v
				}
			}
		}
	}
}

// Idle reports whether every input that can stop has stopped.
func (m *Mixer) Idle() bool {
	for _, in := range m.inputs {
		p, ok := in.(Player)
		if !ok || p.IsPlaying() {
			return false
		}
	}
	return true
}

func (m *Mixer) SampleRate() int { return m.rate }
func (m *Mixer) Channels() int   { return m.channels }
func (m *Mixer) BufSize() int    { return m.blockSize * m.channels }
func (m *Mixer) Close() error    { return nil }

// ReadSamples renders interleaved frames. Once every input is idle it
// returns io.EOF, after the block in which the last input stopped.
func (m *Mixer) ReadSamples(dst []float32) (int, error) {
	if len(dst)%m.channels != 0 {
		return 0, audio.ErrInvalidDstSize
	}
	if m.Idle() {
		return 0, io.EOF
	}

	written := 0
	for written < len(dst) {
		frames := min((len(dst)-written)/m.channels, m.blockSize)
		m.Process(m.planar, 0, frames)
		interleave(dst[written:], m.planar, frames)
		written += frames * m.channels

		if m.Idle() {
			return written, io.EOF
		}
	}
	return written, nil
}

func planarBuffer(channels, frames int) [][]float32 {
	out := make([][]float32, channels)
	for c := range out {
		out[c] = make([]float32, frames)
	}
	return out
}

func interleave(dst []float32, planar [][]float32, frames int) {
	channels := len(planar)
	for c, ch := range planar {
		for f := range frames {
			dst[f*channels+c] = ch[f]
		}
	}
}
