// SPDX-License-Identifier: EPL-2.0
package audio

import "fmt"

// MonoMixer folds an interleaved multi-channel Source down to one channel
// with the same arithmetic as Buffer.Mono.
type MonoMixer struct {
	src Source
	tmp []float32
}

func NewMonoMixer(src Source) *MonoMixer {
	return &MonoMixer{
		src: src,
		tmp: make([]float32, 4096*max(1, src.Channels())),
	}
}

func (m *MonoMixer) SampleRate() int { return m.src.SampleRate() }
func (m *MonoMixer) Channels() int   { return 1 }
func (m *MonoMixer) BufSize() int    { return m.src.BufSize() }

// Frames forwards the source length when it is known.
func (m *MonoMixer) Frames() int64 {
	if l, ok := m.src.(Lengther); ok {
		return l.Frames()
	}
	return -1
}

func (m *MonoMixer) Close() error {
	if err := m.src.Close(); err != nil {
		return fmt.Errorf("closing mixer source: %w", err)
	}
	return nil
}

func (m *MonoMixer) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	channels := m.src.Channels()
	if channels == 1 {
		return m.src.ReadSamples(dst)
	}

	need := len(dst) * channels
	if cap(m.tmp) < need {
		m.tmp = make([]float32, need)
	}
	m.tmp = m.tmp[:need]

	n, err := m.src.ReadSamples(m.tmp)
	if n == 0 {
		return 0, err
	}

	frames := n / channels
	downmix(dst[:frames], m.tmp[:frames*channels], channels)
	return frames, err
}

// downmix averages interleaved frames of src into dst.
func downmix(dst, src []float32, channels int) {
	switch channels {
	case 2:
		for f := range dst {
			dst[f] = (src[2*f] + src[2*f+1]) * 0.5
		}
	default:
		inv := float32(1.0) / float32(channels)
		for f := range dst {
			var sum float32
			for _, s := range src[f*channels : (f+1)*channels] {
				sum += s
			}
			dst[f] = sum * inv
		}
	}
}
