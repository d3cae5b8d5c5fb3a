// SPDX-License-Identifier: EPL-2.0

// Package audiotest holds synthetic sources shared by the package tests.
package audiotest

import (
	"io"
	"math"
)

// MockSource generates audio from a waveform function.
// It implements the audio.Source interface (without importing it to avoid cycles).
type MockSource struct {
	sampleRate   int
	channels     int
	totalSamples int // per channel
	generated    int // per channel
	partial      int // samples of an unfinished frame, ChunkedSource only
	waveform     func(sample int, channel int) float32
}

// NewMockSource creates a new mock audio source.
// totalSamples is the total number of samples per channel to generate.
func NewMockSource(sampleRate, channels, totalSamples int, waveform func(sample int, channel int) float32) *MockSource {
	return &MockSource{
		sampleRate:   sampleRate,
		channels:     channels,
		totalSamples: totalSamples,
		waveform:     waveform,
	}
}

// NewSilentSource creates a mock source that generates silence.
func NewSilentSource(sampleRate, channels, totalSamples int) *MockSource {
	return NewConstantSource(sampleRate, channels, totalSamples, 0)
}

// NewSineSource creates a mock source that generates a sine wave.
func NewSineSource(sampleRate, channels, totalSamples int, frequency float64) *MockSource {
	return NewMockSource(sampleRate, channels, totalSamples, func(sample int, channel int) float32 {
		t := float64(sample) / float64(sampleRate)
		return float32(math.Sin(2 * math.Pi * frequency * t))
	})
}

// NewConstantSource creates a mock source with constant value.
func NewConstantSource(sampleRate, channels, totalSamples int, value float32) *MockSource {
	return NewMockSource(sampleRate, channels, totalSamples, func(sample int, channel int) float32 {
		return value
	})
}

// NewPulseSource emits a square pulse train: amplitude 1 for width seconds
// at the start of every period, silence otherwise.
func NewPulseSource(sampleRate, channels, totalSamples int, period, width float64) *MockSource {
	return NewMockSource(sampleRate, channels, totalSamples, func(sample int, channel int) float32 {
		return Pulse(sample, sampleRate, period, width)
	})
}

// Pulse is the sample value of the NewPulseSource waveform.
func Pulse(sample, sampleRate int, period, width float64) float32 {
	t := float64(sample) / float64(sampleRate)
	if math.Mod(t, period) < width {
		return 1
	}
	return 0
}

func (m *MockSource) SampleRate() int { return m.sampleRate }
func (m *MockSource) Channels() int   { return m.channels }
func (m *MockSource) BufSize() int    { return 4096 }
func (m *MockSource) Close() error    { return nil }
func (m *MockSource) Frames() int64   { return int64(m.totalSamples) }

// Reset rewinds the source so it can be read again.
func (m *MockSource) Reset() {
	m.generated = 0
	m.partial = 0
}

func (m *MockSource) ReadSamples(dst []float32) (int, error) {
	if m.generated >= m.totalSamples {
		return 0, io.EOF
	}

	framesToWrite := min(len(dst)/m.channels, m.totalSamples-m.generated)
	for frame := range framesToWrite {
		sampleIndex := m.generated + frame
		for ch := range m.channels {
			dst[frame*m.channels+ch] = m.waveform(sampleIndex, ch)
		}
	}

	m.generated += framesToWrite
	samplesWritten := framesToWrite * m.channels

	if m.generated >= m.totalSamples {
		return samplesWritten, io.EOF
	}
	return samplesWritten, nil
}

// ChunkedSource wraps a source and hands out at most n samples per read,
// splitting frames across calls the way byte oriented decoders do.
type ChunkedSource struct {
	*MockSource
	n int
}

func NewChunkedSource(src *MockSource, n int) *ChunkedSource {
	return &ChunkedSource{MockSource: src, n: n}
}

func (c *ChunkedSource) ReadSamples(dst []float32) (int, error) {
	if len(dst) > c.n {
		dst = dst[:c.n]
	}
	return c.MockSource.readRaw(dst)
}

// readRaw writes whole interleaved samples even when dst ends mid frame.
func (m *MockSource) readRaw(dst []float32) (int, error) {
	total := m.totalSamples * m.channels
	pos := m.generated*m.channels + m.partial
	if pos >= total {
		return 0, io.EOF
	}

	n := min(len(dst), total-pos)
	for i := range n {
		idx := pos + i
		dst[i] = m.waveform(idx/m.channels, idx%m.channels)
	}

	pos += n
	m.generated = pos / m.channels
	m.partial = pos % m.channels

	if pos >= total {
		return n, io.EOF
	}
	return n, nil
}
