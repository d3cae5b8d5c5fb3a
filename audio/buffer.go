// SPDX-License-Identifier: EPL-2.0
package audio

import (
	"fmt"
	"io"
	"time"
)

// Buffer holds planar PCM: one slice per channel, all of equal length.
type Buffer struct {
	SampleRate int
	Channels   [][]float32
}

// NewBuffer allocates a zeroed buffer of channels x frames.
func NewBuffer(sampleRate, channels, frames int) *Buffer {
	b := &Buffer{
		SampleRate: sampleRate,
		Channels:   make([][]float32, channels),
	}
	for c := range b.Channels {
		b.Channels[c] = make([]float32, frames)
	}
	return b
}

func (b *Buffer) NumChannels() int { return len(b.Channels) }

// Frames is the per channel sample count.
func (b *Buffer) Frames() int {
	if len(b.Channels) == 0 {
		return 0
	}
	return len(b.Channels[0])
}

// Seconds is the buffer length in seconds, 0 for an invalid rate.
func (b *Buffer) Seconds() float64 {
	if b.SampleRate <= 0 {
		return 0
	}
	return float64(b.Frames()) / float64(b.SampleRate)
}

func (b *Buffer) Duration() time.Duration {
	return time.Duration(b.Seconds() * float64(time.Second))
}

// Validate checks the buffer invariants: at least one channel and one
// sample, equal channel lengths and a positive sample rate.
func (b *Buffer) Validate() error {
	if b == nil || b.SampleRate <= 0 || len(b.Channels) == 0 {
		return ErrInvalidBuffer
	}
	n := len(b.Channels[0])
	if n == 0 {
		return ErrInvalidBuffer
	}
	for _, ch := range b.Channels[1:] {
		if len(ch) != n {
			return ErrInvalidBuffer
		}
	}
	return nil
}

// Head returns a view over the first frames frames. The view shares memory
// with b.
func (b *Buffer) Head(frames int) *Buffer {
	frames = max(0, min(frames, b.Frames()))
	head := &Buffer{
		SampleRate: b.SampleRate,
		Channels:   make([][]float32, len(b.Channels)),
	}
	for c, ch := range b.Channels {
		head.Channels[c] = ch[:frames:frames]
	}
	return head
}

// Mono averages all channels into a single channel buffer. A one channel
// buffer is copied as is.
func (b *Buffer) Mono() (*Buffer, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	frames := b.Frames()
	out := NewBuffer(b.SampleRate, 1, frames)
	dst := out.Channels[0]

	if len(b.Channels) == 1 {
		copy(dst, b.Channels[0])
		return out, nil
	}

	for _, ch := range b.Channels {
		for i, s := range ch {
			dst[i] += s
		}
	}
	inv := float32(1.0) / float32(len(b.Channels))
	for i := range dst {
		dst[i] *= inv
	}
	return out, nil
}

// ReadBuffer drains src into a planar Buffer. maxFrames <= 0 reads until
// io.EOF, otherwise at most maxFrames frames per channel are kept. The
// source is only borrowed; it is not closed.
func ReadBuffer(src Source, maxFrames int) (*Buffer, error) {
	channels := src.Channels()
	if channels <= 0 || src.SampleRate() <= 0 {
		return nil, ErrInvalidBuffer
	}

	capacity := 0
	if l, ok := src.(Lengther); ok && l.Frames() > 0 {
		capacity = int(l.Frames())
	}
	if maxFrames > 0 && (capacity == 0 || capacity > maxFrames) {
		capacity = maxFrames
	}

	b := &Buffer{
		SampleRate: src.SampleRate(),
		Channels:   make([][]float32, channels),
	}
	for c := range b.Channels {
		b.Channels[c] = make([]float32, 0, capacity)
	}

	chunk := src.BufSize()
	if chunk <= 0 {
		chunk = 4096
	}
	chunk = max(channels, chunk-chunk%channels)
	tmp := make([]float32, chunk)

	// k counts interleaved samples so frames split across reads stay aligned.
	k := 0
	for {
		want := len(tmp)
		if maxFrames > 0 {
			remaining := maxFrames*channels - k
			if remaining <= 0 {
				break
			}
			want = min(want, remaining)
		}

		n, err := src.ReadSamples(tmp[:want])
		for i := range n {
			c := k % channels
			b.Channels[c] = append(b.Channels[c], tmp[i])
			k++
		}

		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading pcm: %w", err)
		}
		if n == 0 {
			// Guard against sources that never report EOF.
			break
		}
	}

	frames := len(b.Channels[channels-1])
	for c := range b.Channels {
		b.Channels[c] = b.Channels[c][:frames]
	}
	return b, nil
}
