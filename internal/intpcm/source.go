// SPDX-License-Identifier: EPL-2.0

// Package intpcm adapts the integer PCM readers of github.com/go-audio to
// audio.Source.
package intpcm

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"

	"github.com/ik5/djdeck/utils"
)

// DefaultBufSize is reported until the first read sizes the buffer.
const DefaultBufSize = 4096

// Reader is implemented by wav.Decoder and aiff.Decoder.
type Reader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// Layout describes the stream behind a Reader.
type Layout struct {
	SampleRate int
	Channels   int
	BitDepth   int
	// Frames is the total length, or -1 when unknown.
	Frames int64
	// Unsigned is set for 8-bit WAV, which is offset binary.
	Unsigned bool
}

// Source normalises integer samples to float32 in [-1, 1].
type Source struct {
	dec    Reader
	layout Layout
	format *goaudio.Format
	intBuf *goaudio.IntBuffer
	done   bool
}

func NewSource(dec Reader, layout Layout) *Source {
	return &Source{
		dec:    dec,
		layout: layout,
		format: &goaudio.Format{
			NumChannels: layout.Channels,
			SampleRate:  layout.SampleRate,
		},
	}
}

func (s *Source) SampleRate() int { return s.layout.SampleRate }
func (s *Source) Channels() int   { return s.layout.Channels }
func (s *Source) BitDepth() int   { return s.layout.BitDepth }
func (s *Source) Frames() int64   { return s.layout.Frames }
func (s *Source) Close() error    { return nil }

func (s *Source) BufSize() int {
	if s.intBuf != nil {
		return cap(s.intBuf.Data)
	}
	return DefaultBufSize
}

func (s *Source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	if s.done {
		return 0, io.EOF
	}

	if s.intBuf == nil || cap(s.intBuf.Data) < len(dst) {
		s.intBuf = &goaudio.IntBuffer{
			Data:           make([]int, len(dst)),
			Format:         s.format,
			SourceBitDepth: s.layout.BitDepth,
		}
	}
	s.intBuf.Data = s.intBuf.Data[:len(dst)]

	n, err := s.dec.PCMBuffer(s.intBuf)
	if err != nil && err != io.EOF && n == 0 {
		return 0, fmt.Errorf("reading pcm: %w", err)
	}

	bits := s.layout.BitDepth
	if s.layout.Unsigned {
		offset := 1 << (bits - 1)
		for i, v := range s.intBuf.Data[:n] {
			dst[i] = utils.PCMToFloat32(v-offset, bits)
		}
	} else {
		for i, v := range s.intBuf.Data[:n] {
			dst[i] = utils.PCMToFloat32(v, bits)
		}
	}

	switch {
	case err != nil && err != io.EOF:
		return n, fmt.Errorf("reading pcm: %w", err)
	case err == io.EOF || n < len(dst):
		s.done = true
		return n, io.EOF
	}
	return n, nil
}
