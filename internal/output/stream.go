// SPDX-License-Identifier: EPL-2.0

// Package output plays an audio.Source on the default device through oto.
package output

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
	"sync/atomic"

	"github.com/ik5/djdeck/audio"
	"github.com/ik5/djdeck/utils"
)

// Format is the sample encoding handed to the device.
type Format int

const (
	Float32 Format = iota
	Int16
)

func (f Format) bytesPerSample() int {
	if f == Int16 {
		return 2
	}
	return 4
}

// StreamReader turns a Source into the little-endian byte stream the device
// pulls. When the source reaches io.EOF the stream keeps going with
// silence, so a stopped deck can be started again. Only one goroutine may
// call Read.
type StreamReader struct {
	src      audio.Source
	format   Format
	buf      []float32
	drained  atomic.Bool
	channels int
}

func NewStreamReader(src audio.Source, format Format) *StreamReader {
	return &StreamReader{
		src:      src,
		format:   format,
		channels: src.Channels(),
	}
}

// Drained reports whether the last read hit the end of the source.
func (r *StreamReader) Drained() bool { return r.drained.Load() }

func (r *StreamReader) Read(p []byte) (int, error) {
	frameBytes := r.channels * r.format.bytesPerSample()
	frames := len(p) / frameBytes
	if frames == 0 {
		return 0, nil
	}

	need := frames * r.channels
	if cap(r.buf) < need {
		r.buf = make([]float32, need)
	}
	r.buf = r.buf[:need]

	got := 0
	for got < need {
		n, err := r.src.ReadSamples(r.buf[got:])
		got += n
		if errors.Is(err, io.EOF) {
			r.drained.Store(true)
			break
		}
		if err != nil {
			return 0, err
		}
		r.drained.Store(false)
		if n == 0 {
			break
		}
	}
	clear(r.buf[got:])

	switch r.format {
	case Int16:
		for i, v := range r.buf {
			binary.LittleEndian.PutUint16(p[2*i:], uint16(utils.Float32ToInt16(v)))
		}
	default:
		for i, v := range r.buf {
			binary.LittleEndian.PutUint32(p[4*i:], math.Float32bits(v))
		}
	}
	return frames * frameBytes, nil
}
