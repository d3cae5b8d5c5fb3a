// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

type mockOggReader struct {
	sampleRate int
	channels   int
	samples    []float32
	offset     int
	// chunk limits how many samples one Read hands out, like a vorbis packet.
	chunk int
	err   error
}

func (m *mockOggReader) SampleRate() int { return m.sampleRate }
func (m *mockOggReader) Channels() int   { return m.channels }
func (m *mockOggReader) Length() int64   { return int64(len(m.samples) / m.channels) }

func (m *mockOggReader) Read(p []float32) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	if m.offset >= len(m.samples) {
		return 0, io.EOF
	}
	if m.chunk > 0 && len(p) > m.chunk {
		p = p[:m.chunk]
	}
	n := copy(p, m.samples[m.offset:])
	m.offset += n
	return n, nil
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	for _, data := range [][]byte{nil, []byte("This is not Ogg Vorbis data")} {
		if _, err := (Decoder{}).Decode(bytes.NewReader(data)); !errors.Is(err, ErrNotVorbisFile) {
			t.Errorf("Decode(%q) error = %v, want ErrNotVorbisFile", data, err)
		}
	}
}

func TestSource_ReadSamples(t *testing.T) {
	t.Parallel()

	m := &mockOggReader{
		sampleRate: 48000,
		channels:   2,
		samples:    []float32{0.1, -0.1, 0.2, -0.2, 0.3, -0.3, 0.4, -0.4, 0.5, -0.5},
		chunk:      2,
	}
	src := &source{dec: m}

	if src.SampleRate() != 48000 || src.Channels() != 2 || src.Frames() != 5 {
		t.Errorf("got %d Hz %d ch %d frames", src.SampleRate(), src.Channels(), src.Frames())
	}

	// Odd lengths are trimmed to whole frames.
	dst := make([]float32, 7)
	n, err := src.ReadSamples(dst)
	if n != 6 || err != nil {
		t.Fatalf("ReadSamples() = %d, %v; want 6, nil", n, err)
	}
	for i := range 6 {
		if dst[i] != m.samples[i] {
			t.Errorf("dst[%d] = %v, want %v", i, dst[i], m.samples[i])
		}
	}

	n, err = src.ReadSamples(dst)
	if n != 4 || !errors.Is(err, io.EOF) {
		t.Fatalf("ReadSamples() = %d, %v; want 4, EOF", n, err)
	}
	if n, err = src.ReadSamples(dst); n != 0 || !errors.Is(err, io.EOF) {
		t.Errorf("ReadSamples() after end = %d, %v; want 0, EOF", n, err)
	}
}

func TestSource_Errors(t *testing.T) {
	t.Parallel()

	src := &source{dec: &mockOggReader{sampleRate: 44100, channels: 1, err: io.ErrUnexpectedEOF}}
	if _, err := src.ReadSamples(make([]float32, 4)); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("ReadSamples() error = %v, want ErrUnexpectedEOF", err)
	}

	empty := &source{dec: &mockOggReader{sampleRate: 44100, channels: 1}}
	if f := empty.Frames(); f != -1 {
		t.Errorf("Frames() = %d, want -1", f)
	}
	if n, err := empty.ReadSamples(nil); n != 0 || err != nil {
		t.Errorf("ReadSamples(nil) = %d, %v", n, err)
	}
}
