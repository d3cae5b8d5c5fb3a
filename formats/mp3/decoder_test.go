// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"
)

type mockMP3Reader struct {
	r          *bytes.Reader
	sampleRate int
	length     int64
	err        error
}

func newMock(sampleRate int, samples ...int16) *mockMP3Reader {
	var b bytes.Buffer
	for _, v := range samples {
		_ = binary.Write(&b, binary.LittleEndian, v)
	}
	return &mockMP3Reader{
		r:          bytes.NewReader(b.Bytes()),
		sampleRate: sampleRate,
		length:     int64(b.Len()),
	}
}

func (m *mockMP3Reader) SampleRate() int { return m.sampleRate }
func (m *mockMP3Reader) Length() int64   { return m.length }

func (m *mockMP3Reader) Read(p []byte) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	// go-mp3 hands out at most one decoded MPEG frame per call.
	if len(p) > 6 {
		p = p[:6]
	}
	return m.r.Read(p)
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	for _, data := range [][]byte{nil, []byte("This is not MP3 data")} {
		if _, err := (Decoder{}).Decode(bytes.NewReader(data)); !errors.Is(err, ErrNotMP3File) {
			t.Errorf("Decode(%q) error = %v, want ErrNotMP3File", data, err)
		}
	}
}

func TestSource_ReadSamples(t *testing.T) {
	t.Parallel()

	src := &source{dec: newMock(44100, 0, 16384, -32768, 32767, -16384, 0)}

	if src.SampleRate() != 44100 || src.Channels() != 2 {
		t.Errorf("got %d Hz %d ch, want 44100 Hz 2 ch", src.SampleRate(), src.Channels())
	}
	if src.Frames() != 3 {
		t.Errorf("Frames() = %d, want 3", src.Frames())
	}

	dst := make([]float32, 4)
	n, err := src.ReadSamples(dst)
	if n != 4 || err != nil {
		t.Fatalf("ReadSamples() = %d, %v; want 4, nil", n, err)
	}
	want := []float32{0, 0.5, -1, 32767.0 / 32768}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("dst[%d] = %v, want %v", i, dst[i], want[i])
		}
	}

	n, err = src.ReadSamples(dst)
	if n != 2 || !errors.Is(err, io.EOF) {
		t.Fatalf("ReadSamples() = %d, %v; want 2, EOF", n, err)
	}
	if dst[0] != -0.5 || dst[1] != 0 {
		t.Errorf("tail = %v, want [-0.5 0]", dst[:2])
	}

	if n, err = src.ReadSamples(dst); n != 0 || !errors.Is(err, io.EOF) {
		t.Errorf("ReadSamples() after end = %d, %v; want 0, EOF", n, err)
	}
}

func TestSource_Errors(t *testing.T) {
	t.Parallel()

	m := newMock(48000)
	m.err = io.ErrClosedPipe
	src := &source{dec: m}
	if _, err := src.ReadSamples(make([]float32, 8)); !errors.Is(err, io.ErrClosedPipe) {
		t.Errorf("ReadSamples() error = %v, want ErrClosedPipe", err)
	}

	m = newMock(48000)
	m.length = -1
	if f := (&source{dec: m}).Frames(); f != -1 {
		t.Errorf("Frames() = %d, want -1 for unknown length", f)
	}
}
