// SPDX-License-Identifier: EPL-2.0

package output

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/ik5/djdeck/internal/audiotest"
)

func TestStreamReader_Float32(t *testing.T) {
	t.Parallel()

	r := NewStreamReader(audiotest.NewConstantSource(48000, 2, 100, 0.25), Float32)

	// Ten bytes hold one whole frame.
	p := make([]byte, 10)
	n, err := r.Read(p)
	if n != 8 || err != nil {
		t.Fatalf("Read() = %d, %v; want 8, nil", n, err)
	}
	for i := range 2 {
		if v := math.Float32frombits(binary.LittleEndian.Uint32(p[4*i:])); v != 0.25 {
			t.Errorf("sample %d = %v, want 0.25", i, v)
		}
	}
}

func TestStreamReader_Int16(t *testing.T) {
	t.Parallel()

	r := NewStreamReader(audiotest.NewConstantSource(44100, 1, 100, -0.5), Int16)

	p := make([]byte, 8)
	n, err := r.Read(p)
	if n != 8 || err != nil {
		t.Fatalf("Read() = %d, %v; want 8, nil", n, err)
	}
	for i := range 4 {
		if v := int16(binary.LittleEndian.Uint16(p[2*i:])); v != -16383 {
			t.Errorf("sample %d = %d, want -16383", i, v)
		}
	}
}

func TestStreamReader_SilenceAfterEOF(t *testing.T) {
	t.Parallel()

	r := NewStreamReader(audiotest.NewConstantSource(8000, 1, 3, 1), Float32)

	p := make([]byte, 4*5)
	n, err := r.Read(p)
	if n != len(p) || err != nil {
		t.Fatalf("Read() = %d, %v; want %d, nil", n, err, len(p))
	}
	want := []float32{1, 1, 1, 0, 0}
	for i, w := range want {
		if v := math.Float32frombits(binary.LittleEndian.Uint32(p[4*i:])); v != w {
			t.Errorf("sample %d = %v, want %v", i, v, w)
		}
	}
	if !r.Drained() {
		t.Error("Drained() = false after the source ended")
	}

	// The device keeps pulling silence.
	if n, err := r.Read(p); n != len(p) || err != nil {
		t.Errorf("Read() after end = %d, %v; want %d, nil", n, err, len(p))
	}
}

type failingSource struct{ *audiotest.MockSource }

func (failingSource) ReadSamples([]float32) (int, error) { return 0, io.ErrClosedPipe }

func TestStreamReader_Error(t *testing.T) {
	t.Parallel()

	r := NewStreamReader(failingSource{audiotest.NewSilentSource(8000, 1, 1)}, Float32)
	if _, err := r.Read(make([]byte, 16)); !errors.Is(err, io.ErrClosedPipe) {
		t.Errorf("Read() error = %v, want ErrClosedPipe", err)
	}
}
