// SPDX-License-Identifier: EPL-2.0
package deck

import (
	"math"

	"github.com/ik5/djdeck/audio"
)

// track is a decoded track and its playback pipeline. It is built on the
// control path and handed to the audio path whole; after publication only
// the audio path touches src, res, seekBase and scratch.
type track struct {
	name string
	buf  *audio.Buffer
	bpm  float64

	src      *audio.BufferSource
	res      *audio.Resampler
	seekBase int       // source frame the resampler started from
	scratch  []float32 // interleaved resampler output
}

func newTrack(name string, buf *audio.Buffer, bpm float64, deviceRate, blockSize int) *track {
	src := audio.NewBufferSource(buf)
	return &track{
		name:    name,
		buf:     buf,
		bpm:     bpm,
		src:     src,
		res:     audio.NewResampler(src, deviceRate),
		scratch: make([]float32, blockSize*buf.NumChannels()),
	}
}

func (t *track) channels() int { return t.buf.NumChannels() }

func (t *track) seconds() float64 { return t.buf.Seconds() }

// seek restarts playback at sec seconds into the track.
func (t *track) seek(sec float64) {
	frame := int(math.Round(sec * float64(t.buf.SampleRate)))
	frame = min(max(frame, 0), t.buf.Frames())
	_ = t.src.Seek(frame)
	t.res.Reset()
	t.seekBase = frame
}

// position is the current play position in seconds.
func (t *track) position() float64 {
	frames := float64(t.seekBase) + t.res.Played()
	return min(frames/float64(t.buf.SampleRate), t.seconds())
}

// retarget rebuilds the resampler for a new device rate, keeping the
// position.
func (t *track) retarget(deviceRate int) {
	if t.res.SampleRate() == deviceRate {
		return
	}
	pos := t.position()
	t.res = audio.NewResampler(t.src, deviceRate)
	t.seek(pos)
}

// resize grows the scratch buffer so one read covers blockSize frames.
func (t *track) resize(blockSize int) {
	if n := blockSize * t.channels(); len(t.scratch) < n {
		t.scratch = make([]float32, n)
	}
}
