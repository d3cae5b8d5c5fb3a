// SPDX-License-Identifier: EPL-2.0
package audio

import (
	"fmt"
	"io"

	"github.com/ik5/djdeck/utils"
)

// Resampler streams from src at a variable rate using cubic interpolation.
// Works on interleaved samples; preserves channel count.
//
// The step through the source is (srcRate / dstRate) * speed, so a speed of
// 2 plays twice as fast and an octave higher. A one-pole low-pass smooths
// the input whenever the step exceeds one source frame per output frame.
type Resampler struct {
	src      Source
	srcRate  float64
	dstRate  float64
	base     float64 // srcRate / dstRate
	ratio    float64 // base * speed: source frames per output frame
	channels int

	// frames[0] = t-1, frames[1] = t0, frames[2] = t+1, frames[3] = t+2
	frames   [4][]float32
	hasFrame [4]bool
	primed   bool

	// Fractional position between frames[1] and frames[2].
	pos float64
	// Whole source frames advanced since the last Reset.
	advanced int

	srcBuf []float32
	eof    bool

	filterState []float32
	useFilter   bool
	filterAlpha float32
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()
	r := &Resampler{
		src:         src,
		srcRate:     float64(src.SampleRate()),
		dstRate:     float64(dstRate),
		base:        float64(src.SampleRate()) / float64(dstRate),
		channels:    channels,
		srcBuf:      make([]float32, channels),
		filterState: make([]float32, channels),
		filterAlpha: 0.5,
	}
	for i := range r.frames {
		r.frames[i] = make([]float32, channels)
	}
	r.SetSpeed(1)
	return r
}

func (r *Resampler) SampleRate() int { return int(r.dstRate) }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("closing resampler source: %w", err)
	}
	return nil
}

// SetSpeed scales the step through the source. speed must be positive.
func (r *Resampler) SetSpeed(speed float64) {
	if speed <= 0 {
		return
	}
	r.ratio = r.base * speed
	r.useFilter = r.ratio > 1.0
}

// Ratio is the current number of source frames consumed per output frame.
func (r *Resampler) Ratio() float64 { return r.ratio }

// Played reports how many source frames the interpolation point has moved
// since the last Reset.
func (r *Resampler) Played() float64 {
	return float64(r.advanced) + r.pos
}

// Reset drops buffered frames so the next read starts from wherever the
// source currently is. Call it after seeking the source.
func (r *Resampler) Reset() {
	r.hasFrame = [4]bool{}
	r.primed = false
	r.pos = 0
	r.advanced = 0
	r.eof = false
	clear(r.filterState)
}

// load reads one frame from the source into slot i.
func (r *Resampler) load(i int) (bool, error) {
	if r.eof {
		return false, nil
	}

	n, err := r.src.ReadSamples(r.srcBuf)
	got := n == r.channels
	if got {
		copy(r.frames[i], r.srcBuf)
		if r.useFilter {
			for c := range r.channels {
				// y[n] = alpha * x[n] + (1-alpha) * y[n-1]
				r.frames[i][c] = r.filterAlpha*r.frames[i][c] + (1-r.filterAlpha)*r.filterState[c]
				r.filterState[c] = r.frames[i][c]
			}
		} else {
			copy(r.filterState, r.frames[i])
		}
	}

	if err == io.EOF || (!got && err == nil) {
		r.eof = true
		return got, nil
	}
	if err != nil {
		return got, fmt.Errorf("resampler read: %w", err)
	}
	return got, nil
}

// prime fills the window with the edge frame duplicated as t-1.
func (r *Resampler) prime() error {
	r.primed = true

	n, err := r.src.ReadSamples(r.srcBuf)
	if err != nil && err != io.EOF {
		return fmt.Errorf("resampler read: %w", err)
	}
	if n != r.channels {
		r.eof = true
		return nil
	}
	if err == io.EOF {
		r.eof = true
	}

	copy(r.frames[1], r.srcBuf)
	copy(r.frames[0], r.srcBuf)
	copy(r.filterState, r.srcBuf)
	r.hasFrame[0], r.hasFrame[1] = true, true

	for i := 2; i < 4; i++ {
		ok, err := r.load(i)
		if err != nil {
			return err
		}
		r.hasFrame[i] = ok
	}
	return nil
}

// advance shifts the window one source frame forward.
func (r *Resampler) advance() error {
	copy(r.frames[0], r.frames[1])
	copy(r.frames[1], r.frames[2])
	copy(r.frames[2], r.frames[3])
	r.hasFrame[0] = r.hasFrame[1]
	r.hasFrame[1] = r.hasFrame[2]
	r.hasFrame[2] = r.hasFrame[3]
	r.advanced++

	ok, err := r.load(3)
	r.hasFrame[3] = ok
	return err
}

// ReadSamples produces dst samples at r.dstRate.
// dst length should be a multiple of r.channels.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	written := 0
	framesNeeded := len(dst) / r.channels

	for written < framesNeeded {
		for r.pos >= 1.0 {
			r.pos -= 1.0
			if err := r.advance(); err != nil {
				return written * r.channels, err
			}
		}

		if !r.hasFrame[1] || !r.hasFrame[2] {
			return written * r.channels, io.EOF
		}

		alpha := float32(r.pos)
		out := dst[written*r.channels : (written+1)*r.channels]
		for c := range r.channels {
			y0 := r.frames[1][c]
			if r.hasFrame[0] {
				y0 = r.frames[0][c]
			}
			y3 := r.frames[2][c]
			if r.hasFrame[3] {
				y3 = r.frames[3][c]
			}
			out[c] = utils.CubicInterpolate(y0, r.frames[1][c], r.frames[2][c], y3, alpha)
		}

		written++
		r.pos += r.ratio
	}

	return written * r.channels, nil
}
