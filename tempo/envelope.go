// SPDX-License-Identifier: EPL-2.0
package tempo

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

const (
	WindowSize = 1024 // samples per RMS frame
	HopSize    = 512  // samples between frame starts

	// SilenceThreshold is the peak RMS at or below which a signal is treated
	// as silence.
	SilenceThreshold = 1e-6

	// SmoothRadius is the number of neighbours averaged on each side.
	SmoothRadius = 5
)

// Envelope computes the RMS energy of mono over WindowSize samples every
// HopSize samples and returns it with its peak value.
func Envelope(mono []float32) ([]float64, float64, error) {
	if len(mono) < WindowSize+HopSize {
		return nil, 0, ErrInsufficientData
	}

	env := make([]float64, 1+(len(mono)-WindowSize)/HopSize)
	var peak float64

	for f := range env {
		start := f * HopSize
		var sumSq float64
		for _, s := range mono[start : start+WindowSize] {
			v := float64(s)
			sumSq += v * v
		}

		rms := math.Sqrt(sumSq / WindowSize)
		env[f] = rms
		peak = max(peak, rms)
	}

	if peak <= SilenceThreshold {
		return nil, 0, ErrSilence
	}
	return env, peak, nil
}

// Condition prepares an envelope for autocorrelation: normalize by peak,
// smooth, remove the mean and keep only the positive part. The order is
// fixed; env is modified and the conditioned copy returned.
func Condition(env []float64, peak float64) []float64 {
	Normalize(env, peak)
	out := Smooth(env, SmoothRadius)
	Detrend(out)
	Rectify(out)
	return out
}

// Normalize divides every frame by peak in place.
func Normalize(env []float64, peak float64) {
	if peak <= 0 {
		return
	}
	floats.Scale(1/peak, env)
}

// Smooth returns the centred moving average of env over radius frames on
// each side. Near the edges only the frames that exist are averaged.
func Smooth(env []float64, radius int) []float64 {
	out := make([]float64, len(env))
	for i := range env {
		lo := max(0, i-radius)
		hi := min(len(env)-1, i+radius)
		out[i] = floats.Sum(env[lo:hi+1]) / float64(max(1, hi-lo+1))
	}
	return out
}

// Detrend subtracts the arithmetic mean in place.
func Detrend(env []float64) {
	if len(env) == 0 {
		return
	}
	floats.AddConst(-floats.Sum(env)/float64(len(env)), env)
}

// Rectify clamps negative frames to zero in place.
func Rectify(env []float64) {
	for i, v := range env {
		env[i] = max(0, v)
	}
}
