// SPDX-License-Identifier: EPL-2.0
package tempo

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"

	"github.com/ik5/djdeck/audio"
)

const (
	DefaultMinBPM = 70.0
	DefaultMaxBPM = 200.0
)

// Result is a tempo estimate together with the lag it came from and the raw
// autocorrelation score at that lag.
type Result struct {
	BPM   float64
	Lag   int
	Score float64
}

// EstimateBPM returns the tempo of buf in [minBpm, maxBpm], or 0 when it
// cannot be determined.
func EstimateBPM(buf *audio.Buffer, minBpm, maxBpm float64) float64 {
	res, err := Estimate(buf, minBpm, maxBpm)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "EstimateBPM",
			"min_bpm":  minBpm,
			"max_bpm":  maxBpm,
			"error":    err.Error(),
		}).Debug("Tempo undetermined")
		return 0
	}
	return res.BPM
}

// Estimate runs the whole analysis: mono mixdown, RMS envelope,
// conditioning and autocorrelation over the lag range implied by the BPM
// window. Every frame of buf is analysed; callers bound the window.
func Estimate(buf *audio.Buffer, minBpm, maxBpm float64) (Result, error) {
	if err := checkWindow(minBpm, maxBpm); err != nil {
		return Result{}, err
	}

	mono, err := buf.Mono()
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	env, peak, err := Envelope(mono.Channels[0])
	if err != nil {
		return Result{}, err
	}

	envRate := float64(buf.SampleRate) / HopSize
	return FromEnvelope(Condition(env, peak), envRate, minBpm, maxBpm)
}

// FromEnvelope picks the autocorrelation lag with the largest raw score and
// converts it to BPM. envRate is the envelope frame rate in Hz.
//
// The score is the plain sum of env[i]*env[i+lag], not divided by the
// number of overlapping frames, so shorter lags get a slight edge. Ties go
// to the shortest lag.
func FromEnvelope(env []float64, envRate, minBpm, maxBpm float64) (Result, error) {
	if err := checkWindow(minBpm, maxBpm); err != nil {
		return Result{}, err
	}
	if !(envRate > 0) || math.IsInf(envRate, 0) {
		return Result{}, ErrInvalidInput
	}

	minLagF, maxLagF := lagBounds(envRate, minBpm, maxBpm)
	if minLagF < 1 || maxLagF >= float64(len(env)-1) {
		return Result{}, ErrInsufficientData
	}
	minLag, maxLag := int(minLagF), int(maxLagF)

	bestLag, bestScore := -1, -1.0
	for lag := minLag; lag <= maxLag; lag++ {
		score := floats.Dot(env[:len(env)-lag], env[lag:])
		if score > bestScore {
			bestScore = score
			bestLag = lag
		}
	}

	if bestLag <= 0 || bestScore <= 0 {
		return Result{Lag: bestLag, Score: bestScore}, ErrNoPeriodicity
	}

	bpm := FoldOctave(60*envRate/float64(bestLag), minBpm, maxBpm)
	if bpm < minBpm || bpm > maxBpm {
		return Result{Lag: bestLag, Score: bestScore}, ErrOutOfRange
	}

	return Result{
		BPM:   min(max(Round(bpm), minBpm), maxBpm),
		Lag:   bestLag,
		Score: bestScore,
	}, nil
}

// LagRange is the inclusive range of envelope lags searched for a window.
func LagRange(envRate, minBpm, maxBpm float64) (int, int) {
	lo, hi := lagBounds(envRate, minBpm, maxBpm)
	return int(lo), int(hi)
}

// lagBounds: faster beats mean shorter lags.
func lagBounds(envRate, minBpm, maxBpm float64) (float64, float64) {
	return math.Floor(envRate / (maxBpm / 60)), math.Ceil(envRate / (minBpm / 60))
}

// FoldOctave doubles bpm while it is below minBpm, then halves it while it
// is above maxBpm. For windows at least an octave wide the result lies in
// [minBpm, maxBpm]. Non-positive or non-finite input is returned as is.
func FoldOctave(bpm, minBpm, maxBpm float64) float64 {
	if !(bpm > 0) || math.IsInf(bpm, 0) {
		return bpm
	}
	for bpm < minBpm && !math.IsInf(bpm, 0) {
		bpm *= 2
	}
	for bpm > maxBpm && !math.IsInf(bpm, 0) {
		bpm *= 0.5
	}
	return bpm
}

// Round rounds to one decimal place, halves away from zero.
func Round(bpm float64) float64 {
	return math.Round(bpm*10) / 10
}

func checkWindow(minBpm, maxBpm float64) error {
	switch {
	case math.IsNaN(minBpm) || math.IsNaN(maxBpm),
		math.IsInf(minBpm, 0) || math.IsInf(maxBpm, 0),
		minBpm <= 0,
		maxBpm <= minBpm:
		return fmt.Errorf("%w: bpm window [%v, %v]", ErrInvalidInput, minBpm, maxBpm)
	}
	return nil
}
