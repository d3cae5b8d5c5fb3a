// SPDX-License-Identifier: EPL-2.0

// Package tempo estimates the tempo of a decoded track.
//
// The signal is mixed to mono, reduced to an RMS energy envelope
// (WindowSize samples every HopSize samples), normalised, smoothed,
// detrended and half-wave rectified. The conditioned envelope is then
// autocorrelated over the lags that correspond to the requested BPM window
// and the strongest lag is converted back to BPM, folded into the window by
// octaves and rounded to one decimal.
//
// EstimateBPM is the advisory entry point: any failure yields 0, the
// "undetermined" value. Estimate and FromEnvelope return the reason as an
// error wrapping ErrInvalidInput or ErrInsufficientData.
//
// Analysis cost grows with the buffer, so callers pass a bounded window
// (the deck analyses the first 60 seconds).
package tempo
