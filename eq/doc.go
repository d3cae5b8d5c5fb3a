// SPDX-License-Identifier: EPL-2.0

// Package eq implements the deck equaliser: a 200 Hz low shelf, a 1 kHz
// peak and a 6 kHz high shelf, all at Q 0.707, with gains in
// [-24, +24] dB.
//
// Design turns three gains into an immutable Snapshot of biquad
// coefficients. Equalizer publishes a new Snapshot on every gain change and
// the audio path picks it up with a single atomic load, so the left and
// right chains always filter a block with one consistent set of bands.
//
//	e := eq.NewEqualizer(nil)
//	e.Prepare(48000, 512)
//	e.SetBandGainDb(eq.Low, 6)
//	e.Process(block, 0, 512)
package eq
