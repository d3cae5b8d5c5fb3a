// SPDX-License-Identifier: EPL-2.0

// Package deck is a single playback deck: a loaded track, its tempo, a
// transport and a three band EQ.
//
// Loading decodes the whole track into memory and estimates its BPM from
// the first minute. Playback runs the track through a variable rate
// resampler, a gain ramp and the EQ:
//
//	d, _ := deck.New(deck.DefaultConfig(), nil)
//	_ = d.Load(src, "track.wav")
//	d.SetSpeed(1.04)
//	d.SetBandGainDb(eq.Low, -12)
//	d.Start()
//	n, err := d.ReadSamples(out)
//
// The deck is both an audio.Processor, for hosts that hand it planar
// blocks, and an audio.Source, for consumers that pull interleaved samples.
package deck
