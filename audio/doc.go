// SPDX-License-Identifier: EPL-2.0

// Package audio provides the PCM plumbing shared by the deck: sources,
// buffers and the streaming stages between a decoder and the device.
//
// # Sources
//
// Source is a pull based stream of interleaved float32 samples in [-1, 1].
// Decoders under formats/ produce Sources; MonoMixer, Resampler and
// BufferSource are Sources themselves, so stages chain:
//
//	src, _ := wav.Decoder{}.Decode(file)
//	res := audio.NewResampler(src, 48000)
//	res.SetSpeed(1.05)
//	n, err := res.ReadSamples(buf)
//
// ReadSamples returns io.EOF once the stream is exhausted.
//
// # Buffers
//
// Buffer is planar PCM held in memory. ReadBuffer drains a Source into a
// Buffer, optionally capped to a number of frames, and Buffer.Mono folds
// every channel into one by arithmetic mean:
//
//	buf, _ := audio.ReadBuffer(src, 60*src.SampleRate())
//	mono, err := buf.Mono()
//
// BufferSource replays a Buffer as a seekable Source. The deck decodes a
// track once into a Buffer and plays it through a BufferSource so seeking
// is a cursor move.
//
// # Block processing
//
// Processor is the contract for stages driven by the output device in
// fixed size blocks. Process works in place on planar data and must not
// allocate, lock or block.
//
// # Format registry
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{})
//	decoder, ok := registry.ForPath("/crate/track.wav")
package audio
