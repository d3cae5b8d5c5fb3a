// SPDX-License-Identifier: EPL-2.0

// Package wav decodes and encodes integer PCM WAV files on top of
// github.com/go-audio/wav.
//
// Decoder accepts 8, 16, 24 and 32-bit PCM with any channel count and
// reports the total frame count, so callers can size buffers up front.
// Readers that cannot seek are buffered in memory first.
//
//	src, err := wav.Decoder{}.Decode(f)
//	buf, err := audio.ReadBuffer(src, 0)
//
// Encode streams any audio.Source to a seekable writer, which is how the
// offline renderer writes a deck's output:
//
//	out, _ := os.Create("mix.wav")
//	frames, err := wav.Encode(out, deck, 16)
package wav
