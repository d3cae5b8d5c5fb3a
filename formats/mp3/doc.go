// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG-1 Layer III streams with
// github.com/hajimehoshi/go-mp3.
//
// The decoder always produces interleaved stereo; mono files are duplicated
// onto both channels by go-mp3. Frames reports the decoded length when the
// input is seekable and -1 otherwise.
//
//	src, err := mp3.Decoder{}.Decode(f)
package mp3
