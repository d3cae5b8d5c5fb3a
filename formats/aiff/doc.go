// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF files with github.com/go-audio/aiff.
//
// Uncompressed big-endian PCM at 8, 16, 24 and 32 bits is supported with
// any channel count; compressed AIFF-C is rejected. Samples are normalised
// to float32 in [-1, 1].
//
//	src, err := aiff.Decoder{}.Decode(f)
//	if errors.Is(err, aiff.ErrUnsupportedBitDepth) {
//		// 12 or 20 bit files
//	}
package aiff
