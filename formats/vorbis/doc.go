// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis files with github.com/jfreymuth/oggvorbis.
//
// Samples come out as interleaved float32 with the file's own channel
// count and rate. Frames is known up front for seekable input.
package vorbis
