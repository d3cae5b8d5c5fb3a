// SPDX-License-Identifier: EPL-2.0

package djdeck

import (
	"io"

	"github.com/ik5/djdeck/audio"
	"github.com/ik5/djdeck/formats/wav"
)

// RenderOptions shapes the file Render writes.
type RenderOptions struct {
	// BitDepth is 16 or 24. Zero means 16.
	BitDepth int
	// Mono folds all channels into one before encoding.
	Mono bool
}

// Render drains src into w as a WAV file and returns the frames written.
// src is read until io.EOF, so a deck must be started and will stop at the
// end of its track.
func Render(w io.WriteSeeker, src audio.Source, opts RenderOptions) (int64, error) {
	bits := opts.BitDepth
	if bits == 0 {
		bits = 16
	}
	if opts.Mono && src.Channels() > 1 {
		src = audio.NewMonoMixer(src)
	}
	return wav.Encode(w, src, bits)
}
