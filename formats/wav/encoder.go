// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"errors"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/ik5/djdeck/audio"
	"github.com/ik5/djdeck/utils"
)

// Encode drains src into w as integer PCM WAV at bitDepth (16 or 24) and
// returns the number of frames written. w must be seekable because the
// RIFF sizes are patched when the stream ends.
func Encode(w io.WriteSeeker, src audio.Source, bitDepth int) (int64, error) {
	if bitDepth != 16 && bitDepth != 24 {
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}
	channels := src.Channels()
	if channels <= 0 {
		return 0, ErrNoChannels
	}

	enc := wav.NewEncoder(w, src.SampleRate(), bitDepth, channels, formatPCM)

	size := src.BufSize()
	if size <= 0 {
		size = 4096
	}
	size = max(channels, size-size%channels)

	floats := make([]float32, size)
	ints := &goaudio.IntBuffer{
		Data: make([]int, size),
		Format: &goaudio.Format{
			NumChannels: channels,
			SampleRate:  src.SampleRate(),
		},
		SourceBitDepth: bitDepth,
	}

	var samples int64
	for {
		n, err := src.ReadSamples(floats)
		if n > 0 {
			ints.Data = ints.Data[:n]
			for i, v := range floats[:n] {
				ints.Data[i] = utils.Float32ToPCM(v, bitDepth)
			}
			if werr := enc.Write(ints); werr != nil {
				return samples / int64(channels), fmt.Errorf("writing wav pcm: %w", werr)
			}
			samples += int64(n)
		}

		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return samples / int64(channels), fmt.Errorf("encoding wav: %w", err)
		}
		if n == 0 {
			break
		}
	}

	if err := enc.Close(); err != nil {
		return samples / int64(channels), fmt.Errorf("closing wav encoder: %w", err)
	}
	return samples / int64(channels), nil
}

// Write stores buf as a WAV file at bitDepth.
func Write(w io.WriteSeeker, buf *audio.Buffer, bitDepth int) error {
	if err := buf.Validate(); err != nil {
		return err
	}
	_, err := Encode(w, audio.NewBufferSource(buf), bitDepth)
	return err
}
