// SPDX-License-Identifier: EPL-2.0
package audio

import "io"

// BufferSource streams an in-memory Buffer as interleaved samples and can
// seek to any frame.
type BufferSource struct {
	buf *Buffer
	pos int
}

func NewBufferSource(buf *Buffer) *BufferSource {
	return &BufferSource{buf: buf}
}

func (s *BufferSource) SampleRate() int { return s.buf.SampleRate }
func (s *BufferSource) Channels() int   { return len(s.buf.Channels) }
func (s *BufferSource) BufSize() int    { return 4096 }
func (s *BufferSource) Close() error    { return nil }
func (s *BufferSource) Frames() int64   { return int64(s.buf.Frames()) }

// Position is the next frame that ReadSamples will return.
func (s *BufferSource) Position() int { return s.pos }

// Seek moves the read cursor. frame may equal Frames(), which positions the
// source at its end.
func (s *BufferSource) Seek(frame int) error {
	if frame < 0 || frame > s.buf.Frames() {
		return ErrSeekRange
	}
	s.pos = frame
	return nil
}

func (s *BufferSource) ReadSamples(dst []float32) (int, error) {
	channels := len(s.buf.Channels)
	if len(dst)%channels != 0 {
		return 0, ErrInvalidDstSize
	}

	frames := min(len(dst)/channels, s.buf.Frames()-s.pos)
	if frames <= 0 {
		return 0, io.EOF
	}

	if channels == 1 {
		copy(dst, s.buf.Channels[0][s.pos:s.pos+frames])
	} else {
		for f := range frames {
			base := f * channels
			for c, ch := range s.buf.Channels {
				dst[base+c] = ch[s.pos+f]
			}
		}
	}

	s.pos += frames
	return frames * channels, nil
}
