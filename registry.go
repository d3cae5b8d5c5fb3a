// SPDX-License-Identifier: EPL-2.0

package djdeck

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ik5/djdeck/audio"
	"github.com/ik5/djdeck/formats/aiff"
	"github.com/ik5/djdeck/formats/mp3"
	"github.com/ik5/djdeck/formats/vorbis"
	"github.com/ik5/djdeck/formats/wav"
)

// NewRegistry returns a registry with every bundled decoder, keyed by the
// file extensions it is known by.
func NewRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register("wav", wav.Decoder{})
	reg.Register("wave", wav.Decoder{})
	reg.Register("aiff", aiff.Decoder{})
	reg.Register("aif", aiff.Decoder{})
	reg.Register("mp3", mp3.Decoder{})
	reg.Register("ogg", vorbis.Decoder{})
	reg.Register("oga", vorbis.Decoder{})
	return reg
}

// fileSource closes the file together with the decoder.
type fileSource struct {
	audio.Source
	f *os.File
}

func (s *fileSource) Frames() int64 {
	if l, ok := s.Source.(audio.Lengther); ok {
		return l.Frames()
	}
	return -1
}

func (s *fileSource) Close() error {
	err := s.Source.Close()
	if cerr := s.f.Close(); err == nil {
		err = cerr
	}
	return err
}

// Open decodes path with the decoder registered for its extension. Closing
// the returned source closes the file.
func Open(reg *audio.Registry, path string) (audio.Source, error) {
	dec, ok := reg.ForPath(path)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	src, err := dec.Decode(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return &fileSource{Source: src, f: f}, nil
}
