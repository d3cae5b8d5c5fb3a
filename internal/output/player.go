// SPDX-License-Identifier: EPL-2.0

package output

import (
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/sirupsen/logrus"

	"github.com/ik5/djdeck/audio"
)

// Options configures the device. Zero fields take oto's defaults.
type Options struct {
	Format     Format
	BufferSize time.Duration
}

// oto allows one context per process.
var (
	contextOnce sync.Once
	otoCtx      *oto.Context
	contextErr  error
	contextRate int
	contextCh   int
)

func sharedContext(sampleRate, channels int, opts Options) (*oto.Context, error) {
	contextOnce.Do(func() {
		format := oto.FormatFloat32LE
		if opts.Format == Int16 {
			format = oto.FormatSignedInt16LE
		}

		var ready chan struct{}
		otoCtx, ready, contextErr = oto.NewContext(&oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: channels,
			Format:       format,
			BufferSize:   opts.BufferSize,
		})
		if contextErr == nil {
			<-ready
		}
		contextRate, contextCh = sampleRate, channels
	})
	if contextErr != nil {
		return nil, fmt.Errorf("opening audio device: %w", contextErr)
	}
	if contextRate != sampleRate || contextCh != channels {
		return nil, fmt.Errorf("%w: device open at %d Hz/%d ch, requested %d Hz/%d ch",
			ErrDeviceBusy, contextRate, contextCh, sampleRate, channels)
	}
	return otoCtx, nil
}

// Player streams a Source to the sound card.
type Player struct {
	player *oto.Player
	reader *StreamReader
	log    *logrus.Entry
}

// NewPlayer opens the device at the source's rate and channel count. The
// source is pulled from oto's goroutine from then on. A nil log uses the
// standard logger.
func NewPlayer(src audio.Source, opts Options, log *logrus.Entry) (*Player, error) {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	ctx, err := sharedContext(src.SampleRate(), src.Channels(), opts)
	if err != nil {
		return nil, err
	}

	reader := NewStreamReader(src, opts.Format)
	p := &Player{
		player: ctx.NewPlayer(reader),
		reader: reader,
		log:    log,
	}

	log.WithFields(logrus.Fields{
		"function":    "NewPlayer",
		"sample_rate": src.SampleRate(),
		"channels":    src.Channels(),
		"buffer":      opts.BufferSize,
	}).Debug("Audio device opened")
	return p, nil
}

func (p *Player) Play()           { p.player.Play() }
func (p *Player) Pause()          { p.player.Pause() }
func (p *Player) IsPlaying() bool { return p.player.IsPlaying() }

// Drained reports whether the source has run dry.
func (p *Player) Drained() bool { return p.reader.Drained() }

// Err returns the error that stopped the device stream, if any.
func (p *Player) Err() error { return p.player.Err() }

func (p *Player) Close() error {
	p.player.Pause()
	if err := p.player.Close(); err != nil {
		return fmt.Errorf("closing player: %w", err)
	}
	return nil
}
