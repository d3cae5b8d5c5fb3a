// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/ik5/djdeck"
	"github.com/ik5/djdeck/audio"
	"github.com/ik5/djdeck/internal/cli"
	"github.com/ik5/djdeck/mixer"
)

type renderCmd struct {
	Deck  deckFlags `embed:""`
	Knobs knobFlags `embed:""`

	Bits int    `help:"Output bit depth, 16 or 24." default:"16" env:"DJDECK_BITS"`
	Mono bool   `help:"Fold the output to one channel."`
	With string `help:"Second track, mixed in on deck b with flat settings." type:"existingfile"`

	Input  string `arg:"" help:"Track for deck a." type:"existingfile"`
	Output string `arg:"" help:"WAV file to write." type:"path"`
}

func (r *renderCmd) Run(rc *runContext) error {
	cfg := r.Deck.config()
	started := time.Now()

	a, err := newLoadedDeck(rc, cfg, "a", r.Input)
	if err != nil {
		return err
	}
	r.Knobs.apply(a)
	a.Start()

	var src audio.Source = a
	if r.With != "" {
		b, err := newLoadedDeck(rc, cfg, "b", r.With)
		if err != nil {
			return err
		}
		b.Start()

		bus, err := mixer.New(cfg.SampleRate, cfg.Channels, cfg.BlockSize, rc.log.WithField("component", "mixer"), a, b)
		if err != nil {
			return err
		}
		src = bus
	}

	out, err := os.Create(r.Output)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	defer out.Close()

	frames, err := djdeck.Render(out, src, djdeck.RenderOptions{BitDepth: r.Bits, Mono: r.Mono})
	if err != nil {
		return fmt.Errorf("rendering %s: %w", r.Output, err)
	}

	cli.PrintKV(os.Stdout, "bpm", fmt.Sprintf("%.1f", a.BPM()))
	cli.PrintKV(os.Stdout, "written", fmt.Sprintf("%d frames (%.2fs)", frames, float64(frames)/float64(cfg.SampleRate)))
	cli.PrintKV(os.Stdout, "took", time.Since(started).Round(time.Millisecond))
	return out.Close()
}
