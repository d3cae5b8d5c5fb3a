// SPDX-License-Identifier: EPL-2.0

package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ik5/djdeck/internal/cli"
	"github.com/ik5/djdeck/internal/output"
	"github.com/ik5/djdeck/mixer"
)

type playCmd struct {
	Deck  deckFlags `embed:""`
	Knobs knobFlags `embed:""`

	Int16   bool          `help:"Send 16-bit samples to the device." env:"DJDECK_PCM16"`
	Latency time.Duration `help:"Device buffer length, 0 for the driver default." default:"0s" env:"DJDECK_LATENCY"`

	TrackA string `arg:"" help:"Track for deck a." type:"existingfile"`
	TrackB string `arg:"" optional:"" help:"Track for deck b." type:"existingfile"`
}

func (p *playCmd) Run(rc *runContext) error {
	cfg := p.Deck.config()

	s := &session{rc: rc, out: os.Stdout}
	for i, path := range []string{p.TrackA, p.TrackB} {
		d, err := newLoadedDeck(rc, cfg, deckLabels[i], path)
		if err != nil {
			return err
		}
		s.decks[i] = d
	}
	p.Knobs.apply(s.decks[0])

	bus, err := mixer.New(cfg.SampleRate, cfg.Channels, cfg.BlockSize, rc.log.WithField("component", "mixer"), s.decks[0], s.decks[1])
	if err != nil {
		return err
	}

	opts := output.Options{BufferSize: p.Latency}
	if p.Int16 {
		opts.Format = output.Int16
	}
	player, err := output.NewPlayer(bus, opts, rc.log.WithField("component", "output"))
	if err != nil {
		return err
	}
	defer player.Close()

	player.Play()
	s.decks[0].Start()

	fmt.Println(cli.CommandHelp)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			quit, err := s.exec(line)
			if err != nil {
				rc.log.WithFields(logrus.Fields{
					"function": "play",
					"command":  line,
					"error":    err.Error(),
				}).Warn("Command failed")
				cli.PrintError(err.Error())
				continue
			}
			if quit {
				return nil
			}
			if err := player.Err(); err != nil {
				return fmt.Errorf("audio device: %w", err)
			}
		}
	}
}
