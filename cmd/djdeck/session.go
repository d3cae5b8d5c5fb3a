// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/ik5/djdeck"
	"github.com/ik5/djdeck/deck"
	"github.com/ik5/djdeck/eq"
	"github.com/ik5/djdeck/internal/cli"
)

var deckLabels = [2]string{"a", "b"}

func newLoadedDeck(rc *runContext, cfg deck.Config, label, path string) (*deck.Deck, error) {
	d, err := deck.New(cfg, rc.log.WithField("deck", label))
	if err != nil {
		return nil, err
	}
	if path == "" {
		return d, nil
	}
	if err := loadFile(rc, d, path); err != nil {
		return nil, err
	}
	return d, nil
}

func loadFile(rc *runContext, d *deck.Deck, path string) error {
	src, err := djdeck.Open(rc.reg, path)
	if err != nil {
		return err
	}
	defer src.Close()

	return d.Load(src, filepath.Base(path))
}

func (k knobFlags) apply(d *deck.Deck) {
	d.SetBandGainDb(eq.Low, k.Low)
	d.SetBandGainDb(eq.Mid, k.Mid)
	d.SetBandGainDb(eq.High, k.High)
	d.SetGain(k.Gain)
	d.SetSpeed(k.Speed)
	if k.Start > 0 {
		d.SetPosition(k.Start)
	}
}

// session runs interactive commands against the decks.
type session struct {
	rc    *runContext
	decks [2]*deck.Deck
	out   io.Writer
}

// exec applies one command line and reports whether the user asked to quit.
func (s *session) exec(line string) (bool, error) {
	cmd, arg, err := cli.ParseCommand(line)
	if err != nil {
		return false, err
	}
	d := s.decks[cmd.Deck]

	switch cmd.Verb {
	case "quit":
		return true, nil
	case "help":
		fmt.Fprintln(s.out, cli.CommandHelp)
	case "status":
		for i, d := range s.decks {
			printStatus(s.out, deckLabels[i], d)
		}
	case "start":
		d.Start()
	case "stop":
		d.Stop()
	case "gain":
		d.SetGain(cmd.Value)
	case "speed":
		d.SetSpeed(cmd.Value)
	case "seek":
		d.SetPosition(cmd.Value)
	case "jump":
		d.SetPositionRelative(cmd.Value)
	case "low", "mid", "high":
		band, err := eq.ParseBand(cmd.Verb)
		if err != nil {
			return false, err
		}
		d.SetBandGainDb(band, cmd.Value)
	case "load":
		if err := loadFile(s.rc, d, arg); err != nil {
			return false, err
		}
		fmt.Fprintf(s.out, "deck %s: %s at %.1f bpm\n", deckLabels[cmd.Deck], d.TrackName(), d.BPM())
	}
	return false, nil
}

func printStatus(w io.Writer, label string, d *deck.Deck) {
	fmt.Fprintln(w, cli.TitleStyle.Render("deck "+label))
	if !d.Loaded() {
		cli.PrintKV(w, "track", "(empty)")
		return
	}
	cli.PrintKV(w, "track", d.TrackName())
	cli.PrintKV(w, "bpm", fmt.Sprintf("%.1f", d.BPM()))
	cli.PrintKV(w, "position", fmt.Sprintf("%.1fs / %.1fs (%.0f%%)",
		d.Position(), d.Length(), 100*d.PositionRelative()))
	cli.PrintKV(w, "playing", d.IsPlaying())
	cli.PrintKV(w, "gain", fmt.Sprintf("%.2f", d.Gain()))
	cli.PrintKV(w, "speed", fmt.Sprintf("%.3f", d.Speed()))
	cli.PrintKV(w, "eq", fmt.Sprintf("low %+.1f  mid %+.1f  high %+.1f dB",
		d.BandGainDb(eq.Low), d.BandGainDb(eq.Mid), d.BandGainDb(eq.High)))
}
