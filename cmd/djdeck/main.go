// SPDX-License-Identifier: EPL-2.0

// Command djdeck analyses, shapes and plays tracks with the deck engine.
package main

import (
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"

	"github.com/ik5/djdeck"
	"github.com/ik5/djdeck/audio"
	"github.com/ik5/djdeck/deck"
	"github.com/ik5/djdeck/internal/cli"
)

var version = "0.1.0"

// runContext is handed to every command's Run.
type runContext struct {
	log *logrus.Entry
	reg *audio.Registry
}

type versionFlag bool

func (versionFlag) BeforeApply(app *kong.Kong) error {
	cli.PrintVersion(version)
	app.Exit(0)
	return nil
}

type CLI struct {
	Version  versionFlag `short:"v" help:"Show version information."`
	LogLevel string      `help:"Log level." default:"warn" enum:"trace,debug,info,warn,error" env:"DJDECK_LOG_LEVEL"`
	LogJSON  bool        `help:"Log as JSON." env:"DJDECK_LOG_JSON"`

	Bpm    bpmCmd    `cmd:"" help:"Estimate the tempo of audio files."`
	Eq     eqCmd     `cmd:"" help:"Show the equaliser design for a set of band gains."`
	Render renderCmd `cmd:"" help:"Play tracks through decks offline and write a WAV file."`
	Play   playCmd   `cmd:"" help:"Play up to two tracks on the sound card."`
}

// analysisFlags are the tempo analysis knobs.
type analysisFlags struct {
	MinBPM float64       `help:"Slowest tempo reported." default:"70" env:"DJDECK_MIN_BPM"`
	MaxBPM float64       `help:"Fastest tempo reported." default:"200" env:"DJDECK_MAX_BPM"`
	Window time.Duration `help:"Audio analysed from the start of a track." default:"60s" env:"DJDECK_WINDOW"`
}

// deckFlags configure the decks' device side.
type deckFlags struct {
	Analysis analysisFlags `embed:""`

	SampleRate int `help:"Output sample rate in Hz." default:"48000" env:"DJDECK_SAMPLE_RATE"`
	BlockSize  int `help:"Frames rendered per block." default:"512" env:"DJDECK_BLOCK_SIZE"`
}

func (f deckFlags) config() deck.Config {
	cfg := deck.DefaultConfig()
	cfg.SampleRate = f.SampleRate
	cfg.BlockSize = f.BlockSize
	cfg.AnalysisWindow = f.Analysis.Window
	cfg.MinBPM = f.Analysis.MinBPM
	cfg.MaxBPM = f.Analysis.MaxBPM
	return cfg
}

// knobFlags are the initial deck settings.
type knobFlags struct {
	Low   float64 `help:"Low shelf gain in dB." default:"0"`
	Mid   float64 `help:"Mid peak gain in dB." default:"0"`
	High  float64 `help:"High shelf gain in dB." default:"0"`
	Gain  float64 `help:"Output gain 0..1." default:"1"`
	Speed float64 `help:"Playback rate 0.1..4." default:"1"`
	Start float64 `help:"Start position in seconds." default:"0"`
}

func main() {
	var c CLI
	ctx := kong.Parse(&c,
		kong.Name("djdeck"),
		kong.Description("Two deck DJ engine: tempo analysis, three band EQ and variable speed playback."),
		kong.UsageOnError(),
	)

	log, err := cli.SetupLogging(os.Stderr, c.LogLevel, c.LogJSON)
	if err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}

	if err := ctx.Run(&runContext{log: log, reg: djdeck.NewRegistry()}); err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}
}
